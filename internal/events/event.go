// Package events publishes committed lifecycle changes to the message
// broker and to back-office websocket subscribers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TypeCreated  = "created"
	TypeUpdated  = "updated"
	TypeDeleted  = "deleted"
	TypeAssigned = "assigned"
	TypeRevoked  = "revoked"
)

type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	ActorID  string    `json:"actorId,omitempty"`
	At       time.Time `json:"at"`
	Data     any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Bus stamps and publishes events. Publishing happens after the write has
// committed; failures are logged and never surface to the caller.
type Bus struct {
	pub Publisher
	log *zap.Logger
	now func() time.Time
}

func NewBus(pub Publisher, log *zap.Logger) *Bus {
	if pub == nil {
		pub = Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{pub: pub, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (b *Bus) Emit(ctx context.Context, typ, entity, entityID, actorID string, data any) {
	if b == nil {
		return
	}
	ev := Event{
		ID:       uuid.NewString(),
		Type:     typ,
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		At:       b.now(),
		Data:     data,
	}
	if err := b.pub.Publish(context.WithoutCancel(ctx), ev); err != nil {
		b.log.Warn("event publish failed",
			zap.String("type", typ),
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}
