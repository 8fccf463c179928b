package repository

import (
	"context"
	"strings"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity is satisfied by pointers to the persisted domain types.
type Entity[T any] interface {
	*T
	Base() *domain.Model
	TableName() string
}

// Scope narrows a query; gorm's db.Scopes signature.
type Scope func(*gorm.DB) *gorm.DB

// Unique describes a column that must be unique among active rows.
type Unique[T any, P Entity[T]] struct {
	Column string
	// Fold compares case-insensitively.
	Fold    bool
	Message string
	Value   func(P) string
}

type LifecycleConfig[T any, P Entity[T]] struct {
	// Entity is the human name used in NotFound messages.
	Entity  string
	OrderBy []string
	Unique  []Unique[T, P]
	// Terminal columns are written alongside deleted_at, e.g. a status.
	Terminal map[string]any
	Now      func() time.Time
}

type ListQuery struct {
	Filters  []Scope
	Preloads []Scope
	Page     int
	Limit    int
}

// Lifecycle applies the create / update / soft-delete discipline to one
// table. Every read defaults to active rows; FindAny is the only path to a
// soft-deleted row.
type Lifecycle[T any, P Entity[T]] struct {
	db  *gorm.DB
	cfg LifecycleConfig[T, P]
}

func NewLifecycle[T any, P Entity[T]](db *gorm.DB, cfg LifecycleConfig[T, P]) *Lifecycle[T, P] {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Lifecycle[T, P]{db: db, cfg: cfg}
}

// WithTx returns a copy bound to tx.
func (l *Lifecycle[T, P]) WithTx(tx *gorm.DB) *Lifecycle[T, P] {
	cp := *l
	cp.db = tx
	return &cp
}

func (l *Lifecycle[T, P]) DB() *gorm.DB {
	return l.db
}

func (l *Lifecycle[T, P]) Now() time.Time {
	return l.cfg.Now()
}

func (l *Lifecycle[T, P]) table() string {
	var zero T
	return P(&zero).TableName()
}

func (l *Lifecycle[T, P]) active(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).Model(P(new(T))).Where(l.table() + ".deleted_at IS NULL")
}

// Create assigns an id when missing, stamps createdAt and inserts v after
// checking the scoped unique columns in the same transaction.
func (l *Lifecycle[T, P]) Create(ctx context.Context, v P) error {
	base := v.Base()
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	base.CreatedAt = l.cfg.Now()
	base.UpdatedAt = nil
	base.DeletedAt = nil

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range l.cfg.Unique {
			if err := l.checkUnique(ctx, tx, u, u.Value(v), ""); err != nil {
				return err
			}
		}
		err := tx.Omit(clause.Associations).Create(v).Error
		return translate(err, l.cfg.Entity, l.conflictMessage(err))
	})
}

// Update applies fields (column name to value) to the active row id and
// stamps updatedAt. Unique columns present in fields are re-validated.
func (l *Lifecycle[T, P]) Update(ctx context.Context, id string, fields map[string]any) (P, error) {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range l.cfg.Unique {
			raw, ok := fields[u.Column]
			if !ok {
				continue
			}
			val, _ := raw.(string)
			if err := l.checkUnique(ctx, tx, u, val, id); err != nil {
				return err
			}
		}

		updates := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			updates[k] = v
		}
		updates["updated_at"] = l.cfg.Now()

		res := tx.Model(P(new(T))).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if res.Error != nil {
			return translate(res.Error, l.cfg.Entity, l.conflictMessage(res.Error))
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("%s not found", l.cfg.Entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.FindActive(ctx, id)
}

// SoftDelete stamps deletedAt (and the terminal columns) on the active row
// id. An absent or already deleted row is NotFound.
func (l *Lifecycle[T, P]) SoftDelete(ctx context.Context, id string) error {
	n, err := l.SoftDeleteWhere(ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("%s not found", l.cfg.Entity)
	}
	return nil
}

// SoftDeleteWhere soft-deletes every active row matching the condition and
// returns how many rows changed. Used by cascades.
func (l *Lifecycle[T, P]) SoftDeleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	now := l.cfg.Now()
	updates := map[string]any{
		"deleted_at": now,
		"updated_at": now,
	}
	for k, v := range l.cfg.Terminal {
		updates[k] = v
	}

	res := l.active(ctx).Where(query, args...).Updates(updates)
	return res.RowsAffected, res.Error
}

func (l *Lifecycle[T, P]) FindActive(ctx context.Context, id string, preloads ...Scope) (P, error) {
	v := P(new(T))
	err := l.active(ctx).
		Scopes(toGorm(preloads)...).
		Where(l.table()+".id = ?", id).
		First(v).Error
	if err != nil {
		return nil, translate(err, l.cfg.Entity, "")
	}
	return v, nil
}

// FindAny loads a row by primary key whether or not it was soft-deleted.
// Reserved for administrative recovery.
func (l *Lifecycle[T, P]) FindAny(ctx context.Context, id string, preloads ...Scope) (P, error) {
	v := P(new(T))
	err := l.db.WithContext(ctx).
		Scopes(toGorm(preloads)...).
		Where(l.table()+".id = ?", id).
		First(v).Error
	if err != nil {
		return nil, translate(err, l.cfg.Entity, "")
	}
	return v, nil
}

// FindOneActive returns the first active row matching the condition.
func (l *Lifecycle[T, P]) FindOneActive(ctx context.Context, query string, args ...any) (P, error) {
	v := P(new(T))
	err := l.active(ctx).Where(query, args...).Order(l.table() + ".id ASC").First(v).Error
	if err != nil {
		return nil, translate(err, l.cfg.Entity, "")
	}
	return v, nil
}

// ListActive returns one page of active rows in the configured order, with
// id as the tie breaker, and the total number of matches.
func (l *Lifecycle[T, P]) ListActive(ctx context.Context, q ListQuery) ([]T, int64, error) {
	base := l.active(ctx).Scopes(toGorm(q.Filters)...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	find := base.Session(&gorm.Session{}).Scopes(toGorm(q.Preloads)...)
	for _, o := range l.cfg.OrderBy {
		find = find.Order(l.table() + "." + o)
	}
	find = find.Order(l.table() + ".id ASC")

	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		find = find.Limit(q.Limit).Offset((page - 1) * q.Limit)
	}

	items := make([]T, 0)
	if err := find.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ActiveIDs returns the ids of active rows matching the condition.
func (l *Lifecycle[T, P]) ActiveIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	var ids []string
	err := l.active(ctx).Where(query, args...).Order(l.table()+".id ASC").Pluck(l.table()+".id", &ids).Error
	return ids, err
}

// ExistsActive reports whether any active row matches the condition.
func (l *Lifecycle[T, P]) ExistsActive(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := l.active(ctx).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *Lifecycle[T, P]) checkUnique(ctx context.Context, tx *gorm.DB, u Unique[T, P], value, excludeID string) error {
	if value == "" {
		return nil
	}

	q := tx.WithContext(ctx).Model(P(new(T))).Where("deleted_at IS NULL")
	if u.Fold {
		q = q.Where("LOWER("+u.Column+") = ?", strings.ToLower(value))
	} else {
		q = q.Where(u.Column+" = ?", value)
	}
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("%s", u.Message)
	}
	return nil
}

// conflictMessage picks the message of the unique column named in a store
// violation, falling back to the first configured one.
func (l *Lifecycle[T, P]) conflictMessage(err error) string {
	if err == nil || len(l.cfg.Unique) == 0 {
		return l.cfg.Entity + " already exists"
	}
	msg := strings.ToLower(err.Error())
	for _, u := range l.cfg.Unique {
		if strings.Contains(msg, strings.ToLower(u.Column)) {
			return u.Message
		}
	}
	return l.cfg.Unique[0].Message
}

func toGorm(scopes []Scope) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, len(scopes))
	for i, s := range scopes {
		out[i] = s
	}
	return out
}
