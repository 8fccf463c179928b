package repository

import (
	"context"
	"time"

	"dancestudio/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	*Lifecycle[domain.Room, *domain.Room]
}

func NewRoomRepository(db *gorm.DB, now func() time.Time) *RoomRepository {
	return &RoomRepository{NewLifecycle(db, LifecycleConfig[domain.Room, *domain.Room]{
		Entity:  "Room",
		OrderBy: []string{"name ASC"},
		Now:     now,
	})}
}

func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{r.Lifecycle.WithTx(tx)}
}

func (r *RoomRepository) List(ctx context.Context, studioID string, page, limit int) ([]domain.Room, int64, error) {
	var filters []Scope
	if studioID != "" {
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("rooms.studio_id = ?", studioID)
		})
	}
	return r.ListActive(ctx, ListQuery{Filters: filters, Page: page, Limit: limit})
}

func (r *RoomRepository) IDsByStudio(ctx context.Context, studioID string) ([]string, error) {
	return r.ActiveIDs(ctx, "rooms.studio_id = ?", studioID)
}
