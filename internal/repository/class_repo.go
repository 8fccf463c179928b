package repository

import (
	"context"
	"time"

	"dancestudio/internal/domain"

	"gorm.io/gorm"
)

type ClassRepository struct {
	*Lifecycle[domain.Class, *domain.Class]
}

func NewClassRepository(db *gorm.DB, now func() time.Time) *ClassRepository {
	return &ClassRepository{NewLifecycle(db, LifecycleConfig[domain.Class, *domain.Class]{
		Entity:   "Class",
		OrderBy:  []string{"start_time ASC"},
		Terminal: map[string]any{"status": domain.ClassDeleted},
		Now:      now,
	})}
}

func (r *ClassRepository) WithTx(tx *gorm.DB) *ClassRepository {
	return &ClassRepository{r.Lifecycle.WithTx(tx)}
}

// ClassFilter narrows List. Zero fields are ignored.
type ClassFilter struct {
	StudioID     string
	RoomID       string
	InstructorID string
	Status       domain.ClassStatus
	From         *time.Time
	To           *time.Time
}

func (r *ClassRepository) List(ctx context.Context, f ClassFilter, page, limit int) ([]domain.Class, int64, error) {
	var filters []Scope
	add := func(query string, arg any) {
		filters = append(filters, func(db *gorm.DB) *gorm.DB { return db.Where(query, arg) })
	}
	if f.StudioID != "" {
		add("classes.studio_id = ?", f.StudioID)
	}
	if f.RoomID != "" {
		add("classes.room_id = ?", f.RoomID)
	}
	if f.InstructorID != "" {
		add("classes.primary_instructor_id = ?", f.InstructorID)
	}
	if f.Status != "" {
		add("classes.status = ?", f.Status)
	}
	if f.From != nil {
		add("classes.start_time >= ?", *f.From)
	}
	if f.To != nil {
		add("classes.start_time < ?", *f.To)
	}
	return r.ListActive(ctx, ListQuery{Filters: filters, Page: page, Limit: limit})
}

// IDsByStudioOrRooms returns active classes that belong to the studio or
// sit in any of the rooms.
func (r *ClassRepository) IDsByStudioOrRooms(ctx context.Context, studioID string, roomIDs []string) ([]string, error) {
	if len(roomIDs) == 0 {
		return r.ActiveIDs(ctx, "classes.studio_id = ?", studioID)
	}
	return r.ActiveIDs(ctx, "(classes.studio_id = ? OR classes.room_id IN ?)", studioID, roomIDs)
}

func (r *ClassRepository) IDsByRoom(ctx context.Context, roomID string) ([]string, error) {
	return r.ActiveIDs(ctx, "classes.room_id = ?", roomID)
}

func (r *ClassRepository) SoftDeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.SoftDeleteWhere(ctx, "id IN ?", ids)
}

// MaxCapacityInRoom is the largest capacity among active classes in the
// room, or 0.
func (r *ClassRepository) MaxCapacityInRoom(ctx context.Context, roomID string) (int, error) {
	var top int
	err := r.DB().WithContext(ctx).
		Model(&domain.Class{}).
		Where("room_id = ? AND deleted_at IS NULL", roomID).
		Select("COALESCE(MAX(capacity), 0)").
		Scan(&top).Error
	return top, err
}
