package repository

import (
	"context"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/slug"

	"gorm.io/gorm"
)

type StudioRepository struct {
	*Lifecycle[domain.Studio, *domain.Studio]
}

func NewStudioRepository(db *gorm.DB, now func() time.Time) *StudioRepository {
	return &StudioRepository{NewLifecycle(db, LifecycleConfig[domain.Studio, *domain.Studio]{
		Entity:  "Studio",
		OrderBy: []string{"name ASC"},
		Unique: []Unique[domain.Studio, *domain.Studio]{
			{
				Column:  "handle",
				Message: "Studio handle already in use",
				Value:   func(s *domain.Studio) string { return s.Handle },
			},
			{
				Column:  "slug",
				Message: "Studio slug already in use",
				Value:   func(s *domain.Studio) string { return s.Slug },
			},
		},
		Now: now,
	})}
}

func (r *StudioRepository) WithTx(tx *gorm.DB) *StudioRepository {
	return &StudioRepository{r.Lifecycle.WithTx(tx)}
}

// WithActiveRooms preloads only rooms that have not been soft-deleted.
func WithActiveRooms(db *gorm.DB) *gorm.DB {
	return db.Preload("Rooms", func(db *gorm.DB) *gorm.DB {
		return db.Where("rooms.deleted_at IS NULL").Order("rooms.name ASC, rooms.id ASC")
	})
}

func (r *StudioRepository) Get(ctx context.Context, id string) (*domain.Studio, error) {
	return r.FindActive(ctx, id, WithActiveRooms)
}

// StudioFilter narrows List. Empty fields are ignored.
type StudioFilter struct {
	OwnerID string
	City    string
}

func (r *StudioRepository) List(ctx context.Context, f StudioFilter, page, limit int) ([]domain.Studio, int64, error) {
	var filters []Scope
	if f.OwnerID != "" {
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("studios.owner_id = ?", f.OwnerID)
		})
	}
	if f.City != "" {
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(studios.city) = LOWER(?)", f.City)
		})
	}
	return r.ListActive(ctx, ListQuery{
		Filters:  filters,
		Preloads: []Scope{WithActiveRooms},
		Page:     page,
		Limit:    limit,
	})
}

// UniqueSlug returns base, or base with the first free numeric suffix,
// among active studios other than excludeID.
func (r *StudioRepository) UniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := r.ExistsActive(ctx, "studios.slug = ? AND studios.id <> ?", candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, n)
	}
}
