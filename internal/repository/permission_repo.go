package repository

import (
	"context"
	"strings"
	"time"

	"dancestudio/internal/domain"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	*Lifecycle[domain.Permission, *domain.Permission]
}

func NewPermissionRepository(db *gorm.DB, now func() time.Time) *PermissionRepository {
	return &PermissionRepository{NewLifecycle(db, LifecycleConfig[domain.Permission, *domain.Permission]{
		Entity:  "Permission",
		OrderBy: []string{"category ASC", "name ASC"},
		Unique: []Unique[domain.Permission, *domain.Permission]{{
			Column:  "name",
			Message: "Permission name already in use",
			Value:   func(p *domain.Permission) string { return p.Name },
		}},
		Now: now,
	})}
}

func (r *PermissionRepository) WithTx(tx *gorm.DB) *PermissionRepository {
	return &PermissionRepository{r.Lifecycle.WithTx(tx)}
}

func (r *PermissionRepository) List(ctx context.Context, category string, page, limit int) ([]domain.Permission, int64, error) {
	var filters []Scope
	if c := strings.TrimSpace(category); c != "" {
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("permissions.category = ?", c)
		})
	}
	return r.ListActive(ctx, ListQuery{Filters: filters, Page: page, Limit: limit})
}
