package repository

import (
	"context"
	"strings"
	"time"

	"dancestudio/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	*Lifecycle[domain.User, *domain.User]
}

func NewUserRepository(db *gorm.DB, now func() time.Time) *UserRepository {
	return &UserRepository{NewLifecycle(db, LifecycleConfig[domain.User, *domain.User]{
		Entity:  "User",
		OrderBy: []string{"email ASC"},
		Unique: []Unique[domain.User, *domain.User]{{
			Column:  "email",
			Message: "Email already in use",
			Value:   func(u *domain.User) string { return u.Email },
		}},
		Terminal: map[string]any{"status": domain.UserDeleted},
		Now:      now,
	})}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{r.Lifecycle.WithTx(tx)}
}

// NormalizeEmail is the canonical form stored and compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindOneActive(ctx, "email = ?", NormalizeEmail(email))
}

// Status returns the status of the active user id.
func (r *UserRepository) Status(ctx context.Context, id string) (domain.UserStatus, error) {
	u, err := r.FindActive(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Status, nil
}

// UserFilter narrows List. Empty fields are ignored.
type UserFilter struct {
	Status domain.UserStatus
	Search string
}

func (r *UserRepository) List(ctx context.Context, f UserFilter, page, limit int) ([]domain.User, int64, error) {
	var filters []Scope
	if f.Status != "" {
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("users.status = ?", f.Status)
		})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("(LOWER(users.email) LIKE ? OR LOWER(users.name) LIKE ?)", like, like)
		})
	}
	return r.ListActive(ctx, ListQuery{Filters: filters, Page: page, Limit: limit})
}
