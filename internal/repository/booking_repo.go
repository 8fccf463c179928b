package repository

import (
	"context"
	"time"

	"dancestudio/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	*Lifecycle[domain.Booking, *domain.Booking]
}

func NewBookingRepository(db *gorm.DB, now func() time.Time) *BookingRepository {
	return &BookingRepository{NewLifecycle(db, LifecycleConfig[domain.Booking, *domain.Booking]{
		Entity:   "Booking",
		OrderBy:  []string{"created_at DESC"},
		Terminal: map[string]any{"status": domain.BookingDeleted},
		Now:      now,
	})}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{r.Lifecycle.WithTx(tx)}
}

// BookingFilter narrows List. Empty fields are ignored.
type BookingFilter struct {
	UserID  string
	ClassID string
	Status  domain.BookingStatus
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter, page, limit int) ([]domain.Booking, int64, error) {
	var filters []Scope
	add := func(query string, arg any) {
		filters = append(filters, func(db *gorm.DB) *gorm.DB { return db.Where(query, arg) })
	}
	if f.UserID != "" {
		add("bookings.user_id = ?", f.UserID)
	}
	if f.ClassID != "" {
		add("bookings.class_id = ?", f.ClassID)
	}
	if f.Status != "" {
		add("bookings.status = ?", f.Status)
	}
	return r.ListActive(ctx, ListQuery{Filters: filters, Page: page, Limit: limit})
}

// CountLive counts active, non-cancelled bookings of a class.
func (r *BookingRepository) CountLive(ctx context.Context, classID string) (int64, error) {
	var n int64
	err := r.DB().WithContext(ctx).
		Model(&domain.Booking{}).
		Where("class_id = ? AND deleted_at IS NULL AND status <> ?", classID, domain.BookingCancelled).
		Count(&n).Error
	return n, err
}

func (r *BookingRepository) HasLive(ctx context.Context, userID, classID string) (bool, error) {
	return r.ExistsActive(ctx, "bookings.user_id = ? AND bookings.class_id = ? AND bookings.status <> ?",
		userID, classID, domain.BookingCancelled)
}

// LockClass takes a row lock on the class for the rest of the transaction
// so capacity checks serialize. SQLite ignores the locking clause; its
// single connection already serializes writers.
func (r *BookingRepository) LockClass(ctx context.Context, classID string) error {
	var c domain.Class
	db := r.DB().WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return translate(db.Where("id = ? AND deleted_at IS NULL", classID).First(&c).Error, "Class", "")
}

func (r *BookingRepository) SoftDeleteByClassIDs(ctx context.Context, classIDs []string) (int64, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}
	return r.SoftDeleteWhere(ctx, "class_id IN ?", classIDs)
}

func (r *BookingRepository) SoftDeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.SoftDeleteWhere(ctx, "user_id = ?", userID)
}
