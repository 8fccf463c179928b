package bookings

import "dancestudio/internal/domain"

type CreateBookingRequest struct {
	ClassID string `json:"classId" binding:"required"`
	// UserID books on behalf of another user; administrators only.
	UserID string `json:"userId"`
	Notes  string `json:"notes" binding:"max=1000"`
}

type UpdateBookingRequest struct {
	ID     string                `json:"id"`
	Status *domain.BookingStatus `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed no_show refunded"`
	Notes  *string               `json:"notes" binding:"omitempty,max=1000"`
}

type ListQuery struct {
	UserID  string
	ClassID string
	Status  domain.BookingStatus
}
