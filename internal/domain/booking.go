package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
	BookingRefunded  BookingStatus = "refunded"
	BookingDeleted   BookingStatus = "deleted"
)

const PaymentUnpaid = "unpaid"

type Booking struct {
	Model
	UserID        string          `json:"userId" gorm:"type:varchar(36);not null;index"`
	ClassID       string          `json:"classId" gorm:"type:varchar(36);not null;index"`
	Status        BookingStatus   `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	PaymentStatus string          `json:"paymentStatus" gorm:"type:varchar(32);not null"`
	PaymentAmount decimal.Decimal `json:"paymentAmount" gorm:"type:numeric(10,2);not null"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	Notes         string          `json:"notes"`
}

func (Booking) TableName() string { return "bookings" }
