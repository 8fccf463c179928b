package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClassStatus string

const (
	ClassScheduled ClassStatus = "scheduled"
	ClassActive    ClassStatus = "active"
	ClassCompleted ClassStatus = "completed"
	ClassCancelled ClassStatus = "cancelled"
	ClassPostponed ClassStatus = "postponed"
	ClassDeleted   ClassStatus = "deleted"
)

func (s ClassStatus) Valid() bool {
	switch s {
	case ClassScheduled, ClassActive, ClassCompleted, ClassCancelled, ClassPostponed, ClassDeleted:
		return true
	}
	return false
}

// Bookable reports whether new bookings may be taken for the class.
func (s ClassStatus) Bookable() bool {
	return s == ClassScheduled || s == ClassActive
}

type Class struct {
	Model
	StudioID            string          `json:"studioId" gorm:"type:varchar(36);not null;index"`
	RoomID              string          `json:"roomId" gorm:"type:varchar(36);not null;index"`
	PrimaryInstructorID string          `json:"primaryInstructorId" gorm:"type:varchar(36);not null"`
	Name                string          `json:"name" gorm:"not null"`
	Description         string          `json:"description"`
	Type                string          `json:"type" gorm:"not null"`
	Level               string          `json:"level"`
	Capacity            int             `json:"capacity" gorm:"not null"`
	Price               decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Duration            int             `json:"duration" gorm:"not null"`
	StartTime           time.Time       `json:"startTime" gorm:"not null;index"`
	EndTime             time.Time       `json:"endTime" gorm:"not null"`
	Recurring           bool            `json:"recurring" gorm:"not null;default:false"`
	RecurrencePattern   string          `json:"recurrencePattern"`
	Status              ClassStatus     `json:"status" gorm:"type:varchar(16);not null;default:scheduled"`
}

func (Class) TableName() string { return "classes" }
