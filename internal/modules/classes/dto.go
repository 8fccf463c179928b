package classes

import (
	"time"

	"dancestudio/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateClassRequest struct {
	// StudioID is optional; it must match the room's studio when given.
	StudioID            string             `json:"studioId"`
	RoomID              string             `json:"roomId" binding:"required"`
	PrimaryInstructorID string             `json:"primaryInstructorId" binding:"required"`
	Name                string             `json:"name" binding:"required,max=200"`
	Description         string             `json:"description" binding:"max=2000"`
	Type                string             `json:"type" binding:"required,max=100"`
	Level               string             `json:"level" binding:"max=50"`
	Capacity            int                `json:"capacity" binding:"required,gt=0"`
	Price               *decimal.Decimal   `json:"price" binding:"required"`
	Duration            int                `json:"duration" binding:"required,gt=0"`
	StartTime           time.Time          `json:"startTime" binding:"required"`
	EndTime             *time.Time         `json:"endTime"`
	Recurring           bool               `json:"recurring"`
	RecurrencePattern   string             `json:"recurrencePattern" binding:"max=200"`
	Status              domain.ClassStatus `json:"status" binding:"omitempty,oneof=scheduled active completed cancelled postponed"`
}

type UpdateClassRequest struct {
	ID                  string              `json:"id"`
	RoomID              *string             `json:"roomId" binding:"omitempty,min=1"`
	PrimaryInstructorID *string             `json:"primaryInstructorId" binding:"omitempty,min=1"`
	Name                *string             `json:"name" binding:"omitempty,min=1,max=200"`
	Description         *string             `json:"description" binding:"omitempty,max=2000"`
	Type                *string             `json:"type" binding:"omitempty,min=1,max=100"`
	Level               *string             `json:"level" binding:"omitempty,max=50"`
	Capacity            *int                `json:"capacity" binding:"omitempty,gt=0"`
	Price               *decimal.Decimal    `json:"price"`
	Duration            *int                `json:"duration" binding:"omitempty,gt=0"`
	StartTime           *time.Time          `json:"startTime"`
	EndTime             *time.Time          `json:"endTime"`
	Recurring           *bool               `json:"recurring"`
	RecurrencePattern   *string             `json:"recurrencePattern" binding:"omitempty,max=200"`
	Status              *domain.ClassStatus `json:"status" binding:"omitempty,oneof=scheduled active completed cancelled postponed"`
}
