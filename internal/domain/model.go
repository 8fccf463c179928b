package domain

import "time"

// Model carries the identity and audit columns every table has. A row is
// active while DeletedAt is nil.
type Model struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time  `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" gorm:"index"`
}

func (m *Model) Base() *Model { return m }

func (m *Model) Active() bool { return m.DeletedAt == nil }
