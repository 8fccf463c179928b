package domain

type Studio struct {
	Model
	OwnerID     string `json:"ownerId" gorm:"type:varchar(36);not null;index"`
	Name        string `json:"name" gorm:"not null"`
	Handle      string `json:"handle" gorm:"type:varchar(100);not null"`
	Slug        string `json:"slug" gorm:"type:varchar(100);not null"`
	Description string `json:"description"`
	Address     string `json:"address" gorm:"not null"`
	City        string `json:"city" gorm:"not null"`
	State       string `json:"state" gorm:"not null"`
	ZipCode     string `json:"zipCode" gorm:"not null"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:StudioID"`
}

func (Studio) TableName() string { return "studios" }
