package domain

type Room struct {
	Model
	StudioID    string `json:"studioId" gorm:"type:varchar(36);not null;index"`
	Name        string `json:"name" gorm:"not null"`
	Capacity    int    `json:"capacity" gorm:"not null"`
	Amenities   string `json:"amenities"`
	Description string `json:"description"`
}

func (Room) TableName() string { return "rooms" }
