package rooms

type CreateRoomRequest struct {
	StudioID    string `json:"studioId" binding:"required"`
	Name        string `json:"name" binding:"required,max=200"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	Amenities   string `json:"amenities" binding:"max=1000"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateRoomRequest cannot move a room to another studio.
type UpdateRoomRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gt=0"`
	Amenities   *string `json:"amenities" binding:"omitempty,max=1000"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}
