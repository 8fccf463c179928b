package studios

type CreateStudioRequest struct {
	// OwnerID defaults to the caller.
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name" binding:"required,max=200"`
	Handle      string `json:"handle" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"required,max=300"`
	City        string `json:"city" binding:"required,max=100"`
	State       string `json:"state" binding:"required,max=100"`
	ZipCode     string `json:"zipCode" binding:"required,max=20"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=320"`
	Website     string `json:"website" binding:"omitempty,url,max=300"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
}

type UpdateStudioRequest struct {
	ID          string  `json:"id"`
	OwnerID     *string `json:"ownerId" binding:"omitempty,min=1"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Handle      *string `json:"handle" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,min=1,max=300"`
	City        *string `json:"city" binding:"omitempty,min=1,max=100"`
	State       *string `json:"state" binding:"omitempty,min=1,max=100"`
	ZipCode     *string `json:"zipCode" binding:"omitempty,min=1,max=20"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=320"`
	Website     *string `json:"website" binding:"omitempty,url,max=300"`
	Logo        *string `json:"logo" binding:"omitempty,max=500"`
}
