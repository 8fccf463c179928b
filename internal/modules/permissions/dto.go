package permissions

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Category    string `json:"category" binding:"required,max=50"`
	Action      string `json:"action" binding:"required,max=50"`
}

type UpdatePermissionRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Category    *string `json:"category" binding:"omitempty,min=1,max=50"`
	Action      *string `json:"action" binding:"omitempty,min=1,max=50"`
}
