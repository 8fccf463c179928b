package roles

import "dancestudio/internal/domain"

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateRoleRequest carries the id in the body when the query string does
// not.
type UpdateRoleRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type UserRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type PermissionRequest struct {
	PermissionID string `json:"permissionId" binding:"required"`
}

type RoleUser struct {
	ID     string            `json:"id"`
	Email  string            `json:"email"`
	Name   string            `json:"name"`
	Status domain.UserStatus `json:"status"`
}

// RoleView is a role with its current holders and permissions.
type RoleView struct {
	domain.Role
	Users       []RoleUser          `json:"users"`
	Permissions []domain.Permission `json:"permissions,omitempty"`
}
