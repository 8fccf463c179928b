package users

import "dancestudio/internal/domain"

type CreateUserRequest struct {
	Email    string            `json:"email" binding:"required,email,max=320"`
	Name     string            `json:"name" binding:"max=200"`
	Password string            `json:"password" binding:"omitempty,min=8,max=72"`
	Status   domain.UserStatus `json:"status" binding:"omitempty,oneof=pending active inactive banned suspended"`
	RoleIDs  []string          `json:"roleIds" binding:"omitempty,dive,required"`
}

// UpdateUserRequest replaces the role set when RoleIDs is present, even
// when empty.
type UpdateUserRequest struct {
	ID       string             `json:"id"`
	Email    *string            `json:"email" binding:"omitempty,email,max=320"`
	Name     *string            `json:"name" binding:"omitempty,max=200"`
	Password *string            `json:"password" binding:"omitempty,min=8,max=72"`
	Status   *domain.UserStatus `json:"status" binding:"omitempty,oneof=pending active inactive banned suspended"`
	RoleIDs  *[]string          `json:"roleIds" binding:"omitempty,dive,required"`
}

type ListQuery struct {
	Status domain.UserStatus
	Search string
}
