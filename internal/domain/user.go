package domain

type UserStatus string

const (
	UserPending   UserStatus = "pending"
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserBanned    UserStatus = "banned"
	UserSuspended UserStatus = "suspended"
	UserDeleted   UserStatus = "deleted"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserActive, UserInactive, UserBanned, UserSuspended, UserDeleted:
		return true
	}
	return false
}

// CanSignIn reports whether a user in this status may obtain a token.
func (s UserStatus) CanSignIn() bool {
	return s == UserPending || s == UserActive
}

type User struct {
	Model
	Email        string     `json:"email" gorm:"type:varchar(320);not null"`
	Name         string     `json:"name"`
	Status       UserStatus `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	PasswordHash *string    `json:"-" gorm:"column:password_hash"`

	Roles []string `json:"roles,omitempty" gorm:"-"`
}

func (User) TableName() string { return "users" }

// HasPassword is false for federated identities.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
