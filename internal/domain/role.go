package domain

// Built-in role vocabulary. These are seeded as system roles and are the
// names operation policies refer to.
const (
	RoleAdministrator = "Administrator"
	RoleStudioAdmin   = "StudioAdmin"
	RoleInstructor    = "Instructor"
	RoleStudent       = "Student"
	RoleGuest         = "Guest"
)

var SystemRoles = []string{
	RoleAdministrator,
	RoleStudioAdmin,
	RoleInstructor,
	RoleStudent,
	RoleGuest,
}

type Role struct {
	Model
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description"`
	IsSystem    bool   `json:"isSystem" gorm:"not null;default:false"`
}

func (Role) TableName() string { return "roles" }

// RoleAssignment links a user to a role. The (UserID, RoleID) pair is
// unique among active rows only, so history rows survive re-assignment.
type RoleAssignment struct {
	Model
	UserID string `json:"userId" gorm:"type:varchar(36);not null;index"`
	RoleID string `json:"roleId" gorm:"type:varchar(36);not null;index"`
}

func (RoleAssignment) TableName() string { return "role_assignments" }

type Permission struct {
	Model
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description"`
	Category    string `json:"category" gorm:"type:varchar(50);not null"`
	Action      string `json:"action" gorm:"type:varchar(50);not null"`
}

func (Permission) TableName() string { return "permissions" }

type RolePermission struct {
	Model
	RoleID       string `json:"roleId" gorm:"type:varchar(36);not null;index"`
	PermissionID string `json:"permissionId" gorm:"type:varchar(36);not null;index"`
}

func (RolePermission) TableName() string { return "role_permissions" }
