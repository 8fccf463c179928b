// Package authz decides whether an identity may perform an operation.
// Roles are read from the store on every decision; nothing is cached.
package authz

import (
	"context"
	"errors"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"
)

type Operation string

const (
	RoleList        Operation = "roles.list"
	RoleGet         Operation = "roles.get"
	RoleCreate      Operation = "roles.create"
	RoleUpdate      Operation = "roles.update"
	RoleDelete      Operation = "roles.delete"
	RoleAssignUser  Operation = "roles.assign_user"
	RoleGrantAccess Operation = "roles.grant_permission"

	PermissionList   Operation = "permissions.list"
	PermissionWrite  Operation = "permissions.write"
	PermissionDelete Operation = "permissions.delete"

	StudioRead   Operation = "studios.read"
	StudioCreate Operation = "studios.create"
	StudioUpdate Operation = "studios.update"
	StudioDelete Operation = "studios.delete"

	RoomRead  Operation = "rooms.read"
	RoomWrite Operation = "rooms.write"

	ClassGet   Operation = "classes.get"
	ClassList  Operation = "classes.list"
	ClassWrite Operation = "classes.write"

	UserManage Operation = "users.manage"

	BookingCreate Operation = "bookings.create"
	BookingList   Operation = "bookings.list"
	BookingCancel Operation = "bookings.cancel"
	BookingDelete Operation = "bookings.delete"

	AuditRead Operation = "audit.read"
)

// Policy states who may perform an operation.
type Policy struct {
	// Public operations need no identity.
	Public bool
	// AnyRole admits every authenticated identity.
	AnyRole bool
	Roles   []string
	// Owner admits the owning user of the target regardless of role.
	Owner bool
}

func admins() Policy { return Policy{Roles: []string{domain.RoleAdministrator}} }

// DefaultPolicies map every protected operation to its policy.
var DefaultPolicies = map[Operation]Policy{
	RoleList:        admins(),
	RoleGet:         {AnyRole: true},
	RoleCreate:      admins(),
	RoleUpdate:      admins(),
	RoleDelete:      admins(),
	RoleAssignUser:  admins(),
	RoleGrantAccess: admins(),

	PermissionList:   admins(),
	PermissionWrite:  admins(),
	PermissionDelete: admins(),

	StudioRead:   {Public: true},
	StudioCreate: {Roles: []string{domain.RoleAdministrator}, Owner: true},
	StudioUpdate: {Roles: []string{domain.RoleAdministrator}, Owner: true},
	StudioDelete: {Roles: []string{domain.RoleAdministrator}, Owner: true},

	RoomRead:  {AnyRole: true},
	RoomWrite: admins(),

	ClassGet:   {AnyRole: true},
	ClassList:  admins(),
	ClassWrite: admins(),

	UserManage: admins(),

	BookingCreate: {AnyRole: true},
	BookingList:   {AnyRole: true},
	BookingCancel: {Roles: []string{domain.RoleAdministrator}, Owner: true},
	BookingDelete: admins(),

	AuditRead: admins(),
}

// RoleReader answers which role names a user currently holds.
type RoleReader interface {
	RoleNamesForUser(ctx context.Context, userID string) ([]string, error)
}

// UserReader reports the status of an active user. Absent or soft-deleted
// users are NotFound.
type UserReader interface {
	Status(ctx context.Context, userID string) (domain.UserStatus, error)
}

type Engine struct {
	roles    RoleReader
	users    UserReader
	policies map[Operation]Policy
}

func NewEngine(roles RoleReader, policies map[Operation]Policy) *Engine {
	if policies == nil {
		policies = DefaultPolicies
	}
	return &Engine{roles: roles, policies: policies}
}

// WithUsers returns a copy that also requires the caller's account to be
// active and allowed to sign in, checked on every decision.
func (e *Engine) WithUsers(users UserReader) *Engine {
	cp := *e
	cp.users = users
	return &cp
}

// Subject identifies the caller and, for ownership rules, the owner of the
// target entity.
type Subject struct {
	UserID  string
	OwnerID string
}

// Authorize returns nil when the subject may perform op, Unauthenticated
// when there is no identity and Forbidden otherwise. An operation with no
// policy is denied.
func (e *Engine) Authorize(ctx context.Context, op Operation, s Subject) error {
	p, ok := e.policies[op]
	if !ok {
		return apperr.Forbidden("Operation not permitted")
	}
	if p.Public {
		return nil
	}
	if s.UserID == "" {
		return apperr.Unauthenticated("Authentication required")
	}
	if err := e.checkAccount(ctx, s.UserID); err != nil {
		return err
	}
	if p.AnyRole {
		return nil
	}
	if p.Owner && s.OwnerID != "" && s.OwnerID == s.UserID {
		return nil
	}

	held, err := e.roles.RoleNamesForUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if intersects(held, p.Roles) {
		return nil
	}
	return apperr.Forbidden("Insufficient permissions")
}

// Has reports whether the user holds any of the roles. Used for decisions
// that widen a result instead of gating it.
func (e *Engine) Has(ctx context.Context, userID string, roles ...string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if err := e.checkAccount(ctx, userID); err != nil {
		if apperr.IsInternal(err) {
			return false, err
		}
		return false, nil
	}
	held, err := e.roles.RoleNamesForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return intersects(held, roles), nil
}

// checkAccount rejects tokens whose user was deleted, suspended, banned or
// deactivated after the token was issued.
func (e *Engine) checkAccount(ctx context.Context, userID string) error {
	if e.users == nil {
		return nil
	}
	status, err := e.users.Status(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Unauthenticated("Account no longer exists")
		}
		return err
	}
	if !status.CanSignIn() {
		return apperr.Forbidden("Account is %s", status)
	}
	return nil
}

func intersects(held, required []string) bool {
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}
