package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"

	"gorm.io/gorm"
)

// RoleRepository owns roles, their assignments to users and their links to
// permissions.
type RoleRepository struct {
	db          *gorm.DB
	roles       *Lifecycle[domain.Role, *domain.Role]
	assignments *Lifecycle[domain.RoleAssignment, *domain.RoleAssignment]
	links       *Lifecycle[domain.RolePermission, *domain.RolePermission]
}

func NewRoleRepository(db *gorm.DB, now func() time.Time) *RoleRepository {
	return &RoleRepository{
		db: db,
		roles: NewLifecycle(db, LifecycleConfig[domain.Role, *domain.Role]{
			Entity:  "Role",
			OrderBy: []string{"name ASC"},
			Unique: []Unique[domain.Role, *domain.Role]{{
				Column:  "name",
				Fold:    true,
				Message: "Role name already in use",
				Value:   func(r *domain.Role) string { return r.Name },
			}},
			Now: now,
		}),
		assignments: NewLifecycle(db, LifecycleConfig[domain.RoleAssignment, *domain.RoleAssignment]{
			Entity: "Role assignment",
			Now:    now,
		}),
		links: NewLifecycle(db, LifecycleConfig[domain.RolePermission, *domain.RolePermission]{
			Entity: "Role permission",
			Now:    now,
		}),
	}
}

func (r *RoleRepository) WithTx(tx *gorm.DB) *RoleRepository {
	return &RoleRepository{
		db:          tx,
		roles:       r.roles.WithTx(tx),
		assignments: r.assignments.WithTx(tx),
		links:       r.links.WithTx(tx),
	}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	return r.roles.Create(ctx, role)
}

func (r *RoleRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Role, error) {
	return r.roles.Update(ctx, id, fields)
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id string) error {
	return r.roles.SoftDelete(ctx, id)
}

func (r *RoleRepository) FindActive(ctx context.Context, id string) (*domain.Role, error) {
	return r.roles.FindActive(ctx, id)
}

func (r *RoleRepository) FindAny(ctx context.Context, id string) (*domain.Role, error) {
	return r.roles.FindAny(ctx, id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.roles.FindOneActive(ctx, "LOWER(roles.name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

func (r *RoleRepository) List(ctx context.Context, page, limit int) ([]domain.Role, int64, error) {
	return r.roles.ListActive(ctx, ListQuery{Page: page, Limit: limit})
}

// FindActiveByIDs fails NotFound naming the first id that is not an active
// role.
func (r *RoleRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		role, err := r.roles.FindActive(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.NotFound("Role %s not found", id)
			}
			return nil, err
		}
		out = append(out, *role)
	}
	return out, nil
}

// Assign links userID to roleID. Assigning an already active pair is a
// no-op, including when a concurrent writer wins the insert.
func (r *RoleRepository) Assign(ctx context.Context, roleID, userID string) error {
	exists, err := r.assignments.ExistsActive(ctx, "role_id = ? AND user_id = ?", roleID, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = r.assignments.Create(ctx, &domain.RoleAssignment{UserID: userID, RoleID: roleID})
	if err != nil && errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

// Unassign soft-deletes the active pair, if any, and reports whether one
// existed.
func (r *RoleRepository) Unassign(ctx context.Context, roleID, userID string) (bool, error) {
	n, err := r.assignments.SoftDeleteWhere(ctx, "role_id = ? AND user_id = ?", roleID, userID)
	return n > 0, err
}

// RoleNamesForUser returns the names of active roles the user actively
// holds, sorted by name.
func (r *RoleRepository) RoleNamesForUser(ctx context.Context, userID string) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN role_assignments ra ON ra.role_id = roles.id").
		Where("ra.user_id = ? AND ra.deleted_at IS NULL AND roles.deleted_at IS NULL", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	return names, err
}

type userRoleName struct {
	UserID string
	Name   string
}

type roleHolder struct {
	domain.User
	RoleID string
}

// RoleNamesForUsers is RoleNamesForUser for a page of users.
func (r *RoleRepository) RoleNamesForUsers(ctx context.Context, userIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []userRoleName
	err := r.db.WithContext(ctx).
		Table("roles").
		Select("ra.user_id AS user_id, roles.name AS name").
		Joins("JOIN role_assignments ra ON ra.role_id = roles.id").
		Where("ra.user_id IN ? AND ra.deleted_at IS NULL AND roles.deleted_at IS NULL", userIDs).
		Order("roles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

// UsersForRoles returns, per role id, the active users actively holding it.
func (r *RoleRepository) UsersForRoles(ctx context.Context, roleIDs []string) (map[string][]domain.User, error) {
	out := make(map[string][]domain.User, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	var rows []roleHolder
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*, ra.role_id AS role_id").
		Joins("JOIN role_assignments ra ON ra.user_id = users.id").
		Where("ra.role_id IN ? AND ra.deleted_at IS NULL AND users.deleted_at IS NULL", roleIDs).
		Order("users.email ASC, users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RoleID] = append(out[row.RoleID], row.User)
	}
	return out, nil
}

func (r *RoleRepository) SoftDeleteAssignmentsByRole(ctx context.Context, roleID string) (int64, error) {
	return r.assignments.SoftDeleteWhere(ctx, "role_id = ?", roleID)
}

func (r *RoleRepository) SoftDeleteAssignmentsByUser(ctx context.Context, userID string) (int64, error) {
	return r.assignments.SoftDeleteWhere(ctx, "user_id = ?", userID)
}

// Grant links a permission to a role; granting twice is a no-op.
func (r *RoleRepository) Grant(ctx context.Context, roleID, permissionID string) error {
	exists, err := r.links.ExistsActive(ctx, "role_id = ? AND permission_id = ?", roleID, permissionID)
	if err != nil || exists {
		return err
	}

	err = r.links.Create(ctx, &domain.RolePermission{RoleID: roleID, PermissionID: permissionID})
	if err != nil && errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func (r *RoleRepository) Revoke(ctx context.Context, roleID, permissionID string) (bool, error) {
	n, err := r.links.SoftDeleteWhere(ctx, "role_id = ? AND permission_id = ?", roleID, permissionID)
	return n > 0, err
}

// PermissionsForRole lists the active permissions actively linked to the
// role, ordered by name.
func (r *RoleRepository) PermissionsForRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	perms := make([]domain.Permission, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Permission{}).
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ? AND rp.deleted_at IS NULL AND permissions.deleted_at IS NULL", roleID).
		Order("permissions.name ASC, permissions.id ASC").
		Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) SoftDeleteLinksByRole(ctx context.Context, roleID string) (int64, error) {
	return r.links.SoftDeleteWhere(ctx, "role_id = ?", roleID)
}

func (r *RoleRepository) SoftDeleteLinksByPermission(ctx context.Context, permissionID string) (int64, error) {
	return r.links.SoftDeleteWhere(ctx, "permission_id = ?", permissionID)
}
