// Package mutation groups multi-row writes into single transactions so a
// cascade is applied completely or not at all.
package mutation

import (
	"context"
	"fmt"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/repository"

	"gorm.io/gorm"
)

// Cascade counts the rows soft-deleted by one atomic group, the target
// included.
type Cascade struct {
	Studios     int64 `json:"studios,omitempty"`
	Rooms       int64 `json:"rooms,omitempty"`
	Classes     int64 `json:"classes,omitempty"`
	Bookings    int64 `json:"bookings,omitempty"`
	Users       int64 `json:"users,omitempty"`
	Roles       int64 `json:"roles,omitempty"`
	Permissions int64 `json:"permissions,omitempty"`
	Assignments int64 `json:"assignments,omitempty"`
	Links       int64 `json:"links,omitempty"`
}

type Coordinator struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func New(db *gorm.DB, repos *repository.Repositories) *Coordinator {
	return &Coordinator{db: db, repos: repos}
}

// Run executes fn with every repository bound to one transaction. Any
// error returned by fn rolls the whole group back.
func (c *Coordinator) Run(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(c.repos.WithTx(tx))
	})
}

// DeleteRole soft-deletes a non-system role with its assignments and
// permission links.
func (c *Coordinator) DeleteRole(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		role, err := r.Roles.FindActive(ctx, id)
		if err != nil {
			return err
		}
		if role.IsSystem {
			return apperr.Forbidden("System roles cannot be deleted")
		}

		if err := r.Roles.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Roles = 1

		if out.Assignments, err = r.Roles.SoftDeleteAssignmentsByRole(ctx, id); err != nil {
			return fmt.Errorf("delete role assignments: %w", err)
		}
		if out.Links, err = r.Roles.SoftDeleteLinksByRole(ctx, id); err != nil {
			return fmt.Errorf("delete role permissions: %w", err)
		}
		return nil
	})
	return out, err
}

func (c *Coordinator) DeletePermission(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Permissions.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Permissions = 1

		var err error
		if out.Links, err = r.Roles.SoftDeleteLinksByPermission(ctx, id); err != nil {
			return fmt.Errorf("delete permission links: %w", err)
		}
		return nil
	})
	return out, err
}

// DeleteStudio soft-deletes the studio, then its rooms, the classes held
// in the studio or its rooms, and their bookings.
func (c *Coordinator) DeleteStudio(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Studios.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Studios = 1

		roomIDs, err := r.Rooms.IDsByStudio(ctx, id)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		classIDs, err := r.Classes.IDsByStudioOrRooms(ctx, id, roomIDs)
		if err != nil {
			return fmt.Errorf("list classes: %w", err)
		}

		if out.Rooms, err = r.Rooms.SoftDeleteWhere(ctx, "studio_id = ?", id); err != nil {
			return fmt.Errorf("delete rooms: %w", err)
		}
		if out.Classes, err = r.Classes.SoftDeleteByIDs(ctx, classIDs); err != nil {
			return fmt.Errorf("delete classes: %w", err)
		}
		if out.Bookings, err = r.Bookings.SoftDeleteByClassIDs(ctx, classIDs); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		return nil
	})
	return out, err
}

// DeleteRoom soft-deletes the room, its classes and their bookings.
func (c *Coordinator) DeleteRoom(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Rooms.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Rooms = 1

		classIDs, err := r.Classes.IDsByRoom(ctx, id)
		if err != nil {
			return fmt.Errorf("list classes: %w", err)
		}
		if out.Classes, err = r.Classes.SoftDeleteByIDs(ctx, classIDs); err != nil {
			return fmt.Errorf("delete classes: %w", err)
		}
		if out.Bookings, err = r.Bookings.SoftDeleteByClassIDs(ctx, classIDs); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		return nil
	})
	return out, err
}

func (c *Coordinator) DeleteClass(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Classes.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Classes = 1

		var err error
		if out.Bookings, err = r.Bookings.SoftDeleteByClassIDs(ctx, []string{id}); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		return nil
	})
	return out, err
}

// DeleteUser soft-deletes the user and every role assignment they hold.
// Their bookings are kept for history.
func (c *Coordinator) DeleteUser(ctx context.Context, id string) (Cascade, error) {
	var out Cascade
	err := c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Users.SoftDelete(ctx, id); err != nil {
			return err
		}
		out.Users = 1

		var err error
		if out.Assignments, err = r.Roles.SoftDeleteAssignmentsByUser(ctx, id); err != nil {
			return fmt.Errorf("delete role assignments: %w", err)
		}
		return nil
	})
	return out, err
}

// CreateUserWithRoles inserts the user and one assignment per role id.
// Unknown role ids fail the whole group with NotFound.
func (c *Coordinator) CreateUserWithRoles(ctx context.Context, u *domain.User, roleIDs []string) error {
	return c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		return assignAll(ctx, r, u.ID, roleIDs)
	})
}

// CreateUserWithRoleNames is CreateUserWithRoles addressed by role name.
func (c *Coordinator) CreateUserWithRoleNames(ctx context.Context, u *domain.User, names ...string) error {
	return c.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		for _, name := range names {
			role, err := r.Roles.FindByName(ctx, name)
			if err != nil {
				return fmt.Errorf("resolve role %q: %w", name, err)
			}
			if err := r.Roles.Assign(ctx, role.ID, u.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateUser applies fields to the user and, when roleIDs is non-nil,
// replaces the role set in the same transaction.
func (c *Coordinator) UpdateUser(ctx context.Context, id string, fields map[string]any, roleIDs *[]string) (*domain.User, error) {
	var out *domain.User
	err := c.Run(ctx, func(r *repository.Repositories) error {
		var err error
		if len(fields) > 0 {
			out, err = r.Users.Update(ctx, id, fields)
		} else {
			out, err = r.Users.FindActive(ctx, id)
		}
		if err != nil {
			return err
		}
		if roleIDs == nil {
			return nil
		}
		return replaceRoles(ctx, r, id, *roleIDs)
	})
	return out, err
}

// ReplaceUserRoles swaps the user's whole role set: current assignments are
// soft-deleted and fresh ones inserted.
func (c *Coordinator) ReplaceUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	return c.Run(ctx, func(r *repository.Repositories) error {
		if _, err := r.Users.FindActive(ctx, userID); err != nil {
			return err
		}
		return replaceRoles(ctx, r, userID, roleIDs)
	})
}

func replaceRoles(ctx context.Context, r *repository.Repositories, userID string, roleIDs []string) error {
	if _, err := r.Roles.FindActiveByIDs(ctx, roleIDs); err != nil {
		return err
	}
	if _, err := r.Roles.SoftDeleteAssignmentsByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear role assignments: %w", err)
	}
	return assignAll(ctx, r, userID, roleIDs)
}

func assignAll(ctx context.Context, r *repository.Repositories, userID string, roleIDs []string) error {
	if _, err := r.Roles.FindActiveByIDs(ctx, roleIDs); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if err := r.Roles.Assign(ctx, roleID, userID); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
	}
	return nil
}
