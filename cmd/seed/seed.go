package main

import (
	"context"
	"errors"
	"fmt"

	"dancestudio/internal/domain"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var roleDescriptions = map[string]string{
	domain.RoleAdministrator: "Full access to the back office",
	domain.RoleStudioAdmin:   "Manages the studios they run",
	domain.RoleInstructor:    "Teaches classes",
	domain.RoleStudent:       "Books classes",
	domain.RoleGuest:         "Browses the catalogue",
}

var categories = []string{"roles", "permissions", "studios", "rooms", "classes", "users", "bookings"}

var actions = []string{"create", "read", "update", "delete"}

// grants lists, per system role other than Administrator, the permission
// names it is linked to. Administrator gets every permission.
var grants = map[string][]string{
	domain.RoleStudioAdmin: {
		"studios.read", "studios.update",
		"rooms.create", "rooms.read", "rooms.update", "rooms.delete",
		"classes.create", "classes.read", "classes.update", "classes.delete",
		"bookings.read",
	},
	domain.RoleInstructor: {"studios.read", "rooms.read", "classes.read", "bookings.read"},
	domain.RoleStudent:    {"studios.read", "classes.read", "bookings.create", "bookings.read", "bookings.update"},
	domain.RoleGuest:      {"studios.read"},
}

type seeder struct {
	repos      *repository.Repositories
	coord      *mutation.Coordinator
	log        *zap.Logger
	bcryptCost int
}

// run is safe to repeat: existing rows are reused, never duplicated.
func (s *seeder) run(ctx context.Context, adminEmail, adminPassword string) error {
	roleIDs := make(map[string]string, len(domain.SystemRoles))
	for _, name := range domain.SystemRoles {
		id, err := s.ensureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("role %s: %w", name, err)
		}
		roleIDs[name] = id
	}

	permIDs := make(map[string]string)
	for _, category := range categories {
		for _, action := range actions {
			name := category + "." + action
			id, err := s.ensurePermission(ctx, name, category, action)
			if err != nil {
				return fmt.Errorf("permission %s: %w", name, err)
			}
			permIDs[name] = id
		}
	}

	for _, permID := range permIDs {
		if err := s.repos.Roles.Grant(ctx, roleIDs[domain.RoleAdministrator], permID); err != nil {
			return err
		}
	}
	for role, names := range grants {
		for _, name := range names {
			if err := s.repos.Roles.Grant(ctx, roleIDs[role], permIDs[name]); err != nil {
				return fmt.Errorf("grant %s to %s: %w", name, role, err)
			}
		}
	}

	if adminEmail == "" {
		s.log.Info("ADMIN_EMAIL not set, skipping administrator")
		return nil
	}
	return s.ensureAdmin(ctx, adminEmail, adminPassword, roleIDs[domain.RoleAdministrator])
}

func (s *seeder) ensureRole(ctx context.Context, name string) (string, error) {
	role, err := s.repos.Roles.FindByName(ctx, name)
	switch {
	case err == nil:
		if !role.IsSystem {
			if _, err := s.repos.Roles.Update(ctx, role.ID, map[string]any{"is_system": true}); err != nil {
				return "", err
			}
		}
		return role.ID, nil
	case errors.Is(err, apperr.ErrNotFound):
		role = &domain.Role{Name: name, Description: roleDescriptions[name], IsSystem: true}
		if err := s.repos.Roles.Create(ctx, role); err != nil {
			return "", err
		}
		s.log.Info("role created", zap.String("name", name))
		return role.ID, nil
	default:
		return "", err
	}
}

func (s *seeder) ensurePermission(ctx context.Context, name, category, action string) (string, error) {
	p, err := s.repos.Permissions.FindOneActive(ctx, "name = ?", name)
	switch {
	case err == nil:
		return p.ID, nil
	case errors.Is(err, apperr.ErrNotFound):
		p = &domain.Permission{
			Name:        name,
			Description: fmt.Sprintf("%s %s", action, category),
			Category:    category,
			Action:      action,
		}
		if err := s.repos.Permissions.Create(ctx, p); err != nil {
			return "", err
		}
		return p.ID, nil
	default:
		return "", err
	}
}

func (s *seeder) ensureAdmin(ctx context.Context, email, password, adminRoleID string) error {
	u, err := s.repos.Users.FindByEmail(ctx, email)
	if err == nil {
		s.log.Info("administrator exists", zap.String("email", u.Email))
		return s.repos.Roles.Assign(ctx, adminRoleID, u.ID)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if len(password) < 8 {
		return errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}
	h := string(hash)
	u = &domain.User{
		Email:        repository.NormalizeEmail(email),
		Name:         "Administrator",
		Status:       domain.UserActive,
		PasswordHash: &h,
	}
	if err := s.coord.CreateUserWithRoleNames(ctx, u, domain.RoleAdministrator); err != nil {
		return err
	}
	s.log.Info("administrator created", zap.String("email", u.Email))
	return nil
}
