package roles

import (
	"context"
	"strings"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"
)

const entity = "role"

type Service struct {
	repos *repository.Repositories
	coord *mutation.Coordinator
	bus   *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, bus: bus}
}

func (s *Service) Create(ctx context.Context, actorID string, req CreateRoleRequest) (*domain.Role, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	role := &domain.Role{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.repos.Roles.Create(ctx, role); err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, role.ID, actorID, nil)
	return role, nil
}

// Update renames a role and/or changes its description. System roles keep
// their name.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateRoleRequest) (*domain.Role, error) {
	if id == "" {
		return nil, apperr.Validation("Role ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var out *domain.Role
	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		current, err := r.Roles.FindActive(ctx, id)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("name is required")
			}
			if name != current.Name {
				if current.IsSystem {
					return apperr.Forbidden("System roles cannot be renamed")
				}
				fields["name"] = name
			}
		}
		if req.Description != nil {
			fields["description"] = strings.TrimSpace(*req.Description)
		}

		if len(fields) == 0 {
			out = current
			return nil
		}
		out, err = r.Roles.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeUpdated, entity, id, actorID, nil)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) (mutation.Cascade, error) {
	if id == "" {
		return mutation.Cascade{}, apperr.Validation("Role ID is required")
	}
	res, err := s.coord.DeleteRole(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

// Get returns the role with its holders. includeDeleted reaches
// soft-deleted roles for audit.
func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*RoleView, error) {
	var (
		role *domain.Role
		err  error
	)
	if includeDeleted {
		role, err = s.repos.Roles.FindAny(ctx, id)
	} else {
		role, err = s.repos.Roles.FindActive(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.views(ctx, []domain.Role{*role})
	if err != nil {
		return nil, err
	}
	perms, err := s.repos.Roles.PermissionsForRole(ctx, id)
	if err != nil {
		return nil, err
	}
	views[0].Permissions = perms
	return &views[0], nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]RoleView, int64, error) {
	roles, total, err := s.repos.Roles.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, roles)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *Service) views(ctx context.Context, roles []domain.Role) ([]RoleView, error) {
	ids := make([]string, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	holders, err := s.repos.Roles.UsersForRoles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RoleView, len(roles))
	for i, r := range roles {
		users := make([]RoleUser, 0, len(holders[r.ID]))
		for _, u := range holders[r.ID] {
			users = append(users, RoleUser{ID: u.ID, Email: u.Email, Name: u.Name, Status: u.Status})
		}
		out[i] = RoleView{Role: r, Users: users}
	}
	return out, nil
}

// AssignUser gives the user the role. Assigning twice is not an error.
func (s *Service) AssignUser(ctx context.Context, actorID, roleID, userID string) error {
	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		if _, err := r.Roles.FindActive(ctx, roleID); err != nil {
			return err
		}
		if _, err := r.Users.FindActive(ctx, userID); err != nil {
			return err
		}
		return r.Roles.Assign(ctx, roleID, userID)
	})
	if err != nil {
		return err
	}

	s.bus.Emit(ctx, events.TypeAssigned, entity, roleID, actorID, map[string]string{"userId": userID})
	return nil
}

// UnassignUser removes the role from the user; a missing assignment is a
// no-op.
func (s *Service) UnassignUser(ctx context.Context, actorID, roleID, userID string) error {
	removed, err := s.repos.Roles.Unassign(ctx, roleID, userID)
	if err != nil {
		return err
	}
	if removed {
		s.bus.Emit(ctx, events.TypeRevoked, entity, roleID, actorID, map[string]string{"userId": userID})
	}
	return nil
}

func (s *Service) GrantPermission(ctx context.Context, actorID, roleID, permissionID string) error {
	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		if _, err := r.Roles.FindActive(ctx, roleID); err != nil {
			return err
		}
		if _, err := r.Permissions.FindActive(ctx, permissionID); err != nil {
			return err
		}
		return r.Roles.Grant(ctx, roleID, permissionID)
	})
	if err != nil {
		return err
	}

	s.bus.Emit(ctx, events.TypeAssigned, entity, roleID, actorID, map[string]string{"permissionId": permissionID})
	return nil
}

func (s *Service) RevokePermission(ctx context.Context, actorID, roleID, permissionID string) error {
	revoked, err := s.repos.Roles.Revoke(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if revoked {
		s.bus.Emit(ctx, events.TypeRevoked, entity, roleID, actorID, map[string]string{"permissionId": permissionID})
	}
	return nil
}
