package permissions

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

const entity = "permission"

type Service struct {
	repos *repository.Repositories
	coord *mutation.Coordinator
	bus   *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, bus: bus}
}

func (s *Service) Create(ctx context.Context, actorID string, req CreatePermissionRequest) (*domain.Permission, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	p := &domain.Permission{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Action:      req.Action,
	}
	if err := s.repos.Permissions.Create(ctx, p); err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, p.ID, actorID, nil)
	return p, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, req UpdatePermissionRequest) (*domain.Permission, error) {
	if id == "" {
		return nil, apperr.Validation("Permission ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name is required")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		fields["category"] = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Action != nil {
		fields["action"] = strings.ToLower(strings.TrimSpace(*req.Action))
	}
	if len(fields) == 0 {
		return s.repos.Permissions.FindActive(ctx, id)
	}

	p, err := s.repos.Permissions.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeUpdated, entity, id, actorID, nil)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) (mutation.Cascade, error) {
	if id == "" {
		return mutation.Cascade{}, apperr.Validation("Permission ID is required")
	}
	res, err := s.coord.DeletePermission(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Permission, error) {
	if includeDeleted {
		return s.repos.Permissions.FindAny(ctx, id)
	}
	return s.repos.Permissions.FindActive(ctx, id)
}

func (s *Service) List(ctx context.Context, category string, page, limit int) ([]domain.Permission, int64, error) {
	return s.repos.Permissions.List(ctx, strings.ToLower(strings.TrimSpace(category)), page, limit)
}
