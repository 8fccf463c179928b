package studios

import (
	"context"
	"errors"
	"strings"

	"dancestudio/internal/authz"
	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/slug"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"
)

const entity = "studio"

type Service struct {
	repos  *repository.Repositories
	coord  *mutation.Coordinator
	engine *authz.Engine
	bus    *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, engine *authz.Engine, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, engine: engine, bus: bus}
}

func normalizeHandle(h string) (string, error) {
	h = strings.ToLower(strings.TrimSpace(h))
	if !slug.Valid(h) {
		return "", apperr.Validation("handle must contain only lower-case letters, digits and single hyphens")
	}
	return h, nil
}

// Create adds a studio owned by req.OwnerID, or by the caller when it is
// empty. Only administrators may create studios for someone else.
func (s *Service) Create(ctx context.Context, actorID string, req CreateStudioRequest) (*domain.Studio, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	handle, err := normalizeHandle(req.Handle)
	if err != nil {
		return nil, err
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "" {
		ownerID = actorID
	}
	if err := s.engine.Authorize(ctx, authz.StudioCreate, authz.Subject{UserID: actorID, OwnerID: ownerID}); err != nil {
		return nil, err
	}

	studio := &domain.Studio{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Handle:      handle,
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		ZipCode:     strings.TrimSpace(req.ZipCode),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       repository.NormalizeEmail(req.Email),
		Website:     strings.TrimSpace(req.Website),
		Logo:        strings.TrimSpace(req.Logo),
	}

	err = s.coord.Run(ctx, func(r *repository.Repositories) error {
		if err := requireOwner(ctx, r, ownerID); err != nil {
			return err
		}
		sl, err := r.Studios.UniqueSlug(ctx, baseSlug(studio.Name, handle), "")
		if err != nil {
			return err
		}
		studio.Slug = sl
		return r.Studios.Create(ctx, studio)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, studio.ID, actorID, nil)
	return studio, nil
}

// Update changes the studio. Owners may edit their own studio; moving it
// to another owner is reserved for administrators.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateStudioRequest) (*domain.Studio, error) {
	if id == "" {
		return nil, apperr.Validation("Studio ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.repos.Studios.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, authz.StudioUpdate, authz.Subject{UserID: actorID, OwnerID: current.OwnerID}); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	newOwner := ""
	if req.OwnerID != nil && strings.TrimSpace(*req.OwnerID) != current.OwnerID {
		admin, err := s.engine.Has(ctx, actorID, domain.RoleAdministrator)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, apperr.Forbidden("Only administrators can transfer a studio")
		}
		newOwner = strings.TrimSpace(*req.OwnerID)
		fields["owner_id"] = newOwner
	}
	if req.Handle != nil {
		h, err := normalizeHandle(*req.Handle)
		if err != nil {
			return nil, err
		}
		fields["handle"] = h
	}
	setTrimmed(fields, "description", req.Description)
	setTrimmed(fields, "address", req.Address)
	setTrimmed(fields, "city", req.City)
	setTrimmed(fields, "state", req.State)
	setTrimmed(fields, "zip_code", req.ZipCode)
	setTrimmed(fields, "phone", req.Phone)
	setTrimmed(fields, "website", req.Website)
	setTrimmed(fields, "logo", req.Logo)
	if req.Email != nil {
		fields["email"] = repository.NormalizeEmail(*req.Email)
	}

	var out *domain.Studio
	err = s.coord.Run(ctx, func(r *repository.Repositories) error {
		var err error
		if newOwner != "" {
			if err := requireOwner(ctx, r, newOwner); err != nil {
				return err
			}
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			fields["name"] = name
			if name != current.Name {
				handle := current.Handle
				if h, ok := fields["handle"].(string); ok {
					handle = h
				}
				sl, err := r.Studios.UniqueSlug(ctx, baseSlug(name, handle), id)
				if err != nil {
					return err
				}
				fields["slug"] = sl
			}
		}
		if len(fields) == 0 {
			out, err = r.Studios.Get(ctx, id)
			return err
		}
		if _, err := r.Studios.Update(ctx, id, fields); err != nil {
			return err
		}
		out, err = r.Studios.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeUpdated, entity, id, actorID, nil)
	return out, nil
}

// Delete soft-deletes the studio and everything that lives in it.
func (s *Service) Delete(ctx context.Context, actorID, id string) (mutation.Cascade, error) {
	if id == "" {
		return mutation.Cascade{}, apperr.Validation("Studio ID is required")
	}
	current, err := s.repos.Studios.FindActive(ctx, id)
	if err != nil {
		return mutation.Cascade{}, err
	}
	if err := s.engine.Authorize(ctx, authz.StudioDelete, authz.Subject{UserID: actorID, OwnerID: current.OwnerID}); err != nil {
		return mutation.Cascade{}, err
	}

	res, err := s.coord.DeleteStudio(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Studio, error) {
	if includeDeleted {
		return s.repos.Studios.FindAny(ctx, id, repository.WithActiveRooms)
	}
	return s.repos.Studios.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f repository.StudioFilter, page, limit int) ([]domain.Studio, int64, error) {
	return s.repos.Studios.List(ctx, f, page, limit)
}

func requireOwner(ctx context.Context, r *repository.Repositories, ownerID string) error {
	if _, err := r.Users.FindActive(ctx, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("Owner not found")
		}
		return err
	}
	return nil
}

func baseSlug(name, handle string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return handle
}

func setTrimmed(fields map[string]any, column string, v *string) {
	if v != nil {
		fields[column] = strings.TrimSpace(*v)
	}
}
