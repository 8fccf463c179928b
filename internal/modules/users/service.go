package users

import (
	"context"
	"strings"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const entity = "user"

type Service struct {
	repos      *repository.Repositories
	coord      *mutation.Coordinator
	bus        *events.Bus
	bcryptCost int
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, bus *events.Bus, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repos: repos, coord: coord, bus: bus, bcryptCost: bcryptCost}
}

func (s *Service) hash(password string) (*string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	h := string(b)
	return &h, nil
}

// Create inserts the user together with the initial role set.
func (s *Service) Create(ctx context.Context, actorID string, req CreateUserRequest) (*domain.User, error) {
	req.Email = repository.NormalizeEmail(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:  req.Email,
		Name:   strings.TrimSpace(req.Name),
		Status: req.Status,
	}
	if u.Status == "" {
		u.Status = domain.UserActive
	}
	if req.Password != "" {
		h, err := s.hash(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = h
	}

	if err := s.coord.CreateUserWithRoles(ctx, u, dedupe(req.RoleIDs)); err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, u.ID, actorID, nil)
	return s.withRoles(ctx, u)
}

func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateUserRequest) (*domain.User, error) {
	if id == "" {
		return nil, apperr.Validation("User ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Email != nil {
		fields["email"] = repository.NormalizeEmail(*req.Email)
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Password != nil {
		h, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = *h
	}

	var roleIDs *[]string
	if req.RoleIDs != nil {
		ids := dedupe(*req.RoleIDs)
		roleIDs = &ids
	}

	u, err := s.coord.UpdateUser(ctx, id, fields, roleIDs)
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeUpdated, entity, id, actorID, nil)
	return s.withRoles(ctx, u)
}

func (s *Service) Delete(ctx context.Context, actorID, id string) (mutation.Cascade, error) {
	if id == "" {
		return mutation.Cascade{}, apperr.Validation("User ID is required")
	}
	res, err := s.coord.DeleteUser(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	if includeDeleted {
		u, err = s.repos.Users.FindAny(ctx, id)
	} else {
		u, err = s.repos.Users.FindActive(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return s.withRoles(ctx, u)
}

func (s *Service) List(ctx context.Context, q ListQuery, page, limit int) ([]domain.User, int64, error) {
	items, total, err := s.repos.Users.List(ctx, repository.UserFilter{Status: q.Status, Search: q.Search}, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	byUser, err := s.repos.Roles.RoleNamesForUsers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Roles = byUser[items[i].ID]
		if items[i].Roles == nil {
			items[i].Roles = []string{}
		}
	}
	return items, total, nil
}

func (s *Service) withRoles(ctx context.Context, u *domain.User) (*domain.User, error) {
	names, err := s.repos.Roles.RoleNamesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = names
	return u, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
