package auth

import (
	"context"
	"errors"
	"strings"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/jwt"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const entity = "user"

var errBadCredentials = apperr.Unauthenticated("Invalid email or password")

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dancestudio-placeholder"), bcrypt.MinCost)

type Service struct {
	repos      *repository.Repositories
	coord      *mutation.Coordinator
	jwt        *jwt.Service
	bus        *events.Bus
	bcryptCost int
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, jwtSvc *jwt.Service, bus *events.Bus, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repos: repos, coord: coord, jwt: jwtSvc, bus: bus, bcryptCost: bcryptCost}
}

// Register creates an active account holding the Student role and signs
// it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	req.Email = repository.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	h := string(hash)
	u := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		Status:       domain.UserActive,
		PasswordHash: &h,
	}
	if err := s.coord.CreateUserWithRoleNames(ctx, u, domain.RoleStudent); err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, u.ID, u.ID, nil)
	return s.issue(ctx, u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.repos.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !u.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}
	if !u.Status.CanSignIn() {
		return nil, apperr.Forbidden("Account is %s", u.Status)
	}

	return s.issue(ctx, u)
}

// Me returns the caller with the roles they hold right now.
func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperr.Unauthenticated("Authentication required")
	}
	u, err := s.repos.Users.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated("Account no longer exists")
		}
		return nil, err
	}
	if u.Roles, err = s.repos.Roles.RoleNamesForUser(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) issue(ctx context.Context, u *domain.User) (*TokenResponse, error) {
	token, err := s.jwt.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}
	if u.Roles, err = s.repos.Roles.RoleNamesForUser(ctx, u.ID); err != nil {
		return nil, err
	}
	return &TokenResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
		User:      u,
	}, nil
}
