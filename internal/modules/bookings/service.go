package bookings

import (
	"context"
	"errors"
	"strings"

	"dancestudio/internal/authz"
	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"
)

const entity = "booking"

type Service struct {
	repos  *repository.Repositories
	coord  *mutation.Coordinator
	engine *authz.Engine
	bus    *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, engine *authz.Engine, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, engine: engine, bus: bus}
}

func (s *Service) isAdmin(ctx context.Context, userID string) (bool, error) {
	return s.engine.Has(ctx, userID, domain.RoleAdministrator)
}

// Create books a seat in a class. The class row is locked for the rest of
// the transaction so concurrent bookings cannot overfill it.
func (s *Service) Create(ctx context.Context, actorID string, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = actorID
	}
	if userID != actorID {
		admin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, apperr.Forbidden("Only administrators can book for another user")
		}
	}

	booking := &domain.Booking{
		UserID:        userID,
		ClassID:       strings.TrimSpace(req.ClassID),
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		Notes:         strings.TrimSpace(req.Notes),
	}

	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		class, err := lockClass(ctx, r, booking.ClassID)
		if err != nil {
			return err
		}
		if !class.Status.Bookable() {
			return apperr.Validation("Class is not open for booking")
		}
		if _, err := r.Users.FindActive(ctx, userID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Validation("User not found")
			}
			return err
		}
		if err := checkSeat(ctx, r, class, userID); err != nil {
			return err
		}

		booking.PaymentAmount = class.Price
		return r.Bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, booking.ID, actorID, map[string]string{"classId": booking.ClassID})
	return booking, nil
}

// Update lets the booking's owner cancel it or edit its notes.
// Administrators may set any status; reviving a cancelled booking takes a
// seat again.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateBookingRequest) (*domain.Booking, error) {
	if id == "" {
		return nil, apperr.Validation("Booking ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.repos.Bookings.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, authz.BookingCancel, authz.Subject{UserID: actorID, OwnerID: current.UserID}); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}
	revive := false
	if req.Status != nil && *req.Status != current.Status {
		if *req.Status != domain.BookingCancelled {
			admin, err := s.isAdmin(ctx, actorID)
			if err != nil {
				return nil, err
			}
			if !admin {
				return nil, apperr.Forbidden("Bookings can only be cancelled by their owner")
			}
		}
		fields["status"] = *req.Status
		revive = current.Status == domain.BookingCancelled
	}
	if len(fields) == 0 {
		return current, nil
	}

	var out *domain.Booking
	err = s.coord.Run(ctx, func(r *repository.Repositories) error {
		if revive {
			class, err := lockClass(ctx, r, current.ClassID)
			if err != nil {
				return err
			}
			if err := checkSeat(ctx, r, class, current.UserID); err != nil {
				return err
			}
		}
		var err error
		out, err = r.Bookings.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeUpdated, entity, id, actorID, fields)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if id == "" {
		return apperr.Validation("Booking ID is required")
	}
	if err := s.repos.Bookings.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, nil)
	return nil
}

// Get returns one booking to its owner or to an administrator.
func (s *Service) Get(ctx context.Context, actorID, id string, includeDeleted bool) (*domain.Booking, error) {
	var (
		b   *domain.Booking
		err error
	)
	if includeDeleted {
		b, err = s.repos.Bookings.FindAny(ctx, id)
	} else {
		b, err = s.repos.Bookings.FindActive(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if b.UserID == actorID && !includeDeleted {
		return b, nil
	}

	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, apperr.NotFound("Booking not found")
	}
	return b, nil
}

// List returns the caller's bookings. Administrators see everyone's, and
// may narrow by user.
func (s *Service) List(ctx context.Context, actorID string, q ListQuery, page, limit int) ([]domain.Booking, int64, error) {
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	f := repository.BookingFilter{UserID: actorID, ClassID: q.ClassID, Status: q.Status}
	if admin {
		f.UserID = q.UserID
	}
	return s.repos.Bookings.List(ctx, f, page, limit)
}

func lockClass(ctx context.Context, r *repository.Repositories, classID string) (*domain.Class, error) {
	if err := r.Bookings.LockClass(ctx, classID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("Class not found")
		}
		return nil, err
	}
	return r.Classes.FindActive(ctx, classID)
}

func checkSeat(ctx context.Context, r *repository.Repositories, class *domain.Class, userID string) error {
	taken, err := r.Bookings.HasLive(ctx, userID, class.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("User already has a booking for this class")
	}

	n, err := r.Bookings.CountLive(ctx, class.ID)
	if err != nil {
		return err
	}
	if n >= int64(class.Capacity) {
		return apperr.Conflict("Class is full")
	}
	return nil
}
