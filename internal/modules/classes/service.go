package classes

import (
	"context"
	"errors"
	"strings"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"
)

const entity = "class"

type Service struct {
	repos *repository.Repositories
	coord *mutation.Coordinator
	bus   *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, bus: bus}
}

func (s *Service) Create(ctx context.Context, actorID string, req CreateClassRequest) (*domain.Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	class := &domain.Class{
		StudioID:            strings.TrimSpace(req.StudioID),
		RoomID:              strings.TrimSpace(req.RoomID),
		PrimaryInstructorID: strings.TrimSpace(req.PrimaryInstructorID),
		Name:                req.Name,
		Description:         strings.TrimSpace(req.Description),
		Type:                req.Type,
		Level:               strings.TrimSpace(req.Level),
		Capacity:            req.Capacity,
		Price:               *req.Price,
		Duration:            req.Duration,
		StartTime:           req.StartTime.UTC(),
		Recurring:           req.Recurring,
		RecurrencePattern:   strings.TrimSpace(req.RecurrencePattern),
		Status:              req.Status,
	}
	if class.Status == "" {
		class.Status = domain.ClassScheduled
	}
	if req.EndTime != nil {
		class.EndTime = req.EndTime.UTC()
	} else {
		class.EndTime = defaultEnd(class)
	}

	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		if err := check(ctx, r, class); err != nil {
			return err
		}
		return r.Classes.Create(ctx, class)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, class.ID, actorID, nil)
	return class, nil
}

// Update merges the request into the stored class and re-checks every
// rule against the result. Changing the start or duration without an end
// moves the end accordingly.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateClassRequest) (*domain.Class, error) {
	if id == "" {
		return nil, apperr.Validation("Class ID is required")
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var out *domain.Class
	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		current, err := r.Classes.FindActive(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		fields := map[string]any{}
		if req.RoomID != nil {
			next.RoomID = strings.TrimSpace(*req.RoomID)
			fields["room_id"] = next.RoomID
			// studio follows the room
			next.StudioID = ""
		}
		if req.PrimaryInstructorID != nil {
			next.PrimaryInstructorID = strings.TrimSpace(*req.PrimaryInstructorID)
			fields["primary_instructor_id"] = next.PrimaryInstructorID
		}
		if req.Name != nil {
			next.Name = strings.TrimSpace(*req.Name)
			fields["name"] = next.Name
		}
		if req.Description != nil {
			next.Description = strings.TrimSpace(*req.Description)
			fields["description"] = next.Description
		}
		if req.Type != nil {
			next.Type = strings.TrimSpace(*req.Type)
			fields["type"] = next.Type
		}
		if req.Level != nil {
			next.Level = strings.TrimSpace(*req.Level)
			fields["level"] = next.Level
		}
		if req.Capacity != nil {
			next.Capacity = *req.Capacity
			fields["capacity"] = next.Capacity
		}
		if req.Price != nil {
			next.Price = *req.Price
			fields["price"] = next.Price
		}
		if req.Duration != nil {
			next.Duration = *req.Duration
			fields["duration"] = next.Duration
		}
		if req.StartTime != nil {
			next.StartTime = req.StartTime.UTC()
			fields["start_time"] = next.StartTime
		}
		if req.EndTime != nil {
			next.EndTime = req.EndTime.UTC()
			fields["end_time"] = next.EndTime
		} else if req.StartTime != nil || req.Duration != nil {
			next.EndTime = defaultEnd(&next)
			fields["end_time"] = next.EndTime
		}
		if req.Recurring != nil {
			next.Recurring = *req.Recurring
			fields["recurring"] = next.Recurring
		}
		if req.RecurrencePattern != nil {
			next.RecurrencePattern = strings.TrimSpace(*req.RecurrencePattern)
			fields["recurrence_pattern"] = next.RecurrencePattern
		}
		if req.Status != nil {
			next.Status = *req.Status
			fields["status"] = next.Status
		}

		if len(fields) == 0 {
			out = current
			return nil
		}
		if err := check(ctx, r, &next); err != nil {
			return err
		}
		if next.StudioID != current.StudioID {
			fields["studio_id"] = next.StudioID
		}

		out, err = r.Classes.Update(ctx, id, fields)
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
		return mutation.Cascade{}, apperr.Validation("Class ID is required")
	}
	res, err := s.coord.DeleteClass(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Class, error) {
	if includeDeleted {
		return s.repos.Classes.FindAny(ctx, id)
	}
	return s.repos.Classes.FindActive(ctx, id)
}

func (s *Service) List(ctx context.Context, f repository.ClassFilter, page, limit int) ([]domain.Class, int64, error) {
	return s.repos.Classes.List(ctx, f, page, limit)
}

// check validates c against its room, studio and instructor. An empty
// StudioID is filled from the room.
func check(ctx context.Context, r *repository.Repositories, c *domain.Class) error {
	if c.Name == "" {
		return apperr.Validation("name is required")
	}
	if c.Type == "" {
		return apperr.Validation("type is required")
	}
	if c.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	if !c.EndTime.After(c.StartTime) {
		return apperr.Validation("endTime must be after startTime")
	}
	if !c.Status.Valid() || c.Status == domain.ClassDeleted {
		return apperr.Validation("status is invalid")
	}

	room, err := r.Rooms.FindActive(ctx, c.RoomID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("Room not found")
		}
		return err
	}
	if c.StudioID == "" {
		c.StudioID = room.StudioID
	} else if c.StudioID != room.StudioID {
		return apperr.Validation("Room does not belong to the studio")
	}
	if c.Capacity > room.Capacity {
		return apperr.Validation("capacity cannot exceed the room capacity of %d", room.Capacity)
	}

	if _, err := r.Users.FindActive(ctx, c.PrimaryInstructorID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("Instructor not found")
		}
		return err
	}
	return nil
}

func defaultEnd(c *domain.Class) time.Time {
	return c.StartTime.Add(time.Duration(c.Duration) * time.Minute)
}
