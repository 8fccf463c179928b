package rooms

import (
	"context"
	"errors"
	"strings"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"
)

const entity = "room"

type Service struct {
	repos *repository.Repositories
	coord *mutation.Coordinator
	bus   *events.Bus
}

func NewService(repos *repository.Repositories, coord *mutation.Coordinator, bus *events.Bus) *Service {
	return &Service{repos: repos, coord: coord, bus: bus}
}

func (s *Service) Create(ctx context.Context, actorID string, req CreateRoomRequest) (*domain.Room, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	room := &domain.Room{
		StudioID:    strings.TrimSpace(req.StudioID),
		Name:        req.Name,
		Capacity:    req.Capacity,
		Amenities:   strings.TrimSpace(req.Amenities),
		Description: strings.TrimSpace(req.Description),
	}

	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		if _, err := r.Studios.FindActive(ctx, room.StudioID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Validation("Studio not found")
			}
			return err
		}
		return r.Rooms.Create(ctx, room)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.TypeCreated, entity, room.ID, actorID, nil)
	return room, nil
}

// Update changes the room. Capacity cannot drop below the capacity of any
// active class scheduled in it.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateRoomRequest) (*domain.Room, error) {
	if id == "" {
		return nil, apperr.Validation("Room ID is required")
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
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.Amenities != nil {
		fields["amenities"] = strings.TrimSpace(*req.Amenities)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}

	var out *domain.Room
	err := s.coord.Run(ctx, func(r *repository.Repositories) error {
		var err error
		if len(fields) == 0 {
			out, err = r.Rooms.FindActive(ctx, id)
			return err
		}
		if req.Capacity != nil {
			if _, err := r.Rooms.FindActive(ctx, id); err != nil {
				return err
			}
			floor, err := r.Classes.MaxCapacityInRoom(ctx, id)
			if err != nil {
				return err
			}
			if *req.Capacity < floor {
				return apperr.Validation("capacity cannot be below %d, the capacity of a class in this room", floor)
			}
		}
		out, err = r.Rooms.Update(ctx, id, fields)
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
		return mutation.Cascade{}, apperr.Validation("Room ID is required")
	}
	res, err := s.coord.DeleteRoom(ctx, id)
	if err != nil {
		return res, err
	}

	s.bus.Emit(ctx, events.TypeDeleted, entity, id, actorID, res)
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Room, error) {
	if includeDeleted {
		return s.repos.Rooms.FindAny(ctx, id)
	}
	return s.repos.Rooms.FindActive(ctx, id)
}

func (s *Service) List(ctx context.Context, studioID string, page, limit int) ([]domain.Room, int64, error) {
	return s.repos.Rooms.List(ctx, studioID, page, limit)
}
