package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventboard/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, callerID, title, description, date string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	date = strings.TrimSpace(date)
	if title == "" || date == "" {
		return nil, domain.ValidationError("title and date are required")
	}

	now := s.now()
	event := domain.NewEvent(title, strings.TrimSpace(description), date, callerID, now, now)
	event.ID = uuid.NewString()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.details(ctx, event.ID)
}

func (s *eventService) Get(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.details(ctx, eventID)
}

func (s *eventService) List(ctx context.Context) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.EventDetails{}
	}
	return events, nil
}

// Update applies the non-empty title and date and any provided description.
// Only the host may update.
func (s *eventService) Update(ctx context.Context, eventID, callerID string, patch domain.EventPatch) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != callerID {
		return nil, domain.ErrNotHost
	}

	if err := s.eventRepo.Update(ctx, eventID, normalizePatch(patch)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.details(ctx, eventID)
}

// normalizePatch drops blank title and date so they keep their stored values.
func normalizePatch(p domain.EventPatch) domain.EventPatch {
	var out domain.EventPatch
	if p.Title != nil {
		if t := strings.TrimSpace(*p.Title); t != "" {
			out.Title = &t
		}
	}
	if p.Date != nil {
		if d := strings.TrimSpace(*p.Date); d != "" {
			out.Date = &d
		}
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		out.Description = &d
	}
	return out
}

func (s *eventService) Delete(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, eventID)
	if err != nil {
		return err
	}
	if event.HostID != callerID {
		return domain.ErrNotHost
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Attend(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasAttendee(callerID) {
		return nil, domain.ErrAlreadyAttending
	}
	// The repository re-checks membership atomically; a lost race surfaces as
	// ErrAlreadyAttending here too.
	if err := s.eventRepo.AddAttendee(ctx, eventID, callerID); err != nil {
		if errors.Is(err, domain.ErrAlreadyAttending) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("attend event: %w", err)
	}
	return s.details(ctx, eventID)
}

func (s *eventService) Unattend(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID == callerID {
		return nil, domain.ErrHostCannotUnattend
	}
	if !event.HasAttendee(callerID) {
		return nil, domain.ErrNotAttending
	}
	if err := s.eventRepo.RemoveAttendee(ctx, eventID, callerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		if errors.Is(err, domain.ErrNotAttending) {
			return nil, err
		}
		return nil, fmt.Errorf("unattend event: %w", err)
	}
	return s.details(ctx, eventID)
}

func (s *eventService) load(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) details(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	d, err := s.eventRepo.GetDetails(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event details: %w", err)
	}
	return d, nil
}
