package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"eventboard/internal/domain"
)

// EventAPI is the part of Client the event store needs.
type EventAPI interface {
	CreateEvent(ctx context.Context, in EventInput) (*domain.EventDetails, error)
	ListEvents(ctx context.Context) ([]domain.EventDetails, error)
	GetEvent(ctx context.Context, id string) (*domain.EventDetails, error)
	UpdateEvent(ctx context.Context, id string, in EventUpdate) (*domain.EventDetails, error)
	DeleteEvent(ctx context.Context, id string) error
	Attend(ctx context.Context, id string) (*domain.EventDetails, error)
	Unattend(ctx context.Context, id string) (*domain.EventDetails, error)
}

// Filter narrows the event list. Empty fields don't constrain.
type Filter struct {
	Host string
	Date string
}

// Stats are the dashboard counters.
type Stats struct {
	Total    int
	Upcoming int
	Joined   int
}

// dateLayouts are tried in order when deciding whether an event is upcoming.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// FilterEvents keeps events whose host name contains f.Host (case-insensitive)
// and whose date equals f.Date.
func FilterEvents(events []domain.EventDetails, f Filter) []domain.EventDetails {
	host := strings.ToLower(strings.TrimSpace(f.Host))
	date := strings.TrimSpace(f.Date)
	out := make([]domain.EventDetails, 0, len(events))
	for _, e := range events {
		if host != "" && !strings.Contains(strings.ToLower(e.Host.Name), host) {
			continue
		}
		if date != "" && e.Date != date {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsUpcoming reports whether the event date parses and is after now.
func IsUpcoming(e domain.EventDetails, now time.Time) bool {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, e.Date, now.Location()); err == nil {
			return t.After(now)
		}
	}
	return false
}

// EventStore caches the event list and the active filter.
type EventStore struct {
	api EventAPI

	mu        sync.RWMutex
	events    []domain.EventDetails
	filter    Filter
	listeners listeners[[]domain.EventDetails]
}

func NewEventStore(api EventAPI) *EventStore {
	return &EventStore{api: api, events: []domain.EventDetails{}}
}

// Load replaces the cache with the server list.
func (s *EventStore) Load(ctx context.Context) error {
	events, err := s.api.ListEvents(ctx)
	if err != nil {
		return err
	}
	s.mutate(func() {
		s.events = append([]domain.EventDetails{}, events...)
	})
	return nil
}

// Create appends the event returned by the server.
func (s *EventStore) Create(ctx context.Context, in EventInput) (*domain.EventDetails, error) {
	created, err := s.api.CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mutate(func() {
		s.events = append(s.events, *created)
	})
	return created, nil
}

// Fetch loads one event from the server and caches it, appending it when
// the cache doesn't hold it yet.
func (s *EventStore) Fetch(ctx context.Context, id string) (*domain.EventDetails, error) {
	fetched, err := s.api.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mutate(func() {
		for i := range s.events {
			if s.events[i].ID == fetched.ID {
				s.events[i] = *fetched
				return
			}
		}
		s.events = append(s.events, *fetched)
	})
	return fetched, nil
}

func (s *EventStore) Update(ctx context.Context, id string, in EventUpdate) (*domain.EventDetails, error) {
	return s.replace(s.api.UpdateEvent(ctx, id, in))
}

func (s *EventStore) Attend(ctx context.Context, id string) (*domain.EventDetails, error) {
	return s.replace(s.api.Attend(ctx, id))
}

func (s *EventStore) Unattend(ctx context.Context, id string) (*domain.EventDetails, error) {
	return s.replace(s.api.Unattend(ctx, id))
}

// Delete removes the event from the cache once the server confirms.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.mutate(func() {
		kept := s.events[:0:0]
		for _, e := range s.events {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		s.events = kept
	})
	return nil
}

// Reset empties the cache and clears the filter.
func (s *EventStore) Reset() {
	s.mutate(func() {
		s.events = []domain.EventDetails{}
		s.filter = Filter{}
	})
}

func (s *EventStore) SetFilter(f Filter) {
	s.mutate(func() { s.filter = f })
}

func (s *EventStore) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Events returns a copy of the cached list.
func (s *EventStore) Events() []domain.EventDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EventDetails{}, s.events...)
}

// Get looks an event up in the cache.
func (s *EventStore) Get(id string) (domain.EventDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.EventDetails{}, false
}

// Filtered applies the active filter to the cache.
func (s *EventStore) Filtered() []domain.EventDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterEvents(s.events, s.filter)
}

// Mine returns the events userID hosts, ignoring the filter.
func (s *EventStore) Mine(userID string) []domain.EventDetails {
	return s.where(s.Events(), func(e domain.EventDetails) bool { return e.Host.ID == userID })
}

// Others returns the filtered events hosted by someone other than userID.
func (s *EventStore) Others(userID string) []domain.EventDetails {
	return s.where(s.Filtered(), func(e domain.EventDetails) bool { return e.Host.ID != userID })
}

// Joined returns the filtered events userID attends, hosted ones included.
func (s *EventStore) Joined(userID string) []domain.EventDetails {
	return s.where(s.Filtered(), func(e domain.EventDetails) bool { return e.HasAttendee(userID) })
}

// Upcoming returns the filtered events dated after now.
func (s *EventStore) Upcoming(now time.Time) []domain.EventDetails {
	return s.where(s.Filtered(), func(e domain.EventDetails) bool { return IsUpcoming(e, now) })
}

// Stats counts over Others(userID), the list the dashboard shows.
func (s *EventStore) Stats(userID string, now time.Time) Stats {
	others := s.Others(userID)
	st := Stats{Total: len(others)}
	for _, e := range others {
		if IsUpcoming(e, now) {
			st.Upcoming++
		}
		if e.HasAttendee(userID) {
			st.Joined++
		}
	}
	return st
}

// Subscribe registers fn to be called with the full list after every change.
func (s *EventStore) Subscribe(fn func([]domain.EventDetails)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners.add(&s.mu, fn)
}

func (s *EventStore) where(events []domain.EventDetails, keep func(domain.EventDetails) bool) []domain.EventDetails {
	out := make([]domain.EventDetails, 0, len(events))
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *EventStore) replace(updated *domain.EventDetails, err error) (*domain.EventDetails, error) {
	if err != nil {
		return nil, err
	}
	s.mutate(func() {
		for i := range s.events {
			if s.events[i].ID == updated.ID {
				s.events[i] = *updated
				return
			}
		}
	})
	return updated, nil
}

func (s *EventStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := append([]domain.EventDetails{}, s.events...)
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	for _, l := range fns {
		l(snapshot)
	}
}
