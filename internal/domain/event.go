package domain

import (
	"context"
	"time"
)

// Event is the stored form of an event. AttendeeIDs always contains HostID.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	HostID      string    `json:"host_id"`
	AttendeeIDs []string  `json:"attendee_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event hosted by hostID. The host is its first attendee.
func NewEvent(title, description, date, hostID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		HostID:      hostID,
		AttendeeIDs: []string{hostID},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// HasAttendee reports whether userID is in the attendee set.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Participant is the public view of a user attached to an event.
// swagger:model Participant
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// EventDetails is an event with host and attendees resolved to display data.
// swagger:model EventDetails
type EventDetails struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
	Host        Participant   `json:"host"`
	Attendees   []Participant `json:"attendees"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HasAttendee reports whether userID is among the attendees.
func (e *EventDetails) HasAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// EventPatch holds the optional fields of an update. Nil means keep the current value.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create stores the event and its host attendee atomically.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetDetails(ctx context.Context, id string) (*EventDetails, error)
	ListDetails(ctx context.Context) ([]*EventDetails, error)
	Update(ctx context.Context, id string, patch EventPatch) error
	Delete(ctx context.Context, id string) error
	// AddAttendee returns ErrAlreadyAttending when the pair already exists.
	AddAttendee(ctx context.Context, eventID, userID string) error
	// RemoveAttendee never removes the host; it returns ErrNotAttending when no row was removed.
	RemoveAttendee(ctx context.Context, eventID, userID string) error
}

// EventService enforces host and membership rules on top of EventRepository.
// callerID is always the authenticated user resolved by the session gate.
type EventService interface {
	Create(ctx context.Context, callerID, title, description, date string) (*EventDetails, error)
	Get(ctx context.Context, eventID string) (*EventDetails, error)
	List(ctx context.Context) ([]*EventDetails, error)
	Update(ctx context.Context, eventID, callerID string, patch EventPatch) (*EventDetails, error)
	Delete(ctx context.Context, eventID, callerID string) error
	Attend(ctx context.Context, eventID, callerID string) (*EventDetails, error)
	Unattend(ctx context.Context, eventID, callerID string) (*EventDetails, error)
}
