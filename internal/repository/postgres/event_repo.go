package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event row and the host's attendee row in one transaction.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insertEvent := `
		INSERT INTO events (id, title, description, date, host_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err = tx.ExecContext(ctx, insertEvent, e.ID, e.Title, e.Description, e.Date, e.HostID, e.CreatedAt, e.UpdatedAt); err != nil {
		return err
	}

	insertHost := `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err = tx.ExecContext(ctx, insertHost, e.ID, e.HostID, e.CreatedAt); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	e.AttendeeIDs = []string{e.HostID}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, date, host_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.HostID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == codeInvalidTextRepresentation {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY created_at, user_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	e.AttendeeIDs = make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		e.AttendeeIDs = append(e.AttendeeIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

const detailsSelect = `
		SELECT e.id, e.title, e.description, e.date, e.created_at, e.updated_at,
		       h.id, h.username, h.name
		FROM events e
		JOIN users h ON h.id = e.host_id
`

func scanDetails(scan func(dest ...any) error) (*domain.EventDetails, error) {
	d := &domain.EventDetails{}
	err := scan(
		&d.ID, &d.Title, &d.Description, &d.Date, &d.CreatedAt, &d.UpdatedAt,
		&d.Host.ID, &d.Host.Username, &d.Host.Name,
	)
	if err != nil {
		return nil, err
	}
	d.Attendees = []domain.Participant{}
	return d, nil
}

func (r *eventRepository) GetDetails(ctx context.Context, id string) (*domain.EventDetails, error) {
	query := detailsSelect + `WHERE e.id = $1`
	d, err := scanDetails(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == codeInvalidTextRepresentation {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	if err := r.attachAttendees(ctx, []*domain.EventDetails{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *eventRepository) ListDetails(ctx context.Context) ([]*domain.EventDetails, error) {
	query := detailsSelect + `ORDER BY e.created_at, e.id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventDetails, 0)
	for rows.Next() {
		d, err := scanDetails(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}
	if err := r.attachAttendees(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// attachAttendees loads the attendees of all given events with a single query.
func (r *eventRepository) attachAttendees(ctx context.Context, events []*domain.EventDetails) error {
	byID := make(map[string]*domain.EventDetails, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	query := `
		SELECT a.event_id, u.id, u.username, u.name
		FROM event_attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = ANY($1)
		ORDER BY a.event_id, a.created_at, u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var p domain.Participant
		if err := rows.Scan(&eventID, &p.ID, &p.Username, &p.Name); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.Attendees = append(e.Attendees, p)
		}
	}
	return rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *patch.Date)
		n++
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if pqCode(err) == codeInvalidTextRepresentation {
			return domain.ErrEventNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete removes the event; attendee rows go with it via ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if pqCode(err) == codeInvalidTextRepresentation {
			return domain.ErrEventNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AddAttendee relies on the (event_id, user_id) primary key: two concurrent attends
// for the same pair insert exactly one row and the loser sees zero rows affected.
func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return domain.ErrEventNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyAttending
	}
	return nil
}

// RemoveAttendee deletes the membership unless userID is the event's host.
// When nothing is deleted it reports ErrEventNotFound if the event row is gone
// and ErrNotAttending otherwise.
func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	query := `
		DELETE FROM event_attendees a
		USING events e
		WHERE a.event_id = e.id
		  AND a.event_id = $1
		  AND a.user_id = $2
		  AND a.user_id <> e.host_id
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqCode(err) == codeInvalidTextRepresentation {
			return domain.ErrEventNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return domain.ErrNotAttending
}
