package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, title, description, event_date, start_time, location,
	category, capacity, organizer_id, status, created_at, updated_at`

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime,
		&e.Location, &e.Category, &e.Capacity, &e.OrganizerID, &e.Status,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, event_date, start_time, location,
			category, capacity, organizer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Description, e.Date, e.StartTime, e.Location,
		e.Category, e.Capacity, e.OrganizerID, e.Status)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadAttendees(ctx, []*entity.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) ListPublished(ctx context.Context) ([]entity.Event, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = 'Published'
		ORDER BY event_date ASC, created_at ASC
	`)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]entity.Event, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE organizer_id = $1
		ORDER BY event_date ASC, created_at ASC
	`, organizerID)
}

func (r *EventRepository) ListByAttendee(ctx context.Context, userID string) ([]entity.Event, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+` FROM events e
		JOIN event_attendees a ON a.event_id = e.id
		WHERE a.user_id = $1
		ORDER BY e.event_date ASC, e.created_at ASC
	`, userID)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]entity.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []entity.Event
	for rows.Next() {
		var e entity.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime,
			&e.Location, &e.Category, &e.Capacity, &e.OrganizerID, &e.Status,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*entity.Event, len(events))
	for i := range events {
		refs[i] = &events[i]
	}
	if err := r.loadAttendees(ctx, refs); err != nil {
		return nil, err
	}
	return events, nil
}

// loadAttendees fills AttendeeIDs for the given events, ordered by join time.
func (r *EventRepository) loadAttendees(ctx context.Context, events []*entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	byID := make(map[string]*entity.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	rows, err := r.pool.Query(ctx, `
		SELECT event_id, user_id FROM event_attendees
		WHERE event_id = ANY($1)
		ORDER BY joined_at ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, userID string
		if err := rows.Scan(&eventID, &userID); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.AttendeeIDs = append(e.AttendeeIDs, userID)
		}
	}
	return rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title = $1, description = $2, event_date = $3, start_time = $4,
			location = $5, category = $6, capacity = $7, status = $8,
			updated_at = now()
		WHERE id = $9
	`, e.Title, e.Description, e.Date, e.StartTime, e.Location,
		e.Category, e.Capacity, e.Status, e.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddAttendee registers a user inside one transaction.
//
// The event row is locked with SELECT ... FOR UPDATE before the published,
// duplicate and capacity checks, so two near-simultaneous registrations
// against the last open spot serialize at the database: the loser re-reads
// after the winner's commit and fails its capacity check. A plain
// read-then-insert pair would let both through.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID string) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status entity.Status
	var capacity int
	err = tx.QueryRow(ctx, `
		SELECT status, capacity FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventID).Scan(&status, &capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	if status != entity.StatusPublished {
		return apperr.ErrEventNotPublished
	}

	var already bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)
	`, eventID, userID).Scan(&already)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if already {
		return apperr.ErrAlreadyRegistered
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM event_attendees WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return fmt.Errorf("count attendees: %w", err)
	}
	if count >= capacity {
		return apperr.ErrEventFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2)
	`, eventID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert attendee: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)
		`, eventID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.ErrNotFound
		}
		return apperr.ErrNotRegistered
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
