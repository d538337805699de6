package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/event"
)

type EventService struct {
	db *pgxpool.Pool
}

func NewEventService(db *pgxpool.Pool) *EventService {
	return &EventService{db: db}
}

const eventColumns = `id, title, description, category, event_date, location,
	organizer, max_participants, current_participants, featured, created_at, updated_at`

func scanEvent(row pgx.Row) (*event.Event, error) {
	e := &event.Event{}
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Category,
		&e.EventDate,
		&e.Location,
		&e.Organizer,
		&e.MaxParticipants,
		&e.CurrentParticipants,
		&e.Featured,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns events, featured first then soonest first.
func (s *EventService) List(ctx context.Context, category string, limit int) ([]*event.Event, error) {
	if limit < 1 {
		limit = 10
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if category != "" && category != "all" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY featured DESC, event_date ASC LIMIT %d`, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Upcoming returns the next events with a date from now onward.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]*event.Event, error) {
	if limit < 1 {
		limit = 6
	}

	rows, err := s.db.Query(ctx, `
	SELECT `+eventColumns+` FROM events
	WHERE event_date >= $1
	ORDER BY featured DESC, event_date ASC
	LIMIT $2`, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (s *EventService) Create(ctx context.Context, req *event.CreateEventRequest) (*event.Event, error) {
	now := time.Now()
	e := &event.Event{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		EventDate:       req.EventDate,
		Location:        req.Location,
		Organizer:       req.Organizer,
		MaxParticipants: req.MaxParticipants,
		Featured:        req.Featured,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := s.db.Exec(ctx, `
	INSERT INTO events (id, title, description, category, event_date, location,
		organizer, max_participants, current_participants, featured, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $10)`,
		e.ID, e.Title, e.Description, e.Category, e.EventDate, e.Location,
		e.Organizer, e.MaxParticipants, e.Featured, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

// Register claims one spot. The capacity check and the increment happen in a
// single statement so concurrent registrations cannot oversell the event.
func (s *EventService) Register(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	tag, err := s.db.Exec(ctx, `
	UPDATE events SET current_participants = current_participants + 1, updated_at = $2
	WHERE id = $1 AND current_participants < max_participants`,
		id, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register for event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the event is missing or it is full.
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("event %s is full: %w", id, apperrors.ErrConflict)
	}
	return s.GetByID(ctx, id)
}
