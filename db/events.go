package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planpal/planpal-services/models"
)

const eventColumns = `id, group_id, title, description, date, location, creator, created_at`

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(&e.ID, &e.Group, &e.Title, &e.Description, &e.Date, &e.Location, &e.Creator, &e.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

// CreateEvent inserts an event into its group.
func (p *PlanDB) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC()

	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO events (id, group_id, title, description, date, location, creator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Group, event.Title, event.Description, event.Date, event.Location, event.Creator, event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting event: %w", mapErr(err))
	}

	p.Log.Info().Str("event_id", event.ID).Str("group_id", event.Group).Msg("Event created successfully")
	return &event, nil
}

// GetEvent retrieves a single event.
func (p *PlanDB) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
	return scanEvent(row)
}

// GetGroupEvents retrieves the events of a group ordered by date.
func (p *PlanDB) GetGroupEvents(ctx context.Context, groupID string) ([]models.Event, error) {
	return p.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE group_id = $1 ORDER BY date`, groupID)
}

// UpdateEvent replaces the editable fields of an event.
func (p *PlanDB) UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	row := p.DB.QueryRowContext(ctx, `
		UPDATE events SET title = $1, description = $2, date = $3, location = $4, reminded_at = NULL
		WHERE id = $5
		RETURNING `+eventColumns,
		req.Title, req.Description, req.Date, req.Location, eventID)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event, nil
}

// DeleteEvent deletes a single event.
func (p *PlanDB) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("error executing delete query: %w", mapErr(err))
	}
	return requireAffected(res)
}

// GetUpcomingEvents returns events dated in [from, to) that have not had a
// reminder sent yet.
func (p *PlanDB) GetUpcomingEvents(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return p.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE date >= $1 AND date < $2 AND reminded_at IS NULL
		ORDER BY date`, from, to)
}

// MarkReminded records that a reminder was sent for the event.
func (p *PlanDB) MarkReminded(ctx context.Context, eventID string, at time.Time) error {
	res, err := p.DB.ExecContext(ctx, `UPDATE events SET reminded_at = $1 WHERE id = $2`, at, eventID)
	if err != nil {
		return fmt.Errorf("error marking event reminded: %w", mapErr(err))
	}
	return requireAffected(res)
}

func (p *PlanDB) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving events: %w", mapErr(err))
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning events: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
