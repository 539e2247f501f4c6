package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = "id, title, description, creator_id, channel_id, message_id, created_at, deadline, status"

func scanEvent(row pgx.Row) (*entities.Event, error) {
	var e entities.Event
	var description, messageID pgtype.Text
	var createdAt, deadline pgtype.Timestamptz
	err := row.Scan(&e.ID, &e.Title, &description, &e.CreatorID, &e.ChannelID, &messageID, &createdAt, &deadline, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	e.Description = pgtypeTextToString(description)
	e.MessageID = pgtypeTextToString(messageID)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	e.Deadline = pgtypeTimestamptzToTimePtr(deadline)
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]entities.Event, error) {
	defer rows.Close()
	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	err := r.db.conn(ctx).QueryRow(ctx, `
		INSERT INTO events (title, description, creator_id, channel_id, message_id, created_at, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		event.Title,
		stringToPgtypeText(event.Description),
		event.CreatorID,
		event.ChannelID,
		stringToPgtypeText(event.MessageID),
		pgtype.Timestamptz{Time: event.CreatedAt, Valid: true},
		timePtrToPgtype(event.Deadline),
		event.Status,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*entities.Event, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1", id)
	return scanEvent(row)
}

func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Event, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1 FOR UPDATE", id)
	return scanEvent(row)
}

func (r *EventRepository) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE message_id = $1", messageID)
	return scanEvent(row)
}

func (r *EventRepository) FindByChannelIDAndStatus(ctx context.Context, channelID, status string) ([]entities.Event, error) {
	rows, err := r.db.conn(ctx).Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE channel_id = $1 AND status = $2 ORDER BY created_at DESC",
		channelID, status)
	if err != nil {
		return nil, fmt.Errorf("events by channel and status: %w", err)
	}
	return scanEvents(rows)
}

func (r *EventRepository) FindDueActiveEvents(ctx context.Context, now time.Time) ([]entities.Event, error) {
	rows, err := r.db.conn(ctx).Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE status = 'ACTIVE' AND deadline IS NOT NULL AND deadline <= $1",
		pgtype.Timestamptz{Time: now, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("due active events: %w", err)
	}
	return scanEvents(rows)
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.conn(ctx).Exec(ctx, "UPDATE events SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) UpdateMessageID(ctx context.Context, id int64, messageID string) error {
	tag, err := r.db.conn(ctx).Exec(ctx, "UPDATE events SET message_id = $2 WHERE id = $1",
		id, stringToPgtypeText(messageID))
	if err != nil {
		return fmt.Errorf("update event message id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) UpdateDeadline(ctx context.Context, id int64, deadline time.Time) error {
	tag, err := r.db.conn(ctx).Exec(ctx, "UPDATE events SET deadline = $2 WHERE id = $1",
		id, pgtype.Timestamptz{Time: deadline, Valid: true})
	if err != nil {
		return fmt.Errorf("update event deadline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete removes the event; timeslots and availabilities go with it via
// ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.conn(ctx).Exec(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
