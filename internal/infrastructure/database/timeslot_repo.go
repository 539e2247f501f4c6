package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/output"
)

var _ output.TimeslotRepository = (*TimeslotRepository)(nil)

type TimeslotRepository struct {
	db *DB
}

func NewTimeslotRepository(db *DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

const timeslotColumns = "id, event_id, start_time, end_time, description, emoji"

func scanTimeslot(row pgx.Row) (*entities.Timeslot, error) {
	var t entities.Timeslot
	var description pgtype.Text
	var start, end pgtype.Timestamptz
	err := row.Scan(&t.ID, &t.EventID, &start, &end, &description, &t.Emoji)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimeslotNotFound
		}
		return nil, err
	}
	t.StartTime = pgtypeTimestamptzToTime(start)
	t.EndTime = pgtypeTimestamptzToTime(end)
	t.Description = pgtypeTextToString(description)
	return &t, nil
}

func (r *TimeslotRepository) Create(ctx context.Context, slot *entities.Timeslot) error {
	err := r.db.conn(ctx).QueryRow(ctx, `
		INSERT INTO timeslots (event_id, start_time, end_time, description, emoji)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		slot.EventID,
		pgtype.Timestamptz{Time: slot.StartTime, Valid: true},
		pgtype.Timestamptz{Time: slot.EndTime, Valid: true},
		stringToPgtypeText(slot.Description),
		slot.Emoji,
	).Scan(&slot.ID)
	if err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

func (r *TimeslotRepository) FindByID(ctx context.Context, id int64) (*entities.Timeslot, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+timeslotColumns+" FROM timeslots WHERE id = $1", id)
	return scanTimeslot(row)
}

// FindByEventID orders by id, which is creation order. Finalize's
// tie-break depends on this.
func (r *TimeslotRepository) FindByEventID(ctx context.Context, eventID int64) ([]entities.Timeslot, error) {
	rows, err := r.db.conn(ctx).Query(ctx,
		"SELECT "+timeslotColumns+" FROM timeslots WHERE event_id = $1 ORDER BY id", eventID)
	if err != nil {
		return nil, fmt.Errorf("timeslots by event: %w", err)
	}
	defer rows.Close()
	var out []entities.Timeslot
	for rows.Next() {
		t, err := scanTimeslot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// FindByEventIDAndEmoji resolves a reaction marker. Markers saturate past
// ten slots, so the same emoji can appear twice; the earliest-created slot
// wins the lookup.
func (r *TimeslotRepository) FindByEventIDAndEmoji(ctx context.Context, eventID int64, emoji string) (*entities.Timeslot, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+timeslotColumns+" FROM timeslots WHERE event_id = $1 AND emoji = $2 ORDER BY id LIMIT 1",
		eventID, emoji)
	return scanTimeslot(row)
}

func (r *TimeslotRepository) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRow(ctx,
		"SELECT COUNT(*) FROM timeslots WHERE event_id = $1", eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count timeslots: %w", err)
	}
	return count, nil
}

func (r *TimeslotRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.conn(ctx).Exec(ctx, "DELETE FROM timeslots WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
