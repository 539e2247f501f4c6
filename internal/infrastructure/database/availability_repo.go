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

var _ output.AvailabilityRepository = (*AvailabilityRepository)(nil)

type AvailabilityRepository struct {
	db *DB
}

func NewAvailabilityRepository(db *DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const availabilityColumns = "id, user_id, event_id, timeslot_id, status, voted_at"

func scanAvailability(row pgx.Row) (*entities.Availability, error) {
	var a entities.Availability
	var votedAt pgtype.Timestamptz
	err := row.Scan(&a.ID, &a.UserID, &a.EventID, &a.TimeslotID, &a.Status, &votedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimeslotNotFound
		}
		return nil, err
	}
	a.VotedAt = pgtypeTimestamptzToTime(votedAt)
	return &a, nil
}

// Upsert relies on the unique (user_id, timeslot_id) constraint: a repeat
// vote overwrites status and timestamp, last write wins.
func (r *AvailabilityRepository) Upsert(ctx context.Context, a *entities.Availability) error {
	err := r.db.conn(ctx).QueryRow(ctx, `
		INSERT INTO availabilities (user_id, event_id, timeslot_id, status, voted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, timeslot_id)
		DO UPDATE SET status = EXCLUDED.status, voted_at = EXCLUDED.voted_at
		RETURNING id`,
		a.UserID,
		a.EventID,
		a.TimeslotID,
		a.Status,
		pgtype.Timestamptz{Time: a.VotedAt, Valid: true},
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) FindByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) (*entities.Availability, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT "+availabilityColumns+" FROM availabilities WHERE user_id = $1 AND timeslot_id = $2",
		userID, timeslotID)
	return scanAvailability(row)
}

func (r *AvailabilityRepository) FindByEventIDAndUserID(ctx context.Context, eventID int64, userID string) ([]entities.Availability, error) {
	rows, err := r.db.conn(ctx).Query(ctx,
		"SELECT "+availabilityColumns+" FROM availabilities WHERE event_id = $1 AND user_id = $2 ORDER BY timeslot_id",
		eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("availabilities by event and user: %w", err)
	}
	defer rows.Close()
	var out []entities.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AvailabilityRepository) CountAvailableByTimeslotID(ctx context.Context, timeslotID int64) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRow(ctx,
		"SELECT COUNT(*) FROM availabilities WHERE timeslot_id = $1 AND status = 'AVAILABLE'",
		timeslotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count available: %w", err)
	}
	return count, nil
}

func (r *AvailabilityRepository) DeleteByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) error {
	_, err := r.db.conn(ctx).Exec(ctx,
		"DELETE FROM availabilities WHERE user_id = $1 AND timeslot_id = $2", userID, timeslotID)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) DeleteByEventIDAndUserID(ctx context.Context, eventID int64, userID string) error {
	_, err := r.db.conn(ctx).Exec(ctx,
		"DELETE FROM availabilities WHERE event_id = $1 AND user_id = $2", eventID, userID)
	if err != nil {
		return fmt.Errorf("delete availabilities for user: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) DeleteByTimeslotID(ctx context.Context, timeslotID int64) error {
	_, err := r.db.conn(ctx).Exec(ctx,
		"DELETE FROM availabilities WHERE timeslot_id = $1", timeslotID)
	if err != nil {
		return fmt.Errorf("delete availabilities for timeslot: %w", err)
	}
	return nil
}
