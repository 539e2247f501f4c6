package output

import (
	"context"

	"hangoutbot/internal/domain/entities"
)

type AvailabilityRepository interface {
	// Upsert creates the row for (UserID, TimeslotID) or overwrites its
	// status and vote timestamp.
	Upsert(ctx context.Context, availability *entities.Availability) error
	FindByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) (*entities.Availability, error)
	FindByEventIDAndUserID(ctx context.Context, eventID int64, userID string) ([]entities.Availability, error)
	CountAvailableByTimeslotID(ctx context.Context, timeslotID int64) (int, error)
	DeleteByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) error
	DeleteByEventIDAndUserID(ctx context.Context, eventID int64, userID string) error
	DeleteByTimeslotID(ctx context.Context, timeslotID int64) error
}
