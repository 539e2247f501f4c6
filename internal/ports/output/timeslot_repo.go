package output

import (
	"context"

	"hangoutbot/internal/domain/entities"
)

type TimeslotRepository interface {
	Create(ctx context.Context, slot *entities.Timeslot) error
	FindByID(ctx context.Context, id int64) (*entities.Timeslot, error)
	// FindByEventID returns the event's timeslots in creation order.
	FindByEventID(ctx context.Context, eventID int64) ([]entities.Timeslot, error)
	FindByEventIDAndEmoji(ctx context.Context, eventID int64, emoji string) (*entities.Timeslot, error)
	CountByEventID(ctx context.Context, eventID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}
