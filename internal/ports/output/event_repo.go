package output

import (
	"context"
	"time"

	"hangoutbot/internal/domain/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id int64) (*entities.Event, error)
	// FindByIDForUpdate locks the event row for the duration of the
	// surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Event, error)
	FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	FindByChannelIDAndStatus(ctx context.Context, channelID, status string) ([]entities.Event, error)
	FindDueActiveEvents(ctx context.Context, now time.Time) ([]entities.Event, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateMessageID(ctx context.Context, id int64, messageID string) error
	UpdateDeadline(ctx context.Context, id int64, deadline time.Time) error
	Delete(ctx context.Context, id int64) error
}
