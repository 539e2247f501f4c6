package input

import (
	"context"
	"time"

	"hangoutbot/internal/domain/entities"
)

// TimeslotRequest carries one candidate time window. Start and End are UTC
// and End >= Start; callers filter invalid windows before reaching the
// engine.
type TimeslotRequest struct {
	Start       time.Time
	End         time.Time
	Description string
}

// SchedulingUseCase is the scheduling engine as seen by adapters.
type SchedulingUseCase interface {
	CreateEvent(ctx context.Context, title, description, creatorID, channelID string, deadline *time.Time, requests []TimeslotRequest) (*entities.Event, error)
	CreateDraftEvent(ctx context.Context, title, description, creatorID, channelID string) (*entities.Event, error)
	AddTimeslot(ctx context.Context, eventID int64, req TimeslotRequest) (*entities.Timeslot, error)
	FinalizeDraft(ctx context.Context, eventID int64) (*entities.Event, error)

	Vote(ctx context.Context, userID string, timeslotID int64, status string) error
	RemoveVote(ctx context.Context, userID string, timeslotID int64) error
	RemoveAllVotes(ctx context.Context, userID string, eventID int64) error
	CountAvailable(ctx context.Context, timeslotID int64) (int, error)

	CloseEvent(ctx context.Context, eventID int64) error
	SetEventDeadline(ctx context.Context, eventID int64, deadline time.Time) error
	SetEventMessageID(ctx context.Context, eventID int64, messageID string) error

	GetEventByID(ctx context.Context, id int64) (*entities.Event, error)
	GetEventByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	GetEventsByChannelAndStatus(ctx context.Context, channelID, status string) ([]entities.Event, error)
	GetActiveEventsForChannel(ctx context.Context, channelID string) ([]entities.Event, error)
	GetTimeslotsByEvent(ctx context.Context, eventID int64) ([]entities.Timeslot, error)
	FindTimeslotByEmoji(ctx context.Context, eventID int64, emoji string) (*entities.Timeslot, error)
	GetUserVotesForEvent(ctx context.Context, userID string, eventID int64) ([]entities.Availability, error)
	FindDueActiveEvents(ctx context.Context, now time.Time) ([]entities.Event, error)

	SetUserTimezone(ctx context.Context, userID, timezone string) error
	UserTimezoneOrDefault(ctx context.Context, userID string) string
}
