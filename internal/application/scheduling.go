package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/input"
	"hangoutbot/internal/ports/output"
)

// numberEmojis is the fixed marker alphabet. Slot n gets numberEmojis[n];
// slots past the end all get the last symbol (saturation, not an error).
var numberEmojis = [...]string{
	"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟",
}

func emojiForIndex(i int) string {
	if i >= len(numberEmojis) {
		i = len(numberEmojis) - 1
	}
	return numberEmojis[i]
}

// SchedulingService owns the event/timeslot lifecycle and vote bookkeeping.
type SchedulingService struct {
	eventRepo        output.EventRepository
	timeslotRepo     output.TimeslotRepository
	availabilityRepo output.AvailabilityRepository
	userRepo         output.UserRepository
	tx               output.TxManager
}

var _ input.SchedulingUseCase = (*SchedulingService)(nil)

func NewSchedulingService(
	eventRepo output.EventRepository,
	timeslotRepo output.TimeslotRepository,
	availabilityRepo output.AvailabilityRepository,
	userRepo output.UserRepository,
	tx output.TxManager,
) *SchedulingService {
	return &SchedulingService{
		eventRepo:        eventRepo,
		timeslotRepo:     timeslotRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		tx:               tx,
	}
}

// CreateEvent creates an ACTIVE event with its timeslots in one transaction.
// Deadline feasibility and start/end ordering are the caller's contract;
// the engine only rejects an empty request list.
func (s *SchedulingService) CreateEvent(ctx context.Context, title, description, creatorID, channelID string, deadline *time.Time, requests []input.TimeslotRequest) (*entities.Event, error) {
	if len(requests) == 0 {
		return nil, domain.ErrTimeslotRequired
	}
	event := &entities.Event{
		Title:       title,
		Description: description,
		CreatorID:   creatorID,
		ChannelID:   channelID,
		CreatedAt:   time.Now().UTC(),
		Deadline:    deadline,
		Status:      domain.EventStatusActive,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		for i, req := range requests {
			slot := &entities.Timeslot{
				EventID:     event.ID,
				StartTime:   req.Start,
				EndTime:     req.End,
				Description: req.Description,
				Emoji:       emojiForIndex(i),
			}
			if err := s.timeslotRepo.Create(ctx, slot); err != nil {
				return fmt.Errorf("create timeslot %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// CreateDraftEvent creates a DRAFT event with no timeslots.
func (s *SchedulingService) CreateDraftEvent(ctx context.Context, title, description, creatorID, channelID string) (*entities.Event, error) {
	event := &entities.Event{
		Title:       title,
		Description: description,
		CreatorID:   creatorID,
		ChannelID:   channelID,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.EventStatusDraft,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create draft event: %w", err)
	}
	return event, nil
}

// AddTimeslot appends a candidate window to a DRAFT or ACTIVE event. The
// marker is the next unused alphabet symbol, saturating at the last one.
func (s *SchedulingService) AddTimeslot(ctx context.Context, eventID int64, req input.TimeslotRequest) (*entities.Timeslot, error) {
	var slot *entities.Timeslot
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status != domain.EventStatusDraft && event.Status != domain.EventStatusActive {
			return domain.ErrEventNotOpen
		}
		count, err := s.timeslotRepo.CountByEventID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count timeslots: %w", err)
		}
		slot = &entities.Timeslot{
			EventID:     eventID,
			StartTime:   req.Start,
			EndTime:     req.End,
			Description: req.Description,
			Emoji:       emojiForIndex(count),
		}
		if err := s.timeslotRepo.Create(ctx, slot); err != nil {
			return fmt.Errorf("create timeslot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// FinalizeDraft promotes a draft to ACTIVE, keeping only the timeslot with
// the most AVAILABLE votes. Ties go to the earliest-created slot. Losing
// slots and their votes are deleted; this is the one deliberately
// destructive operation.
//
// The event row is locked for the whole reduction so a concurrent finalize
// observes the status change and fails instead of re-running it.
func (s *SchedulingService) FinalizeDraft(ctx context.Context, eventID int64) (*entities.Event, error) {
	var event *entities.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.eventRepo.FindByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status != domain.EventStatusDraft {
			return domain.ErrEventNotDraft
		}
		slots, err := s.timeslotRepo.FindByEventID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("load timeslots: %w", err)
		}
		if len(slots) == 0 {
			return domain.ErrNoTimeslots
		}

		winner := 0
		bestCount := -1
		for i, slot := range slots {
			count, err := s.availabilityRepo.CountAvailableByTimeslotID(ctx, slot.ID)
			if err != nil {
				return fmt.Errorf("count votes for timeslot %d: %w", slot.ID, err)
			}
			if count > bestCount {
				winner = i
				bestCount = count
			}
		}

		for i, slot := range slots {
			if i == winner {
				continue
			}
			if err := s.availabilityRepo.DeleteByTimeslotID(ctx, slot.ID); err != nil {
				return fmt.Errorf("delete votes for timeslot %d: %w", slot.ID, err)
			}
			if err := s.timeslotRepo.Delete(ctx, slot.ID); err != nil {
				return fmt.Errorf("delete timeslot %d: %w", slot.ID, err)
			}
		}

		if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventStatusActive); err != nil {
			return fmt.Errorf("activate event: %w", err)
		}
		event.Status = domain.EventStatusActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Vote records or overwrites a user's vote for a timeslot. Voting on a
// CLOSED event is rejected here, not left to callers. The user record is
// created lazily with the id as a placeholder username.
func (s *SchedulingService) Vote(ctx context.Context, userID string, timeslotID int64, status string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, err := s.timeslotRepo.FindByID(ctx, timeslotID)
		if err != nil {
			return err
		}
		event, err := s.eventRepo.FindByID(ctx, slot.EventID)
		if err != nil {
			return err
		}
		if event.Status == domain.EventStatusClosed {
			return domain.ErrEventClosed
		}
		if _, err := s.userRepo.EnsureExists(ctx, userID, userID); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		availability := &entities.Availability{
			UserID:     userID,
			EventID:    slot.EventID,
			TimeslotID: timeslotID,
			Status:     status,
			VotedAt:    time.Now().UTC(),
		}
		if err := s.availabilityRepo.Upsert(ctx, availability); err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
		return nil
	})
}

// RemoveVote deletes the user's vote for a timeslot; absent votes are a
// no-op.
func (s *SchedulingService) RemoveVote(ctx context.Context, userID string, timeslotID int64) error {
	return s.availabilityRepo.DeleteByUserIDAndTimeslotID(ctx, userID, timeslotID)
}

// RemoveAllVotes deletes every vote the user holds on the event.
func (s *SchedulingService) RemoveAllVotes(ctx context.Context, userID string, eventID int64) error {
	return s.availabilityRepo.DeleteByEventIDAndUserID(ctx, eventID, userID)
}

// CountAvailable counts AVAILABLE votes for a timeslot. MAYBE and
// UNAVAILABLE are excluded.
func (s *SchedulingService) CountAvailable(ctx context.Context, timeslotID int64) (int, error) {
	return s.availabilityRepo.CountAvailableByTimeslotID(ctx, timeslotID)
}

// CloseEvent sets the event CLOSED. Re-closing is allowed and changes
// nothing.
func (s *SchedulingService) CloseEvent(ctx context.Context, eventID int64) error {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.eventRepo.UpdateStatus(ctx, eventID, domain.EventStatusClosed)
}

func (s *SchedulingService) SetEventDeadline(ctx context.Context, eventID int64, deadline time.Time) error {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.eventRepo.UpdateDeadline(ctx, eventID, deadline.UTC())
}

func (s *SchedulingService) SetEventMessageID(ctx context.Context, eventID int64, messageID string) error {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.eventRepo.UpdateMessageID(ctx, eventID, messageID)
}

func (s *SchedulingService) GetEventByID(ctx context.Context, id int64) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *SchedulingService) GetEventByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	return s.eventRepo.FindByMessageID(ctx, messageID)
}

func (s *SchedulingService) GetEventsByChannelAndStatus(ctx context.Context, channelID, status string) ([]entities.Event, error) {
	return s.eventRepo.FindByChannelIDAndStatus(ctx, channelID, status)
}

// GetActiveEventsForChannel lists the events currently open for voting in
// a channel.
func (s *SchedulingService) GetActiveEventsForChannel(ctx context.Context, channelID string) ([]entities.Event, error) {
	return s.eventRepo.FindByChannelIDAndStatus(ctx, channelID, domain.EventStatusActive)
}

func (s *SchedulingService) GetTimeslotsByEvent(ctx context.Context, eventID int64) ([]entities.Timeslot, error) {
	return s.timeslotRepo.FindByEventID(ctx, eventID)
}

// FindTimeslotByEmoji resolves an inbound reaction marker to a timeslot.
func (s *SchedulingService) FindTimeslotByEmoji(ctx context.Context, eventID int64, emoji string) (*entities.Timeslot, error) {
	return s.timeslotRepo.FindByEventIDAndEmoji(ctx, eventID, emoji)
}

func (s *SchedulingService) GetUserVotesForEvent(ctx context.Context, userID string, eventID int64) ([]entities.Availability, error) {
	return s.availabilityRepo.FindByEventIDAndUserID(ctx, eventID, userID)
}

// FindDueActiveEvents returns ACTIVE events whose deadline has passed.
func (s *SchedulingService) FindDueActiveEvents(ctx context.Context, now time.Time) ([]entities.Event, error) {
	return s.eventRepo.FindDueActiveEvents(ctx, now)
}

// SetUserTimezone validates and stores the user's preferred IANA zone,
// creating the user record if needed.
func (s *SchedulingService) SetUserTimezone(ctx context.Context, userID, timezone string) error {
	timezone = strings.TrimSpace(timezone)
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
	}
	if _, err := s.userRepo.EnsureExists(ctx, userID, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return s.userRepo.SetTimezone(ctx, userID, timezone)
}

// UserTimezoneOrDefault returns the user's stored zone name, or "UTC" when
// the user is unknown or has no zone set.
func (s *SchedulingService) UserTimezoneOrDefault(ctx context.Context, userID string) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || strings.TrimSpace(user.Timezone) == "" {
		return "UTC"
	}
	return user.Timezone
}
