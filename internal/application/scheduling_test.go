package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/ports/input"
)

func slotRequest(hourOffset int) input.TimeslotRequest {
	start := time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC).Add(time.Duration(hourOffset) * time.Hour)
	return input.TimeslotRequest{Start: start, End: start.Add(2 * time.Hour)}
}

func TestCreateEvent(t *testing.T) {
	svc, _, slots, _, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Game night", "bring snacks", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0), slotRequest(24)})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusActive, event.Status)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	created, err := slots.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "1️⃣", created[0].Emoji)
	assert.Equal(t, "2️⃣", created[1].Emoji)
}

func TestCreateEvent_NoTimeslots(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.CreateEvent(context.Background(), "Empty", "", "creator-1", "chan-1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTimeslotRequired)
}

func TestCreateDraftEvent(t *testing.T) {
	svc, _, slots, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraftEvent(ctx, "Planning", "", "creator-1", "chan-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusDraft, draft.Status)

	created, err := slots.FindByEventID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestAddTimeslot_MarkerSaturation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraftEvent(ctx, "Big poll", "", "creator-1", "chan-1")
	require.NoError(t, err)

	var emojis []string
	for i := 0; i < 11; i++ {
		slot, err := svc.AddTimeslot(ctx, draft.ID, slotRequest(i))
		require.NoError(t, err)
		emojis = append(emojis, slot.Emoji)
	}

	// 0-8 distinct in creation order, 10th and 11th share the last symbol.
	want := []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟", "🔟"}
	assert.Equal(t, want, emojis)
}

func TestAddTimeslot_Lifecycle(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddTimeslot(ctx, 42, slotRequest(0))
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	event, err := svc.CreateEvent(ctx, "Active", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	// ACTIVE still accepts proposals.
	_, err = svc.AddTimeslot(ctx, event.ID, slotRequest(1))
	require.NoError(t, err)

	require.NoError(t, svc.CloseEvent(ctx, event.ID))
	_, err = svc.AddTimeslot(ctx, event.ID, slotRequest(2))
	assert.ErrorIs(t, err, domain.ErrEventNotOpen)
}

func TestFinalizeDraft_TieBreakFirstCreated(t *testing.T) {
	svc, events, slots, votes, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraftEvent(ctx, "Tied", "", "creator-1", "chan-1")
	require.NoError(t, err)

	var ids []int64
	for i := 0; i < 3; i++ {
		slot, err := svc.AddTimeslot(ctx, draft.ID, slotRequest(i))
		require.NoError(t, err)
		ids = append(ids, slot.ID)
	}

	// AVAILABLE counts [3, 1, 3]: slots 0 and 2 tie, first created wins.
	for _, user := range []string{"u1", "u2", "u3"} {
		require.NoError(t, svc.Vote(ctx, user, ids[0], domain.AvailabilityAvailable))
		require.NoError(t, svc.Vote(ctx, user, ids[2], domain.AvailabilityAvailable))
	}
	require.NoError(t, svc.Vote(ctx, "u1", ids[1], domain.AvailabilityAvailable))
	// MAYBE votes do not count toward the winner.
	require.NoError(t, svc.Vote(ctx, "u4", ids[1], domain.AvailabilityMaybe))

	finalized, err := svc.FinalizeDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusActive, finalized.Status)

	remaining, err := slots.FindByEventID(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[0], remaining[0].ID)
	assert.Equal(t, "1️⃣", remaining[0].Emoji, "winner keeps its original marker")

	// Losers' votes are gone, winner's remain.
	count, err := votes.CountAvailableByTimeslotID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, votes.rowCount())

	stored, err := events.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusActive, stored.Status)
}

func TestFinalizeDraft_EmptyDraft(t *testing.T) {
	svc, events, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraftEvent(ctx, "Empty", "", "creator-1", "chan-1")
	require.NoError(t, err)

	_, err = svc.FinalizeDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNoTimeslots)

	stored, err := events.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusDraft, stored.Status, "failed finalize must not mutate")
}

func TestFinalizeDraft_InvalidStates(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.FinalizeDraft(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	event, err := svc.CreateEvent(ctx, "Already active", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	_, err = svc.FinalizeDraft(ctx, event.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotDraft)

	// A second finalize of a just-finalized draft fails the same way.
	draft, err := svc.CreateDraftEvent(ctx, "Draft", "", "creator-1", "chan-1")
	require.NoError(t, err)
	_, err = svc.AddTimeslot(ctx, draft.ID, slotRequest(0))
	require.NoError(t, err)
	_, err = svc.FinalizeDraft(ctx, draft.ID)
	require.NoError(t, err)
	_, err = svc.FinalizeDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotDraft)
}

func TestVote_UpsertSingleRow(t *testing.T) {
	svc, _, _, votes, users := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	slot, err := svc.FindTimeslotByEmoji(ctx, event.ID, "1️⃣")
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityAvailable))
	first, err := votes.FindByUserIDAndTimeslotID(ctx, "u1", slot.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityUnavailable))
	second, err := votes.FindByUserIDAndTimeslotID(ctx, "u1", slot.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, votes.rowCount())
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.AvailabilityUnavailable, second.Status)
	assert.False(t, second.VotedAt.Before(first.VotedAt))

	// The user record was created lazily with the id as placeholder name.
	user, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.Username)
}

func TestVote_ClosedEventRejected(t *testing.T) {
	svc, _, _, votes, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	slot, err := svc.FindTimeslotByEmoji(ctx, event.ID, "1️⃣")
	require.NoError(t, err)
	require.NoError(t, svc.CloseEvent(ctx, event.ID))

	err = svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityAvailable)
	assert.ErrorIs(t, err, domain.ErrEventClosed)
	assert.Zero(t, votes.rowCount())
}

func TestVote_MissingTimeslot(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	err := svc.Vote(context.Background(), "u1", 404, domain.AvailabilityAvailable)
	assert.ErrorIs(t, err, domain.ErrTimeslotNotFound)
}

func TestRemoveVote_Idempotent(t *testing.T) {
	svc, _, _, votes, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	slot, err := svc.FindTimeslotByEmoji(ctx, event.ID, "1️⃣")
	require.NoError(t, err)

	// No prior vote: still succeeds, still no row.
	require.NoError(t, svc.RemoveVote(ctx, "u1", slot.ID))
	assert.Zero(t, votes.rowCount())

	require.NoError(t, svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityAvailable))
	require.NoError(t, svc.RemoveVote(ctx, "u1", slot.ID))
	assert.Zero(t, votes.rowCount())
}

func TestRemoveAllVotes(t *testing.T) {
	svc, _, _, votes, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0), slotRequest(1)})
	require.NoError(t, err)
	slots, err := svc.GetTimeslotsByEvent(ctx, event.ID)
	require.NoError(t, err)

	for _, slot := range slots {
		require.NoError(t, svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityAvailable))
		require.NoError(t, svc.Vote(ctx, "u2", slot.ID, domain.AvailabilityAvailable))
	}

	require.NoError(t, svc.RemoveAllVotes(ctx, "u1", event.ID))
	assert.Equal(t, 2, votes.rowCount(), "only u1's votes removed")
}

func TestCountAvailable_ExcludesMaybeAndUnavailable(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	slot, err := svc.FindTimeslotByEmoji(ctx, event.ID, "1️⃣")
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, "u1", slot.ID, domain.AvailabilityAvailable))
	require.NoError(t, svc.Vote(ctx, "u2", slot.ID, domain.AvailabilityMaybe))
	require.NoError(t, svc.Vote(ctx, "u3", slot.ID, domain.AvailabilityUnavailable))

	count, err := svc.CountAvailable(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCloseEvent(t *testing.T) {
	svc, events, _, _, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.CloseEvent(ctx, 42), domain.ErrEventNotFound)

	event, err := svc.CreateEvent(ctx, "Poll", "", "creator-1", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	require.NoError(t, svc.CloseEvent(ctx, event.ID))
	// Re-close is a safe no-op.
	require.NoError(t, svc.CloseEvent(ctx, event.ID))

	stored, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusClosed, stored.Status)
}

func TestFindDueActiveEvents_Filtering(t *testing.T) {
	svc, events, _, _, _ := newTestService()
	ctx := context.Background()
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdue, err := svc.CreateEvent(ctx, "Overdue", "", "c", "chan", &past,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, "Not yet", "", "c", "chan", &future,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, "No deadline", "", "c", "chan", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	// A draft with a past deadline is excluded regardless.
	draft, err := svc.CreateDraftEvent(ctx, "Draft", "", "c", "chan")
	require.NoError(t, err)
	require.NoError(t, events.UpdateDeadline(ctx, draft.ID, past))

	// So is a closed event.
	closed, err := svc.CreateEvent(ctx, "Closed", "", "c", "chan", &past,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	require.NoError(t, svc.CloseEvent(ctx, closed.ID))

	due, err := svc.FindDueActiveEvents(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, overdue.ID, due[0].ID)
}

func TestStatusTransitionPaths(t *testing.T) {
	svc, events, _, _, _ := newTestService()
	ctx := context.Background()

	// DRAFT -> ACTIVE -> CLOSED via finalize + close.
	draft, err := svc.CreateDraftEvent(ctx, "Path A", "", "c", "chan")
	require.NoError(t, err)
	_, err = svc.AddTimeslot(ctx, draft.ID, slotRequest(0))
	require.NoError(t, err)
	_, err = svc.FinalizeDraft(ctx, draft.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CloseEvent(ctx, draft.ID))

	// Direct ACTIVE -> CLOSED.
	direct, err := svc.CreateEvent(ctx, "Path B", "", "c", "chan", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	require.NoError(t, svc.CloseEvent(ctx, direct.ID))

	// CLOSED is terminal: no operation reopens or re-drafts.
	for _, id := range []int64{draft.ID, direct.ID} {
		_, err = svc.FinalizeDraft(ctx, id)
		assert.ErrorIs(t, err, domain.ErrEventNotDraft)
		stored, err := events.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusClosed, stored.Status)
	}
}

func TestEventLookups(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "c", "chan-7", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	require.NoError(t, svc.SetEventMessageID(ctx, event.ID, "msg-123"))

	byMsg, err := svc.GetEventByMessageID(ctx, "msg-123")
	require.NoError(t, err)
	assert.Equal(t, event.ID, byMsg.ID)

	active, err := svc.GetEventsByChannelAndStatus(ctx, "chan-7", domain.EventStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)

	_, err = svc.FindTimeslotByEmoji(ctx, event.ID, "🔟")
	assert.ErrorIs(t, err, domain.ErrTimeslotNotFound)
}

func TestUserTimezone(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	assert.Equal(t, "UTC", svc.UserTimezoneOrDefault(ctx, "unknown"))

	err := svc.SetUserTimezone(ctx, "u1", "Nowhere/Nothing")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	require.NoError(t, svc.SetUserTimezone(ctx, "u1", "America/New_York"))
	assert.Equal(t, "America/New_York", svc.UserTimezoneOrDefault(ctx, "u1"))
}

func TestGetUserVotesForEvent(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "c", "chan", nil,
		[]input.TimeslotRequest{slotRequest(0), slotRequest(1)})
	require.NoError(t, err)
	slots, err := svc.GetTimeslotsByEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, "u1", slots[0].ID, domain.AvailabilityAvailable))
	require.NoError(t, svc.Vote(ctx, "u1", slots[1].ID, domain.AvailabilityMaybe))
	require.NoError(t, svc.Vote(ctx, "u2", slots[0].ID, domain.AvailabilityAvailable))

	mine, err := svc.GetUserVotesForEvent(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestSetEventDeadline(t *testing.T) {
	svc, events, _, _, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetEventDeadline(ctx, 42, time.Now()), domain.ErrEventNotFound)

	event, err := svc.CreateEvent(ctx, "Poll", "", "c", "chan", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	deadline := time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetEventDeadline(ctx, event.ID, deadline))

	stored, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Deadline)
	assert.True(t, stored.Deadline.Equal(deadline))
}

func TestGetActiveEventsForChannel(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	active, err := svc.CreateEvent(ctx, "Open", "", "c", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	_, err = svc.CreateDraftEvent(ctx, "Draft", "", "c", "chan-1")
	require.NoError(t, err)

	closed, err := svc.CreateEvent(ctx, "Done", "", "c", "chan-1", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)
	require.NoError(t, svc.CloseEvent(ctx, closed.ID))

	_, err = svc.CreateEvent(ctx, "Elsewhere", "", "c", "chan-2", nil,
		[]input.TimeslotRequest{slotRequest(0)})
	require.NoError(t, err)

	events, err := svc.GetActiveEventsForChannel(ctx, "chan-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, active.ID, events[0].ID)
}

func TestVote_PerSlotStatuses(t *testing.T) {
	svc, _, _, availabilityRepo, _ := newTestService()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "Poll", "", "c", "ch", nil,
		[]input.TimeslotRequest{slotRequest(0), slotRequest(3), slotRequest(6)})
	require.NoError(t, err)
	slots, err := svc.GetTimeslotsByEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, "u1", slots[0].ID, domain.AvailabilityAvailable))
	require.NoError(t, svc.Vote(ctx, "u1", slots[1].ID, domain.AvailabilityMaybe))
	require.NoError(t, svc.Vote(ctx, "u1", slots[2].ID, domain.AvailabilityUnavailable))

	votes, err := svc.GetUserVotesForEvent(ctx, "u1", event.ID)
	require.NoError(t, err)
	require.Len(t, votes, 3)
	bySlot := make(map[int64]string, len(votes))
	for _, vote := range votes {
		bySlot[vote.TimeslotID] = vote.Status
	}
	assert.Equal(t, domain.AvailabilityAvailable, bySlot[slots[0].ID])
	assert.Equal(t, domain.AvailabilityMaybe, bySlot[slots[1].ID])
	assert.Equal(t, domain.AvailabilityUnavailable, bySlot[slots[2].ID])

	// removing one slot's vote leaves the rest in place
	require.NoError(t, svc.RemoveVote(ctx, "u1", slots[1].ID))
	votes, err = svc.GetUserVotesForEvent(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 2)
	assert.Equal(t, 2, availabilityRepo.rowCount())
}
