package application

import (
	"context"
	"sort"
	"time"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
)

// In-memory fakes for the output ports, used by the service tests.

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeEventRepo struct {
	byID   map[int64]*entities.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*entities.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *entities.Event) error {
	event.ID = f.nextID
	f.nextID++
	clone := *event
	f.byID[event.ID] = &clone
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id int64) (*entities.Event, error) {
	if e, ok := f.byID[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Event, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeEventRepo) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	for _, e := range f.byID {
		if e.MessageID == messageID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) FindByChannelIDAndStatus(ctx context.Context, channelID, status string) ([]entities.Event, error) {
	var out []entities.Event
	for _, e := range f.byID {
		if e.ChannelID == channelID && e.Status == status {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) FindDueActiveEvents(ctx context.Context, now time.Time) ([]entities.Event, error) {
	var out []entities.Event
	for _, e := range f.byID {
		if e.Status == domain.EventStatusActive && e.Deadline != nil && !e.Deadline.After(now) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEventRepo) UpdateMessageID(ctx context.Context, id int64, messageID string) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.MessageID = messageID
	return nil
}

func (f *fakeEventRepo) UpdateDeadline(ctx context.Context, id int64, deadline time.Time) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.Deadline = &deadline
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeTimeslotRepo struct {
	byID   map[int64]*entities.Timeslot
	order  []int64 // creation order
	nextID int64
}

func newFakeTimeslotRepo() *fakeTimeslotRepo {
	return &fakeTimeslotRepo{byID: make(map[int64]*entities.Timeslot), nextID: 1}
}

func (f *fakeTimeslotRepo) Create(ctx context.Context, slot *entities.Timeslot) error {
	slot.ID = f.nextID
	f.nextID++
	clone := *slot
	f.byID[slot.ID] = &clone
	f.order = append(f.order, slot.ID)
	return nil
}

func (f *fakeTimeslotRepo) FindByID(ctx context.Context, id int64) (*entities.Timeslot, error) {
	if s, ok := f.byID[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrTimeslotNotFound
}

func (f *fakeTimeslotRepo) FindByEventID(ctx context.Context, eventID int64) ([]entities.Timeslot, error) {
	var out []entities.Timeslot
	for _, id := range f.order {
		if s, ok := f.byID[id]; ok && s.EventID == eventID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeTimeslotRepo) FindByEventIDAndEmoji(ctx context.Context, eventID int64, emoji string) (*entities.Timeslot, error) {
	for _, id := range f.order {
		if s, ok := f.byID[id]; ok && s.EventID == eventID && s.Emoji == emoji {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrTimeslotNotFound
}

func (f *fakeTimeslotRepo) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	slots, _ := f.FindByEventID(ctx, eventID)
	return len(slots), nil
}

func (f *fakeTimeslotRepo) Delete(ctx context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type voteKey struct {
	userID     string
	timeslotID int64
}

type fakeAvailabilityRepo struct {
	byKey  map[voteKey]*entities.Availability
	nextID int64
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{byKey: make(map[voteKey]*entities.Availability), nextID: 1}
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, a *entities.Availability) error {
	key := voteKey{a.UserID, a.TimeslotID}
	if existing, ok := f.byKey[key]; ok {
		existing.Status = a.Status
		existing.VotedAt = a.VotedAt
		a.ID = existing.ID
		return nil
	}
	a.ID = f.nextID
	f.nextID++
	clone := *a
	f.byKey[key] = &clone
	return nil
}

func (f *fakeAvailabilityRepo) FindByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) (*entities.Availability, error) {
	if a, ok := f.byKey[voteKey{userID, timeslotID}]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, domain.ErrTimeslotNotFound
}

func (f *fakeAvailabilityRepo) FindByEventIDAndUserID(ctx context.Context, eventID int64, userID string) ([]entities.Availability, error) {
	var out []entities.Availability
	for _, a := range f.byKey {
		if a.EventID == eventID && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) CountAvailableByTimeslotID(ctx context.Context, timeslotID int64) (int, error) {
	count := 0
	for _, a := range f.byKey {
		if a.TimeslotID == timeslotID && a.Status == domain.AvailabilityAvailable {
			count++
		}
	}
	return count, nil
}

func (f *fakeAvailabilityRepo) DeleteByUserIDAndTimeslotID(ctx context.Context, userID string, timeslotID int64) error {
	delete(f.byKey, voteKey{userID, timeslotID})
	return nil
}

func (f *fakeAvailabilityRepo) DeleteByEventIDAndUserID(ctx context.Context, eventID int64, userID string) error {
	for key, a := range f.byKey {
		if a.EventID == eventID && a.UserID == userID {
			delete(f.byKey, key)
		}
	}
	return nil
}

func (f *fakeAvailabilityRepo) DeleteByTimeslotID(ctx context.Context, timeslotID int64) error {
	for key, a := range f.byKey {
		if a.TimeslotID == timeslotID {
			delete(f.byKey, key)
		}
	}
	return nil
}

func (f *fakeAvailabilityRepo) rowCount() int {
	return len(f.byKey)
}

type fakeUserRepo struct {
	byID map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) EnsureExists(ctx context.Context, userID, username string) (*entities.User, error) {
	if u, ok := f.byID[userID]; ok {
		clone := *u
		return &clone, nil
	}
	u := &entities.User{DiscordID: userID, Username: username}
	f.byID[userID] = u
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	if u, ok := f.byID[userID]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) SetTimezone(ctx context.Context, userID, timezone string) error {
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Timezone = timezone
	return nil
}

// newTestService wires a SchedulingService over fresh fakes.
func newTestService() (*SchedulingService, *fakeEventRepo, *fakeTimeslotRepo, *fakeAvailabilityRepo, *fakeUserRepo) {
	events := newFakeEventRepo()
	slots := newFakeTimeslotRepo()
	votes := newFakeAvailabilityRepo()
	users := newFakeUserRepo()
	svc := NewSchedulingService(events, slots, votes, users, &fakeTx{})
	return svc, events, slots, votes, users
}
