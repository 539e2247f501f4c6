package entities

import "time"

// Timeslot is one candidate time window under an Event. Emoji is the
// reaction marker assigned at creation from the fixed numeric alphabet;
// (EventID, Emoji) is the lookup key for inbound votes.
type Timeslot struct {
	ID          int64
	EventID     int64
	StartTime   time.Time
	EndTime     time.Time
	Description string
	Emoji       string
}
