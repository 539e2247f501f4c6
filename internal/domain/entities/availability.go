package entities

import "time"

// Availability is one user's current vote for one timeslot. EventID is
// denormalized from the timeslot for by-event queries. At most one row
// exists per (UserID, TimeslotID); repeat votes overwrite in place.
type Availability struct {
	ID         int64
	UserID     string
	EventID    int64
	TimeslotID int64
	Status     string
	VotedAt    time.Time
}
