package entities

import "time"

// Event is one scheduling poll.
type Event struct {
	ID          int64
	Title       string
	Description string
	CreatorID   string
	ChannelID   string
	MessageID   string // Discord message ID of the posted poll embed, set after posting
	CreatedAt   time.Time
	Deadline    *time.Time // voting deadline (UTC); nil = no auto-close
	Status      string
}
