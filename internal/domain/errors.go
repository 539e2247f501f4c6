package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTimeslotNotFound = errors.New("timeslot not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEventClosed      = errors.New("event is closed")
	ErrEventNotDraft    = errors.New("event is not a draft")
	ErrEventNotOpen     = errors.New("timeslots can only be added to draft or active events")
	ErrNoTimeslots      = errors.New("no timeslots proposed for this event")
	ErrTimeslotRequired = errors.New("at least one timeslot is required")
	ErrInvalidTimezone  = errors.New("unknown timezone identifier")
)
