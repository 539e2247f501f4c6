package discord

import (
	"errors"

	"hangoutbot/internal/domain"
	"hangoutbot/pkg/timeparse"
)

// MessageKeyForError maps a domain error to a translation key for a
// user-facing reply, and extracts template data where the error carries
// context. Unknown errors map to the generic message.
func MessageKeyForError(err error) (key string, data map[string]any) {
	var unrecognized *timeparse.UnrecognizedFormatError
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return "reply.event.not_found", nil
	case errors.Is(err, domain.ErrTimeslotNotFound):
		return "reply.event.no_timeslots", nil
	case errors.Is(err, domain.ErrEventClosed):
		return "reply.event.closed", nil
	case errors.Is(err, domain.ErrEventNotDraft), errors.Is(err, domain.ErrEventNotOpen):
		return "reply.draft.not_draft", nil
	case errors.Is(err, domain.ErrNoTimeslots), errors.Is(err, domain.ErrTimeslotRequired):
		return "reply.create.no_timeslots", nil
	case errors.As(err, &unrecognized):
		return "reply.timeslot.bad_time", map[string]any{"Input": unrecognized.Input}
	default:
		return "reply.error.generic", nil
	}
}
