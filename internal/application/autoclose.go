package application

import (
	"context"
	"log"
	"time"

	"hangoutbot/internal/ports/input"
	"hangoutbot/internal/ports/output"
)

// AutoCloseService closes active events whose voting deadline has passed.
// One sweep processes every due event independently; a failure on one
// event is logged and does not abort the rest of the batch.
type AutoCloseService struct {
	scheduling input.SchedulingUseCase
	notifier   output.Notifier
}

func NewAutoCloseService(scheduling input.SchedulingUseCase, notifier output.Notifier) *AutoCloseService {
	return &AutoCloseService{scheduling: scheduling, notifier: notifier}
}

// Sweep closes every event due as of now. Notification happens after the
// close has committed and is best-effort; the notifier owns its failures.
func (s *AutoCloseService) Sweep(ctx context.Context, now time.Time) {
	due, err := s.scheduling.FindDueActiveEvents(ctx, now)
	if err != nil {
		log.Printf("autoclose: query due events: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	log.Printf("autoclose: closing %d event(s) past deadline", len(due))
	for i := range due {
		event := &due[i]
		if err := s.scheduling.CloseEvent(ctx, event.ID); err != nil {
			log.Printf("autoclose: close event %d: %v", event.ID, err)
			continue
		}
		if s.notifier != nil {
			s.notifier.EventClosed(ctx, event)
		}
	}
}
