package output

import (
	"context"

	"hangoutbot/internal/domain/entities"
)

// Notifier receives fire-and-forget notifications after a state mutation
// has committed. Implementations must never fail the mutation; errors are
// theirs to log and swallow.
type Notifier interface {
	EventClosed(ctx context.Context, event *entities.Event)
}
