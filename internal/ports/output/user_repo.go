package output

import (
	"context"

	"hangoutbot/internal/domain/entities"
)

type UserRepository interface {
	// EnsureExists creates a minimal record for userID if absent and
	// returns the stored user either way.
	EnsureExists(ctx context.Context, userID, username string) (*entities.User, error)
	FindByID(ctx context.Context, userID string) (*entities.User, error)
	SetTimezone(ctx context.Context, userID, timezone string) error
}
