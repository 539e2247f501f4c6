package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var displayName, timezone pgtype.Text
	err := row.Scan(&u.DiscordID, &u.Username, &displayName, &timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.DisplayName = pgtypeTextToString(displayName)
	u.Timezone = pgtypeTextToString(timezone)
	return &u, nil
}

// EnsureExists inserts a minimal record on first contact; an existing row
// keeps its username and preferences.
func (r *UserRepository) EnsureExists(ctx context.Context, userID, username string) (*entities.User, error) {
	row := r.db.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (discord_id, username)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET discord_id = EXCLUDED.discord_id
		RETURNING discord_id, username, display_name, timezone`,
		userID, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	row := r.db.conn(ctx).QueryRow(ctx,
		"SELECT discord_id, username, display_name, timezone FROM users WHERE discord_id = $1", userID)
	return scanUser(row)
}

func (r *UserRepository) SetTimezone(ctx context.Context, userID, timezone string) error {
	tag, err := r.db.conn(ctx).Exec(ctx,
		"UPDATE users SET timezone = $2 WHERE discord_id = $1", userID, stringToPgtypeText(timezone))
	if err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
