package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, time_zone, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.TimeZone, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert creates the user, or updates the time zone of an existing one when
// timeZone is not empty.
func (r *userRepository) Upsert(ctx context.Context, username, timeZone string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: username=%s", username)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, time_zone)
VALUES (?, ?)
ON CONFLICT(username) DO UPDATE SET
    time_zone = CASE WHEN excluded.time_zone <> '' THEN excluded.time_zone ELSE users.time_zone END
`, username, timeZone)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		log.Error("failed to read upserted user: %v", err)
		return nil, err
	}
	log.Debug("user upserted: id=%d", u.ID)
	return u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by username: %v", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateTimeZone(ctx context.Context, id int64, timeZone string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user time zone: id=%d, tz=%s", id, timeZone)

	_, err := r.db.ExecContext(ctx, `UPDATE users SET time_zone = ? WHERE id = ?`, timeZone, id)
	if err != nil {
		log.Error("failed to update user time zone: %v", err)
	}
	return err
}
