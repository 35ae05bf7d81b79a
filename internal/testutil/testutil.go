package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// Foreign keys are enforced.
func NewTestDB(t *testing.T) *sql.DB {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, db *sql.DB, username, timeZone string) int64 {
	res, err := db.ExecContext(context.Background(), `INSERT INTO users (username, time_zone) VALUES (?, ?)`, username, timeZone)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedDeck inserts a deck for userID and returns its id.
func SeedDeck(t *testing.T, db *sql.DB, userID int64, name string) int64 {
	res, err := db.ExecContext(context.Background(), `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedCard inserts a card with the given scheduling state. A nil due date
// makes it a new card.
func SeedCard(t *testing.T, db *sql.DB, deckID int64, repetition, interval int, ease float64, due *time.Time) int64 {
	var dueArg any
	if due != nil {
		dueArg = due.UTC()
	}
	now := time.Now().UTC()
	res, err := db.ExecContext(context.Background(), `
INSERT INTO cards (deck_id, front, back, repetition, ease_factor, interval_days, due_date, version, created_at, updated_at)
VALUES (?, 'front', 'back', ?, ?, ?, ?, 1, ?, ?)
`, deckID, repetition, ease, interval, dueArg, now, now)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
