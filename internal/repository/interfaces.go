package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// ErrStaleVersion is returned when a card write loses an optimistic
// concurrency check: the stored version no longer matches the one the caller
// read.
var ErrStaleVersion = errors.New("repository: stale card version")

// Lookups return (nil, nil) when the row does not exist.

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Upsert(ctx context.Context, username, timeZone string) (*models.User, error)
	UpdateTimeZone(ctx context.Context, id int64, timeZone string) error
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
}

// CardRepository handles card data access. Scheduling writes are guarded by
// Card.Version and fail with ErrStaleVersion on a mismatch.
type CardRepository interface {
	// Get returns the card if it belongs to a deck owned by userID.
	Get(ctx context.Context, id, userID int64) (*models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Card, error)
	DueForUser(ctx context.Context, userID int64, now time.Time) ([]models.Card, error)
	CountByDeck(ctx context.Context, deckID int64) (int, error)

	// ApplyReview stores the card's new scheduling state and appends event
	// in one transaction, provided the stored version still equals
	// card.Version. It returns the card with its new version and the event
	// with its id.
	ApplyReview(ctx context.Context, card models.Card, event models.ReviewEvent) (*models.Card, *models.ReviewEvent, error)
	// UpdateSchedule stores the card's scheduling state under the same
	// version check, without recording a review.
	UpdateSchedule(ctx context.Context, card models.Card) (*models.Card, error)
}

// ReviewEventRepository reads the append-only review log. Events are only
// written through CardRepository.ApplyReview.
type ReviewEventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.ReviewEvent, error)
	ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]models.ReviewEvent, error)
	ListByCard(ctx context.Context, cardID int64) ([]models.ReviewEvent, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
