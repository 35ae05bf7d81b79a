package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// Clock is the services' time source. The engine packages never read the
// clock themselves; services pass now in.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// ownedDeck loads the deck and hides decks owned by someone else behind a
// NOT_FOUND.
func ownedDeck(ctx context.Context, decks repository.DeckRepository, userID, deckID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := decks.Get(ctx, deckID)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

// resolveLocation returns the user's time zone, or fallback when the user
// has none or it no longer loads.
func resolveLocation(ctx context.Context, name string, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.FromContext(ctx).Warn("invalid stored time zone %q, using %s: %v", name, fallback, err)
		return fallback
	}
	return loc
}
