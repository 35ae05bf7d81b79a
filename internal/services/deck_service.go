package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// DeckService handles decks and their cards
type DeckService interface {
	CreateDeck(ctx context.Context, userID int64, name string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID int64) ([]models.Deck, error)
	AddCard(ctx context.Context, userID, deckID int64, front, back string) (*models.Card, error)
	ListCards(ctx context.Context, userID, deckID int64) ([]models.Card, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository) DeckService {
	return &deckService{deckRepo: deckRepo, cardRepo: cardRepo}
}

func (s *deckService) CreateDeck(ctx context.Context, userID int64, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d, name=%s", userID, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	id, err := s.deckRepo.Insert(ctx, models.Deck{UserID: userID, Name: name})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil || deck == nil {
		log.Error("failed to reload deck %d: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx)

	decks, err := s.deckRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	return decks, nil
}

// AddCard creates a card in the never-studied state.
func (s *deckService) AddCard(ctx context.Context, userID, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding card: deck_id=%d", deckID)

	if strings.TrimSpace(front) == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if strings.TrimSpace(back) == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}
	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	card := flashcard.NewCardState(models.Card{DeckID: deckID, Front: front, Back: back})
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	saved, err := s.cardRepo.Get(ctx, id, userID)
	if err != nil || saved == nil {
		log.Error("failed to reload card %d: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	return saved, nil
}

func (s *deckService) ListCards(ctx context.Context, userID, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}
