package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// MaxSessionLimit caps the size of a single study session.
const MaxSessionLimit = 500

// StudyQueue is one study session. Reusing SessionID returns the remaining
// cards in the same order.
type StudyQueue struct {
	SessionID  string        `json:"sessionId"`
	Cards      []models.Card `json:"cards"`
	DueCount   int           `json:"dueCount"`
	NewCount   int           `json:"newCount"`
	TotalCards int           `json:"totalCards"`
	EmptyDeck  bool          `json:"emptyDeck"`
}

type CardClassification struct {
	CardID         int64                    `json:"cardId"`
	Classification flashcard.Classification `json:"classification"`
}

// StudyService serves the read paths of a study session
type StudyService interface {
	Queue(ctx context.Context, userID, deckID int64, sessionID string, limit int) (*StudyQueue, error)
	DueCards(ctx context.Context, userID int64) ([]models.Card, error)
	Classify(ctx context.Context, userID, cardID int64) (*CardClassification, error)
}

type studyService struct {
	deckRepo     repository.DeckRepository
	cardRepo     repository.CardRepository
	defaultLimit int
	clock        Clock
}

// NewStudyService creates a new StudyService
func NewStudyService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository, defaultLimit int, clock Clock) StudyService {
	return &studyService{deckRepo: deckRepo, cardRepo: cardRepo, defaultLimit: defaultLimit, clock: clock}
}

func (s *studyService) Queue(ctx context.Context, userID, deckID int64, sessionID string, limit int) (*StudyQueue, error) {
	log := logger.FromContext(ctx)

	if limit < 0 || limit > MaxSessionLimit {
		return nil, errors.NewValidationError("limit", "must be between 1 and 500")
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log.Debug("building study queue: deck_id=%d, session=%s, limit=%d", deckID, sessionID, limit)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list deck cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	q := flashcard.SelectQueue(cards, s.clock.now(), flashcard.QueueOptions{
		Limit: limit,
		Seed:  flashcard.SessionSeed(sessionID),
	})
	if q.IsEmpty() {
		log.Debug("nothing to study: total_cards=%d", q.TotalCards)
	}

	selected := q.Cards
	if selected == nil {
		selected = []models.Card{}
	}
	return &StudyQueue{
		SessionID:  sessionID,
		Cards:      selected,
		DueCount:   q.DueCount,
		NewCount:   q.NewCount,
		TotalCards: q.TotalCards,
		EmptyDeck:  q.IsEmptyDeck(),
	}, nil
}

// DueCards lists the user's due cards across all decks, most overdue first.
func (s *studyService) DueCards(ctx context.Context, userID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.DueForUser(ctx, userID, s.clock.now())
	if err != nil {
		log.Error("failed to list due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

func (s *studyService) Classify(ctx context.Context, userID, cardID int64) (*CardClassification, error) {
	log := logger.FromContext(ctx)

	card, err := s.cardRepo.Get(ctx, cardID, userID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return &CardClassification{CardID: card.ID, Classification: flashcard.Classify(*card, s.clock.now())}, nil
}
