package services

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// ReviewRequest is one answered card. Quality is the raw wire value and is
// validated before anything is read or written.
type ReviewRequest struct {
	UserID          int64
	CardID          int64
	Quality         float64
	DurationSeconds float64
	SessionID       string
	// ExpectedVersion, when set, is the card version the client rendered.
	// A mismatch means the review was already applied elsewhere and is
	// rejected without retry.
	ExpectedVersion *int64
}

type ReviewResult struct {
	Card  models.Card        `json:"card"`
	Event models.ReviewEvent `json:"reviewEvent"`
}

// ReviewService is the single write path for reviews
type ReviewService interface {
	Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error)
}

type reviewService struct {
	cardRepo repository.CardRepository
	clock    Clock
}

// NewReviewService creates a new ReviewService
func NewReviewService(cardRepo repository.CardRepository, clock Clock) ReviewService {
	return &reviewService{cardRepo: cardRepo, clock: clock}
}

// maxReviewAttempts is the first write plus one retry on a version conflict.
const maxReviewAttempts = 2

func (s *reviewService) Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"card_id": req.CardID, "user_id": req.UserID})
	log.Debug("reviewing card: quality=%v", req.Quality)

	quality, err := flashcard.ParseQuality(req.Quality)
	if err != nil {
		log.Debug("rejected rating: %v", err)
		return nil, errors.NewInvalidRatingError(err)
	}
	if math.IsNaN(req.DurationSeconds) || req.DurationSeconds < 0 {
		return nil, errors.NewValidationError("durationSeconds", "must be zero or positive")
	}
	duration := time.Duration(req.DurationSeconds * float64(time.Second))

	attempts := maxReviewAttempts
	if req.ExpectedVersion != nil {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		card, err := s.cardRepo.Get(ctx, req.CardID, req.UserID)
		if err != nil {
			log.Error("failed to get card: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if card == nil {
			return nil, errors.NewNotFoundError("card", req.CardID)
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != card.Version {
			log.Info("client version %d behind stored version %d", *req.ExpectedVersion, card.Version)
			return nil, errors.NewStaleCardVersionError(card.ID, repository.ErrStaleVersion)
		}

		updated, event, err := flashcard.Review(*card, req.UserID, req.SessionID, quality, duration, s.clock.now())
		if err != nil {
			return nil, errors.NewInvalidRatingError(err)
		}

		saved, savedEvent, err := s.cardRepo.ApplyReview(ctx, updated, event)
		if stderrors.Is(err, repository.ErrStaleVersion) {
			log.Warn("version conflict on attempt %d/%d", attempt, attempts)
			lastErr = err
			continue
		}
		if err != nil {
			log.Error("failed to apply review: %v", err)
			return nil, errors.NewInternalError(err)
		}

		log.Debug("review applied: repetition=%d interval=%d ease=%.2f version=%d",
			saved.Repetition, saved.Interval, saved.EaseFactor, saved.Version)
		return &ReviewResult{Card: *saved, Event: *savedEvent}, nil
	}

	return nil, errors.NewStaleCardVersionError(req.CardID, lastErr)
}
