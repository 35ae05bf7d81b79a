package services

import (
	"context"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository"
)

// ReplayService schedules history replays
type ReplayService interface {
	EnqueueDeckReplay(ctx context.Context, userID, deckID int64) error
}

type replayService struct {
	deckRepo repository.DeckRepository
	queue    jobs.JobQueue
}

// NewReplayService creates a new ReplayService
func NewReplayService(deckRepo repository.DeckRepository, queue jobs.JobQueue) ReplayService {
	return &replayService{deckRepo: deckRepo, queue: queue}
}

func (s *replayService) EnqueueDeckReplay(ctx context.Context, userID, deckID int64) error {
	log := logger.FromContext(ctx)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return err
	}
	if err := s.queue.EnqueueReplay(userID, deckID); err != nil {
		log.Warn("failed to enqueue replay for deck %d: %v", deckID, err)
		return errors.NewUnavailableError("replay queue is busy, try again later", err)
	}
	log.Info("replay enqueued: deck_id=%d", deckID)
	return nil
}
