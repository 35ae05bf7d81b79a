package jobs

import (
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	cardRepo  repository.CardRepository
	eventRepo repository.ReviewEventRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, cardRepo repository.CardRepository, eventRepo repository.ReviewEventRepository) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		cardRepo:  cardRepo,
		eventRepo: eventRepo,
	}
}

func (q *WorkerQueue) EnqueueReplay(userID, deckID int64) error {
	return q.pool.Submit(&worker.ReplayDeckJob{
		CardRepo:  q.cardRepo,
		EventRepo: q.eventRepo,
		UserID:    userID,
		DeckID:    deckID,
	})
}
