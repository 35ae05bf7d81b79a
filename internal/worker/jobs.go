package worker

import (
	"context"
	"errors"
	"math"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// ReplayResult summarizes one ReplayDeckJob run.
type ReplayResult struct {
	Cards    int
	Repaired int
	// Conflicts counts cards reviewed while the job ran; their new state
	// already came from a fresh review and is left alone.
	Conflicts     int
	SkippedEvents int
}

// ReplayDeckJob rebuilds every card in a deck from its review history and
// rewrites the cards whose stored schedule has drifted from it.
type ReplayDeckJob struct {
	CardRepo  repository.CardRepository
	EventRepo repository.ReviewEventRepository
	UserID    int64
	DeckID    int64

	Result ReplayResult
}

func (j *ReplayDeckJob) Name() string { return "replay_deck" }

func (j *ReplayDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": j.DeckID,
		"user_id": j.UserID,
	})
	log.Info("starting deck replay")

	cards, err := j.CardRepo.List(ctx, models.CardFilter{UserID: j.UserID, DeckID: j.DeckID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return err
	}

	j.Result = ReplayResult{Cards: len(cards)}
	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			log.Warn("replay interrupted after %d of %d cards", i, len(cards))
			return err
		}

		events, err := j.EventRepo.ListByCard(ctx, card.ID)
		if err != nil {
			log.Error("failed to list events for card %d: %v", card.ID, err)
			return err
		}

		replayed, skipped := flashcard.Replay(card, events)
		j.Result.SkippedEvents += skipped
		if skipped > 0 {
			log.Warn("card %d: skipped %d events with invalid ratings", card.ID, skipped)
		}
		if sameSchedule(card, replayed) {
			continue
		}

		log.Debug("card %d drifted: stored rep=%d interval=%d ease=%.2f, replayed rep=%d interval=%d ease=%.2f",
			card.ID, card.Repetition, card.Interval, card.EaseFactor,
			replayed.Repetition, replayed.Interval, replayed.EaseFactor)

		if _, err := j.CardRepo.UpdateSchedule(ctx, replayed); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				j.Result.Conflicts++
				continue
			}
			log.Error("failed to rewrite card %d: %v", card.ID, err)
			return err
		}
		j.Result.Repaired++
	}

	log.Info("deck replay finished: cards=%d repaired=%d conflicts=%d skipped_events=%d",
		j.Result.Cards, j.Result.Repaired, j.Result.Conflicts, j.Result.SkippedEvents)
	return nil
}

func sameSchedule(a, b models.Card) bool {
	if a.Repetition != b.Repetition || a.Interval != b.Interval {
		return false
	}
	if math.Abs(a.EaseFactor-b.EaseFactor) > 1e-9 {
		return false
	}
	switch {
	case a.DueDate == nil || b.DueDate == nil:
		return a.DueDate == nil && b.DueDate == nil
	default:
		return a.DueDate.Equal(*b.DueDate)
	}
}
