package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

var queueNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// buildPool returns due cards with ids 1..due (card 1 most overdue), new
// cards after that, and scheduled-in-future cards last.
func buildPool(due, fresh, future int) []models.Card {
	var cards []models.Card
	id := int64(1)
	for i := 0; i < due; i++ {
		d := queueNow.AddDate(0, 0, -(due - i))
		cards = append(cards, models.Card{ID: id, Repetition: 2, Interval: 6, EaseFactor: 2.5, DueDate: &d})
		id++
	}
	for i := 0; i < fresh; i++ {
		cards = append(cards, flashcard.NewCardState(models.Card{ID: id}))
		id++
	}
	for i := 0; i < future; i++ {
		d := queueNow.AddDate(0, 0, i+1)
		cards = append(cards, models.Card{ID: id, Repetition: 3, Interval: 15, EaseFactor: 2.5, DueDate: &d})
		id++
	}
	return cards
}

func ids(cards []models.Card) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestSelectQueue_NewCardsCappedFirst(t *testing.T) {
	pool := buildPool(3, 10, 4)

	q := flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Limit: 5, Seed: 42})

	require.Len(t, q.Cards, 5)
	assert.Equal(t, 3, q.DueCount)
	assert.Equal(t, 2, q.NewCount)
	assert.Equal(t, 17, q.TotalCards)
	assert.Subset(t, ids(q.Cards), []int64{1, 2, 3}, "every due card must be kept")
}

func TestSelectQueue_MostOverdueFirstWhenDueExceedsLimit(t *testing.T) {
	pool := buildPool(6, 4, 0)

	q := flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Limit: 3, Seed: 7})

	assert.Equal(t, 3, q.DueCount)
	assert.Zero(t, q.NewCount)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids(q.Cards))
}

func TestSelectQueue_ExcludesFutureCards(t *testing.T) {
	pool := buildPool(2, 1, 5)

	q := flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Seed: 1})

	assert.ElementsMatch(t, []int64{1, 2, 3}, ids(q.Cards))
	for _, c := range q.Cards {
		if c.DueDate != nil {
			assert.False(t, c.DueDate.After(queueNow))
		}
	}
}

func TestSelectQueue_SameSeedSameOrder(t *testing.T) {
	pool := buildPool(5, 8, 2)
	seed := flashcard.SessionSeed("0b6b1c1e-session")

	first := flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Limit: 10, Seed: seed})
	second := flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Limit: 10, Seed: seed})

	assert.Equal(t, ids(first.Cards), ids(second.Cards))
}

func TestSelectQueue_InputOrderIrrelevant(t *testing.T) {
	pool := buildPool(4, 6, 0)
	reversed := make([]models.Card, len(pool))
	for i, c := range pool {
		reversed[len(pool)-1-i] = c
	}
	opts := flashcard.QueueOptions{Limit: 8, Seed: 99}

	assert.Equal(t,
		ids(flashcard.SelectQueue(pool, queueNow, opts).Cards),
		ids(flashcard.SelectQueue(reversed, queueNow, opts).Cards))
}

func TestSelectQueue_RemovingReviewedCardKeepsOrder(t *testing.T) {
	pool := buildPool(4, 4, 0)
	opts := flashcard.QueueOptions{Seed: flashcard.SessionSeed("resume")}

	before := ids(flashcard.SelectQueue(pool, queueNow, opts).Cards)

	// Review the first card of the session: it is no longer due.
	reviewed := before[0]
	var remaining []models.Card
	for _, c := range pool {
		if c.ID == reviewed {
			next, _, err := flashcard.Schedule(c, flashcard.Perfect, queueNow)
			require.NoError(t, err)
			c = next
		}
		remaining = append(remaining, c)
	}

	after := ids(flashcard.SelectQueue(remaining, queueNow, opts).Cards)

	assert.Equal(t, before[1:], after)
}

func TestSelectQueue_EmptyQueueVersusEmptyDeck(t *testing.T) {
	empty := flashcard.SelectQueue(nil, queueNow, flashcard.QueueOptions{Limit: 10})
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.IsEmptyDeck())

	nothingDue := flashcard.SelectQueue(buildPool(0, 0, 3), queueNow, flashcard.QueueOptions{Limit: 10})
	assert.True(t, nothingDue.IsEmpty())
	assert.False(t, nothingDue.IsEmptyDeck())
	assert.Equal(t, 3, nothingDue.TotalCards)
}

func TestSelectQueue_NoLimitTakesAll(t *testing.T) {
	q := flashcard.SelectQueue(buildPool(3, 3, 1), queueNow, flashcard.QueueOptions{Limit: 0, Seed: 5})

	assert.Len(t, q.Cards, 6)
	assert.Equal(t, 3, q.DueCount)
	assert.Equal(t, 3, q.NewCount)
}

func TestSelectQueue_DoesNotReorderInput(t *testing.T) {
	pool := buildPool(3, 3, 0)
	before := ids(pool)

	flashcard.SelectQueue(pool, queueNow, flashcard.QueueOptions{Seed: 3})

	assert.Equal(t, before, ids(pool))
}

func TestSessionSeed(t *testing.T) {
	assert.Equal(t, flashcard.SessionSeed("abc"), flashcard.SessionSeed("abc"))
	assert.NotEqual(t, flashcard.SessionSeed("abc"), flashcard.SessionSeed("abd"))
}
