package flashcard

import (
	"hash/fnv"
	"sort"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// QueueOptions controls study queue selection.
type QueueOptions struct {
	// Limit caps the session size. Zero or negative means no cap.
	Limit int
	// Seed fixes the session order. Use SessionSeed to derive it from a
	// session id.
	Seed uint64
}

// Queue is an ordered study session.
type Queue struct {
	Cards    []models.Card
	DueCount int
	NewCount int
	// TotalCards is the size of the pool the queue was selected from, so
	// callers can tell "nothing due" from "deck empty".
	TotalCards int
}

// IsEmpty reports whether there is nothing to study right now.
func (q Queue) IsEmpty() bool {
	return len(q.Cards) == 0
}

// IsEmptyDeck reports whether the pool held no cards at all.
func (q Queue) IsEmptyDeck() bool {
	return q.TotalCards == 0
}

// SessionSeed derives a queue seed from a session id.
func SessionSeed(sessionID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return h.Sum64()
}

// SelectQueue picks the cards to study at now: due cards (dueDate <= now)
// and new cards (no dueDate). When the pool exceeds opts.Limit, new cards
// are dropped before due cards, and due cards are kept most-overdue first.
// Which new cards get in, and the final order, come from opts.Seed.
//
// Every card's position is a function of (seed, card id) alone, so
// re-selecting after some cards were reviewed keeps the remaining cards in
// the same relative order.
func SelectQueue(cards []models.Card, now time.Time, opts QueueOptions) Queue {
	var due, fresh []models.Card
	for _, c := range cards {
		switch {
		case c.DueDate == nil:
			fresh = append(fresh, c)
		case !c.DueDate.After(now):
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(*due[j].DueDate) {
			return due[i].DueDate.Before(*due[j].DueDate)
		}
		return due[i].ID < due[j].ID
	})
	sortBySessionKey(fresh, opts.Seed)

	takeDue, takeNew := len(due), len(fresh)
	if opts.Limit > 0 {
		takeDue = min(takeDue, opts.Limit)
		takeNew = min(takeNew, opts.Limit-takeDue)
	}

	selected := make([]models.Card, 0, takeDue+takeNew)
	selected = append(selected, due[:takeDue]...)
	selected = append(selected, fresh[:takeNew]...)
	sortBySessionKey(selected, opts.Seed)

	return Queue{
		Cards:      selected,
		DueCount:   takeDue,
		NewCount:   takeNew,
		TotalCards: len(cards),
	}
}

func sortBySessionKey(cards []models.Card, seed uint64) {
	sort.Slice(cards, func(i, j int) bool {
		ki, kj := sessionKey(seed, cards[i].ID), sessionKey(seed, cards[j].ID)
		if ki != kj {
			return ki < kj
		}
		return cards[i].ID < cards[j].ID
	})
}

// sessionKey is splitmix64 over the seed and card id.
func sessionKey(seed uint64, id int64) uint64 {
	z := seed + uint64(id)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
