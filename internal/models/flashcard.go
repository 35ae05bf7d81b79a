package models

import "time"

// Card is a flashcard with its scheduling state. Scheduling fields are only
// written by flashcard.Schedule; Version guards concurrent writes.
type Card struct {
	ID         int64      `json:"id"`
	DeckID     int64      `json:"deckId"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Repetition int        `json:"repetition"`
	EaseFactor float64    `json:"easeFactor"`
	Interval   int        `json:"interval"`
	DueDate    *time.Time `json:"dueDate"` // nil until the first review
	Version    int64      `json:"version"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsNew reports whether the card has never been studied.
func (c Card) IsNew() bool {
	return c.DueDate == nil
}

// ReviewEvent is the append-only record of one completed review.
type ReviewEvent struct {
	ID                int64     `json:"id"`
	CardID            int64     `json:"cardId"`
	UserID            int64     `json:"userId"`
	SessionID         string    `json:"sessionId"`
	Timestamp         time.Time `json:"timestamp"`
	QualityRating     int       `json:"qualityRating"`
	ResultingInterval int       `json:"resultingInterval"`
	DurationSeconds   float64   `json:"durationSeconds"`
}
