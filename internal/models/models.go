package models

import "time"

type Deck struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	CardCount int       `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardFilter narrows card listings. Zero values mean "no constraint".
type CardFilter struct {
	UserID    int64
	DeckID    int64
	DueBefore *time.Time
	OnlyNew   bool
	Limit     int
}

// EventFilter narrows review event listings to a user and an optional
// half-open time range [From, To).
type EventFilter struct {
	UserID int64
	CardID int64
	From   *time.Time
	To     *time.Time
}
