package flashcard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// ErrInvalidRating is returned for quality ratings outside the 0..5 scale.
// Use errors.Is to check.
var ErrInvalidRating = errors.New("flashcard: invalid rating")

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// PassingQuality is the lowest rating that counts as a successful recall.
	PassingQuality = CorrectDifficult

	// MasteredInterval is the interval (days) from which a card with at
	// least two consecutive passes counts as mastered.
	MasteredInterval = 21
)

// Quality is the user's self-assessed recall quality on the SM-2 scale.
type Quality int

const (
	Blackout          Quality = iota // no recall at all
	Incorrect                        // wrong, answer recognized when shown
	IncorrectFamiliar                // wrong, but the answer felt familiar
	CorrectDifficult                 // right with serious difficulty
	CorrectHesitation                // right after some hesitation
	Perfect                          // right with no hesitation
)

var qualityNames = [...]string{
	Blackout:          "Blackout",
	Incorrect:         "Incorrect",
	IncorrectFamiliar: "Familiar",
	CorrectDifficult:  "Difficult",
	CorrectHesitation: "Hesitant",
	Perfect:           "Perfect",
}

// IsValid reports whether q is on the 0..5 scale.
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= Perfect
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// String returns the display label for the rating, or "Quality(n)" when
// the value is off the scale.
func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Qualities lists every rating in ascending order, for rendering answer
// buttons.
func Qualities() []Quality {
	return []Quality{Blackout, Incorrect, IncorrectFamiliar, CorrectDifficult, CorrectHesitation, Perfect}
}

// ParseQuality converts a wire value into a Quality. NaN, infinities,
// fractional values and anything outside 0..5 are rejected.
func ParseQuality(v float64) (Quality, error) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < float64(Blackout) || v > float64(Perfect) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRating, v)
	}
	return Quality(v), nil
}

// NewCardState returns the scheduling state of a card that has never been
// studied.
func NewCardState(card models.Card) models.Card {
	card.Repetition = 0
	card.EaseFactor = DefaultEaseFactor
	card.Interval = 0
	card.DueDate = nil
	return card
}

// Schedule applies one review to card and returns the updated card and the
// new interval in days. It reads no clock and performs no I/O: the same
// inputs always produce the same outputs. The due date is in UTC. On an invalid rating the card is
// returned unchanged together with ErrInvalidRating.
func Schedule(card models.Card, quality Quality, now time.Time) (models.Card, int, error) {
	if !quality.IsValid() {
		return card, 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(quality))
	}

	ef, repetition, interval := clampState(card)

	miss := float64(Perfect - quality)
	ef += 0.1 - miss*(0.08+miss*0.02)
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}

	var newInterval int
	if !quality.Passed() {
		repetition = 0
		newInterval = 1
	} else {
		repetition++
		switch repetition {
		case 1:
			newInterval = 1
		case 2:
			newInterval = 6
		default:
			newInterval = int(math.Round(float64(interval) * ef))
			if newInterval < 1 {
				newInterval = 1
			}
		}
	}

	// Days are added in UTC so the same instant schedules the same due
	// date whatever zone now carries.
	due := now.UTC().AddDate(0, 0, newInterval)
	card.Repetition = repetition
	card.EaseFactor = ef
	card.Interval = newInterval
	card.DueDate = &due
	return card, newInterval, nil
}

// clampState repairs out-of-range stored values so a bad historical record
// cannot make a review fail.
func clampState(card models.Card) (ef float64, repetition, interval int) {
	ef = card.EaseFactor
	if math.IsNaN(ef) || ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	if math.IsInf(ef, 1) {
		ef = DefaultEaseFactor
	}
	repetition = max(card.Repetition, 0)
	interval = max(card.Interval, 0)
	return ef, repetition, interval
}

// Review schedules card and builds the ReviewEvent the caller must append
// alongside the card update. Both carry the same now and rating.
func Review(card models.Card, userID int64, sessionID string, quality Quality, duration time.Duration, now time.Time) (models.Card, models.ReviewEvent, error) {
	updated, interval, err := Schedule(card, quality, now)
	if err != nil {
		return card, models.ReviewEvent{}, err
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	event := models.ReviewEvent{
		CardID:            card.ID,
		UserID:            userID,
		SessionID:         sessionID,
		Timestamp:         now,
		QualityRating:     int(quality),
		ResultingInterval: interval,
		DurationSeconds:   seconds,
	}
	return updated, event, nil
}

// Replay rebuilds a card's scheduling state from its review history,
// starting from the never-studied state. Events must be in chronological
// order. Events carrying an invalid rating are skipped and counted.
func Replay(card models.Card, events []models.ReviewEvent) (models.Card, int) {
	card = NewCardState(card)
	skipped := 0
	for _, ev := range events {
		next, _, err := Schedule(card, Quality(ev.QualityRating), ev.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		card = next
	}
	return card, skipped
}
