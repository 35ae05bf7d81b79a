package flashcard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Classification is the derived, never-stored study state of a card.
type Classification int

const (
	ClassNew Classification = iota + 1
	ClassLearning
	ClassReview
	ClassDue
	ClassMastered
)

var classificationNames = [...]string{
	ClassNew:      "New",
	ClassLearning: "Learning",
	ClassReview:   "Review",
	ClassDue:      "Due",
	ClassMastered: "Mastered",
}

// Classifications lists every classification in display order.
func Classifications() []Classification {
	return []Classification{ClassNew, ClassLearning, ClassReview, ClassDue, ClassMastered}
}

func (c Classification) String() string {
	if c >= ClassNew && c <= ClassMastered {
		return classificationNames[c]
	}
	return fmt.Sprintf("Classification(%d)", int(c))
}

// MarshalJSON encodes the classification as its name.
func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Classify derives the card's classification at now. When several apply the
// first match wins: New, Due, Mastered, Learning, Review. The card is passed
// by value and never modified.
func Classify(card models.Card, now time.Time) Classification {
	switch {
	case card.DueDate == nil:
		return ClassNew
	case !card.DueDate.After(now):
		return ClassDue
	case card.Interval >= MasteredInterval && card.Repetition >= 2:
		return ClassMastered
	case card.Repetition < 2:
		return ClassLearning
	default:
		return ClassReview
	}
}
