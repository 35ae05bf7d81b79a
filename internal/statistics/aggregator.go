// Package statistics builds the analytics snapshot shown on dashboards.
//
// Rates and averages are pointers: nil means there was nothing to measure,
// which is not the same as a measured zero. Callers render nil as "no data".
package statistics

import (
	"time"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/streak"
)

// RetentionScope says which reviews the retention rate was computed over.
type RetentionScope string

const (
	ScopeNone    RetentionScope = ""
	ScopeWindow  RetentionScope = "window"
	ScopeAllTime RetentionScope = "allTime"
)

// Input is everything Aggregate needs. Events may be in any order.
type Input struct {
	Cards    []models.Card
	Events   []models.ReviewEvent
	Now      time.Time
	Location *time.Location
	Range    DateRange
}

// ClassCounts is the number of cards in each classification at Now.
type ClassCounts struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Due      int `json:"due"`
	Mastered int `json:"mastered"`
}

// DailyActivity is one local calendar day of study.
type DailyActivity struct {
	Date         streak.CalendarDate `json:"date"`
	CardsStudied int                 `json:"cardsStudied"`
	Reviews      int                 `json:"reviews"`
	Sessions     int                 `json:"sessions"`
	Minutes      float64             `json:"minutes"`
}

type Snapshot struct {
	Range DateRange           `json:"range"`
	From  streak.CalendarDate `json:"from"`
	To    streak.CalendarDate `json:"to"`

	TotalCards int         `json:"totalCards"`
	Counts     ClassCounts `json:"counts"`

	// TotalReviews and PassedReviews are the reviews RetentionRate was
	// computed from; RetentionScope says which.
	TotalReviews   int            `json:"totalReviews"`
	PassedReviews  int            `json:"passedReviews"`
	RetentionRate  *float64       `json:"retentionRate"`
	RetentionScope RetentionScope `json:"retentionScope,omitempty"`

	AverageInterval   *float64 `json:"averageInterval"`
	AverageEaseFactor *float64 `json:"averageEaseFactor"`

	Activity []DailyActivity `json:"activity"`
}

// Aggregate computes the snapshot. It is pure: the same input always yields
// the same snapshot.
//
// The window is the last Range.Days() local dates ending today. For RangeAll
// it starts at the first reviewed date. Retention uses the window and falls
// back to all time when the window holds no reviews.
func Aggregate(in Input) Snapshot {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	today := streak.DateOf(in.Now, loc)

	snap := Snapshot{
		Range:      in.Range,
		TotalCards: len(in.Cards),
		Counts:     countClasses(in.Cards, in.Now),
	}
	snap.AverageInterval, snap.AverageEaseFactor = averages(in.Cards)

	snap.From, snap.To = window(in, loc, today)

	var windowTotal, windowPassed, allTotal, allPassed int
	for _, ev := range in.Events {
		d := streak.DateOf(ev.Timestamp, loc)
		if d.After(today) {
			continue
		}
		passed := flashcard.Quality(ev.QualityRating).Passed()
		allTotal++
		if passed {
			allPassed++
		}
		if !d.Before(snap.From) {
			windowTotal++
			if passed {
				windowPassed++
			}
		}
	}

	switch {
	case windowTotal > 0:
		snap.TotalReviews, snap.PassedReviews = windowTotal, windowPassed
		snap.RetentionScope = ScopeWindow
	case allTotal > 0:
		snap.TotalReviews, snap.PassedReviews = allTotal, allPassed
		snap.RetentionScope = ScopeAllTime
	}
	snap.RetentionRate = percent(snap.PassedReviews, snap.TotalReviews)

	snap.Activity = activity(in.Events, loc, snap.From, snap.To)
	return snap
}

func window(in Input, loc *time.Location, today streak.CalendarDate) (from, to streak.CalendarDate) {
	if days := in.Range.Days(); days > 0 {
		return today.AddDays(-(days - 1)), today
	}
	from = today
	for _, ev := range in.Events {
		if d := streak.DateOf(ev.Timestamp, loc); d.Before(from) {
			from = d
		}
	}
	return from, today
}

func countClasses(cards []models.Card, now time.Time) ClassCounts {
	var c ClassCounts
	for _, card := range cards {
		switch flashcard.Classify(card, now) {
		case flashcard.ClassNew:
			c.New++
		case flashcard.ClassLearning:
			c.Learning++
		case flashcard.ClassReview:
			c.Review++
		case flashcard.ClassDue:
			c.Due++
		case flashcard.ClassMastered:
			c.Mastered++
		}
	}
	return c
}

// averages covers cards that have passed at least once.
func averages(cards []models.Card) (interval, ease *float64) {
	var n, intervalSum int
	var easeSum float64
	for _, c := range cards {
		if c.Repetition < 1 {
			continue
		}
		n++
		intervalSum += c.Interval
		easeSum += c.EaseFactor
	}
	if n == 0 {
		return nil, nil
	}
	avgInterval := float64(intervalSum) / float64(n)
	avgEase := easeSum / float64(n)
	return &avgInterval, &avgEase
}

func percent(part, whole int) *float64 {
	if whole == 0 {
		return nil
	}
	v := float64(part) / float64(whole) * 100
	return &v
}

type dayBucket struct {
	cards    map[int64]struct{}
	sessions map[string]struct{}
	reviews  int
	seconds  float64
}

func activity(events []models.ReviewEvent, loc *time.Location, from, to streak.CalendarDate) []DailyActivity {
	buckets := make(map[streak.CalendarDate]*dayBucket)
	for _, ev := range events {
		d := streak.DateOf(ev.Timestamp, loc)
		if d.Before(from) || d.After(to) {
			continue
		}
		b := buckets[d]
		if b == nil {
			b = &dayBucket{cards: map[int64]struct{}{}, sessions: map[string]struct{}{}}
			buckets[d] = b
		}
		b.reviews++
		b.cards[ev.CardID] = struct{}{}
		b.sessions[ev.SessionID] = struct{}{}
		b.seconds += ev.DurationSeconds
	}

	out := make([]DailyActivity, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		day := DailyActivity{Date: d}
		if b := buckets[d]; b != nil {
			day.CardsStudied = len(b.cards)
			day.Reviews = b.reviews
			day.Sessions = len(b.sessions)
			day.Minutes = b.seconds / 60
		}
		out = append(out, day)
	}
	return out
}
