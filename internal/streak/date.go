package streak

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// CalendarDate is a day on the user's local calendar, with no time or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes out-of-range parts the way time.Date does.
func NewDate(year int, month time.Month, day int) CalendarDate {
	return fromMidnight(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date t falls on in loc. A nil loc means UTC.
func DateOf(t time.Time, loc *time.Location) CalendarDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// DatesFromTimes converts timestamps to the distinct set of local dates they
// fall on, sorted ascending.
func DatesFromTimes(times []time.Time, loc *time.Location) []CalendarDate {
	seen := make(map[CalendarDate]struct{}, len(times))
	out := make([]CalendarDate, 0, len(times))
	for _, t := range times {
		d := DateOf(t, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	SortDates(out)
	return out
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return fromMidnight(t), nil
}

func fromMidnight(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

func (d CalendarDate) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return fromMidnight(d.midnight().AddDate(0, 0, n))
}

// DaysSince returns the number of calendar days from other to d.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	// Both sides are UTC midnights, so every day is exactly 24h.
	return int(d.midnight().Sub(other.midnight()).Hours() / 24)
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.midnight().Before(other.midnight())
}

func (d CalendarDate) After(other CalendarDate) bool {
	return other.Before(d)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Start returns the first instant of the date in loc.
func (d CalendarDate) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CalendarDate) String() string {
	return d.midnight().Format(dateLayout)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortDates sorts dates ascending in place.
func SortDates(dates []CalendarDate) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
