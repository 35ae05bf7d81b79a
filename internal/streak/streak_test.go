package streak_test

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/streak"
)

var today = streak.NewDate(2024, time.March, 15)

func daysAgo(n ...int) []streak.CalendarDate {
	out := make([]streak.CalendarDate, 0, len(n))
	for _, v := range n {
		out = append(out, today.AddDays(-v))
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		dates []streak.CalendarDate
		want  streak.State
	}{
		{name: "no history", dates: nil, want: streak.State{}},
		{name: "only today", dates: daysAgo(0), want: streak.State{Current: 1, Longest: 1}},
		{name: "only yesterday keeps streak alive", dates: daysAgo(1), want: streak.State{Current: 1, Longest: 1}},
		{name: "run ending yesterday", dates: daysAgo(3, 2, 1), want: streak.State{Current: 3, Longest: 3}},
		{name: "gap before yesterday", dates: daysAgo(5, 4), want: streak.State{Current: 0, Longest: 2}},
		{name: "run ending today", dates: daysAgo(2, 1, 0), want: streak.State{Current: 3, Longest: 3}},
		{
			name:  "longest run in the past",
			dates: daysAgo(20, 19, 18, 17, 16, 1, 0),
			want:  streak.State{Current: 2, Longest: 5},
		},
		{
			name:  "duplicates and unsorted input",
			dates: daysAgo(0, 2, 1, 1, 0, 2),
			want:  streak.State{Current: 3, Longest: 3},
		},
		{
			name:  "future dates ignored",
			dates: append(daysAgo(1), today.AddDays(1), today.AddDays(2)),
			want:  streak.State{Current: 1, Longest: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streak.Compute(tt.dates, today))
		})
	}
}

func TestCompute_AcrossMonthAndYear(t *testing.T) {
	newYear := streak.NewDate(2025, time.January, 1)
	dates := []streak.CalendarDate{
		streak.NewDate(2024, time.December, 30),
		streak.NewDate(2024, time.December, 31),
		newYear,
	}

	assert.Equal(t, streak.State{Current: 3, Longest: 3}, streak.Compute(dates, newYear))
}

func TestCompute_LeapDay(t *testing.T) {
	dates := []streak.CalendarDate{
		streak.NewDate(2024, time.February, 28),
		streak.NewDate(2024, time.February, 29),
	}

	assert.Equal(t, 2, streak.Compute(dates, streak.NewDate(2024, time.March, 1)).Current)
}

func TestCompute_Pure(t *testing.T) {
	dates := daysAgo(3, 2, 1)
	before := append([]streak.CalendarDate(nil), dates...)

	first := streak.Compute(dates, today)
	second := streak.Compute(dates, today)

	assert.Equal(t, first, second)
	assert.Equal(t, before, dates)
}

func TestDateOf_TimeZoneBoundary(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:30 and 00:30 in Tokyo on consecutive local days, but the same UTC day.
	late := time.Date(2024, time.March, 14, 14, 30, 0, 0, time.UTC)
	early := time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-14", streak.DateOf(late, tokyo).String())
	assert.Equal(t, "2024-03-15", streak.DateOf(early, tokyo).String())
	assert.Equal(t, "2024-03-14", streak.DateOf(early, time.UTC).String())

	// 01:30 UTC is still the previous evening in New York.
	evening := time.Date(2024, time.March, 15, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-14", streak.DateOf(evening, newYork).String())

	assert.Equal(t, streak.DateOf(late, time.UTC), streak.DateOf(late, nil))
}

func TestCompute_TimeZoneChangesStreak(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	reviews := []time.Time{
		time.Date(2024, time.March, 14, 14, 30, 0, 0, time.UTC),
		time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC),
	}
	now := time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC)

	inTokyo := streak.Compute(streak.DatesFromTimes(reviews, tokyo), streak.DateOf(now, tokyo))
	inUTC := streak.Compute(streak.DatesFromTimes(reviews, time.UTC), streak.DateOf(now, time.UTC))

	assert.Equal(t, streak.State{Current: 2, Longest: 2}, inTokyo)
	assert.Equal(t, streak.State{Current: 1, Longest: 1}, inUTC)
}

func TestCompute_DaylightSavingTransition(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// US clocks sprang forward on 2024-03-10; that local day is 23h long.
	reviews := []time.Time{
		time.Date(2024, time.March, 9, 22, 0, 0, 0, newYork),
		time.Date(2024, time.March, 10, 23, 30, 0, 0, newYork),
		time.Date(2024, time.March, 11, 0, 15, 0, 0, newYork),
	}

	dates := streak.DatesFromTimes(reviews, newYork)
	require.Len(t, dates, 3)
	assert.Equal(t, 3, streak.Compute(dates, streak.NewDate(2024, time.March, 11)).Current)
}

func TestDatesFromTimes_DistinctSorted(t *testing.T) {
	base := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	times := []time.Time{base.AddDate(0, 0, 2), base, base.Add(3 * time.Hour), base.AddDate(0, 0, 1)}

	dates := streak.DatesFromTimes(times, time.UTC)

	assert.Equal(t, []streak.CalendarDate{
		streak.NewDate(2024, time.March, 10),
		streak.NewDate(2024, time.March, 11),
		streak.NewDate(2024, time.March, 12),
	}, dates)
}

func TestCalendarDate(t *testing.T) {
	d, err := streak.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, streak.NewDate(2024, time.March, 1), d.AddDays(1))
	assert.Equal(t, 366, streak.NewDate(2025, time.March, 1).DaysSince(streak.NewDate(2024, time.March, 1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.IsZero())

	_, err = streak.ParseDate("2024-13-01")
	assert.Error(t, err)

	data, err := json.Marshal(struct {
		Date streak.CalendarDate `json:"date"`
	}{Date: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-02-29"}`, string(data))

	var decoded struct {
		Date streak.CalendarDate `json:"date"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded.Date)
}
