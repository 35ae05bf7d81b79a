package statistics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDateRange is returned by ParseDateRange for unknown ranges.
var ErrInvalidDateRange = errors.New("statistics: invalid date range")

// DateRange is the trailing window a snapshot covers.
type DateRange string

const (
	Range7Days  DateRange = "7d"
	Range30Days DateRange = "30d"
	Range90Days DateRange = "90d"
	RangeAll    DateRange = "all"

	DefaultRange = Range30Days
)

// ParseDateRange accepts 7d, 30d, 90d and all (case-insensitive). An empty
// string yields DefaultRange.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return DefaultRange, nil
	case Range7Days, Range30Days, Range90Days, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
}

// Days is the window length in calendar days, or 0 for RangeAll.
func (r DateRange) Days() int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	case Range90Days:
		return 90
	default:
		return 0
	}
}
