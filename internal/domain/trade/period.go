package trade

import (
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
)

// Period is a reporting lookback anchored to the calendar
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ErrInvalidPeriod is returned for unknown period names
var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Period must be one of day, week, month")

// ParsePeriod parses a period name. An empty string yields PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// Start returns the beginning of the period containing now, in now's location:
// midnight today, the most recent Sunday at midnight, or the first of the month.
func (p Period) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodWeek:
		return midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	default:
		return midnight
	}
}
