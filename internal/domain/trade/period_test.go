package trade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"", PeriodDay, false},
		{"day", PeriodDay, false},
		{"WEEK", PeriodWeek, false},
		{" month ", PeriodMonth, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Start(t *testing.T) {
	// Wednesday 2026-03-18 15:04:05 UTC
	now := time.Date(2026, 3, 18, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), PeriodDay.Start(now))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), PeriodWeek.Start(now))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.Start(now))
}

func TestPeriod_StartOnSunday(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), PeriodWeek.Start(sunday))
}

func TestPeriod_StartAcrossMonthBoundary(t *testing.T) {
	// Monday 2026-06-01: the week began on Sunday 2026-05-31
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), PeriodWeek.Start(now))
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.Start(now))
}

func TestPeriod_StartUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 18, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, loc), PeriodDay.Start(now))
}

func TestPeriod_StartNeverAfterNow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*40; h += 7 {
		now := base.Add(time.Duration(h) * time.Hour)
		for _, p := range []Period{PeriodDay, PeriodWeek, PeriodMonth} {
			start := p.Start(now)
			assert.False(t, start.After(now), "%s start %s after %s", p, start, now)
		}
	}
}
