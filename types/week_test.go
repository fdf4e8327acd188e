package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeekBoundary(t *testing.T) {
	// Wednesday mid-week pins Monday 00:00:00 through Sunday 23:59:59 UTC.
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	w := CurrentWeek(now)

	require.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC).Unix(), w.Start)
	require.Equal(t, time.Date(2024, 6, 16, 23, 59, 59, 0, time.UTC).Unix(), w.End)
}

func TestCurrentWeekOnMonday(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	w := CurrentWeek(now)

	require.Equal(t, now.Unix(), w.Start)
}

func TestCurrentWeekOnSunday(t *testing.T) {
	// Sunday still belongs to the week that started the previous Monday.
	now := time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC)

	w := CurrentWeek(now)

	require.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC).Unix(), w.Start)
	require.Equal(t, time.Date(2024, 6, 16, 23, 59, 59, 0, time.UTC).Unix(), w.End)
}

func TestWeekIntervalFormatted(t *testing.T) {
	w := WeekInterval{
		Start: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC).Unix(),
		End:   time.Date(2024, 6, 16, 23, 59, 59, 0, time.UTC).Unix(),
	}

	require.Equal(t, "10 June 2024 - 16 June 2024 (UTC)", w.Formatted())
}
