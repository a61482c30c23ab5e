package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklySeriesZeroFills(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	series := WeeklySeries(now, nil)

	require.Len(t, series.Labels, 7)
	require.Len(t, series.Data, 7)
	assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5", "Week 6", "Week 7"}, series.Labels)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, series.Data)
}

func TestWeeklySeriesPlacesCounts(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	thisYear, thisWeek := now.ISOWeek()
	lastYear, lastWeek := now.AddDate(0, 0, -7).ISOWeek()

	series := WeeklySeries(now, map[ISOWeek]int{
		{Year: thisYear, Week: thisWeek}: 12,
		{Year: lastYear, Week: lastWeek}: 5,
	})

	assert.Equal(t, 12, series.Data[6])
	assert.Equal(t, 5, series.Data[5])
	assert.Equal(t, 0, series.Data[0])
}

func TestWeeklySeriesSpansYearBoundary(t *testing.T) {
	// Early January: some buckets belong to the previous ISO year.
	now := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
	oldYear, oldWeek := now.AddDate(0, 0, -7*6).ISOWeek()

	series := WeeklySeries(now, map[ISOWeek]int{
		{Year: oldYear, Week: oldWeek}: 3,
	})
	assert.Equal(t, 3, series.Data[0])
}

func TestDayBounds(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 42, 7, 123, time.UTC)
	start, end := dayBounds(now)

	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, end.After(now))
	assert.True(t, end.Before(start.AddDate(0, 0, 1)))
}

func TestIsoWeekStart(t *testing.T) {
	// 2026-08-28 is a Friday; its ISO week starts Monday the 24th.
	friday := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), isoWeekStart(friday))

	// A Sunday belongs to the week starting the previous Monday.
	sunday := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), isoWeekStart(sunday))

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, isoWeekStart(monday))
}
