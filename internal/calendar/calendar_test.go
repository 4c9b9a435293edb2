package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestFor_DaysInMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		want int
	}{
		{date(2024, time.February, 10), 29},
		{date(2023, time.February, 10), 28},
		{date(2000, time.February, 1), 29},
		{date(1900, time.February, 1), 28},
		{date(2024, time.April, 30), 30},
		{date(2024, time.January, 31), 31},
		{date(2024, time.December, 31), 31},
	}
	for _, tt := range tests {
		t.Run(tt.now.Format("2006-01"), func(t *testing.T) {
			m := For(tt.now)
			assert.Equal(t, tt.want, m.DaysInMonth)
			assert.Len(t, m.Cells, m.FirstWeekday+tt.want)
		})
	}
}

func TestFor_SundayStartHasNoFiller(t *testing.T) {
	// September 2024 starts on a Sunday.
	m := For(date(2024, time.September, 18))
	assert.Equal(t, 0, m.FirstWeekday)
	require.NotEmpty(t, m.Cells)
	assert.Equal(t, 1, m.Cells[0].Day)
}

func TestFor_FillerThenDays(t *testing.T) {
	// February 2024 starts on a Thursday.
	m := For(date(2024, time.February, 14))
	assert.Equal(t, 4, m.FirstWeekday)
	for i := 0; i < 4; i++ {
		assert.True(t, m.Cells[i].Filler(), "cell %d", i)
	}
	for i, c := range m.Cells[4:] {
		assert.Equal(t, i+1, c.Day)
	}
}

func TestFor_TodayMarked(t *testing.T) {
	m := For(date(2024, time.February, 14))
	var marked []int
	for _, c := range m.Cells {
		if c.Today {
			marked = append(marked, c.Day)
		}
	}
	assert.Equal(t, []int{14}, marked)
	assert.Equal(t, 14, m.Today)
}

func TestFor_Labels(t *testing.T) {
	assert.Equal(t, "DECEMBER 2023", For(date(2023, time.December, 31)).Label)
	assert.Equal(t, "JANUARY 2024", For(date(2024, time.January, 1)).Label)
	assert.Equal(t, "FEBRUARY 2024", Label(2024, time.February))
	assert.Equal(t, [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}, For(date(2024, time.May, 1)).Weekdays)
}

func TestFor_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-01-31 20:00 UTC is already February 1st in UTC+10.
	now := time.Date(2024, time.January, 31, 20, 0, 0, 0, time.UTC).In(loc)
	m := For(now)
	assert.Equal(t, time.February, m.Month)
	assert.Equal(t, 1, m.Today)
}

func TestGrid(t *testing.T) {
	// September 2024: 0 filler + 30 days = 5 weeks, last one has 2 cells.
	weeks := For(date(2024, time.September, 1)).Grid()
	require.Len(t, weeks, 5)
	assert.Len(t, weeks[0], 7)
	assert.Len(t, weeks[4], 2)
	assert.Equal(t, 30, weeks[4][1].Day)
}
