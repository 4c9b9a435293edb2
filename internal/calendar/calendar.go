// Package calendar lays out the days of the month containing a given instant.
package calendar

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// Weekdays are the header cells, Sunday first.
var Weekdays = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// Cell is one grid slot. Day is 0 for the filler slots before the 1st.
type Cell struct {
	Day   int  `json:"day"`
	Today bool `json:"today,omitempty"`
}

func (c Cell) Filler() bool { return c.Day == 0 }

type Month struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	Label        string     `json:"label"`
	Weekdays     [7]string  `json:"weekdays"`
	FirstWeekday int        `json:"firstWeekday"`
	DaysInMonth  int        `json:"daysInMonth"`
	Today        int        `json:"today"`
	Cells        []Cell     `json:"cells"`
}

// For computes the month containing now, in now's location.
func For(now time.Time) Month {
	year, month, today := now.Date()
	loc := now.Location()

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	firstWeekday := int(first.Weekday())
	// Day 0 of the next month is the last day of this one.
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()

	cells := make([]Cell, 0, firstWeekday+daysInMonth)
	for i := 0; i < firstWeekday; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, Cell{Day: day, Today: day == today})
	}

	return Month{
		Year:         year,
		Month:        month,
		Label:        Label(year, month),
		Weekdays:     Weekdays,
		FirstWeekday: firstWeekday,
		DaysInMonth:  daysInMonth,
		Today:        today,
		Cells:        cells,
	}
}

// Label formats "{MONTH} {YEAR}", e.g. "FEBRUARY 2024".
func Label(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

// Grid splits the cells into weeks of seven. The last week may be short.
func (m Month) Grid() [][]Cell {
	var weeks [][]Cell
	for start := 0; start < len(m.Cells); start += 7 {
		end := start + 7
		if end > len(m.Cells) {
			end = len(m.Cells)
		}
		weeks = append(weeks, m.Cells[start:end])
	}
	return weeks
}
