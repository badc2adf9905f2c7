// Package calview holds the pure presentation logic shared by the web
// and mobile calendar views: month grid layout, monthly aggregation,
// chart scaling, and health tier mapping. Nothing here touches the
// network or the database, so clients can render from any snapshot of
// API data.
package calview

import (
	"strconv"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
)

// DayCell is one slot in the rendered month grid. Leading and trailing
// blanks have Day 0 and nil Data.
type DayCell struct {
	Day  int
	Date time.Time
	Data *models.CalendarDayData
}

// DaysInMonth handles leap years via time normalization.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid lays a month out as a Sunday-first grid of cells. The
// slice always has a length that is a multiple of 7: blanks pad before
// the 1st (one per weekday preceding it) and after the last day to
// square off the final week. Day data comes from the sparse API map
// keyed by day-of-month strings.
func BuildMonthGrid(year, month int, days map[string]models.CalendarDayData) []DayCell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	total := DaysInMonth(year, month)

	cells := make([]DayCell, 0, 42)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, DayCell{})
	}

	for day := 1; day <= total; day++ {
		cell := DayCell{
			Day:  day,
			Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		}
		if data, ok := days[strconv.Itoa(day)]; ok {
			d := data
			cell.Data = &d
		}
		cells = append(cells, cell)
	}

	for len(cells)%7 != 0 {
		cells = append(cells, DayCell{})
	}
	return cells
}
