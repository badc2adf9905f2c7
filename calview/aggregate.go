package calview

import (
	"math"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
)

// MonthlyCalories sums the per-day calorie totals of a month response.
func MonthlyCalories(days map[string]models.CalendarDayData) float64 {
	var total float64
	for _, d := range days {
		total += d.TotalCalories
	}
	return total
}

// MonthlyPrice sums the per-day spend totals of a month response.
func MonthlyPrice(days map[string]models.CalendarDayData) float64 {
	var total float64
	for _, d := range days {
		total += d.TotalPrice
	}
	return total
}

// HasAnyEstimates reports whether any day in the month carries
// estimated calorie figures.
func HasAnyEstimates(days map[string]models.CalendarDayData) bool {
	for _, d := range days {
		if d.HasEstimates {
			return true
		}
	}
	return false
}

// VerifyMonthlyTotals checks that the server's monthly rollups agree
// with the per-day data, within float tolerance. Clients use this to
// catch stale or partially-loaded months before rendering headline
// numbers.
func VerifyMonthlyTotals(m *models.CalendarMonthResponse) bool {
	const eps = 1e-6
	return math.Abs(MonthlyCalories(m.Days)-m.MonthlyCalories) < eps &&
		math.Abs(MonthlyPrice(m.Days)-m.MonthlyPrice) < eps
}
