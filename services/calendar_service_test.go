package services

import (
	"testing"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func makeOrder(day int, hour int, calories, price float64, estimated bool) models.Order {
	return models.Order{
		OrderDate:     time.Date(2026, 1, day, hour, 0, 0, 0, time.Local),
		TotalCalories: fptr(calories),
		TotalPrice:    fptr(price),
		HasEstimates:  estimated,
	}
}

func TestBuildCalendarMonth(t *testing.T) {
	orders := []models.Order{
		makeOrder(15, 13, 800, 350, false),
		makeOrder(15, 21, 600, 250, true),
		makeOrder(28, 20, 1200, 500, false),
	}

	resp := buildCalendarMonth(2026, 1, orders)

	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 1, resp.Month)
	require.Len(t, resp.Days, 2, "days without orders stay absent")

	day15 := resp.Days["15"]
	assert.Len(t, day15.Orders, 2)
	assert.Equal(t, 1400.0, day15.TotalCalories)
	assert.Equal(t, 600.0, day15.TotalPrice)
	assert.True(t, day15.HasEstimates, "one estimated order marks the day")

	day28 := resp.Days["28"]
	assert.False(t, day28.HasEstimates)

	assert.Equal(t, 2600.0, resp.MonthlyCalories)
	assert.Equal(t, 1100.0, resp.MonthlyPrice)
}

func TestBuildCalendarMonth_NilTotalsSkipped(t *testing.T) {
	order := models.Order{OrderDate: time.Date(2026, 1, 3, 12, 0, 0, 0, time.Local)}

	resp := buildCalendarMonth(2026, 1, []models.Order{order})

	day := resp.Days["3"]
	assert.Len(t, day.Orders, 1)
	assert.Zero(t, day.TotalCalories)
	assert.Zero(t, resp.MonthlyCalories)
}

func TestBuildCalendarMonth_Empty(t *testing.T) {
	resp := buildCalendarMonth(2026, 2, nil)

	assert.NotNil(t, resp.Days)
	assert.Empty(t, resp.Days)
	assert.Zero(t, resp.MonthlyCalories)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.Local)
	orders := []models.Order{
		// July 2026: two orders on the same day, one late night
		{OrderDate: time.Date(2026, 7, 5, 13, 0, 0, 0, time.Local), TotalCalories: fptr(700), TotalPrice: fptr(300),
			Dishes: []models.Dish{{Name: "Chicken Biryani", Quantity: 1}}},
		{OrderDate: time.Date(2026, 7, 5, 23, 0, 0, 0, time.Local), TotalCalories: fptr(500), TotalPrice: fptr(200),
			Dishes: []models.Dish{{Name: "Chicken Biryani", Quantity: 2}}},
		// May 2026: one order
		{OrderDate: time.Date(2026, 5, 20, 12, 0, 0, 0, time.Local), TotalCalories: fptr(900), TotalPrice: fptr(450),
			Dishes: []models.Dish{{Name: "Masala Dosa", Quantity: 1}}},
	}

	resp := summarize(now, orders)

	require.Len(t, resp.MonthsData, 6)
	// most recent first
	assert.Equal(t, "July 2026", resp.MonthsData[0].Month)
	assert.Equal(t, "Jul", resp.MonthsData[0].ShortMonth)
	assert.Equal(t, 7, resp.MonthsData[0].MonthNum)
	assert.Equal(t, "February 2026", resp.MonthsData[5].Month)

	july := resp.MonthsData[0]
	assert.Equal(t, 2, july.OrderCount)
	assert.Equal(t, 1, july.DaysOrdered, "same-day orders count one day")
	assert.Equal(t, 1200.0, july.TotalCalories)
	assert.Equal(t, 500.0, july.TotalPrice)

	june := resp.MonthsData[1]
	assert.Zero(t, june.OrderCount)

	// averages span only months with data (July and May)
	assert.Equal(t, 2, resp.TotalMonthsAnalyzed)
	assert.Equal(t, 475.0, resp.AvgMonthlySpend)  // (500+450)/2
	assert.Equal(t, 1050.0, resp.AvgMonthlyCalories)
	assert.Equal(t, 1.0, resp.AvgDaysOrdered)
	assert.Equal(t, 1.5, resp.AvgOrderCount)

	// biryani: 1+2 units beats one dosa
	assert.Equal(t, "Chicken Biryani", resp.TopDish)
	assert.Equal(t, 3, resp.TopDishCount)

	// one of three orders was placed at 23:00
	assert.Equal(t, 33.3, resp.LateNightPct)
}

func TestSummarize_NoOrders(t *testing.T) {
	resp := summarize(time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local), nil)

	assert.Len(t, resp.MonthsData, 6)
	assert.Zero(t, resp.TotalMonthsAnalyzed)
	assert.Zero(t, resp.AvgMonthlySpend)
	assert.Empty(t, resp.TopDish)
	assert.Zero(t, resp.LateNightPct)
}

func TestLateNightPct(t *testing.T) {
	orders := []models.Order{
		{OrderDate: time.Date(2026, 1, 1, 23, 30, 0, 0, time.Local)},
		{OrderDate: time.Date(2026, 1, 2, 2, 0, 0, 0, time.Local)},
		{OrderDate: time.Date(2026, 1, 3, 13, 0, 0, 0, time.Local)},
		{OrderDate: time.Date(2026, 1, 4, 21, 59, 0, 0, time.Local)},
	}
	assert.Equal(t, 50.0, lateNightPct(orders))
	assert.Zero(t, lateNightPct(nil))
}

func TestMonthWindow(t *testing.T) {
	start, end := monthWindow(2026, 2)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), end)

	// december wraps the year
	start, end = monthWindow(2025, 12)
	assert.Equal(t, time.December, start.Month())
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, time.January, end.Month())
}

func TestAddMonths_NoEndOfMonthDrift(t *testing.T) {
	// From Jan 31, stepping back a month must land in December, not slide
	// into a normalized date.
	got := addMonths(time.Date(2026, 1, 31, 15, 0, 0, 0, time.Local), -1)
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 2025, got.Year())

	got = addMonths(time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local), -1)
	assert.Equal(t, time.February, got.Month())
}
