package calview

import (
	"testing"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyTotals(t *testing.T) {
	days := map[string]models.CalendarDayData{
		"3":  {TotalCalories: 850, TotalPrice: 320.5},
		"12": {TotalCalories: 1400, TotalPrice: 610},
		"28": {TotalCalories: 0, TotalPrice: 0},
	}

	assert.Equal(t, 2250.0, MonthlyCalories(days))
	assert.Equal(t, 930.5, MonthlyPrice(days))
}

func TestHasAnyEstimates(t *testing.T) {
	clean := map[string]models.CalendarDayData{
		"1": {TotalCalories: 500},
		"2": {TotalCalories: 700},
	}
	assert.False(t, HasAnyEstimates(clean))

	clean["9"] = models.CalendarDayData{TotalCalories: 400, HasEstimates: true}
	assert.True(t, HasAnyEstimates(clean))

	assert.False(t, HasAnyEstimates(nil))
}

func TestVerifyMonthlyTotals(t *testing.T) {
	m := &models.CalendarMonthResponse{
		Days: map[string]models.CalendarDayData{
			"5":  {TotalCalories: 900, TotalPrice: 250},
			"20": {TotalCalories: 1100, TotalPrice: 499.99},
		},
		MonthlyCalories: 2000,
		MonthlyPrice:    749.99,
	}
	assert.True(t, VerifyMonthlyTotals(m))

	m.MonthlyCalories = 1800
	assert.False(t, VerifyMonthlyTotals(m))
}
