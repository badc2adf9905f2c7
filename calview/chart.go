package calview

import (
	"math"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
)

// Metric selects which month value a trend chart plots.
type Metric string

const (
	MetricPrice    Metric = "price"
	MetricCalories Metric = "calories"
	MetricOrders   Metric = "orders"
)

// ChronologicalMonths reverses the API's most-recent-first rows into
// left-to-right chart order.
func ChronologicalMonths(months []models.MonthData) []models.MonthData {
	out := make([]models.MonthData, len(months))
	for i, m := range months {
		out[len(months)-1-i] = m
	}
	return out
}

// MetricValue extracts the plotted value for one month.
func MetricValue(m models.MonthData, metric Metric) float64 {
	switch metric {
	case MetricCalories:
		return m.TotalCalories
	case MetricOrders:
		return float64(m.OrderCount)
	default:
		return m.TotalPrice
	}
}

// NiceStep picks a gridline step for a chart whose tallest bar is max:
// max/4 rounded up to the nearest 1, 2, or 5 times a power of ten.
// Zero or negative max gets a fallback step of 1 so charts of empty
// data still render axes.
func NiceStep(max float64) float64 {
	if max <= 0 {
		return 1
	}
	raw := max / 4
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, mult := range []float64{1, 2, 5, 10} {
		if step := mult * mag; step >= raw {
			return step
		}
	}
	return 10 * mag // unreachable, loop covers raw <= 10*mag
}

// ChartMax is the axis top: the smallest step multiple covering max.
func ChartMax(max float64) float64 {
	step := NiceStep(max)
	return math.Ceil(max/step) * step
}

// GridLines returns the horizontal gridline values, step up to the axis
// top, never more than four lines above zero.
func GridLines(max float64) []float64 {
	step := NiceStep(max)
	top := ChartMax(max)
	var lines []float64
	for v := step; v <= top+1e-9; v += step {
		lines = append(lines, v)
	}
	return lines
}

// BarFraction maps a value to a bar height fraction of the axis top.
// Non-zero values get a 5% floor so small bars stay visible; true zero
// stays zero.
func BarFraction(value, chartMax float64) float64 {
	if value <= 0 || chartMax <= 0 {
		return 0
	}
	f := value / chartMax
	if f < 0.05 {
		return 0.05
	}
	if f > 1 {
		return 1
	}
	return f
}
