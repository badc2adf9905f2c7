package services

import (
	"context"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"gorm.io/gorm"
)

// Months covered by the summary endpoint, most recent first.
const summaryLookbackMonths = 6

type CalendarService struct {
	db     *gorm.DB
	health *HealthIntelligenceService
}

func NewCalendarService(db *gorm.DB, health *HealthIntelligenceService) *CalendarService {
	return &CalendarService{db: db, health: health}
}

// MonthView groups a user's orders for one month into per-day buckets.
// Out-of-range year/month fall back to the current month rather than
// erroring, matching what the clients already expect.
func (s *CalendarService) MonthView(ctx context.Context, userID uint, year, month int) (*models.CalendarMonthResponse, error) {
	now := time.Now()
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year < 2020 || year > 2030 {
		year = now.Year()
	}

	start, end := monthWindow(year, month)

	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Dishes").
		Where("user_id = ? AND order_date >= ? AND order_date < ?", userID, start, end).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	resp := buildCalendarMonth(year, month, orders)
	log.Printf("[CALENDAR] Returning %d/%d: %d days, %.0f kcal, ₹%.0f",
		year, month, len(resp.Days), resp.MonthlyCalories, resp.MonthlyPrice)
	return resp, nil
}

// buildCalendarMonth is the pure bucketing step: orders in, sparse
// day map plus monthly totals out.
func buildCalendarMonth(year, month int, orders []models.Order) *models.CalendarMonthResponse {
	resp := &models.CalendarMonthResponse{
		Year:  year,
		Month: month,
		Days:  map[string]models.CalendarDayData{},
	}

	for _, order := range orders {
		day := strconv.Itoa(order.OrderDate.Day())
		bucket := resp.Days[day]

		bucket.Orders = append(bucket.Orders, toOrderResponse(order))
		if order.TotalCalories != nil {
			bucket.TotalCalories += *order.TotalCalories
			resp.MonthlyCalories += *order.TotalCalories
		}
		if order.TotalPrice != nil {
			bucket.TotalPrice += *order.TotalPrice
			resp.MonthlyPrice += *order.TotalPrice
		}
		if order.HasEstimates {
			bucket.HasEstimates = true
		}

		resp.Days[day] = bucket
	}

	return resp
}

func toOrderResponse(order models.Order) models.OrderResponse {
	dishes := make([]models.DishResponse, 0, len(order.Dishes))
	for _, dish := range order.Dishes {
		dishes = append(dishes, models.DishResponse{
			ID:          dish.ID,
			Name:        dish.Name,
			Quantity:    dish.Quantity,
			Price:       dish.Price,
			Calories:    dish.Calories,
			IsEstimated: dish.IsEstimated,
		})
	}
	return models.OrderResponse{
		ID:             order.ID,
		EmailID:        order.EmailID,
		OrderDate:      order.OrderDate,
		RestaurantName: order.RestaurantName,
		TotalCalories:  order.TotalCalories,
		TotalPrice:     order.TotalPrice,
		HasEstimates:   order.HasEstimates,
		Dishes:         dishes,
	}
}

// Orders returns a newest-first page of the user's orders.
func (s *CalendarService) Orders(ctx context.Context, userID uint, limit, offset int) (*models.OrderListResponse, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Dishes").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	out := &models.OrderListResponse{Orders: []models.OrderResponse{}, Total: total, Limit: limit, Offset: offset}
	for _, order := range orders {
		out.Orders = append(out.Orders, toOrderResponse(order))
	}
	return out, nil
}

// Summary computes the rolling lookback stats plus health intelligence.
func (s *CalendarService) Summary(ctx context.Context, userID uint) (*models.SummaryResponse, error) {
	now := time.Now()
	earliest := addMonths(now, -summaryLookbackMonths)
	windowStart, _ := monthWindow(earliest.Year(), int(earliest.Month()))
	_, windowEnd := monthWindow(now.Year(), int(now.Month()))

	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Dishes").
		Where("user_id = ? AND order_date >= ? AND order_date < ?", userID, windowStart, windowEnd).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	resp := summarize(now, orders)

	if s.health != nil {
		s.attachHealthInsights(ctx, userID, orders, resp)
	}

	return resp, nil
}

// summarize is the pure aggregation over the already-loaded window.
func summarize(now time.Time, orders []models.Order) *models.SummaryResponse {
	resp := &models.SummaryResponse{MonthsData: []models.MonthData{}}

	// One row per month, most recent first (previous N full months).
	for i := 1; i <= summaryLookbackMonths; i++ {
		target := addMonths(now, -i)
		start, end := monthWindow(target.Year(), int(target.Month()))

		row := models.MonthData{
			Month:      target.Format("January 2006"),
			ShortMonth: target.Format("Jan"),
			Year:       target.Year(),
			MonthNum:   int(target.Month()),
		}

		daysSeen := map[int]struct{}{}
		for _, o := range orders {
			if o.OrderDate.Before(start) || !o.OrderDate.Before(end) {
				continue
			}
			row.OrderCount++
			daysSeen[o.OrderDate.Day()] = struct{}{}
			if o.TotalCalories != nil {
				row.TotalCalories += *o.TotalCalories
			}
			if o.TotalPrice != nil {
				row.TotalPrice += *o.TotalPrice
			}
		}
		row.DaysOrdered = len(daysSeen)

		resp.MonthsData = append(resp.MonthsData, row)
	}

	monthsWithData := 0
	var sumSpend, sumCalories, sumDays, sumOrders float64
	for _, m := range resp.MonthsData {
		if m.OrderCount > 0 {
			monthsWithData++
		}
		sumSpend += m.TotalPrice
		sumCalories += m.TotalCalories
		sumDays += float64(m.DaysOrdered)
		sumOrders += float64(m.OrderCount)
	}

	resp.TotalMonthsAnalyzed = monthsWithData
	if monthsWithData > 0 {
		n := float64(monthsWithData)
		resp.AvgMonthlySpend = round2(sumSpend / n)
		resp.AvgMonthlyCalories = round2(sumCalories / n)
		resp.AvgDaysOrdered = round1(sumDays / n)
		resp.AvgOrderCount = round1(sumOrders / n)
	}

	resp.TopDish, resp.TopDishCount = topDish(orders)
	resp.LateNightPct = lateNightPct(orders)

	return resp
}

func topDish(orders []models.Order) (string, int) {
	counts := map[string]int{}
	for _, o := range orders {
		for _, d := range o.Dishes {
			counts[d.Name] += d.Quantity
		}
	}

	best, bestCount := "", 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best, bestCount
}

// lateNightPct is the share of orders placed between 22:00 and 05:00.
func lateNightPct(orders []models.Order) float64 {
	if len(orders) == 0 {
		return 0
	}
	late := 0
	for _, o := range orders {
		hour := o.OrderDate.Hour()
		if hour >= 22 || hour < 5 {
			late++
		}
	}
	return round1(float64(late) / float64(len(orders)) * 100)
}

func (s *CalendarService) attachHealthInsights(ctx context.Context, userID uint, orders []models.Order, resp *models.SummaryResponse) {
	dishFreq := map[string]*DishFrequency{}
	dailyCalories := map[string]float64{}

	for _, o := range orders {
		if o.TotalCalories != nil {
			dailyCalories[o.OrderDate.Format("2006-01-02")] += *o.TotalCalories
		}
		for _, d := range o.Dishes {
			f := dishFreq[d.Name]
			if f == nil {
				f = &DishFrequency{Name: d.Name}
				dishFreq[d.Name] = f
			}
			f.Count += d.Quantity
			if d.Calories != nil && d.Quantity > 0 {
				f.Calories = *d.Calories / float64(d.Quantity)
			}
		}
	}

	dishes := make([]DishFrequency, 0, len(dishFreq))
	for _, f := range dishFreq {
		dishes = append(dishes, *f)
	}

	var avgDaily float64
	if len(dailyCalories) > 0 {
		var total float64
		for _, c := range dailyCalories {
			total += c
		}
		avgDaily = total / float64(len(dailyCalories))
	}

	var topDishes []string
	if resp.TopDish != "" {
		topDishes = append(topDishes, resp.TopDish)
	}

	insights, err := s.health.InsightsFor(ctx, userID, len(orders), dishes, resp.TotalMonthsAnalyzed, avgDaily, topDishes)
	if err != nil || insights == nil {
		return
	}

	resp.HealthInsights = insights
	resp.DailyHealthScores = DailyHealthScores(dailyCalories, insights.HealthIndex)
}

// ---------- helpers ----------

// monthWindow returns [first of month, first of next month).
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// addMonths steps whole calendar months without the day-29..31
// normalization surprises of AddDate.
func addMonths(t time.Time, months int) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
