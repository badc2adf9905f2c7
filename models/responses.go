package models

import "time"

// API response shapes. Field names follow the JSON contract the web and
// iOS clients already decode, so everything stays snake_case.

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type DishResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	Price       *float64 `json:"price"`
	Calories    *float64 `json:"calories"`
	IsEstimated bool     `json:"is_estimated"`
}

type OrderResponse struct {
	ID             uint           `json:"id"`
	EmailID        string         `json:"email_id"`
	OrderDate      time.Time      `json:"order_date"`
	RestaurantName string         `json:"restaurant_name"`
	TotalCalories  *float64       `json:"total_calories"`
	TotalPrice     *float64       `json:"total_price"`
	HasEstimates   bool           `json:"has_estimates"`
	Dishes         []DishResponse `json:"dishes"`
}

type CalendarDayData struct {
	Orders        []OrderResponse `json:"orders"`
	TotalCalories float64         `json:"total_calories"`
	TotalPrice    float64         `json:"total_price"`
	HasEstimates  bool            `json:"has_estimates"`
}

// Days is sparse and keyed by day-of-month as a string ("15"); absent
// days mean no orders.
type CalendarMonthResponse struct {
	Year            int                        `json:"year"`
	Month           int                        `json:"month"`
	Days            map[string]CalendarDayData `json:"days"`
	MonthlyCalories float64                    `json:"monthly_calories"`
	MonthlyPrice    float64                    `json:"monthly_price"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type SyncStatusResponse struct {
	Status          string   `json:"status"`
	EmailsProcessed int      `json:"emails_processed"`
	OrdersCreated   int      `json:"orders_created"`
	Errors          []string `json:"errors"`
}

// One row per calendar month in the lookback window.
type MonthData struct {
	Month         string  `json:"month"`       // "January 2026"
	ShortMonth    string  `json:"short_month"` // "Jan"
	Year          int     `json:"year"`
	MonthNum      int     `json:"month_num"`
	TotalCalories float64 `json:"total_calories"`
	TotalPrice    float64 `json:"total_price"`
	DaysOrdered   int     `json:"days_ordered"`
	OrderCount    int     `json:"order_count"`
}

type EatMoreOfItem struct {
	Item      string `json:"item"`
	IsHealthy bool   `json:"is_healthy"`
}

type HealthInsightsResponse struct {
	HealthIndex      int             `json:"health_index"` // 0-100
	OneLiner         string          `json:"one_liner"`
	EatMoreOf        []EatMoreOfItem `json:"eat_more_of"`
	Lacking          []string        `json:"lacking"`
	MonthlyNarrative string          `json:"monthly_narrative"`
}

type DailyHealthScore struct {
	Date        string `json:"date"` // "2026-08-15"
	HealthIndex int    `json:"health_index"`
}

// Summary over the rolling lookback window. MonthsData is ordered most
// recent first; averages cover only months that had orders.
type SummaryResponse struct {
	AvgMonthlySpend     float64     `json:"avg_monthly_spend"`
	AvgMonthlyCalories  float64     `json:"avg_monthly_calories"`
	AvgDaysOrdered      float64     `json:"avg_days_ordered"`
	AvgOrderCount       float64     `json:"avg_order_count"`
	TotalMonthsAnalyzed int         `json:"total_months_analyzed"`
	MonthsData          []MonthData `json:"months_data"`
	TopDish             string      `json:"top_dish,omitempty"`
	TopDishCount        int         `json:"top_dish_count"`
	LateNightPct        float64     `json:"late_night_pct"`

	HealthInsights    *HealthInsightsResponse `json:"health_insights,omitempty"`
	DailyHealthScores []DailyHealthScore      `json:"daily_health_scores,omitempty"`
}
