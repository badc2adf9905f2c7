package services

import (
	"context"
	"strings"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type RestaurantStat struct {
	Name       string `json:"name"`
	OrderCount int64  `json:"order_count"`
}

type RecentSignup struct {
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}

type AdminStats struct {
	TotalUsers        int64            `json:"total_users"`
	TotalOrders       int64            `json:"total_orders"`
	TotalDishes       int64            `json:"total_dishes"`
	UsersToday        int64            `json:"users_today"`
	UsersLast7d       int64            `json:"users_last_7d"`
	OrdersToday       int64            `json:"orders_today"`
	OrdersLast7d      int64            `json:"orders_last_7d"`
	AvgOrdersPerUser  float64          `json:"avg_orders_per_user"`
	TopRestaurants    []RestaurantStat `json:"top_restaurants"`
	RecentSignups     []RecentSignup   `json:"recent_signups"`
	SignupsChangePct  float64          `json:"signups_change_pct"`
	OrdersChangePct   float64          `json:"orders_change_pct"`
	ActiveUsersToday  int64            `json:"active_users_today"`
	ActiveChangePct   float64          `json:"active_change_pct"`
	CalorieCacheSize  int64            `json:"calorie_cache_size"`
	EstimatedDishPct  float64          `json:"estimated_dish_pct"`
}

// Stats assembles the operator dashboard numbers in one pass.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminStats{TopRestaurants: []RestaurantStat{}, RecentSignups: []RecentSignup{}}

	// Calendar-day boundaries, so day-over-day numbers don't drift with
	// the hour the dashboard is loaded.
	todayStart := startOfDay(time.Now())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Dish{}).Count(&stats.TotalDishes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.CalorieCache{}).Count(&stats.CalorieCacheSize).Error; err != nil {
		return nil, err
	}

	db.Model(&models.User{}).Where("created_at >= ?", todayStart).Count(&stats.UsersToday)
	db.Model(&models.User{}).Where("created_at >= ?", weekStart).Count(&stats.UsersLast7d)
	db.Model(&models.Order{}).Where("created_at >= ?", todayStart).Count(&stats.OrdersToday)
	db.Model(&models.Order{}).Where("created_at >= ?", weekStart).Count(&stats.OrdersLast7d)

	if stats.TotalUsers > 0 {
		stats.AvgOrdersPerUser = round1(float64(stats.TotalOrders) / float64(stats.TotalUsers))
	}

	var estimatedDishes int64
	db.Model(&models.Dish{}).Where("is_estimated = ?", true).Count(&estimatedDishes)
	if stats.TotalDishes > 0 {
		stats.EstimatedDishPct = round1(float64(estimatedDishes) / float64(stats.TotalDishes) * 100)
	}

	db.Model(&models.Order{}).
		Select("restaurant_name AS name, COUNT(*) AS order_count").
		Where("restaurant_name <> ''").
		Group("restaurant_name").
		Order("order_count DESC").
		Limit(5).
		Scan(&stats.TopRestaurants)

	var recentUsers []models.User
	db.Order("created_at DESC").Limit(10).Find(&recentUsers)
	for _, u := range recentUsers {
		stats.RecentSignups = append(stats.RecentSignups, RecentSignup{
			Email:    MaskEmail(u.Email),
			JoinedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	// Day-over-day deltas: today so far against all of yesterday.
	var signupsYesterday, ordersYesterday int64
	db.Model(&models.User{}).Where("created_at >= ? AND created_at < ?", yesterdayStart, todayStart).Count(&signupsYesterday)
	db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", yesterdayStart, todayStart).Count(&ordersYesterday)
	stats.SignupsChangePct = calcChangePct(stats.UsersToday, signupsYesterday)
	stats.OrdersChangePct = calcChangePct(stats.OrdersToday, ordersYesterday)

	var activeYesterday int64
	db.Model(&models.Order{}).Where("created_at >= ?", todayStart).Distinct("user_id").Count(&stats.ActiveUsersToday)
	db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", yesterdayStart, todayStart).Distinct("user_id").Count(&activeYesterday)
	stats.ActiveChangePct = calcChangePct(stats.ActiveUsersToday, activeYesterday)

	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calcChangePct is the day-over-day percentage change. A jump from zero
// reads as +100%.
func calcChangePct(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

// MaskEmail hides most of the local part: "someone@gmail.com" becomes
// "so*****@gmail.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return local[:1] + "***" + domain
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + domain
}
