package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"gorm.io/gorm"
)

// A dish with how often it was ordered, fed into the insights prompt.
type DishFrequency struct {
	Name     string
	Count    int
	Calories float64
}

// HealthIntelligenceService turns ordering patterns into a health index
// and narrative insights. Results are cached per user and only
// regenerated when the user's order count changes.
type HealthIntelligenceService struct {
	db      *gorm.DB
	textGen TextGenerator
}

func NewHealthIntelligenceService(db *gorm.DB, textGen TextGenerator) *HealthIntelligenceService {
	return &HealthIntelligenceService{db: db, textGen: textGen}
}

// InsightsFor returns cached insights when the order count is unchanged,
// otherwise generates and caches fresh ones. Returns nil without error
// when no model is configured or there is no dish data.
func (s *HealthIntelligenceService) InsightsFor(
	ctx context.Context,
	userID uint,
	orderCount int,
	dishes []DishFrequency,
	totalMonths int,
	avgDailyCalories float64,
	topDishes []string,
) (*models.HealthInsightsResponse, error) {
	if s.db != nil {
		var cached models.HealthInsightsCache
		err := s.db.Where("user_id = ?", userID).First(&cached).Error
		if err == nil && cached.LastOrderCount == orderCount {
			var insights models.HealthInsightsResponse
			if json.Unmarshal([]byte(cached.InsightsJSON), &insights) == nil {
				return &insights, nil
			}
		}
	}

	insights, err := s.generate(ctx, dishes, orderCount, totalMonths, avgDailyCalories, topDishes)
	if err != nil || insights == nil {
		return nil, err
	}

	if s.db != nil {
		raw, _ := json.Marshal(insights)
		var cached models.HealthInsightsCache
		if err := s.db.Where("user_id = ?", userID).First(&cached).Error; err == nil {
			cached.InsightsJSON = string(raw)
			cached.LastOrderCount = orderCount
			s.db.Save(&cached)
		} else {
			s.db.Create(&models.HealthInsightsCache{
				UserID:         userID,
				InsightsJSON:   string(raw),
				LastOrderCount: orderCount,
			})
		}
	}

	return insights, nil
}

func (s *HealthIntelligenceService) generate(
	ctx context.Context,
	dishes []DishFrequency,
	totalOrders, totalMonths int,
	avgDailyCalories float64,
	topDishes []string,
) (*models.HealthInsightsResponse, error) {
	if s.textGen == nil || len(dishes) == 0 {
		return nil, nil
	}

	topDishesStr := "No data"
	if len(topDishes) > 0 {
		if len(topDishes) > 5 {
			topDishes = topDishes[:5]
		}
		topDishesStr = strings.Join(topDishes, ", ")
	}

	prompt := fmt.Sprintf(`You are a nutritionist analyzing someone's food delivery ordering patterns from Swiggy (Indian food delivery app).

DATA SUMMARY:
- Total orders: %d over %d months
- Average calories on order days: %.0f kcal
- Top ordered dishes: %s

DISH FREQUENCY DATA:
%s

Analyze these ordering patterns and provide health insights in this exact JSON format:

{
  "health_index": <0-100 score>,
  "one_liner": "<Single impactful sentence about their diet, max 80 chars>",
  "eat_more_of": [
    {"item": "<food category they frequently order>", "is_healthy": true/false},
    {"item": "<food category they frequently order>", "is_healthy": true/false},
    {"item": "<food category they frequently order>", "is_healthy": true/false},
    {"item": "<food category they frequently order>", "is_healthy": true/false}
  ],
  "lacking": ["<nutrient/food type 1>", "<nutrient/food type 2>", "<nutrient/food type 3>"],
  "monthly_narrative": "<2-3 sentence detailed analysis of their eating habits>"
}

HEALTH INDEX GUIDELINES (0-100):
- 80-100: Balanced diet with good protein, fiber, variety, low fried foods
- 60-79: Moderate balance, some areas to improve
- 40-59: Imbalanced, significant gaps (too much fried/processed, low protein/fiber)
- 0-39: Heavily imbalanced, major nutritional concerns

IMPORTANT - "eat_more_of" MUST list what the user ACTUALLY orders frequently (based on the dish data above):
- This is "What You Eat More Of" - list food CATEGORIES they order a lot, both good and bad
- MUST include unhealthy items if they order them (fried foods, biryani, naan, desserts, etc.)
- Mark is_healthy=true for: Protein (dal, paneer, chicken, eggs), vegetables, salads, grilled items, whole grains
- Mark is_healthy=false for: Fried foods, biryani, refined carbs (naan, white rice), desserts, processed foods, high-calorie curries

For "lacking": List nutrients/food types they should ADD to their diet (things they DON'T order enough).

Be specific based on the actual dish data. Return ONLY valid JSON, no other text.`,
		totalOrders, totalMonths, avgDailyCalories, topDishesStr, formatDishSummary(dishes))

	raw, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Health insights generation error: %v", err)
		return nil, err
	}

	var insights models.HealthInsightsResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &insights); err != nil {
		log.Printf("Health insights JSON parse error: %v", err)
		return nil, fmt.Errorf("decode health insights: %w", err)
	}

	insights.HealthIndex = clampIndex(insights.HealthIndex)
	if len(insights.OneLiner) > 100 {
		insights.OneLiner = insights.OneLiner[:100]
	}

	return &insights, nil
}

func formatDishSummary(dishes []DishFrequency) string {
	if len(dishes) == 0 {
		return "No dish data available"
	}

	sorted := make([]DishFrequency, len(dishes))
	copy(sorted, dishes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > 30 {
		sorted = sorted[:30]
	}

	var lines []string
	for _, d := range sorted {
		lines = append(lines, fmt.Sprintf("- %s: ordered %dx, ~%.0f kcal each", d.Name, d.Count, d.Calories))
	}
	return strings.Join(lines, "\n")
}

// DailyHealthScores derives a per-day score from the period's base index:
// days far above the average calorie load score lower, light days a bit
// higher, clamped to [0,100].
func DailyHealthScores(dailyCalories map[string]float64, baseIndex int) []models.DailyHealthScore {
	if len(dailyCalories) == 0 {
		return nil
	}

	var total float64
	for _, c := range dailyCalories {
		total += c
	}
	avg := total / float64(len(dailyCalories))

	results := make([]models.DailyHealthScore, 0, len(dailyCalories))
	for date, calories := range dailyCalories {
		score := baseIndex
		if avg > 0 {
			ratio := calories / avg
			switch {
			case ratio > 1.5:
				score -= 20
			case ratio > 1.2:
				score -= 10
			case ratio < 0.7:
				score += 10
			case ratio < 0.9:
				score += 5
			}
		}
		results = append(results, models.DailyHealthScore{Date: date, HealthIndex: clampIndex(score)})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results
}

func clampIndex(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
