package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/apininjas"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/serpapi"

	"gorm.io/gorm"
)

type CalorieResult struct {
	Calories    *float64
	IsEstimated bool
	SourceURL   string
}

// CalorieLookupService resolves calorie counts for dishes.
//
// Priority: cache, API Ninjas (verified), web search (verified), model
// estimate (flagged estimated). Whatever resolves is written back to the
// cache so repeat orders are free.
type CalorieLookupService struct {
	db      *gorm.DB
	ninjas  *apininjas.Client
	serp    *serpapi.Client
	textGen TextGenerator
}

func NewCalorieLookupService(db *gorm.DB, ninjas *apininjas.Client, serp *serpapi.Client, textGen TextGenerator) *CalorieLookupService {
	return &CalorieLookupService{db: db, ninjas: ninjas, serp: serp, textGen: textGen}
}

func (s *CalorieLookupService) GetCalories(ctx context.Context, dishName, restaurantName string) CalorieResult {
	if cached := s.checkCache(dishName, restaurantName); cached != nil {
		return *cached
	}

	if s.ninjas != nil {
		if calories, found, err := s.ninjas.Nutrition(ctx, dishName); err == nil && found {
			log.Printf("[API Ninjas] Found %s: %.0f kcal", dishName, calories)
			s.saveToCache(dishName, restaurantName, calories, "https://api-ninjas.com/api/nutrition", false)
			return CalorieResult{Calories: &calories, SourceURL: "https://api-ninjas.com/api/nutrition"}
		} else if err != nil {
			log.Printf("API Ninjas error: %v", err)
		}
	}

	if result := s.searchWeb(ctx, dishName, restaurantName); result != nil {
		s.saveToCache(dishName, restaurantName, *result.Calories, result.SourceURL, false)
		return *result
	}

	if result := s.estimateWithLLM(ctx, dishName, restaurantName); result != nil {
		s.saveToCache(dishName, restaurantName, *result.Calories, "", true)
		return *result
	}

	return CalorieResult{IsEstimated: true}
}

func (s *CalorieLookupService) checkCache(dishName, restaurantName string) *CalorieResult {
	if s.db == nil {
		return nil
	}

	query := s.db.Where("dish_name ILIKE ?", "%"+dishName+"%")

	var entry models.CalorieCache
	if restaurantName != "" {
		// Restaurant-specific figure wins when one exists.
		if err := query.Session(&gorm.Session{}).
			Where("restaurant_name ILIKE ?", "%"+restaurantName+"%").
			First(&entry).Error; err == nil {
			return &CalorieResult{Calories: &entry.Calories, IsEstimated: entry.IsEstimated, SourceURL: entry.SourceURL}
		}
	}

	if err := query.First(&entry).Error; err != nil {
		return nil
	}
	return &CalorieResult{Calories: &entry.Calories, IsEstimated: entry.IsEstimated, SourceURL: entry.SourceURL}
}

func (s *CalorieLookupService) saveToCache(dishName, restaurantName string, calories float64, sourceURL string, isEstimated bool) {
	if s.db == nil {
		return
	}
	entry := models.CalorieCache{
		DishName:       dishName,
		RestaurantName: restaurantName,
		Calories:       calories,
		SourceURL:      sourceURL,
		IsEstimated:    isEstimated,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to cache calories for %s: %v", dishName, err)
	}
}

func (s *CalorieLookupService) searchWeb(ctx context.Context, dishName, restaurantName string) *CalorieResult {
	if s.serp == nil {
		return nil
	}

	query := dishName + " calories"
	if restaurantName != "" {
		query = dishName + " " + restaurantName + " calories"
	}

	result, err := s.serp.Search(ctx, query)
	if err != nil {
		log.Printf("Web search error: %v", err)
		return nil
	}

	if result.AnswerBox != nil && result.AnswerBox.Answer != "" {
		if calories, ok := extractCalorieNumber(result.AnswerBox.Answer); ok {
			return &CalorieResult{Calories: &calories, SourceURL: result.AnswerBox.Link}
		}
	}

	organic := result.OrganicResults
	if len(organic) > 3 {
		organic = organic[:3]
	}
	for _, r := range organic {
		if calories, ok := extractCalorieNumber(r.Title + " " + r.Snippet); ok {
			return &CalorieResult{Calories: &calories, SourceURL: r.Link}
		}
	}

	return nil
}

var calorieRangeRe = regexp.MustCompile(`(?i)(\d+(?:,\d+)?)\s*-\s*(\d+(?:,\d+)?)\s*(?:kcal|calories|cal)`)

var caloriePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:,\d+)?(?:\.\d+)?)\s*(?:kcal|calories|cal)`),
	regexp.MustCompile(`(?i)(?:calories|kcal)[:\s]*(\d+(?:,\d+)?(?:\.\d+)?)`),
}

// extractCalorieNumber pulls a calorie figure out of free text. Ranges
// like "400 - 500 kcal" yield the midpoint.
func extractCalorieNumber(text string) (float64, bool) {
	if m := calorieRangeRe.FindStringSubmatch(text); m != nil {
		low, err1 := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		high, err2 := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err1 == nil && err2 == nil {
			return (low + high) / 2, true
		}
	}

	for _, re := range caloriePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

var llmNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

func (s *CalorieLookupService) estimateWithLLM(ctx context.Context, dishName, restaurantName string) *CalorieResult {
	if s.textGen == nil {
		return nil
	}

	fromRestaurant := ""
	if restaurantName != "" {
		fromRestaurant = " from " + restaurantName
	}

	prompt := fmt.Sprintf(`Estimate the calories for this dish%s: "%s"

IMPORTANT: Be accurate and realistic. Do NOT overestimate.

Consider:
- Standard single serving portion
- Actual nutritional data for common dishes
- A plain dosa is ~120-150 kcal, masala dosa ~250 kcal
- Don't inflate numbers - accuracy matters for health tracking

Respond with ONLY a number representing calories per serving.
No text, units, or explanation - just the number.

Reference values (be consistent with these):
- "Plain Dosa" → 130
- "Masala Dosa" → 250
- "Idli (2 pcs)" → 120
- "Butter Chicken (1 serving)" → 400
- "Chicken Biryani (1 plate)" → 500
- "Veg Fried Rice" → 350
- "Paneer Butter Masala" → 380
- "Dal Tadka" → 180
- "Naan" → 260
- "Roti/Chapati" → 100

Your estimate for "%s":`, fromRestaurant, dishName, dishName)

	raw, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("LLM estimation error: %v", err)
		return nil
	}

	m := llmNumberRe.FindString(raw)
	if m == "" {
		return nil
	}
	calories, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}

	// Sanity window: a single dish outside this is a bad parse.
	if calories < 50 || calories > 2000 {
		return nil
	}

	return &CalorieResult{Calories: &calories, IsEstimated: true}
}
