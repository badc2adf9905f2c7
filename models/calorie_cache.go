package models

import "gorm.io/gorm"

// Resolved calorie figures, keyed loosely by dish (and optionally
// restaurant) so repeat orders skip the lookup chain.
type CalorieCache struct {
	gorm.Model
	DishName       string `gorm:"index"`
	RestaurantName string
	Calories       float64
	SourceURL      string
	IsEstimated    bool
}
