package models

import "gorm.io/gorm"

// Cached health insights per user, regenerated only when the user's order
// count changes. Avoids a model call on every summary request.
type HealthInsightsCache struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex"`
	InsightsJSON   string `gorm:"type:text"`
	LastOrderCount int
}
