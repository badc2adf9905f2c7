package models

import (
	"time"

	"gorm.io/gorm"
)

// One food-delivery transaction, reconstructed from a confirmation email.
// EmailID is the Gmail message id and guards against double ingestion.
type Order struct {
	gorm.Model
	UserID          uint      `gorm:"index"`
	EmailID         string    `gorm:"uniqueIndex"`
	OrderDate       time.Time `gorm:"index"`
	RestaurantName  string
	TotalCalories   *float64
	TotalPrice      *float64 // final bill amount in INR
	HasEstimates    bool
	RawEmailSubject string

	Dishes []Dish `gorm:"constraint:OnDelete:CASCADE"`
}

// A single line item within an order. Calories is the total for the line
// (per-serving value times quantity); nil when no source could resolve it.
type Dish struct {
	gorm.Model
	OrderID     uint `gorm:"index"`
	Name        string
	Quantity    int      `gorm:"default:1"`
	Price       *float64 // price per item in INR
	Calories    *float64
	IsEstimated bool
}
