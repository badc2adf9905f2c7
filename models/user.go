package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex;not null"`
	GoogleAccessToken  string `gorm:"type:text"`
	GoogleRefreshToken string `gorm:"type:text"`
	TokenExpiry        *time.Time

	Orders []Order
}
