package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type AppSettings struct {
	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Lookup / LLM providers
	APINinjasKey string
	SerpAPIKey   string
	GeminiAPIKey string

	// Application
	FrontendURL   string
	SecretKey     string
	AllowedEmails string // comma-separated beta allowlist; empty allows everyone
	TokenTTL      time.Duration

	// Email filtering
	SwiggySender    string
	DateFilterStart string // YYYY-MM-DD

	// Infrastructure (optional, features degrade when unset)
	RedisAddr        string
	KafkaBrokers     string // comma-separated
	OrderEventsTopic string
	S3Bucket         string
}

var Settings AppSettings

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	Settings = AppSettings{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/google/callback"),
		APINinjasKey:       os.Getenv("API_NINJAS_KEY"),
		SerpAPIKey:         os.Getenv("SERPAPI_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		FrontendURL:        getenv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:          getenv("SECRET_KEY", "change-this-in-production"),
		AllowedEmails:      os.Getenv("ALLOWED_EMAILS"),
		TokenTTL:           7 * 24 * time.Hour,
		SwiggySender:       getenv("SWIGGY_SENDER", "noreply@swiggy.in"),
		DateFilterStart:    getenv("DATE_FILTER_START", "2025-12-01"),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		OrderEventsTopic:   getenv("ORDER_EVENTS_TOPIC", "bitewise.orders"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
	}
}

// AllowedEmailList returns the normalized beta allowlist, empty if the
// allowlist is not configured.
func (s AppSettings) AllowedEmailList() []string {
	if strings.TrimSpace(s.AllowedEmails) == "" {
		return nil
	}
	var out []string
	for _, e := range strings.Split(s.AllowedEmails, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func (s AppSettings) KafkaBrokerList() []string {
	if strings.TrimSpace(s.KafkaBrokers) == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(s.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "bitewise"),
		getenv("DB_PORT", "5432"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Dish{},
		&models.CalorieCache{},
		&models.HealthInsightsCache{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
