package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSyncInProgress is returned when a user triggers a sync while one is
// already running for them.
var ErrSyncInProgress = errors.New("sync already in progress")

// FetcherFactory builds an inbox client from the user's stored Google
// tokens. Swapped for a fake in tests.
type FetcherFactory func(ctx context.Context, user *models.User) (EmailFetcher, error)

func GmailFetcherFactory(ctx context.Context, user *models.User) (EmailFetcher, error) {
	return NewGmailService(ctx, user.GoogleAccessToken, user.GoogleRefreshToken, user.TokenExpiry)
}

// SyncService runs the email-to-orders pipeline: fetch confirmation
// emails, filter out non-bills, parse line items, resolve calories, and
// persist the results.
type SyncService struct {
	db         *gorm.DB
	parser     *EmailParser
	filter     *InstamartFilter
	calories   *CalorieLookupService
	status     *SyncStatusStore
	hub        *RealtimeHub
	publisher  OrderPublisher
	newFetcher FetcherFactory
}

func NewSyncService(
	db *gorm.DB,
	parser *EmailParser,
	filter *InstamartFilter,
	calories *CalorieLookupService,
	status *SyncStatusStore,
	hub *RealtimeHub,
	publisher OrderPublisher,
	newFetcher FetcherFactory,
) *SyncService {
	return &SyncService{
		db:         db,
		parser:     parser,
		filter:     filter,
		calories:   calories,
		status:     status,
		hub:        hub,
		publisher:  publisher,
		newFetcher: newFetcher,
	}
}

// Start kicks off a background sync for the user and returns its job ID.
// A second trigger while a job is running returns ErrSyncInProgress.
func (s *SyncService) Start(ctx context.Context, user *models.User) (string, error) {
	existing, err := s.status.Get(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.Status == SyncStateRunning {
		return "", ErrSyncInProgress
	}

	jobID := uuid.NewString()
	status := &SyncStatus{
		JobID:     jobID,
		Status:    SyncStateRunning,
		Errors:    []string{},
		StartedAt: time.Now(),
	}
	if err := s.status.Set(ctx, user.ID, status); err != nil {
		return "", err
	}

	go s.run(user, status)
	return jobID, nil
}

// Status returns the user's latest sync state, idle when none exists.
func (s *SyncService) Status(ctx context.Context, userID uint) (*SyncStatus, error) {
	status, err := s.status.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return &SyncStatus{Status: SyncStateIdle, Errors: []string{}}, nil
	}
	return status, nil
}

func (s *SyncService) run(user *models.User, status *SyncStatus) {
	// Detached from the request context: the job outlives the HTTP call.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	fail := func(err error) {
		log.Printf("[SYNC] Job %s failed for user %d: %v", status.JobID, user.ID, err)
		status.Status = SyncStateFailed
		status.Errors = append(status.Errors, err.Error())
		s.report(ctx, user.ID, status, err.Error())
	}

	fetcher, err := s.newFetcher(ctx, user)
	if err != nil {
		fail(fmt.Errorf("connect to Gmail: %w", err))
		return
	}

	emails, err := fetcher.FetchOrderEmails(ctx, config.Settings.SwiggySender, config.Settings.DateFilterStart)
	if err != nil {
		fail(fmt.Errorf("fetch emails: %w", err))
		return
	}
	log.Printf("[SYNC] Job %s: fetched %d emails for user %d", status.JobID, len(emails), user.ID)

	for _, email := range emails {
		status.EmailsProcessed++
		if err := s.processEmail(ctx, user, email, status); err != nil {
			log.Printf("[SYNC] Email %s: %v", email.ID, err)
			status.Errors = append(status.Errors, fmt.Sprintf("%s: %v", email.ID, err))
		}
		if status.EmailsProcessed%10 == 0 {
			s.report(ctx, user.ID, status, "")
		}
	}

	status.Status = SyncStateCompleted
	s.report(ctx, user.ID, status, "")
	log.Printf("[SYNC] Job %s done: %d emails, %d orders created", status.JobID, status.EmailsProcessed, status.OrdersCreated)
}

func (s *SyncService) processEmail(ctx context.Context, user *models.User, email EmailMessage, status *SyncStatus) error {
	var count int64
	if err := s.db.Model(&models.Order{}).Where("email_id = ?", email.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("check existing order: %w", err)
	}
	if count > 0 {
		return nil
	}

	if s.filter.ShouldExclude(email.Subject, email.Body) {
		log.Printf("[SYNC] Skipping %s: %s", email.ID, s.filter.ExclusionReason(email.Subject, email.Body))
		return nil
	}

	if !s.parser.IsBillEmail(email.Subject, email.Body) {
		return nil
	}

	parsed := s.parser.ParseOrderEmail(ctx, email.Body, email.Subject)
	if parsed == nil || len(parsed.Dishes) == 0 {
		return nil
	}

	orderDate := parsed.OrderDate
	if orderDate.IsZero() {
		orderDate = email.Date
	}

	order := models.Order{
		UserID:          user.ID,
		EmailID:         email.ID,
		OrderDate:       orderDate,
		RestaurantName:  parsed.RestaurantName,
		RawEmailSubject: email.Subject,
	}

	var totalCalories, totalPrice float64
	var hasCalories, hasPrice bool

	for _, pd := range parsed.Dishes {
		quantity := pd.Quantity
		if quantity < 1 {
			quantity = 1
		}

		dish := models.Dish{Name: pd.Name, Quantity: quantity, Price: pd.Price}

		result := s.calories.GetCalories(ctx, pd.Name, parsed.RestaurantName)
		if result.Calories != nil {
			lineCalories := *result.Calories * float64(quantity)
			dish.Calories = &lineCalories
			totalCalories += lineCalories
			hasCalories = true
		}
		dish.IsEstimated = result.IsEstimated
		if dish.IsEstimated {
			order.HasEstimates = true
		}

		if pd.Price != nil {
			// Price is per item; the line contributes price times quantity.
			totalPrice += *pd.Price * float64(quantity)
			hasPrice = true
		}

		order.Dishes = append(order.Dishes, dish)
	}

	if hasCalories {
		order.TotalCalories = &totalCalories
	}
	if parsed.TotalPrice != nil {
		order.TotalPrice = parsed.TotalPrice
	} else if hasPrice {
		order.TotalPrice = &totalPrice
	}

	if err := s.db.Create(&order).Error; err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	status.OrdersCreated++

	if err := utils.ArchiveRawEmail(user.ID, email.ID, email.Body); err != nil {
		log.Printf("[SYNC] Archive failed for %s: %v", email.ID, err)
	}

	if s.publisher != nil {
		event := OrderEvent{
			UserID:         user.ID,
			OrderID:        order.ID,
			EmailID:        order.EmailID,
			RestaurantName: order.RestaurantName,
			OrderDate:      order.OrderDate,
			TotalCalories:  order.TotalCalories,
			TotalPrice:     order.TotalPrice,
			DishCount:      len(order.Dishes),
		}
		if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
			log.Printf("[SYNC] Publish failed for order %d: %v", order.ID, err)
		}
	}

	return nil
}

// report persists status and pushes it to any open sockets.
func (s *SyncService) report(ctx context.Context, userID uint, status *SyncStatus, message string) {
	if err := s.status.Set(ctx, userID, status); err != nil {
		log.Printf("[SYNC] Status write failed: %v", err)
	}
	if s.hub != nil {
		s.hub.BroadcastProgress(userID, SyncProgress{
			JobID:           status.JobID,
			Status:          status.Status,
			EmailsProcessed: status.EmailsProcessed,
			OrdersCreated:   status.OrdersCreated,
			Message:         message,
		})
	}
}
