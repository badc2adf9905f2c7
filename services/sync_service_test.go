package services

import (
	"context"
	"testing"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Order{}, &models.Dish{},
		&models.CalorieCache{}, &models.HealthInsightsCache{},
	))
	return db
}

type fakeFetcher struct {
	emails []EmailMessage
}

func (f *fakeFetcher) FetchOrderEmails(_ context.Context, _, _ string) ([]EmailMessage, error) {
	return f.emails, nil
}

func waitForSync(t *testing.T, store *SyncStatusStore, userID uint, jobID string) *SyncStatus {
	t.Helper()
	var status *SyncStatus
	require.Eventually(t, func() bool {
		s, err := store.Get(context.Background(), userID)
		if err != nil || s == nil || s.JobID != jobID {
			return false
		}
		status = s
		return s.Status == SyncStateCompleted || s.Status == SyncStateFailed
	}, 3*time.Second, 10*time.Millisecond)
	return status
}

func TestSyncPipeline_PersistsOrderWithQuantityPricing(t *testing.T) {
	db := newTestDB(t)
	store, _ := newTestStatusStore(t)
	ctx := context.Background()

	user := &models.User{Email: "someone@gmail.com", GoogleAccessToken: "tok"}
	require.NoError(t, db.Create(user).Error)

	// No total_price in the bill: the order total must come from the
	// line items, each priced per item and multiplied by quantity.
	gen := &fakeTextGen{response: `{
		"restaurant_name": "Truffles",
		"order_date": "2026-01-12",
		"order_time": "21:15",
		"total_price": null,
		"dishes": [
			{"name": "All American Burger", "quantity": 1, "price": 310},
			{"name": "Fries", "quantity": 2, "price": 125}
		]
	}`}

	factory := func(ctx context.Context, u *models.User) (EmailFetcher, error) {
		return &fakeFetcher{emails: []EmailMessage{{
			ID:      "msg-1",
			Subject: "Your order from Truffles is confirmed",
			Body:    "<html><body>order details</body></html>",
			Date:    time.Date(2026, 1, 12, 21, 20, 0, 0, time.Local),
		}}}, nil
	}

	svc := NewSyncService(db, NewEmailParser(gen), NewInstamartFilter(),
		NewCalorieLookupService(nil, nil, nil, nil), store, nil, nil, factory)

	jobID, err := svc.Start(ctx, user)
	require.NoError(t, err)
	status := waitForSync(t, store, user.ID, jobID)

	assert.Equal(t, SyncStateCompleted, status.Status)
	assert.Equal(t, 1, status.EmailsProcessed)
	assert.Equal(t, 1, status.OrdersCreated)

	var order models.Order
	require.NoError(t, db.Preload("Dishes").Where("email_id = ?", "msg-1").First(&order).Error)

	assert.Equal(t, "Truffles", order.RestaurantName)
	require.NotNil(t, order.TotalPrice)
	assert.Equal(t, 560.0, *order.TotalPrice, "310 + 2 x 125")
	assert.True(t, order.HasEstimates, "no calorie source resolved")
	assert.Nil(t, order.TotalCalories)
	require.Len(t, order.Dishes, 2)
	assert.Equal(t, 2, order.Dishes[1].Quantity)
}

func TestSyncPipeline_SkipsAlreadyIngestedEmails(t *testing.T) {
	db := newTestDB(t)
	store, _ := newTestStatusStore(t)
	ctx := context.Background()

	user := &models.User{Email: "someone@gmail.com", GoogleAccessToken: "tok"}
	require.NoError(t, db.Create(user).Error)

	gen := &fakeTextGen{response: `{
		"restaurant_name": "Truffles",
		"order_date": "2026-01-12",
		"dishes": [{"name": "Fries", "quantity": 1, "price": 125}]
	}`}
	factory := func(ctx context.Context, u *models.User) (EmailFetcher, error) {
		return &fakeFetcher{emails: []EmailMessage{{
			ID:      "msg-dup",
			Subject: "Your order from Truffles is confirmed",
			Body:    "<html><body>order details</body></html>",
			Date:    time.Now(),
		}}}, nil
	}

	svc := NewSyncService(db, NewEmailParser(gen), NewInstamartFilter(),
		NewCalorieLookupService(nil, nil, nil, nil), store, nil, nil, factory)

	jobID, err := svc.Start(ctx, user)
	require.NoError(t, err)
	first := waitForSync(t, store, user.ID, jobID)
	assert.Equal(t, 1, first.OrdersCreated)

	jobID, err = svc.Start(ctx, user)
	require.NoError(t, err)
	second := waitForSync(t, store, user.ID, jobID)
	assert.Equal(t, 1, second.EmailsProcessed)
	assert.Zero(t, second.OrdersCreated, "same email id must not create a second order")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
