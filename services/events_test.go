package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEventJSONContract(t *testing.T) {
	calories := 1200.0
	event := OrderEvent{
		UserID:         7,
		OrderID:        42,
		EmailID:        "msg-abc",
		RestaurantName: "Meghana Foods",
		OrderDate:      time.Date(2026, 1, 12, 13, 36, 0, 0, time.UTC),
		TotalCalories:  &calories,
		DishCount:      3,
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// consumers depend on these exact keys
	for _, key := range []string{"user_id", "order_id", "email_id", "restaurant_name",
		"order_date", "total_calories", "total_price", "dish_count"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, float64(7), decoded["user_id"])
	assert.Equal(t, 1200.0, decoded["total_calories"])
	assert.Nil(t, decoded["total_price"])
}

func TestNopOrderPublisher(t *testing.T) {
	var p NopOrderPublisher
	assert.NoError(t, p.PublishOrderCreated(context.Background(), OrderEvent{OrderID: 1}))
	assert.NoError(t, p.Close())
}
