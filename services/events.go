package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEvent is published whenever a sync run persists a new order.
// Downstream consumers (analytics, notifications) key on user_id.
type OrderEvent struct {
	UserID         uint      `json:"user_id"`
	OrderID        uint      `json:"order_id"`
	EmailID        string    `json:"email_id"`
	RestaurantName string    `json:"restaurant_name"`
	OrderDate      time.Time `json:"order_date"`
	TotalCalories  *float64  `json:"total_calories"`
	TotalPrice     *float64  `json:"total_price"`
	DishCount      int       `json:"dish_count"`
}

type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderEvent) error
	Close() error
}

type KafkaOrderPublisher struct {
	writer *kafka.Writer
}

func NewKafkaOrderPublisher(brokers []string, topic string) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaOrderPublisher) PublishOrderCreated(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%d", event.UserID)),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

// NopOrderPublisher is used when no Kafka brokers are configured.
type NopOrderPublisher struct{}

func (NopOrderPublisher) PublishOrderCreated(_ context.Context, event OrderEvent) error {
	log.Printf("[EVENTS] Kafka disabled, dropping order event for order %d", event.OrderID)
	return nil
}

func (NopOrderPublisher) Close() error { return nil }
