package main

import (
	"context"
	"log"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/controllers"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/apininjas"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/serpapi"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/routes"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/services"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/utils"

	"github.com/redis/go-redis/v9"
)

func main() {
	config.Load()
	config.InitDB()
	utils.InitS3()

	rdb := redis.NewClient(&redis.Options{Addr: config.Settings.RedisAddr})

	var textGen services.TextGenerator
	if config.Settings.GeminiAPIKey != "" {
		var err error
		textGen, err = services.NewGeminiClient(context.Background(), config.Settings.GeminiAPIKey)
		if err != nil {
			log.Printf("Gemini unavailable, LLM features disabled: %v", err)
		}
	}

	var ninjas *apininjas.Client
	if config.Settings.APINinjasKey != "" {
		ninjas = &apininjas.Client{APIKey: config.Settings.APINinjasKey}
	}
	var serp *serpapi.Client
	if config.Settings.SerpAPIKey != "" {
		serp = &serpapi.Client{APIKey: config.Settings.SerpAPIKey}
	}

	var publisher services.OrderPublisher = services.NopOrderPublisher{}
	if brokers := config.Settings.KafkaBrokerList(); len(brokers) > 0 {
		kafkaPublisher := services.NewKafkaOrderPublisher(brokers, config.Settings.OrderEventsTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	hub := services.NewRealtimeHub()
	statusStore := services.NewSyncStatusStore(rdb)
	calorieLookup := services.NewCalorieLookupService(config.DB, ninjas, serp, textGen)
	parser := services.NewEmailParser(textGen)
	filter := services.NewInstamartFilter()
	health := services.NewHealthIntelligenceService(config.DB, textGen)

	syncSvc := services.NewSyncService(
		config.DB, parser, filter, calorieLookup,
		statusStore, hub, publisher, services.GmailFetcherFactory,
	)
	calendarSvc := services.NewCalendarService(config.DB, health)
	adminSvc := services.NewAdminService(config.DB)

	r := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(config.DB),
		Sync:     controllers.NewSyncController(config.DB, syncSvc),
		Calendar: controllers.NewCalendarController(calendarSvc),
		Admin:    controllers.NewAdminController(adminSvc),
		Realtime: controllers.NewRealtimeController(hub),
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
