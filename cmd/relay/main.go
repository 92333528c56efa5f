package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/config"
	"github.com/snappy-loop/dearme/internal/kafka"
	"github.com/snappy-loop/dearme/internal/logging"
	"github.com/snappy-loop/dearme/internal/webhook"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	log.Info().Msg("Starting Dear Me event relay")

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}
	if cfg.EventsWebhookURL == "" {
		log.Fatal().Msg("EVENTS_WEBHOOK_URL is required")
	}
	if cfg.EventsWebhookSecret == "" {
		log.Warn().Msg("EVENTS_WEBHOOK_SECRET not set, webhook requests will be unsigned")
	}

	relay := webhook.NewRelay(cfg.EventsWebhookURL, cfg.EventsWebhookSecret, nil)
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopicEvents, cfg.KafkaGroupRelay, relay)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Kafka consumer error")
		}
	}()

	log.Info().Str("topic", cfg.KafkaTopicEvents).Msg("Relay started, waiting for generation events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down relay...")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Consumer shutdown complete")
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Consumer shutdown timeout")
	}

	log.Info().Msg("Relay exited")
}
