package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/snappy-loop/dearme/internal/models"
)

// EventHandler processes one generation event. Returning an error retries the same message.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev *models.GenerationEvent) error
}

// messageReader is the subset of *kafka.Reader used by Consumer.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads generation events with manual commits
type Consumer struct {
	reader      messageReader
	handler     EventHandler
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewConsumer creates a consumer group reader for the events topic
func NewConsumer(brokers []string, topic, groupID string, handler EventHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})

	log.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Str("group_id", groupID).
		Msg("Kafka consumer initialized")

	return newConsumer(reader, handler)
}

func newConsumer(reader messageReader, handler EventHandler) *Consumer {
	return &Consumer{
		reader:      reader,
		handler:     handler,
		maxAttempts: 8,
		baseDelay:   time.Second,
		maxDelay:    time.Minute,
	}
}

// Start consumes until ctx is cancelled. A message that keeps failing is skipped after maxAttempts.
func (c *Consumer) Start(ctx context.Context) error {
	log.Info().Msg("Starting Kafka consumer")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Msg("Failed to fetch message")
			continue
		}

		if err := c.deliver(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().
				Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Event handling failed after all attempts, skipping")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Msg("Failed to commit message")
		}
	}
}

// deliver runs the handler with exponential backoff. Undecodable messages are not retried.
func (c *Consumer) deliver(ctx context.Context, msg kafka.Message) error {
	var ev models.GenerationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if lastErr = c.handler.HandleEvent(ctx, &ev); lastErr == nil {
			log.Debug().
				Str("project_id", ev.ProjectID.String()).
				Str("event", ev.Event).
				Msg("Event handled")
			return nil
		}

		var perm *PermanentError
		if errors.As(lastErr, &perm) || attempt == c.maxAttempts-1 {
			return lastErr
		}

		delay := c.baseDelay << uint(attempt)
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
		log.Warn().
			Err(lastErr).
			Str("project_id", ev.ProjectID.String()).
			Int("attempt", attempt+1).
			Dur("retry_in", delay).
			Msg("Event handling failed, will retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// PermanentError marks a handler failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Close closes the consumer
func (c *Consumer) Close() error {
	log.Info().Msg("Closing Kafka consumer")
	return c.reader.Close()
}
