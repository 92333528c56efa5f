package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/snappy-loop/dearme/internal/models"
)

// messageWriter is the subset of *kafka.Writer used by Producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes generation events
type Producer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer for the events topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
	}

	log.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka producer initialized")

	return &Producer{writer: writer, topic: topic, now: time.Now}
}

// PublishEvent writes one generation event keyed by project id so a project's events stay ordered.
func (p *Producer) PublishEvent(ctx context.Context, projectID uuid.UUID, event, outcome string) error {
	msg := models.GenerationEvent{
		ProjectID:  projectID,
		Event:      event,
		Outcome:    outcome,
		TraceID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(projectID.String()),
		Value: data,
	}); err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}

	log.Info().
		Str("project_id", projectID.String()).
		Str("event", event).
		Str("outcome", outcome).
		Str("topic", p.topic).
		Msg("Generation event published")
	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	log.Info().Msg("Closing Kafka producer")
	return p.writer.Close()
}
