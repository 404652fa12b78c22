// Package events publishes generated rebalance plans to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
)

// EventPlanGenerated is the event type of every published plan message.
const EventPlanGenerated = "plan.generated"

// PlanEvent is the JSON message value written for each plan.
type PlanEvent struct {
	Type        string              `json:"type"`
	PlanID      string              `json:"planId"`
	Address     string              `json:"address"`
	TotalUSD    decimal.Decimal     `json:"totalUsd"`
	Suggestions []domain.Suggestion `json:"suggestions"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes plan events to a Kafka topic.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           200 * time.Millisecond,
	})
}

// NewPublisher creates a publisher over an existing writer.
func NewPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Export publishes a plan event keyed by wallet address, so events for one wallet stay ordered.
// Implements worker.AfterPlanHook.
func (p *KafkaPublisher) Export(ctx context.Context, pl plan.Plan) error {
	ev := PlanEvent{
		Type:        EventPlanGenerated,
		PlanID:      pl.ID.String(),
		Address:     pl.Address,
		TotalUSD:    pl.TotalUSD,
		Suggestions: pl.Suggestions,
		CreatedAt:   pl.CreatedAt,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling plan event: %w", err)
	}

	key := pl.Address
	if key == "" {
		key = ev.PlanID
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b, Time: pl.CreatedAt}); err != nil {
		return fmt.Errorf("publishing plan %s: %w", ev.PlanID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
