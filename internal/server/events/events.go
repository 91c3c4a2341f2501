// Package events publishes marketplace change notifications. Consumers use
// them to drop cached listings after a successful mutation.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/logging"
	skafka "github.com/segmentio/kafka-go"
)

// Event types.
const (
	OrderCreated     = "order.created"
	OrderUpdated     = "order.updated"
	VesselRegistered = "vessel.registered"
	JourneyLogged    = "journey.logged"
	PolicyCreated    = "policy.created"
	InsuranceApplied = "insurance.applied"
	MatchCreated     = "match.created"
	MatchUpdated     = "match.updated"
	MintOrphaned     = "mint.orphaned"
)

// Event is the JSON body of a change notification. Key routes all events of
// one entity to the same partition.
type Event struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	Actor      string            `json:"actor,omitempty"`
	TxHash     string            `json:"tx_hash,omitempty"`
	TokenID    string            `json:"token_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher is the interface services publish through.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Writer is the subset of kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer Writer
	logger logging.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger logging.Logger) *KafkaProducer {
	w := &skafka.Writer{
		Addr:         skafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireOne,
	}
	return NewKafkaProducerWithWriter(w, logger)
}

func NewKafkaProducerWithWriter(w Writer, logger logging.Logger) *KafkaProducer {
	return &KafkaProducer{writer: w, logger: logger}
}

func (p *KafkaProducer) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := skafka.Message{
		Key:   []byte(e.Key),
		Value: b,
		Headers: []skafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}

	p.logger.Debug(ctx, "event published", "type", e.Type, "key", e.Key)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
