package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/resto-backoffice/internal/events"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// Publish wraps the payload in an events.Envelope and writes it keyed by the
// aggregate id, so all events for one order land on the same partition.
func (p *Producer) Publish(ctx context.Context, key, eventType string, data any) error {
	envelope := events.Envelope{
		Type:       eventType,
		OccurredAt: time.Now(),
		Data:       data,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", eventType, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
