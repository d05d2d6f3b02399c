package kstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"dp-catalog/internal/model"
)

// TopicEnquirySubmitted carries one EnquirySubmitted event per relayed enquiry.
const TopicEnquirySubmitted = "enquiry.submitted"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes enquiry events.
type Producer struct {
	w messageWriter
}

// kafkaWriter constructs a Kafka producer using segmentio/kafka-go library.
// kafka.Writer provides async message publishing with automatic batching and retries.
func kafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),   // segmentio/kafka-go: TCP address for Kafka broker
		Topic:        topic,               // Target Kafka topic name
		Balancer:     &kafka.LeastBytes{}, // segmentio/kafka-go: Partition selection strategy
		RequiredAcks: kafka.RequireOne,    // segmentio/kafka-go: Wait for leader ack only
		Async:        true,                // segmentio/kafka-go: Non-blocking writes
	}
}

// NewProducer returns a Producer for broker, or nil when broker is empty.
func NewProducer(broker string) *Producer {
	if broker == "" {
		return nil
	}
	return &Producer{w: kafkaWriter(broker, TopicEnquirySubmitted)}
}

// PublishEnquirySubmitted implements enquiry.EventPublisher. With the async
// writer this returns as soon as the message is queued.
func (p *Producer) PublishEnquirySubmitted(ctx context.Context, evt model.EnquirySubmitted) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Keyed by product so counts for one product stay ordered on a partition.
	key := evt.ProductName
	if key == "" {
		key = string(evt.Type)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes pending messages.
func (p *Producer) Close() error {
	return p.w.Close()
}
