// Package kstream moves enquiry events through Kafka.
package kstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"dp-catalog/internal/model"
)

// MessageReader is the part of kafka.Reader the consumer loop needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaReader creates a Kafka consumer using segmentio/kafka-go library.
// kafka.Reader provides consumer group functionality with automatic offset management.
func KafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker}, // segmentio/kafka-go: Kafka broker addresses
		Topic:          topic,            // segmentio/kafka-go: Topic to consume from
		GroupID:        groupID,          // segmentio/kafka-go: Consumer group ID (enables load balancing)
		MinBytes:       1,                // events are tiny; deliver as soon as one is available
		MaxBytes:       1 << 20,
		CommitInterval: time.Second, // segmentio/kafka-go: Auto-commit interval for offsets
	})
}

// HandlerFunc processes one decoded event.
type HandlerFunc func(ctx context.Context, evt model.EnquirySubmitted) error

// ConsumeEnquiries reads enquiry.submitted until ctx is cancelled or the
// reader fails. Undecodable messages and handler errors are logged and skipped.
func ConsumeEnquiries(ctx context.Context, reader MessageReader, handle HandlerFunc, logger *zap.Logger) error {
	defer reader.Close()

	logger.Info("consuming enquiry events", zap.String("topic", TopicEnquirySubmitted))

	for {
		// segmentio/kafka-go: ReadMessage blocks until a message is available from Kafka topic.
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var evt model.EnquirySubmitted
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Warn("failed to unmarshal enquiry event", zap.Error(err), zap.Int64("offset", msg.Offset))
			continue
		}

		if err := handle(ctx, evt); err != nil {
			logger.Error("enquiry event handler failed", zap.Error(err), zap.String("enquiry_id", evt.EnquiryID))
		}
	}
}
