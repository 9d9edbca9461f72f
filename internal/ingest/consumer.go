package ingest

import (
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Handler processes one ingestion event.
type Handler func(ctx context.Context, event models.IngestionEvent) error

// Consumer reads document ingestion events from Kafka and dispatches them to
// a handler. Handler errors are logged and the message is committed anyway;
// document processing is best-effort by design.
type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewConsumer creates a new Consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string, logger *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: logger}
}

// Start begins consuming in a background goroutine until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stopping ingestion consumer...")
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() == nil {
						c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error fetching message from Kafka")
					}
					continue
				}

				var event models.IngestionEvent
				if err := json.Unmarshal(msg.Value, &event); err != nil {
					c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to unmarshal ingestion event")
				} else if err := handler(ctx, event); err != nil {
					c.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
						"document_id": event.DocumentID,
						"partition":   msg.Partition,
						"offset":      msg.Offset,
					}).Error("Error handling ingestion event")
				}

				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to commit Kafka message")
				}
			}
		}
	}()
}

// Close closes the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
