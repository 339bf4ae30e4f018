package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"car-rental/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

// Record is one consumed log entry. A nil Value is a tombstone.
type Record struct {
	Key   string
	Value []byte
}

// RecordHandler processes one record. Handlers are invoked at-least-once and
// must be idempotent under redelivery; a returned error is logged and the
// record dropped, never crashing the subscriber loop.
type RecordHandler interface {
	Handle(ctx context.Context, rec Record) error
}

type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer is the long-lived subscriber loop for one topic, run as a
// background task decoupled from request handling.
type Consumer struct {
	topic   string
	reader  Reader
	handler RecordHandler
}

func NewConsumer(cfg config.KafkaConfig, topic string, handler RecordHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          topic,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{topic: topic, reader: r, handler: handler}
}

func NewConsumerWithReader(topic string, reader Reader, handler RecordHandler) *Consumer {
	return &Consumer{topic: topic, reader: reader, handler: handler}
}

// Run blocks until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("event consumer started", "topic", c.topic)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				slog.Info("event consumer stopping", "topic", c.topic)
				return nil
			}
			slog.Error("failed to read event", "topic", c.topic, "error", err.Error())
			continue
		}

		rec := Record{Key: string(msg.Key), Value: msg.Value}
		if err := c.handler.Handle(ctx, rec); err != nil {
			slog.Error("dropping event after handler failure",
				"topic", c.topic,
				"key", rec.Key,
				"error", err.Error())
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
