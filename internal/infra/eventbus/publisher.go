package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"car-rental/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

// Writer is the slice of kafka.Writer the publisher needs; tests swap in a
// recording fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher appends keyed records to one topic. The hash balancer pins every
// record for a key to one partition, so all events for one entity are
// totally ordered relative to each other; records for different keys carry
// no ordering guarantee.
//
// Publication is fire-and-forget: the lifecycle paths publish after their
// state change commits, and a publish failure never rolls that change back.
type Publisher struct {
	topic  string
	writer Writer
}

func NewPublisher(cfg config.KafkaConfig, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("event publish failed",
					"topic", topic,
					"count", len(messages),
					"error", err.Error())
			}
		},
	}
	return &Publisher{topic: topic, writer: w}
}

func NewPublisherWithWriter(topic string, w Writer) *Publisher {
	return &Publisher{topic: topic, writer: w}
}

// Publish marshals value as the record body under the entity id key.
func (p *Publisher) Publish(ctx context.Context, key int64, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to marshal event value", "topic", p.topic, "key", key, "error", err.Error())
		return
	}
	p.write(ctx, key, body)
}

// PublishTombstone appends a record with a present key and absent value,
// signaling deletion of the entity with that key.
func (p *Publisher) PublishTombstone(ctx context.Context, key int64) {
	p.write(ctx, key, nil)
}

func (p *Publisher) write(ctx context.Context, key int64, body []byte) {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(key, 10)),
		Value: body,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("event publish failed", "topic", p.topic, "key", key, "error", err.Error())
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
