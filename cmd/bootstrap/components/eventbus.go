package components

import (
	"context"

	"car-rental/internal/infra/eventbus"
	"car-rental/internal/pkg/config"
	"car-rental/internal/usecase/commands"

	"go.uber.org/fx"
)

var CarEventsModule = fx.Module("eventbus/car",
	fx.Provide(
		fx.Annotate(
			NewCarEvents,
			fx.As(new(commands.CarEventPublisher)),
		),
	),
)

var BookingEventsModule = fx.Module("eventbus/booking",
	fx.Provide(
		fx.Annotate(
			NewBookingEvents,
			fx.As(new(commands.BookingEventPublisher)),
		),
	),
)

func NewCarEvents(lc fx.Lifecycle, cfg config.Config) *eventbus.CarEvents {
	pub := newPublisher(lc, cfg.Kafka, cfg.Kafka.CarTopic)
	return eventbus.NewCarEvents(pub)
}

func NewBookingEvents(lc fx.Lifecycle, cfg config.Config) *eventbus.BookingEvents {
	pub := newPublisher(lc, cfg.Kafka, cfg.Kafka.BookingTopic)
	dlq := newPublisher(lc, cfg.Kafka, cfg.Kafka.CompensationDLQ)
	return eventbus.NewBookingEvents(pub, dlq)
}

func newPublisher(lc fx.Lifecycle, cfg config.KafkaConfig, topic string) *eventbus.Publisher {
	pub := eventbus.NewPublisher(cfg, topic)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}
