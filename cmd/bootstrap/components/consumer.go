package components

import (
	"context"
	"log/slog"

	"car-rental/internal/infra/eventbus"
	"car-rental/internal/pkg/config"
	"car-rental/internal/usecase/replicator"

	"go.uber.org/fx"
)

var UserViewConsumerModule = fx.Module("consumer/userview",
	fx.Provide(
		replicator.NewUserViewReplicator,
	),
	fx.Invoke(StartUserViewConsumer),
)

// StartUserViewConsumer runs the users_view replication loop for the whole
// process lifetime, independent of request handling.
func StartUserViewConsumer(lc fx.Lifecycle, cfg config.Config, rep *replicator.UserViewReplicator) {
	consumer := eventbus.NewConsumer(cfg.Kafka, cfg.Kafka.UserTopic, rep)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := consumer.Run(ctx); err != nil {
					slog.Error("user view consumer stopped", "error", err.Error())
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return consumer.Close()
		},
	})
}
