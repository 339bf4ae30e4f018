package bootstrap

import (
	"context"

	"car-rental/internal/infra/cache"
	"car-rental/internal/pkg/config"

	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*cache.RedisCache, error) {
	rc, cleanup, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return rc, nil
}
