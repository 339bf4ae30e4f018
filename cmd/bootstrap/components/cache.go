package components

import (
	"car-rental/internal/infra/cache"
	"car-rental/internal/pkg/config"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

var CarCacheModule = fx.Module("cache/car",
	fx.Provide(
		fx.Annotate(
			NewCarStore,
			fx.As(new(commands.CarCache)),
			fx.As(new(queries.CarFinder)),
		),
	),
)

func NewCarStore(source cache.CarSource, rc *cache.RedisCache, cfg config.Config) *cache.CarStore {
	return cache.NewCarStore(source, rc, cfg.Redis.CarTTL)
}
