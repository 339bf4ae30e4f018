package components

import (
	"car-rental/internal/infra/cache"
	"car-rental/internal/infra/repository"
	"car-rental/internal/infra/uow"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"
	"car-rental/internal/usecase/replicator"

	"go.uber.org/fx"
)

var CarPersistenceModule = fx.Module("persistence/car",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewCarRepository,
			fx.As(new(commands.CarRepository)),
			fx.As(new(queries.CarListFinder)),
			fx.As(new(cache.CarSource)),
		),
	),
)

var BookingPersistenceModule = fx.Module("persistence/booking",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingFinder)),
		),
		fx.Annotate(
			repository.NewUserViewRepository,
			fx.As(new(commands.UserViewRepository)),
			fx.As(new(replicator.UserViewWriter)),
		),
	),
)
