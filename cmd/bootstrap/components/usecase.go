package components

import (
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

var CarUseCaseModule = fx.Module("usecase/car",
	fx.Provide(
		commands.NewCarCommands,
		queries.NewCarQueries,
	),
)

var BookingUseCaseModule = fx.Module("usecase/booking",
	fx.Provide(
		commands.NewBookingCommands,
		queries.NewBookingQueries,
	),
)
