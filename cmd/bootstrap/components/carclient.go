package components

import (
	"car-rental/internal/infra/carclient"
	"car-rental/internal/pkg/config"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

var CarClientModule = fx.Module("carclient",
	fx.Provide(
		fx.Annotate(
			NewCarClient,
			fx.As(new(commands.CarService)),
			fx.As(new(queries.CarSnapshotFetcher)),
		),
	),
)

func NewCarClient(cfg config.Config) *carclient.Client {
	return carclient.New(cfg.CarService)
}
