package components

import (
	"car-rental/internal/handler"
	"car-rental/internal/handler/api"
	"car-rental/internal/handler/middleware"
	"car-rental/internal/pkg/jwt"

	"go.uber.org/fx"
)

var CarHandlerModule = fx.Module("handler/car",
	fx.Provide(
		api.NewCarHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewCarRouter),
)

var BookingHandlerModule = fx.Module("handler/booking",
	fx.Provide(
		api.NewBookingHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewBookingRouter),
)

func NewAuthMiddleware(jwtService *jwt.Service) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtService)
}
