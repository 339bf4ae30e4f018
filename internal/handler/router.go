package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"car-rental/internal/handler/api"
	"car-rental/internal/handler/middleware"
	"car-rental/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// NewCarRouter wires the car service surface.
func NewCarRouter(engine *gin.Engine, cfg config.Config, carHandler *api.CarHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupCommonRoutes(engine)

	cars := engine.Group("/api/cars")
	cars.Use(authMiddleware.RequireAuth())
	{
		adminOnly := []gin.HandlerFunc{authMiddleware.RequireAdmin()}
		addRoutes(cars, []route{
			{Method: http.MethodGet, Path: "", Handler: carHandler.ListCars},
			{Method: http.MethodGet, Path: "/available", Handler: carHandler.ListAvailableCars},
			{Method: http.MethodGet, Path: "/:id", Handler: carHandler.GetCar},
			{Method: http.MethodGet, Path: "/:id/availability", Handler: carHandler.GetAvailability},
			{Method: http.MethodPost, Path: "/batch", Handler: carHandler.BatchGetCars},
			{Method: http.MethodPost, Path: "", Handler: carHandler.CreateCar, Mw: adminOnly},
			{Method: http.MethodPut, Path: "/:id", Handler: carHandler.UpdateCar, Mw: adminOnly},
			{Method: http.MethodDelete, Path: "/:id", Handler: carHandler.DeleteCar, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/:id/reserve", Handler: carHandler.ReserveCar},
			{Method: http.MethodPost, Path: "/:id/release", Handler: carHandler.ReleaseCar},
		})
	}
}

// NewBookingRouter wires the booking service surface.
func NewBookingRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupCommonRoutes(engine)

	bookings := engine.Group("/api/bookings")
	bookings.Use(authMiddleware.RequireAuth())
	{
		addRoutes(bookings, []route{
			{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
			{Method: http.MethodGet, Path: "/all", Handler: bookingHandler.ListAllBookings},
			{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
			{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
			{Method: http.MethodPost, Path: "/create-with-check", Handler: bookingHandler.CreateBookingWithCheck},
			{Method: http.MethodPut, Path: "/:id", Handler: bookingHandler.UpdateBooking},
			{Method: http.MethodPut, Path: "/:id/complete", Handler: bookingHandler.CompleteBooking},
			{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.DeleteBooking},
		})
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupCommonRoutes(engine *gin.Engine) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
