package api

import (
	"errors"
	"net/http"

	reqdto "car-rental/internal/handler/dto/request"
	resdto "car-rental/internal/handler/dto/response"
	"car-rental/internal/handler/middleware"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking with car check
// @Description Reserve the car and create the booking as one coordinated flow
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /bookings/create-with-check [post]
func (h *BookingHandler) CreateBookingWithCheck(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	params, ok := h.bindCreateParams(c)
	if !ok {
		return
	}

	bookingRM, err := h.bookingCommands.CreateWithCheck(c.Request.Context(), actor, params)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingRM(bookingRM))
}

// @Summary Create booking
// @Description Create a booking without reserving the car
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	params, ok := h.bindCreateParams(c)
	if !ok {
		return
	}

	bookingRM, err := h.bookingCommands.Create(c.Request.Context(), actor, params)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingRM(bookingRM))
}

// @Summary Get booking
// @Description Get booking by ID (own bookings, or any as admin)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	bookingRM, err := h.bookingQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, queries.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(bookingRM))
}

// @Summary List own bookings
// @Description List the caller's bookings with car snapshots
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookingsRM, err := h.bookingQueries.ListForUser(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRMs(bookingsRM))
}

// @Summary List all bookings
// @Description List every booking (admin only)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Router /bookings/all [get]
func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookingsRM, err := h.bookingQueries.ListAll(c.Request.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRMs(bookingsRM))
}

// @Summary Update booking
// @Description Update a booking still in Created status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Fields to update"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	params := commands.UpdateBookingParams{
		StartDate: start,
		EndDate:   end,
		Status:    req.Status,
	}

	bookingRM, err := h.bookingCommands.Update(c.Request.Context(), actor, id, params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrInvalidBookingStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid booking status",
			})
		case errors.Is(err, commands.ErrBookingNotEditable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking can no longer be updated",
			})
		case errors.Is(err, commands.ErrBookingValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(bookingRM))
}

// @Summary Complete booking
// @Description Release the car and mark the booking Completed
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /bookings/{id}/complete [put]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	bookingRM, err := h.bookingCommands.Complete(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrCarServiceUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Car service unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(bookingRM))
}

// @Summary Delete booking
// @Description Delete a Created or Cancelled booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.Delete(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrBookingNotDeletable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking can no longer be deleted",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) bindCreateParams(c *gin.Context) (commands.CreateBookingParams, bool) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return commands.CreateBookingParams{}, false
	}

	start, end, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return commands.CreateBookingParams{}, false
	}

	return commands.CreateBookingParams{
		CarID:     req.CarID,
		StartDate: start,
		EndDate:   end,
	}, true
}

func (h *BookingHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, commands.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Car not found",
		})
	case errors.Is(err, commands.ErrCarNotAvailable):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Car is not available",
		})
	case errors.Is(err, commands.ErrBookingValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking validation failed",
		})
	case errors.Is(err, commands.ErrCarServiceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Car service unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
