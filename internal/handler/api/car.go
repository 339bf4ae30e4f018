package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "car-rental/internal/handler/dto/request"
	resdto "car-rental/internal/handler/dto/response"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	carCommands commands.CarCommands
	carQueries  queries.CarQueries
}

func NewCarHandler(carCommands commands.CarCommands, carQueries queries.CarQueries) *CarHandler {
	return &CarHandler{
		carCommands: carCommands,
		carQueries:  carQueries,
	}
}

// @Summary List cars
// @Description List every car in the fleet
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CarResponse
// @Failure 401 {object} map[string]string
// @Router /cars [get]
func (h *CarHandler) ListCars(c *gin.Context) {
	carsRM, err := h.carQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRMs(carsRM))
}

// @Summary List available cars
// @Description List cars currently available for rental
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CarResponse
// @Failure 401 {object} map[string]string
// @Router /cars/available [get]
func (h *CarHandler) ListAvailableCars(c *gin.Context) {
	carsRM, err := h.carQueries.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRMs(carsRM))
}

// @Summary Get car
// @Description Get car by ID
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 200 {object} resdto.CarResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cars/{id} [get]
func (h *CarHandler) GetCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	carRM, err := h.carQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRM(carRM))
}

// @Summary Check car availability
// @Description Report whether the car is available for rental
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /cars/{id}/availability [get]
func (h *CarHandler) GetAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	available, err := h.carQueries.IsAvailable(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.AvailabilityResponse{CarID: id, Available: available})
}

// @Summary Batch get cars
// @Description Get multiple cars by ID in one call
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BatchCarRequest true "Car IDs"
// @Success 200 {array} resdto.CarResponse
// @Failure 400 {object} map[string]string
// @Router /cars/batch [post]
func (h *CarHandler) BatchGetCars(c *gin.Context) {
	var req reqdto.BatchCarRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	carsRM, err := h.carQueries.GetByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRMs(carsRM))
}

// @Summary Create car
// @Description Register a new car (admin only)
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCarRequest true "Car data"
// @Success 201 {object} resdto.CarResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /cars [post]
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req reqdto.CreateCarRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateCarParams{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		RentalPrice: req.RentalPrice,
		Status:      req.GetStatus(),
	}

	carRM, err := h.carCommands.Create(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCarStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid car status",
			})
		case errors.Is(err, commands.ErrCarValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Car validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCarRM(carRM))
}

// @Summary Update car
// @Description Update car attributes (admin only)
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param request body reqdto.UpdateCarRequest true "Fields to update"
// @Success 200 {object} resdto.CarResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /cars/{id} [put]
func (h *CarHandler) UpdateCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateCarRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.UpdateCarParams{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		RentalPrice: req.RentalPrice,
		Status:      req.Status,
	}

	carRM, err := h.carCommands.Update(c.Request.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
			})
		case errors.Is(err, commands.ErrInvalidCarStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid car status",
			})
		case errors.Is(err, commands.ErrCarValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Car validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRM(carRM))
}

// @Summary Delete car
// @Description Remove a car from the fleet (admin only)
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /cars/{id} [delete]
func (h *CarHandler) DeleteCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.carCommands.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
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

// @Summary Reserve car
// @Description Transition an available car to Rented
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 200 {object} resdto.CarResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cars/{id}/reserve [post]
func (h *CarHandler) ReserveCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	carRM, err := h.carCommands.Reserve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
			})
		case errors.Is(err, commands.ErrCarNotAvailable):
			// 403 is the reserve contract: the car exists but cannot be taken
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Car is not available",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRM(carRM))
}

// @Summary Release car
// @Description Return a car to Available
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 200 {object} resdto.CarResponse
// @Failure 404 {object} map[string]string
// @Router /cars/{id}/release [post]
func (h *CarHandler) ReleaseCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	carRM, err := h.carCommands.Release(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Car not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCarRM(carRM))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return 0, false
	}
	return id, true
}
