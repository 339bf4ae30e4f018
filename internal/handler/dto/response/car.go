package response

import (
	"time"

	"car-rental/internal/usecase/readmodel"
)

type CarResponse struct {
	ID          int64     `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	RentalPrice float64   `json:"rental_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	CarID     int64 `json:"car_id"`
	Available bool  `json:"available"`
}

func FromCarRM(rm *readmodel.CarRM) *CarResponse {
	return &CarResponse{
		ID:          rm.ID,
		Brand:       rm.Brand,
		Model:       rm.Model,
		Year:        rm.Year,
		RentalPrice: rm.RentalPrice,
		Status:      rm.Status,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
	}
}

func FromCarRMs(rms []*readmodel.CarRM) []*CarResponse {
	result := make([]*CarResponse, len(rms))
	for i, rm := range rms {
		result[i] = FromCarRM(rm)
	}
	return result
}
