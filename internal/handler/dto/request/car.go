package request

type CreateCarRequest struct {
	Brand       string  `json:"brand" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Year        int     `json:"year" binding:"required"`
	RentalPrice float64 `json:"rental_price" binding:"gte=0"`
	Status      string  `json:"status"`
}

// GetStatus defaults a new car to Available when the caller omits the field.
func (r *CreateCarRequest) GetStatus() string {
	if r.Status == "" {
		return "Available"
	}
	return r.Status
}

type UpdateCarRequest struct {
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Year        *int     `json:"year"`
	RentalPrice *float64 `json:"rental_price"`
	Status      *string  `json:"status"`
}

type BatchCarRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}
