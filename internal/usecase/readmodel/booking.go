package readmodel

import "time"

type BookingRM struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id"`
	UserID    int64     `json:"user_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Car carries the denormalized car snapshot fetched in one batch call
	// when listing; nil when the car service could not be reached.
	Car *CarRM `json:"car,omitempty"`
}
