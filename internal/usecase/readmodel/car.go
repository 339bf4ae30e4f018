package readmodel

import "time"

// CarRM is the car's public snapshot: the shape served over HTTP and carried
// as the value of car lifecycle events.
type CarRM struct {
	ID          int64     `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	RentalPrice float64   `json:"rental_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
