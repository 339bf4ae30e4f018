//go:build unit || e2e

package builder

import (
	"time"

	dombooking "car-rental/internal/domain/booking"
	reqdto "car-rental/internal/handler/dto/request"
	"car-rental/internal/usecase/readmodel"
)

type BookingBuilder struct {
	ID        int64
	CarID     int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	Status    dombooking.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:        1,
		CarID:     1,
		UserID:    100,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
		Status:    dombooking.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStatus(status dombooking.Status) *BookingBuilder {
	b.Status = status
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(b.CarID, b.UserID, b.StartDate, b.EndDate)
}

func (b *BookingBuilder) BuildEntity() *dombooking.Booking {
	return dombooking.ReconstructBooking(b.ID, b.CarID, b.UserID, b.StartDate, b.EndDate, b.Status, b.CreatedAt, b.UpdatedAt)
}

func (b *BookingBuilder) BuildRM() *readmodel.BookingRM {
	return &readmodel.BookingRM{
		ID:        b.ID,
		CarID:     b.CarID,
		UserID:    b.UserID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		CarID:     b.CarID,
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
	}
}
