//go:build unit || e2e

package builder

import (
	"time"

	domcar "car-rental/internal/domain/car"
	reqdto "car-rental/internal/handler/dto/request"
	"car-rental/internal/usecase/readmodel"
)

type CarBuilder struct {
	ID          int64
	Brand       string
	Model       string
	Year        int
	RentalPrice float64
	Status      domcar.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewCarBuilder() *CarBuilder {
	now := time.Now()
	return &CarBuilder{
		ID:          1,
		Brand:       "Toyota",
		Model:       "Corolla",
		Year:        2022,
		RentalPrice: 55.0,
		Status:      domcar.StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *CarBuilder) With(mutate func(*CarBuilder)) *CarBuilder {
	mutate(b)
	return b
}

func (b *CarBuilder) WithStatus(status domcar.Status) *CarBuilder {
	b.Status = status
	return b
}

// Build methods
func (b *CarBuilder) BuildDomain() (*domcar.Car, error) {
	return domcar.NewCar(b.Brand, b.Model, b.Year, b.RentalPrice, b.Status)
}

func (b *CarBuilder) BuildEntity() *domcar.Car {
	return domcar.ReconstructCar(b.ID, b.Brand, b.Model, b.Year, b.RentalPrice, b.Status, b.CreatedAt, b.UpdatedAt)
}

func (b *CarBuilder) BuildRM() *readmodel.CarRM {
	return &readmodel.CarRM{
		ID:          b.ID,
		Brand:       b.Brand,
		Model:       b.Model,
		Year:        b.Year,
		RentalPrice: b.RentalPrice,
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *CarBuilder) BuildCreateRequestDTO() reqdto.CreateCarRequest {
	return reqdto.CreateCarRequest{
		Brand:       b.Brand,
		Model:       b.Model,
		Year:        b.Year,
		RentalPrice: b.RentalPrice,
		Status:      b.Status.String(),
	}
}
