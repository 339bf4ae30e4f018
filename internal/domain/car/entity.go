package car

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyBrand       = errors.New("car brand cannot be empty")
	ErrEmptyModel       = errors.New("car model cannot be empty")
	ErrInvalidYear      = errors.New("car year is out of range")
	ErrNegativePrice    = errors.New("rental price cannot be negative")
	ErrNotAvailable     = errors.New("car is not available")
	ErrAlreadyAvailable = errors.New("car is already available")
)

const (
	minYear = 1900
	maxYear = 2100
)

// Car is the rentable resource. Status transitions happen only through
// Reserve/Release so that every transition site checks the closed enum.
type Car struct {
	id          int64
	brand       string
	model       string
	year        int
	rentalPrice float64
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCar(brand, model string, year int, rentalPrice float64, status Status) (*Car, error) {
	brand = strings.TrimSpace(brand)
	model = strings.TrimSpace(model)
	if brand == "" {
		return nil, ErrEmptyBrand
	}
	if model == "" {
		return nil, ErrEmptyModel
	}
	if year < minYear || year > maxYear {
		return nil, ErrInvalidYear
	}
	if rentalPrice < 0 {
		return nil, ErrNegativePrice
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Car{
		brand:       brand,
		model:       model,
		year:        year,
		rentalPrice: rentalPrice,
		status:      status,
	}, nil
}

func ReconstructCar(id int64, brand, model string, year int, rentalPrice float64, status Status, createdAt, updatedAt time.Time) *Car {
	return &Car{
		id:          id,
		brand:       brand,
		model:       model,
		year:        year,
		rentalPrice: rentalPrice,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Reserve transitions Available -> Rented. The caller must hold the row lock
// for this car while the transition is applied and persisted.
func (c *Car) Reserve() error {
	if c.status != StatusAvailable {
		return ErrNotAvailable
	}
	c.status = StatusRented
	return nil
}

// Release unconditionally transitions to Available. Idempotent: it is the
// compensating action for a failed reservation and must be safe to retry.
func (c *Car) Release() {
	c.status = StatusAvailable
}

func (c *Car) IsAvailable() bool {
	return c.status == StatusAvailable
}

func (c *Car) ID() int64            { return c.id }
func (c *Car) Brand() string        { return c.brand }
func (c *Car) Model() string        { return c.model }
func (c *Car) Year() int            { return c.year }
func (c *Car) RentalPrice() float64 { return c.rentalPrice }
func (c *Car) Status() Status       { return c.status }
func (c *Car) CreatedAt() time.Time { return c.createdAt }
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }
