package commands

import (
	"context"

	"car-rental/internal/domain/booking"
	"car-rental/internal/domain/car"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"
)

// Write-side ports. Interfaces live on the consumer side; the infra layer
// satisfies them.

type CarRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.CarRM, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id int64) (*car.Car, error)
	Create(ctx context.Context, dbtx db.DBTX, c *car.Car) (*readmodel.CarRM, error)
	Save(ctx context.Context, dbtx db.DBTX, c *car.Car) (*readmodel.CarRM, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status car.Status) (*readmodel.CarRM, error)
	Delete(ctx context.Context, dbtx db.DBTX, id int64) error
}

type BookingRepository interface {
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id int64) (*booking.Booking, error)
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error)
	Save(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error)
	Delete(ctx context.Context, dbtx db.DBTX, id int64) error
}

type UserViewRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.UserViewRM, error)
}

// CarEventPublisher appends to the car lifecycle log. Fire-and-forget:
// implementations report nothing back to the write path.
type CarEventPublisher interface {
	CarSaved(ctx context.Context, rm *readmodel.CarRM)
	CarDeleted(ctx context.Context, id int64)
}

type BookingEventPublisher interface {
	BookingSaved(ctx context.Context, rm *readmodel.BookingRM)
	BookingDeleted(ctx context.Context, id int64)
	CompensationFailed(ctx context.Context, carID int64, cause error)
}

// CarCache receives the explicit invalidation hooks of the cache-aside
// decorator on every car write and delete.
type CarCache interface {
	Refresh(ctx context.Context, rm *readmodel.CarRM)
	Invalidate(ctx context.Context, id int64)
}

// CarService is the remote car lifecycle surface the saga calls. Requests
// are bounded by the client's timeout; a timeout counts as step failure.
type CarService interface {
	GetByID(ctx context.Context, id int64) (*readmodel.CarRM, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*readmodel.CarRM, error)
	Reserve(ctx context.Context, id int64) (*readmodel.CarRM, error)
	Release(ctx context.Context, id int64) (*readmodel.CarRM, error)
}
