package commands

import (
	"context"
	"log/slog"

	"car-rental/internal/domain/car"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
)

var (
	ErrCarNotFound             = errs.New("car not found")
	ErrCarNotAvailable         = errs.New("car is not available")
	ErrInvalidCarStatus        = errs.New("invalid car status")
	ErrCarValidation           = errs.New("car validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateCarParams struct {
	Brand       string
	Model       string
	Year        int
	RentalPrice float64
	Status      string
}

type UpdateCarParams struct {
	Brand       *string
	Model       *string
	Year        *int
	RentalPrice *float64
	Status      *string
}

// CarCommands is the car lifecycle manager: the only writer of car status.
type CarCommands interface {
	Create(ctx context.Context, params CreateCarParams) (*readmodel.CarRM, error)
	Update(ctx context.Context, id int64, params UpdateCarParams) (*readmodel.CarRM, error)
	Delete(ctx context.Context, id int64) error
	Reserve(ctx context.Context, id int64) (*readmodel.CarRM, error)
	Release(ctx context.Context, id int64) (*readmodel.CarRM, error)
}

type carCommandsImpl struct {
	uow    shared.UnitOfWork
	cars   CarRepository
	events CarEventPublisher
	cache  CarCache
}

func NewCarCommands(uow shared.UnitOfWork, cars CarRepository, events CarEventPublisher, cache CarCache) CarCommands {
	return &carCommandsImpl{
		uow:    uow,
		cars:   cars,
		events: events,
		cache:  cache,
	}
}

// Reserve is the only entry point that transitions a car into Rented. The
// row lock makes it safe to call concurrently: when two requests race for
// the same car, exactly one wins and the rest observe ErrCarNotAvailable.
func (u *carCommandsImpl) Reserve(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	rm, err := u.transition(ctx, id, func(c *car.Car) error {
		if reserveErr := c.Reserve(); reserveErr != nil {
			slog.Warn("attempt to reserve an unavailable car",
				"car_id", id,
				"status", c.Status().String())
			return errs.Mark(
				errs.Newf("car %d status is %s, expected %s", id, c.Status(), car.StatusAvailable),
				ErrCarNotAvailable,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.CarSaved(ctx, rm)
	u.cache.Refresh(ctx, rm)
	return rm, nil
}

// Release unconditionally returns the car to Available. Idempotent by
// design: it is the compensating action for a failed reservation, so
// releasing an already-available car succeeds and still emits an event.
func (u *carCommandsImpl) Release(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	rm, err := u.transition(ctx, id, func(c *car.Car) error {
		c.Release()
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.CarSaved(ctx, rm)
	u.cache.Refresh(ctx, rm)
	return rm, nil
}

// transition runs a read-check-write on one car row under its exclusive
// lock. The lock spans only this critical section: the event publish and
// cache refresh happen after commit, and no network call occurs inside.
func (u *carCommandsImpl) transition(ctx context.Context, id int64, fn func(c *car.Car) error) (*readmodel.CarRM, error) {
	var rm *readmodel.CarRM

	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		c, err := u.cars.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCarNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := fn(c); err != nil {
			return err
		}

		rm, err = u.cars.UpdateStatus(ctx, tx, id, c.Status())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (u *carCommandsImpl) Create(ctx context.Context, params CreateCarParams) (*readmodel.CarRM, error) {
	status, err := car.ParseStatus(params.Status)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCarStatus)
	}

	entity, err := car.NewCar(params.Brand, params.Model, params.Year, params.RentalPrice, status)
	if err != nil {
		return nil, errs.Mark(err, ErrCarValidation)
	}

	var rm *readmodel.CarRM
	err = u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rm, err = u.cars.Create(ctx, dbtx, entity)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.CarSaved(ctx, rm)
	return rm, nil
}

func (u *carCommandsImpl) Update(ctx context.Context, id int64, params UpdateCarParams) (*readmodel.CarRM, error) {
	var rm *readmodel.CarRM

	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		existing, err := u.cars.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCarNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		merged, err := mergeCarUpdate(existing, params)
		if err != nil {
			return err
		}

		rm, err = u.cars.Save(ctx, tx, merged)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.CarSaved(ctx, rm)
	u.cache.Refresh(ctx, rm)
	return rm, nil
}

// Delete emits the tombstone before removal so consumers can invalidate
// their views even if the row is already gone when they process it.
func (u *carCommandsImpl) Delete(ctx context.Context, id int64) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		u.events.CarDeleted(ctx, id)

		if err := u.cars.Delete(ctx, tx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCarNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.cache.Invalidate(ctx, id)
	return nil
}

func mergeCarUpdate(existing *car.Car, params UpdateCarParams) (*car.Car, error) {
	brand := existing.Brand()
	model := existing.Model()
	year := existing.Year()
	price := existing.RentalPrice()
	status := existing.Status()

	if params.Brand != nil {
		brand = *params.Brand
	}
	if params.Model != nil {
		model = *params.Model
	}
	if params.Year != nil {
		year = *params.Year
	}
	if params.RentalPrice != nil {
		price = *params.RentalPrice
	}
	if params.Status != nil {
		parsed, err := car.ParseStatus(*params.Status)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidCarStatus)
		}
		status = parsed
	}

	merged, err := car.NewCar(brand, model, year, price, status)
	if err != nil {
		return nil, errs.Mark(err, ErrCarValidation)
	}
	return car.ReconstructCar(existing.ID(), merged.Brand(), merged.Model(), merged.Year(), merged.RentalPrice(), merged.Status(), existing.CreatedAt(), existing.UpdatedAt()), nil
}
