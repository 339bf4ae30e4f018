package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"car-rental/internal/domain/booking"
	"car-rental/internal/infra"
	"car-rental/internal/infra/carclient"
	"car-rental/internal/infra/db"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
)

var (
	ErrBookingNotFound       = errs.New("booking not found")
	ErrUserNotFound          = errs.New("user not found")
	ErrAccessDenied          = errs.New("access denied")
	ErrBookingValidation     = errs.New("booking validation error")
	ErrBookingNotEditable    = errs.New("booking can no longer be updated")
	ErrBookingNotDeletable   = errs.New("booking can no longer be deleted")
	ErrInvalidBookingStatus  = errs.New("invalid booking status")
	ErrCarServiceUnavailable = errs.New("car service unavailable")
)

type CreateBookingParams struct {
	CarID     int64
	StartDate time.Time
	EndDate   time.Time
}

type UpdateBookingParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

type BookingCommands interface {
	Create(ctx context.Context, actor shared.Actor, params CreateBookingParams) (*readmodel.BookingRM, error)
	CreateWithCheck(ctx context.Context, actor shared.Actor, params CreateBookingParams) (*readmodel.BookingRM, error)
	Update(ctx context.Context, actor shared.Actor, id int64, params UpdateBookingParams) (*readmodel.BookingRM, error)
	Delete(ctx context.Context, actor shared.Actor, id int64) error
	Complete(ctx context.Context, actor shared.Actor, id int64) (*readmodel.BookingRM, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	bookings BookingRepository
	users    UserViewRepository
	carSvc   CarService
	events   BookingEventPublisher
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookings BookingRepository,
	users UserViewRepository,
	carSvc CarService,
	events BookingEventPublisher,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		bookings: bookings,
		users:    users,
		carSvc:   carSvc,
		events:   events,
	}
}

// CreateWithCheck runs the two-step reservation saga.
//
// Step 1 reserves the car through the car service. A failure here has no
// side effect, so the mapped error is returned as is and nothing is
// compensated. Step 2 persists the booking; any failure after the car was
// reserved triggers the compensating release, and the original step-2
// error is re-surfaced unchanged. A failed compensation is dead-lettered:
// that bounded window (car Rented, no booking) is the accepted failure
// mode of the saga and is resolved from the dead-letter queue.
func (u *bookingCommandsImpl) CreateWithCheck(ctx context.Context, actor shared.Actor, params CreateBookingParams) (*readmodel.BookingRM, error) {
	log := slog.With("car_id", params.CarID, "user_id", actor.UserID)
	log.Info("booking saga", "state", "start")

	if err := u.verifyUser(ctx, actor.UserID); err != nil {
		return nil, err
	}

	carRM, err := u.carSvc.Reserve(ctx, params.CarID)
	if err != nil {
		return nil, mapCarServiceErr(err)
	}
	log.Info("booking saga", "state", "car_reserved")

	rm, err := u.persistBooking(ctx, actor, params)
	if err != nil {
		log.Warn("booking saga", "state", "compensating", "cause", err.Error())
		u.compensate(ctx, carRM.ID, err)
		return nil, err
	}
	log.Info("booking saga", "state", "booking_persisted", "booking_id", rm.ID)

	u.events.BookingSaved(ctx, rm)
	return rm, nil
}

func (u *bookingCommandsImpl) persistBooking(ctx context.Context, actor shared.Actor, params CreateBookingParams) (*readmodel.BookingRM, error) {
	entity, err := booking.NewBooking(params.CarID, actor.UserID, params.StartDate, params.EndDate)
	if err != nil {
		return nil, errs.Mark(err, ErrBookingValidation)
	}

	var rm *readmodel.BookingRM
	err = u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rm, err = u.bookings.Create(ctx, dbtx, entity)
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

// compensate releases the car reserved in step 1. Release is idempotent on
// the car side, so retrying a delivered-but-unacknowledged release is safe.
// When the release itself fails the record goes to the dead-letter queue so
// an operator (or a drain job) can finish the rollback.
func (u *bookingCommandsImpl) compensate(ctx context.Context, carID int64, cause error) {
	if _, err := u.carSvc.Release(ctx, carID); err != nil {
		slog.Error("booking saga", "state", "compensated_failure",
			"car_id", carID,
			"release_error", err.Error(),
			"original_error", cause.Error())
		u.events.CompensationFailed(ctx, carID, cause)
	}
}

func (u *bookingCommandsImpl) verifyUser(ctx context.Context, userID int64) error {
	return u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if _, err := u.users.FindByID(ctx, dbtx, userID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// Create persists a booking without touching the car service. Kept for
// callers that already hold a reservation made out of band.
func (u *bookingCommandsImpl) Create(ctx context.Context, actor shared.Actor, params CreateBookingParams) (*readmodel.BookingRM, error) {
	if err := u.verifyUser(ctx, actor.UserID); err != nil {
		return nil, err
	}

	rm, err := u.persistBooking(ctx, actor, params)
	if err != nil {
		return nil, err
	}

	u.events.BookingSaved(ctx, rm)
	return rm, nil
}

func (u *bookingCommandsImpl) Update(ctx context.Context, actor shared.Actor, id int64, params UpdateBookingParams) (*readmodel.BookingRM, error) {
	var status *booking.Status
	if params.Status != nil {
		parsed, err := booking.ParseStatus(*params.Status)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidBookingStatus)
		}
		status = &parsed
	}

	var rm *readmodel.BookingRM
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := u.lockBooking(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if err := b.ApplyUpdate(params.StartDate, params.EndDate, status); err != nil {
			switch {
			case errors.Is(err, booking.ErrNotEditable):
				return errs.Mark(err, ErrBookingNotEditable)
			default:
				return errs.Mark(err, ErrBookingValidation)
			}
		}

		rm, err = u.bookings.Save(ctx, tx, b)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.BookingSaved(ctx, rm)
	return rm, nil
}

// Delete emits the tombstone before the row goes away, mirroring car
// deletion, so downstream views converge even under reordering.
func (u *bookingCommandsImpl) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := u.lockBooking(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if !b.CanDelete() {
			return errs.Mark(
				errs.Newf("booking %d status is %s", id, b.Status()),
				ErrBookingNotDeletable,
			)
		}

		u.events.BookingDeleted(ctx, id)

		if err := u.bookings.Delete(ctx, tx, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// Complete releases the car first and only then marks the booking
// Completed, while holding the booking row lock. If the process dies
// between the two writes the booking stays Created against a released
// car, and retrying Complete heals it: Release is idempotent.
func (u *bookingCommandsImpl) Complete(ctx context.Context, actor shared.Actor, id int64) (*readmodel.BookingRM, error) {
	var rm *readmodel.BookingRM

	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := u.lockBooking(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if _, err := u.carSvc.Release(ctx, b.CarID()); err != nil {
			return mapCarServiceErr(err)
		}

		b.Complete()
		rm, err = u.bookings.Save(ctx, tx, b)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.BookingSaved(ctx, rm)
	return rm, nil
}

func (u *bookingCommandsImpl) lockBooking(ctx context.Context, tx db.DBTX, actor shared.Actor, id int64) (*booking.Booking, error) {
	b, err := u.bookings.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if !actor.CanAccess(b.UserID()) {
		return nil, errs.Mark(
			errs.Newf("user %d cannot act on booking %d", actor.UserID, id),
			ErrAccessDenied,
		)
	}
	return b, nil
}

func mapCarServiceErr(err error) error {
	switch {
	case errors.Is(err, carclient.ErrCarNotFound):
		return errs.Mark(err, ErrCarNotFound)
	case errors.Is(err, carclient.ErrCarUnavailable):
		return errs.Mark(err, ErrCarNotAvailable)
	default:
		return errs.Mark(err, ErrCarServiceUnavailable)
	}
}
