package queries

import (
	"context"
	"log/slog"

	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrAccessDenied    = errs.New("access denied")
)

type BookingFinder interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.BookingRM, error)
	FindByUserID(ctx context.Context, dbtx db.DBTX, userID int64) ([]*readmodel.BookingRM, error)
	FindAll(ctx context.Context, dbtx db.DBTX) ([]*readmodel.BookingRM, error)
}

// CarSnapshotFetcher batch-loads car snapshots from the car service for
// list denormalization.
type CarSnapshotFetcher interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*readmodel.CarRM, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id int64) (*readmodel.BookingRM, error)
	ListForUser(ctx context.Context, actor shared.Actor) ([]*readmodel.BookingRM, error)
	ListAll(ctx context.Context, actor shared.Actor) ([]*readmodel.BookingRM, error)
}

type bookingQueriesImpl struct {
	uow      shared.UnitOfWork
	bookings BookingFinder
	carSvc   CarSnapshotFetcher
}

func NewBookingQueries(uow shared.UnitOfWork, bookings BookingFinder, carSvc CarSnapshotFetcher) BookingQueries {
	return &bookingQueriesImpl{uow: uow, bookings: bookings, carSvc: carSvc}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id int64) (*readmodel.BookingRM, error) {
	var rm *readmodel.BookingRM
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		found, err := q.bookings.FindByID(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		rm = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(rm.UserID) {
		return nil, errs.Mark(
			errs.Newf("user %d cannot read booking %d", actor.UserID, id),
			ErrAccessDenied,
		)
	}
	return rm, nil
}

func (q *bookingQueriesImpl) ListForUser(ctx context.Context, actor shared.Actor) ([]*readmodel.BookingRM, error) {
	return q.listThenEnrich(ctx, func(ctx context.Context, dbtx db.DBTX) ([]*readmodel.BookingRM, error) {
		return q.bookings.FindByUserID(ctx, dbtx, actor.UserID)
	})
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, actor shared.Actor) ([]*readmodel.BookingRM, error) {
	if !actor.IsAdmin() {
		return nil, errs.Mark(
			errs.Newf("user %d is not an administrator", actor.UserID),
			ErrAccessDenied,
		)
	}
	return q.listThenEnrich(ctx, q.bookings.FindAll)
}

func (q *bookingQueriesImpl) listThenEnrich(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) ([]*readmodel.BookingRM, error)) ([]*readmodel.BookingRM, error) {
	var rms []*readmodel.BookingRM
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		found, err := fn(ctx, dbtx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		rms = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.attachCarSnapshots(ctx, rms)
	return rms, nil
}

// attachCarSnapshots decorates bookings with the current car data via one
// batch call. Best effort: when the car service is unreachable the list is
// still served, just without the snapshots.
func (q *bookingQueriesImpl) attachCarSnapshots(ctx context.Context, rms []*readmodel.BookingRM) {
	if len(rms) == 0 {
		return
	}

	seen := make(map[int64]struct{}, len(rms))
	ids := make([]int64, 0, len(rms))
	for _, rm := range rms {
		if _, ok := seen[rm.CarID]; ok {
			continue
		}
		seen[rm.CarID] = struct{}{}
		ids = append(ids, rm.CarID)
	}

	cars, err := q.carSvc.GetByIDs(ctx, ids)
	if err != nil {
		slog.Warn("car snapshot enrichment skipped", "error", err.Error())
		return
	}

	byID := make(map[int64]*readmodel.CarRM, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
	}
	for _, rm := range rms {
		rm.Car = byID[rm.CarID]
	}
}
