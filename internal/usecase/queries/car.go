package queries

import (
	"context"

	"car-rental/internal/domain/car"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
)

var (
	ErrCarNotFound             = errs.New("car not found")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// CarFinder is the read-through view of the car store. GetByID goes through
// the cache decorator; the list reads hit the store directly.
type CarFinder interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.CarRM, error)
}

type CarListFinder interface {
	FindAll(ctx context.Context, dbtx db.DBTX) ([]*readmodel.CarRM, error)
	FindByIDs(ctx context.Context, dbtx db.DBTX, ids []int64) ([]*readmodel.CarRM, error)
	FindByStatus(ctx context.Context, dbtx db.DBTX, status car.Status) ([]*readmodel.CarRM, error)
}

type CarQueries interface {
	GetByID(ctx context.Context, id int64) (*readmodel.CarRM, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*readmodel.CarRM, error)
	List(ctx context.Context) ([]*readmodel.CarRM, error)
	ListAvailable(ctx context.Context) ([]*readmodel.CarRM, error)
	IsAvailable(ctx context.Context, id int64) (bool, error)
}

type carQueriesImpl struct {
	uow    shared.UnitOfWork
	cached CarFinder
	cars   CarListFinder
}

func NewCarQueries(uow shared.UnitOfWork, cached CarFinder, cars CarListFinder) CarQueries {
	return &carQueriesImpl{uow: uow, cached: cached, cars: cars}
}

func (q *carQueriesImpl) GetByID(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	var rm *readmodel.CarRM
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		found, err := q.cached.FindByID(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCarNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		rm = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (q *carQueriesImpl) GetByIDs(ctx context.Context, ids []int64) ([]*readmodel.CarRM, error) {
	return q.list(ctx, func(ctx context.Context, dbtx db.DBTX) ([]*readmodel.CarRM, error) {
		return q.cars.FindByIDs(ctx, dbtx, ids)
	})
}

func (q *carQueriesImpl) List(ctx context.Context) ([]*readmodel.CarRM, error) {
	return q.list(ctx, q.cars.FindAll)
}

func (q *carQueriesImpl) ListAvailable(ctx context.Context) ([]*readmodel.CarRM, error) {
	return q.list(ctx, func(ctx context.Context, dbtx db.DBTX) ([]*readmodel.CarRM, error) {
		return q.cars.FindByStatus(ctx, dbtx, car.StatusAvailable)
	})
}

func (q *carQueriesImpl) IsAvailable(ctx context.Context, id int64) (bool, error) {
	rm, err := q.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return rm.Status == car.StatusAvailable.String(), nil
}

func (q *carQueriesImpl) list(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) ([]*readmodel.CarRM, error)) ([]*readmodel.CarRM, error) {
	var result []*readmodel.CarRM
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		found, err := fn(ctx, dbtx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
