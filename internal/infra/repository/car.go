package repository

import (
	"context"
	"errors"

	"car-rental/internal/domain/car"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5"
)

const carColumns = "id, brand, model, year, rental_price, status, created_at, updated_at"

type CarRepository struct{}

func NewCarRepository() *CarRepository {
	return &CarRepository{}
}

func (r *CarRepository) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.CarRM, error) {
	row := dbtx.QueryRow(ctx, "SELECT "+carColumns+" FROM cars WHERE id = $1", id)

	rm, err := scanCarRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car by ID", err)
	}
	return rm, nil
}

// FindByIDForUpdate takes the exclusive row lock that serializes every
// status transition for one car. Callers must be inside a transaction and
// must not cross a service boundary before it commits.
func (r *CarRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id int64) (*car.Car, error) {
	row := tx.QueryRow(ctx, "SELECT "+carColumns+" FROM cars WHERE id = $1 FOR UPDATE", id)

	rm, err := scanCarRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock car row", err)
	}
	return toCarEntity(rm)
}

func (r *CarRepository) FindAll(ctx context.Context, dbtx db.DBTX) ([]*readmodel.CarRM, error) {
	rows, err := dbtx.Query(ctx, "SELECT "+carColumns+" FROM cars ORDER BY id")
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find all cars", err)
	}
	defer rows.Close()

	return collectCarRMs(rows)
}

func (r *CarRepository) FindByIDs(ctx context.Context, dbtx db.DBTX, ids []int64) ([]*readmodel.CarRM, error) {
	rows, err := dbtx.Query(ctx, "SELECT "+carColumns+" FROM cars WHERE id = ANY($1) ORDER BY id", ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find cars by IDs", err)
	}
	defer rows.Close()

	return collectCarRMs(rows)
}

func (r *CarRepository) FindByStatus(ctx context.Context, dbtx db.DBTX, status car.Status) ([]*readmodel.CarRM, error) {
	rows, err := dbtx.Query(ctx, "SELECT "+carColumns+" FROM cars WHERE status = $1 ORDER BY id", status.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find cars by status", err)
	}
	defer rows.Close()

	return collectCarRMs(rows)
}

func (r *CarRepository) Create(ctx context.Context, dbtx db.DBTX, c *car.Car) (*readmodel.CarRM, error) {
	row := dbtx.QueryRow(ctx,
		`INSERT INTO cars (brand, model, year, rental_price, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+carColumns,
		c.Brand(), c.Model(), c.Year(), c.RentalPrice(), c.Status().String(),
	)

	rm, err := scanCarRM(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create car", err)
	}
	return rm, nil
}

func (r *CarRepository) Save(ctx context.Context, dbtx db.DBTX, c *car.Car) (*readmodel.CarRM, error) {
	row := dbtx.QueryRow(ctx,
		`UPDATE cars
		 SET brand = $2, model = $3, year = $4, rental_price = $5, status = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+carColumns,
		c.ID(), c.Brand(), c.Model(), c.Year(), c.RentalPrice(), c.Status().String(),
	)

	rm, err := scanCarRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to save car", err)
	}
	return rm, nil
}

// UpdateStatus persists just the status of a row the caller already locked.
func (r *CarRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status car.Status) (*readmodel.CarRM, error) {
	row := tx.QueryRow(ctx,
		`UPDATE cars SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+carColumns,
		id, status.String(),
	)

	rm, err := scanCarRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to update car status", err)
	}
	return rm, nil
}

func (r *CarRepository) Delete(ctx context.Context, dbtx db.DBTX, id int64) error {
	tag, err := dbtx.Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete car", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("car not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanCarRM(row pgx.Row) (*readmodel.CarRM, error) {
	var rm readmodel.CarRM
	err := row.Scan(&rm.ID, &rm.Brand, &rm.Model, &rm.Year, &rm.RentalPrice, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func collectCarRMs(rows pgx.Rows) ([]*readmodel.CarRM, error) {
	var result []*readmodel.CarRM
	for rows.Next() {
		rm, err := scanCarRM(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan car row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate car rows", err)
	}
	return result, nil
}

func toCarEntity(rm *readmodel.CarRM) (*car.Car, error) {
	status, err := car.ParseStatus(rm.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("car row has unrecognized status", err)
	}
	return car.ReconstructCar(rm.ID, rm.Brand, rm.Model, rm.Year, rm.RentalPrice, status, rm.CreatedAt, rm.UpdatedAt), nil
}
