package repository

import (
	"context"
	"errors"

	"car-rental/internal/domain/booking"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5"
)

const bookingColumns = "id, car_id, user_id, start_date, end_date, status, created_at, updated_at"

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.BookingRM, error) {
	row := dbtx.QueryRow(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id)

	rm, err := scanBookingRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return rm, nil
}

// FindByIDForUpdate guards against racing updates to the same booking. The
// booking lock is never held together with a car row lock.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id int64) (*booking.Booking, error) {
	row := tx.QueryRow(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1 FOR UPDATE", id)

	rm, err := scanBookingRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking row", err)
	}
	return toBookingEntity(rm)
}

func (r *BookingRepository) FindByUserID(ctx context.Context, dbtx db.DBTX, userID int64) ([]*readmodel.BookingRM, error) {
	rows, err := dbtx.Query(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by user ID", err)
	}
	defer rows.Close()

	return collectBookingRMs(rows)
}

func (r *BookingRepository) FindAll(ctx context.Context, dbtx db.DBTX) ([]*readmodel.BookingRM, error) {
	rows, err := dbtx.Query(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find all bookings", err)
	}
	defer rows.Close()

	return collectBookingRMs(rows)
}

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error) {
	row := dbtx.QueryRow(ctx,
		`INSERT INTO bookings (car_id, user_id, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+bookingColumns,
		b.CarID(), b.UserID(), b.StartDate(), b.EndDate(), b.Status().String(),
	)

	rm, err := scanBookingRM(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return rm, nil
}

func (r *BookingRepository) Save(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error) {
	row := dbtx.QueryRow(ctx,
		`UPDATE bookings
		 SET start_date = $2, end_date = $3, status = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		b.ID(), b.StartDate(), b.EndDate(), b.Status().String(),
	)

	rm, err := scanBookingRM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to save booking", err)
	}
	return rm, nil
}

func (r *BookingRepository) Delete(ctx context.Context, dbtx db.DBTX, id int64) error {
	tag, err := dbtx.Exec(ctx, "DELETE FROM bookings WHERE id = $1", id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBookingRM(row pgx.Row) (*readmodel.BookingRM, error) {
	var rm readmodel.BookingRM
	err := row.Scan(&rm.ID, &rm.CarID, &rm.UserID, &rm.StartDate, &rm.EndDate, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func collectBookingRMs(rows pgx.Rows) ([]*readmodel.BookingRM, error) {
	var result []*readmodel.BookingRM
	for rows.Next() {
		rm, err := scanBookingRM(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

func toBookingEntity(rm *readmodel.BookingRM) (*booking.Booking, error) {
	status, err := booking.ParseStatus(rm.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has unrecognized status", err)
	}
	return booking.ReconstructBooking(rm.ID, rm.CarID, rm.UserID, rm.StartDate, rm.EndDate, status, rm.CreatedAt, rm.UpdatedAt), nil
}
