package repository

import (
	"context"
	"errors"

	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5"
)

// UserViewRepository maintains the users_view materialized view. Only the
// user-event replicator writes here; request paths read it to resolve a
// caller's identity without a synchronous cross-service call.
type UserViewRepository struct{}

func NewUserViewRepository() *UserViewRepository {
	return &UserViewRepository{}
}

func (r *UserViewRepository) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.UserViewRM, error) {
	row := dbtx.QueryRow(ctx,
		"SELECT id, name, email, phone_number FROM users_view WHERE id = $1", id)

	var rm readmodel.UserViewRM
	if err := row.Scan(&rm.ID, &rm.Name, &rm.Email, &rm.PhoneNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user view not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user view by ID", err)
	}
	return &rm, nil
}

// Upsert is last-write-wins per key: redelivered or replayed events settle
// on the same row state, so at-least-once consumption stays idempotent.
func (r *UserViewRepository) Upsert(ctx context.Context, dbtx db.DBTX, rm *readmodel.UserViewRM) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO users_view (id, name, email, phone_number)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, email = EXCLUDED.email, phone_number = EXCLUDED.phone_number`,
		rm.ID, rm.Name, rm.Email, rm.PhoneNumber,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert user view", err)
	}
	return nil
}

// Delete on an absent key is a silent no-op.
func (r *UserViewRepository) Delete(ctx context.Context, dbtx db.DBTX, id int64) error {
	if _, err := dbtx.Exec(ctx, "DELETE FROM users_view WHERE id = $1", id); err != nil {
		return infra.WrapRepoErr("failed to delete user view", err)
	}
	return nil
}
