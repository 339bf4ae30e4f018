package shared

import (
	"context"

	"car-rental/internal/infra/db"
)

// UnitOfWork scopes repository calls to one transaction. Row locks taken
// inside Within are released when fn returns; fn must never call the car
// service while holding a car row lock (the booking row lock in Complete
// is the one sanctioned exception).
type UnitOfWork interface {
	// Within: full transaction for read-check-write sequences
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}
