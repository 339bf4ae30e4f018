package replicator

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"car-rental/internal/infra/db"
	"car-rental/internal/infra/eventbus"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
)

// ErrReplicationDrop classifies records that can never be applied. The
// consumer logs the error and keeps its offset moving, so a poison record
// is skipped rather than replayed forever.
var ErrReplicationDrop = errs.New("unprocessable replication record")

type UserViewWriter interface {
	Upsert(ctx context.Context, dbtx db.DBTX, rm *readmodel.UserViewRM) error
	Delete(ctx context.Context, dbtx db.DBTX, id int64) error
}

// UserViewReplicator applies the user-events stream to the local users_view
// copy. Both branches are idempotent, so redelivered records converge to
// the same row state: upsert is last-write-wins per key, and deleting an
// absent key is a no-op.
type UserViewReplicator struct {
	uow   shared.UnitOfWork
	views UserViewWriter
}

func NewUserViewReplicator(uow shared.UnitOfWork, views UserViewWriter) *UserViewReplicator {
	return &UserViewReplicator{uow: uow, views: views}
}

func (r *UserViewReplicator) Handle(ctx context.Context, rec eventbus.Record) error {
	userID, err := strconv.ParseInt(rec.Key, 10, 64)
	if err != nil {
		slog.Warn("user view record dropped", "key", rec.Key, "reason", "unparsable key")
		return errs.Mark(errs.Newf("record key %q is not a user id", rec.Key), ErrReplicationDrop)
	}

	if len(rec.Value) == 0 {
		return r.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			return r.views.Delete(ctx, dbtx, userID)
		})
	}

	var rm readmodel.UserViewRM
	if err := json.Unmarshal(rec.Value, &rm); err != nil {
		slog.Warn("user view record dropped", "key", rec.Key, "reason", "unparsable payload", "error", err.Error())
		return errs.Mark(err, ErrReplicationDrop)
	}
	rm.ID = userID

	return r.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return r.views.Upsert(ctx, dbtx, &rm)
	})
}
