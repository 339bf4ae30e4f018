package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"
)

type CarSource interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.CarRM, error)
}

// CarStore is a cache-aside decorator over the car repository, keyed by car
// id. Writers call Refresh/Invalidate explicitly; a cache fault degrades to
// the underlying store, never to an error.
type CarStore struct {
	source CarSource
	cache  Cache
	ttl    time.Duration
}

func NewCarStore(source CarSource, cache Cache, ttl time.Duration) *CarStore {
	return &CarStore{source: source, cache: cache, ttl: ttl}
}

func (s *CarStore) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*readmodel.CarRM, error) {
	key := carKey(id)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var rm readmodel.CarRM
		if unmarshalErr := json.Unmarshal(data, &rm); unmarshalErr == nil {
			return &rm, nil
		}
		// Unreadable entry: drop it and fall through to the source.
		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, ErrMiss) {
		slog.Warn("car cache read failed", "car_id", id, "error", err.Error())
	}

	rm, err := s.source.FindByID(ctx, dbtx, id)
	if err != nil {
		return nil, err
	}

	s.set(ctx, key, rm)
	return rm, nil
}

// Refresh overwrites the cached snapshot after a successful write.
func (s *CarStore) Refresh(ctx context.Context, rm *readmodel.CarRM) {
	s.set(ctx, carKey(rm.ID), rm)
}

// Invalidate removes the entry after a delete.
func (s *CarStore) Invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, carKey(id)); err != nil {
		slog.Warn("car cache invalidation failed", "car_id", id, "error", err.Error())
	}
}

func (s *CarStore) set(ctx context.Context, key string, rm *readmodel.CarRM) {
	data, err := json.Marshal(rm)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Warn("car cache write failed", "key", key, "error", err.Error())
	}
}

func carKey(id int64) string {
	return "cars:" + strconv.FormatInt(id, 10)
}
