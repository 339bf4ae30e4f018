//go:build unit

package queries_test

import (
	"context"
	"errors"

	"car-rental/internal/domain/car"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"
)

type fakeUoW struct{}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (f *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows in result set"), infra.KindNotFound)
}

// memCarStore backs both the cached single lookup and the list reads.
type memCarStore struct {
	cars map[int64]*readmodel.CarRM

	findErr error
}

func newMemCarStore(cars ...*readmodel.CarRM) *memCarStore {
	m := &memCarStore{cars: make(map[int64]*readmodel.CarRM)}
	for _, c := range cars {
		m.cars[c.ID] = c
	}
	return m
}

func (m *memCarStore) FindByID(_ context.Context, _ db.DBTX, id int64) (*readmodel.CarRM, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	rm, ok := m.cars[id]
	if !ok {
		return nil, notFoundErr("car not found")
	}
	return rm, nil
}

func (m *memCarStore) FindAll(_ context.Context, _ db.DBTX) ([]*readmodel.CarRM, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]*readmodel.CarRM, 0, len(m.cars))
	for _, c := range m.cars {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCarStore) FindByIDs(_ context.Context, _ db.DBTX, ids []int64) ([]*readmodel.CarRM, error) {
	var out []*readmodel.CarRM
	for _, id := range ids {
		if c, ok := m.cars[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCarStore) FindByStatus(_ context.Context, _ db.DBTX, status car.Status) ([]*readmodel.CarRM, error) {
	var out []*readmodel.CarRM
	for _, c := range m.cars {
		if c.Status == status.String() {
			out = append(out, c)
		}
	}
	return out, nil
}

type memBookingFinder struct {
	bookings map[int64]*readmodel.BookingRM
}

func newMemBookingFinder(bookings ...*readmodel.BookingRM) *memBookingFinder {
	m := &memBookingFinder{bookings: make(map[int64]*readmodel.BookingRM)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *memBookingFinder) FindByID(_ context.Context, _ db.DBTX, id int64) (*readmodel.BookingRM, error) {
	rm, ok := m.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	return rm, nil
}

func (m *memBookingFinder) FindByUserID(_ context.Context, _ db.DBTX, userID int64) ([]*readmodel.BookingRM, error) {
	var out []*readmodel.BookingRM
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookingFinder) FindAll(_ context.Context, _ db.DBTX) ([]*readmodel.BookingRM, error) {
	out := make([]*readmodel.BookingRM, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, nil
}

type fakeSnapshotFetcher struct {
	cars map[int64]*readmodel.CarRM
	err  error

	calls [][]int64
}

func newFakeSnapshotFetcher(cars ...*readmodel.CarRM) *fakeSnapshotFetcher {
	f := &fakeSnapshotFetcher{cars: make(map[int64]*readmodel.CarRM)}
	for _, c := range cars {
		f.cars[c.ID] = c
	}
	return f
}

func (f *fakeSnapshotFetcher) GetByIDs(_ context.Context, ids []int64) ([]*readmodel.CarRM, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []*readmodel.CarRM
	for _, id := range ids {
		if c, ok := f.cars[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
