//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"

	"car-rental/internal/domain/booking"
	"car-rental/internal/domain/car"
	"car-rental/internal/infra"
	"car-rental/internal/infra/db"
	"car-rental/internal/usecase/readmodel"
)

// fakeUoW serializes every transaction with one mutex, which is how the
// reserve path behaves when all contenders lock the same row.
type fakeUoW struct {
	mu sync.Mutex
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows in result set"), infra.KindNotFound)
}

// memCarRepo keeps cars in memory. Calls that mutate state are expected to
// run inside fakeUoW's critical section.
type memCarRepo struct {
	cars map[int64]*readmodel.CarRM
}

func newMemCarRepo(cars ...*readmodel.CarRM) *memCarRepo {
	m := &memCarRepo{cars: make(map[int64]*readmodel.CarRM)}
	for _, c := range cars {
		m.cars[c.ID] = c
	}
	return m
}

func (m *memCarRepo) FindByID(_ context.Context, _ db.DBTX, id int64) (*readmodel.CarRM, error) {
	rm, ok := m.cars[id]
	if !ok {
		return nil, notFoundErr("car not found")
	}
	cp := *rm
	return &cp, nil
}

func (m *memCarRepo) FindByIDForUpdate(_ context.Context, _ db.DBTX, id int64) (*car.Car, error) {
	rm, ok := m.cars[id]
	if !ok {
		return nil, notFoundErr("car not found")
	}
	status, err := car.ParseStatus(rm.Status)
	if err != nil {
		return nil, err
	}
	return car.ReconstructCar(rm.ID, rm.Brand, rm.Model, rm.Year, rm.RentalPrice, status, rm.CreatedAt, rm.UpdatedAt), nil
}

func (m *memCarRepo) Create(_ context.Context, _ db.DBTX, c *car.Car) (*readmodel.CarRM, error) {
	id := int64(len(m.cars) + 1)
	rm := &readmodel.CarRM{
		ID:          id,
		Brand:       c.Brand(),
		Model:       c.Model(),
		Year:        c.Year(),
		RentalPrice: c.RentalPrice(),
		Status:      c.Status().String(),
	}
	m.cars[id] = rm
	cp := *rm
	return &cp, nil
}

func (m *memCarRepo) Save(_ context.Context, _ db.DBTX, c *car.Car) (*readmodel.CarRM, error) {
	rm, ok := m.cars[c.ID()]
	if !ok {
		return nil, notFoundErr("car not found")
	}
	rm.Brand = c.Brand()
	rm.Model = c.Model()
	rm.Year = c.Year()
	rm.RentalPrice = c.RentalPrice()
	rm.Status = c.Status().String()
	cp := *rm
	return &cp, nil
}

func (m *memCarRepo) UpdateStatus(_ context.Context, _ db.DBTX, id int64, status car.Status) (*readmodel.CarRM, error) {
	rm, ok := m.cars[id]
	if !ok {
		return nil, notFoundErr("car not found")
	}
	rm.Status = status.String()
	cp := *rm
	return &cp, nil
}

func (m *memCarRepo) Delete(_ context.Context, _ db.DBTX, id int64) error {
	if _, ok := m.cars[id]; !ok {
		return notFoundErr("car not found")
	}
	delete(m.cars, id)
	return nil
}

type carEventRecorder struct {
	mu      sync.Mutex
	saved   []*readmodel.CarRM
	deleted []int64
}

func (r *carEventRecorder) CarSaved(_ context.Context, rm *readmodel.CarRM) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, rm)
}

func (r *carEventRecorder) CarDeleted(_ context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
}

type cacheRecorder struct {
	mu          sync.Mutex
	refreshed   []*readmodel.CarRM
	invalidated []int64
}

func (r *cacheRecorder) Refresh(_ context.Context, rm *readmodel.CarRM) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed = append(r.refreshed, rm)
}

func (r *cacheRecorder) Invalidate(_ context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, id)
}

type memBookingRepo struct {
	bookings map[int64]*readmodel.BookingRM
	nextID   int64

	createErr error
}

func newMemBookingRepo(bookings ...*readmodel.BookingRM) *memBookingRepo {
	m := &memBookingRepo{bookings: make(map[int64]*readmodel.BookingRM), nextID: 1}
	for _, b := range bookings {
		m.bookings[b.ID] = b
		if b.ID >= m.nextID {
			m.nextID = b.ID + 1
		}
	}
	return m
}

func (m *memBookingRepo) FindByIDForUpdate(_ context.Context, _ db.DBTX, id int64) (*booking.Booking, error) {
	rm, ok := m.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	status, err := booking.ParseStatus(rm.Status)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(rm.ID, rm.CarID, rm.UserID, rm.StartDate, rm.EndDate, status, rm.CreatedAt, rm.UpdatedAt), nil
}

func (m *memBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	rm := &readmodel.BookingRM{
		ID:        m.nextID,
		CarID:     b.CarID(),
		UserID:    b.UserID(),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
		Status:    b.Status().String(),
	}
	m.bookings[m.nextID] = rm
	m.nextID++
	cp := *rm
	return &cp, nil
}

func (m *memBookingRepo) Save(_ context.Context, _ db.DBTX, b *booking.Booking) (*readmodel.BookingRM, error) {
	rm, ok := m.bookings[b.ID()]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	rm.StartDate = b.StartDate()
	rm.EndDate = b.EndDate()
	rm.Status = b.Status().String()
	cp := *rm
	return &cp, nil
}

func (m *memBookingRepo) Delete(_ context.Context, _ db.DBTX, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return notFoundErr("booking not found")
	}
	delete(m.bookings, id)
	return nil
}

type memUserViews struct {
	users map[int64]*readmodel.UserViewRM
}

func newMemUserViews(ids ...int64) *memUserViews {
	m := &memUserViews{users: make(map[int64]*readmodel.UserViewRM)}
	for _, id := range ids {
		m.users[id] = &readmodel.UserViewRM{ID: id, Name: "User", Email: "user@example.com"}
	}
	return m
}

func (m *memUserViews) FindByID(_ context.Context, _ db.DBTX, id int64) (*readmodel.UserViewRM, error) {
	rm, ok := m.users[id]
	if !ok {
		return nil, notFoundErr("user view not found")
	}
	return rm, nil
}

// fakeCarService scripts the remote car service for saga tests.
type fakeCarService struct {
	mu sync.Mutex

	car        *readmodel.CarRM
	reserveErr error
	releaseErr error

	reserveCalls []int64
	releaseCalls []int64
}

func (f *fakeCarService) GetByID(_ context.Context, id int64) (*readmodel.CarRM, error) {
	if f.car == nil || f.car.ID != id {
		return nil, notFoundErr("car not found")
	}
	return f.car, nil
}

func (f *fakeCarService) GetByIDs(_ context.Context, ids []int64) ([]*readmodel.CarRM, error) {
	var out []*readmodel.CarRM
	for _, id := range ids {
		if f.car != nil && f.car.ID == id {
			out = append(out, f.car)
		}
	}
	return out, nil
}

func (f *fakeCarService) Reserve(_ context.Context, id int64) (*readmodel.CarRM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls = append(f.reserveCalls, id)
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return f.car, nil
}

func (f *fakeCarService) Release(_ context.Context, id int64) (*readmodel.CarRM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls = append(f.releaseCalls, id)
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	return f.car, nil
}

type bookingEventRecorder struct {
	mu            sync.Mutex
	saved         []*readmodel.BookingRM
	deleted       []int64
	compensations []int64
}

func (r *bookingEventRecorder) BookingSaved(_ context.Context, rm *readmodel.BookingRM) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, rm)
}

func (r *bookingEventRecorder) BookingDeleted(_ context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
}

func (r *bookingEventRecorder) CompensationFailed(_ context.Context, carID int64, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compensations = append(r.compensations, carID)
}
