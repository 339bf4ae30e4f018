//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"

	"car-rental/internal/domain/booking"
	"car-rental/internal/usecase/queries"
	"car-rental/internal/usecase/shared"
	"car-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(id int64) shared.Actor {
	return shared.Actor{UserID: id, Role: shared.RoleUser}
}

var admin = shared.Actor{UserID: 1, Role: shared.RoleAdmin}

func TestGetBookingByID(t *testing.T) {
	owned := builder.NewBookingBuilder().BuildRM()
	uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(owned), newFakeSnapshotFetcher())

	t.Run("owner reads own booking", func(t *testing.T) {
		rm, err := uc.GetByID(context.Background(), asUser(100), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), rm.UserID)
	})

	t.Run("other user is denied", func(t *testing.T) {
		_, err := uc.GetByID(context.Background(), asUser(999), 1)
		require.ErrorIs(t, err, queries.ErrAccessDenied)
	})

	t.Run("admin reads any booking", func(t *testing.T) {
		_, err := uc.GetByID(context.Background(), admin, 1)
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.GetByID(context.Background(), asUser(100), 42)
		require.ErrorIs(t, err, queries.ErrBookingNotFound)
	})
}

func TestListBookingsForUser(t *testing.T) {
	mine := builder.NewBookingBuilder().BuildRM()
	other := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ID = 2
		b.CarID = 2
		b.UserID = 101
	}).BuildRM()

	t.Run("returns only the caller's bookings with car snapshots", func(t *testing.T) {
		carRM := builder.NewCarBuilder().BuildRM()
		fetcher := newFakeSnapshotFetcher(carRM)
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(mine, other), fetcher)

		rms, err := uc.ListForUser(context.Background(), asUser(100))
		require.NoError(t, err)
		require.Len(t, rms, 1)
		assert.Equal(t, int64(100), rms[0].UserID)
		require.NotNil(t, rms[0].Car)
		assert.Equal(t, carRM.ID, rms[0].Car.ID)
	})

	t.Run("serves the list without snapshots when the car service is down", func(t *testing.T) {
		fetcher := newFakeSnapshotFetcher()
		fetcher.err = errors.New("connection refused")
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(mine), fetcher)

		rms, err := uc.ListForUser(context.Background(), asUser(100))
		require.NoError(t, err)
		require.Len(t, rms, 1)
		assert.Nil(t, rms[0].Car)
	})

	t.Run("deduplicates car ids in the batch call", func(t *testing.T) {
		second := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.ID = 3
		}).WithStatus(booking.StatusCompleted).BuildRM()
		fetcher := newFakeSnapshotFetcher(builder.NewCarBuilder().BuildRM())
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(mine, second), fetcher)

		rms, err := uc.ListForUser(context.Background(), asUser(100))
		require.NoError(t, err)
		assert.Len(t, rms, 2)
		require.Len(t, fetcher.calls, 1)
		assert.Equal(t, []int64{1}, fetcher.calls[0])
	})

	t.Run("empty list skips the car service entirely", func(t *testing.T) {
		fetcher := newFakeSnapshotFetcher()
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(), fetcher)

		rms, err := uc.ListForUser(context.Background(), asUser(100))
		require.NoError(t, err)
		assert.Empty(t, rms)
		assert.Empty(t, fetcher.calls)
	})
}

func TestListAllBookings(t *testing.T) {
	mine := builder.NewBookingBuilder().BuildRM()
	other := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ID = 2
		b.UserID = 101
	}).BuildRM()

	t.Run("admin sees every booking", func(t *testing.T) {
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(mine, other), newFakeSnapshotFetcher())

		rms, err := uc.ListAll(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, rms, 2)
	})

	t.Run("regular user is denied", func(t *testing.T) {
		uc := queries.NewBookingQueries(&fakeUoW{}, newMemBookingFinder(mine), newFakeSnapshotFetcher())

		_, err := uc.ListAll(context.Background(), asUser(100))
		require.ErrorIs(t, err, queries.ErrAccessDenied)
	})
}
