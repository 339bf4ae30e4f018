//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"

	"car-rental/internal/domain/car"
	"car-rental/internal/usecase/commands"
	"car-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarFixture(cars ...*builder.CarBuilder) (commands.CarCommands, *memCarRepo, *carEventRecorder, *cacheRecorder) {
	repo := newMemCarRepo()
	for _, b := range cars {
		repo.cars[b.ID] = b.BuildRM()
	}
	events := &carEventRecorder{}
	cache := &cacheRecorder{}
	uc := commands.NewCarCommands(&fakeUoW{}, repo, events, cache)
	return uc, repo, events, cache
}

func TestReserve(t *testing.T) {
	t.Run("available car becomes Rented", func(t *testing.T) {
		uc, repo, events, cache := newCarFixture(builder.NewCarBuilder())

		rm, err := uc.Reserve(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, car.StatusRented.String(), rm.Status)
		assert.Equal(t, car.StatusRented.String(), repo.cars[1].Status)

		require.Len(t, events.saved, 1)
		require.Len(t, cache.refreshed, 1)
		assert.Equal(t, car.StatusRented.String(), cache.refreshed[0].Status)
	})

	t.Run("rented car is rejected and unchanged", func(t *testing.T) {
		uc, repo, events, _ := newCarFixture(builder.NewCarBuilder().WithStatus(car.StatusRented))

		_, err := uc.Reserve(context.Background(), 1)
		require.ErrorIs(t, err, commands.ErrCarNotAvailable)
		assert.Equal(t, car.StatusRented.String(), repo.cars[1].Status)
		assert.Empty(t, events.saved)
	})

	t.Run("unknown car", func(t *testing.T) {
		uc, _, _, _ := newCarFixture()

		_, err := uc.Reserve(context.Background(), 42)
		require.ErrorIs(t, err, commands.ErrCarNotFound)
	})

	t.Run("concurrent reserve has exactly one winner", func(t *testing.T) {
		uc, repo, events, _ := newCarFixture(builder.NewCarBuilder())

		const contenders = 16
		var wg sync.WaitGroup
		errCh := make(chan error, contenders)

		for range contenders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Reserve(context.Background(), 1)
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		var winners, losers int
		for err := range errCh {
			if err == nil {
				winners++
			} else {
				require.ErrorIs(t, err, commands.ErrCarNotAvailable)
				losers++
			}
		}

		assert.Equal(t, 1, winners)
		assert.Equal(t, contenders-1, losers)
		assert.Equal(t, car.StatusRented.String(), repo.cars[1].Status)
		assert.Len(t, events.saved, 1)
	})
}

func TestRelease(t *testing.T) {
	t.Run("rented car returns to Available", func(t *testing.T) {
		uc, repo, _, _ := newCarFixture(builder.NewCarBuilder().WithStatus(car.StatusRented))

		rm, err := uc.Release(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, car.StatusAvailable.String(), rm.Status)
		assert.Equal(t, car.StatusAvailable.String(), repo.cars[1].Status)
	})

	t.Run("releasing an available car is idempotent", func(t *testing.T) {
		uc, repo, events, _ := newCarFixture(builder.NewCarBuilder())

		for range 3 {
			rm, err := uc.Release(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, car.StatusAvailable.String(), rm.Status)
		}

		assert.Equal(t, car.StatusAvailable.String(), repo.cars[1].Status)
		// 各呼び出しはイベントを発行する
		assert.Len(t, events.saved, 3)
	})

	t.Run("unknown car", func(t *testing.T) {
		uc, _, _, _ := newCarFixture()

		_, err := uc.Release(context.Background(), 42)
		require.ErrorIs(t, err, commands.ErrCarNotFound)
	})
}

func TestCreateCar(t *testing.T) {
	t.Run("success publishes event", func(t *testing.T) {
		uc, _, events, _ := newCarFixture()

		rm, err := uc.Create(context.Background(), commands.CreateCarParams{
			Brand:       "Honda",
			Model:       "Civic",
			Year:        2023,
			RentalPrice: 60,
			Status:      "Available",
		})
		require.NoError(t, err)
		assert.Equal(t, "Honda", rm.Brand)
		assert.Len(t, events.saved, 1)
	})

	t.Run("unknown status", func(t *testing.T) {
		uc, _, _, _ := newCarFixture()

		_, err := uc.Create(context.Background(), commands.CreateCarParams{
			Brand:       "Honda",
			Model:       "Civic",
			Year:        2023,
			RentalPrice: 60,
			Status:      "Broken",
		})
		require.ErrorIs(t, err, commands.ErrInvalidCarStatus)
	})

	t.Run("domain validation failure", func(t *testing.T) {
		uc, _, events, _ := newCarFixture()

		_, err := uc.Create(context.Background(), commands.CreateCarParams{
			Brand:       "",
			Model:       "Civic",
			Year:        2023,
			RentalPrice: 60,
			Status:      "Available",
		})
		require.ErrorIs(t, err, commands.ErrCarValidation)
		assert.Empty(t, events.saved)
	})
}

func TestUpdateCar(t *testing.T) {
	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		uc, repo, _, cache := newCarFixture(builder.NewCarBuilder())

		price := 70.0
		rm, err := uc.Update(context.Background(), 1, commands.UpdateCarParams{RentalPrice: &price})
		require.NoError(t, err)

		assert.Equal(t, 70.0, rm.RentalPrice)
		assert.Equal(t, "Toyota", rm.Brand)
		assert.Equal(t, 70.0, repo.cars[1].RentalPrice)
		assert.Len(t, cache.refreshed, 1)
	})

	t.Run("status change through update is validated", func(t *testing.T) {
		uc, _, _, _ := newCarFixture(builder.NewCarBuilder())

		bad := "Broken"
		_, err := uc.Update(context.Background(), 1, commands.UpdateCarParams{Status: &bad})
		require.ErrorIs(t, err, commands.ErrInvalidCarStatus)
	})

	t.Run("unknown car", func(t *testing.T) {
		uc, _, _, _ := newCarFixture()

		brand := "Honda"
		_, err := uc.Update(context.Background(), 42, commands.UpdateCarParams{Brand: &brand})
		require.ErrorIs(t, err, commands.ErrCarNotFound)
	})
}

func TestDeleteCar(t *testing.T) {
	t.Run("success emits tombstone and invalidates cache", func(t *testing.T) {
		uc, repo, events, cache := newCarFixture(builder.NewCarBuilder())

		err := uc.Delete(context.Background(), 1)
		require.NoError(t, err)

		assert.NotContains(t, repo.cars, int64(1))
		assert.Equal(t, []int64{1}, events.deleted)
		assert.Equal(t, []int64{1}, cache.invalidated)
	})

	t.Run("unknown car leaves cache untouched", func(t *testing.T) {
		uc, _, _, cache := newCarFixture()

		err := uc.Delete(context.Background(), 42)
		require.ErrorIs(t, err, commands.ErrCarNotFound)
		assert.Empty(t, cache.invalidated)
	})
}
