//go:build unit

package car_test

import (
	"testing"

	"car-rental/internal/domain/car"
	"car-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CarBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewCarBuilder()
			tc.mutate(b)
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestCar(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCarBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, "Toyota", actual.Brand())
		assert.Equal(t, "Corolla", actual.Model())
		assert.Equal(t, car.StatusAvailable, actual.Status())
		assert.True(t, actual.IsAvailable())
	})

	t.Run("field validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty brand",
				mutate: func(b *builder.CarBuilder) { b.Brand = "" },
				errIs:  car.ErrEmptyBrand,
			},
			{
				name:   "whitespace only brand",
				mutate: func(b *builder.CarBuilder) { b.Brand = "   " },
				errIs:  car.ErrEmptyBrand,
			},
			{
				name:   "empty model",
				mutate: func(b *builder.CarBuilder) { b.Model = "" },
				errIs:  car.ErrEmptyModel,
			},
			{
				name:   "year below range",
				mutate: func(b *builder.CarBuilder) { b.Year = 1899 },
				errIs:  car.ErrInvalidYear,
			},
			{
				name:   "year above range",
				mutate: func(b *builder.CarBuilder) { b.Year = 2101 },
				errIs:  car.ErrInvalidYear,
			},
			{
				name:   "boundary years are valid",
				mutate: func(b *builder.CarBuilder) { b.Year = 1900 },
			},
			{
				name:   "negative rental price",
				mutate: func(b *builder.CarBuilder) { b.RentalPrice = -1 },
				errIs:  car.ErrNegativePrice,
			},
			{
				name:   "zero rental price is valid",
				mutate: func(b *builder.CarBuilder) { b.RentalPrice = 0 },
			},
			{
				name:   "unrecognized status",
				mutate: func(b *builder.CarBuilder) { b.Status = car.Status("Broken") },
				errIs:  car.ErrInvalidStatus,
			},
		})
	})

	t.Run("brand and model trimming", func(t *testing.T) {
		b := builder.NewCarBuilder()
		b.Brand = "  Honda  "
		b.Model = "  Civic  "
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, "Honda", actual.Brand())
		assert.Equal(t, "Civic", actual.Model())
	})
}

func TestCarTransitions(t *testing.T) {
	t.Run("reserve an available car", func(t *testing.T) {
		c := builder.NewCarBuilder().BuildEntity()

		err := c.Reserve()
		require.NoError(t, err)
		assert.Equal(t, car.StatusRented, c.Status())
		assert.False(t, c.IsAvailable())
	})

	t.Run("reserve a rented car fails", func(t *testing.T) {
		c := builder.NewCarBuilder().WithStatus(car.StatusRented).BuildEntity()

		err := c.Reserve()
		require.ErrorIs(t, err, car.ErrNotAvailable)
		assert.Equal(t, car.StatusRented, c.Status())
	})

	t.Run("release is unconditional and idempotent", func(t *testing.T) {
		c := builder.NewCarBuilder().WithStatus(car.StatusRented).BuildEntity()

		c.Release()
		assert.Equal(t, car.StatusAvailable, c.Status())

		// 既にAvailableでも状態は変わらない
		c.Release()
		assert.Equal(t, car.StatusAvailable, c.Status())
	})

	t.Run("reserve then release returns to the initial state", func(t *testing.T) {
		c := builder.NewCarBuilder().BuildEntity()

		require.NoError(t, c.Reserve())
		c.Release()
		assert.True(t, c.IsAvailable())
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		for _, raw := range []string{"Available", "Rented"} {
			s, err := car.ParseStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, s.String())
		}
	})

	t.Run("unknown values are rejected", func(t *testing.T) {
		for _, raw := range []string{"", "available", "RENTED", "Broken"} {
			_, err := car.ParseStatus(raw)
			assert.ErrorIs(t, err, car.ErrInvalidStatus, "raw=%q", raw)
		}
	})
}
