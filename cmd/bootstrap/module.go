package bootstrap

import (
	"car-rental/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CarModule assembles the car service: fleet CRUD, the reserve/release
// lifecycle, the redis read-through cache and the car-events publisher.
var CarModule = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.CarPersistenceModule,
	components.CarEventsModule,
	components.CarCacheModule,
	components.CarUseCaseModule,
	components.CarHandlerModule,
)

// BookingModule assembles the booking service: the reservation saga, the
// booking-events publisher with its compensation dead-letter topic, the
// remote car service client and the users_view replication consumer.
var BookingModule = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.BookingPersistenceModule,
	components.BookingEventsModule,
	components.CarClientModule,
	components.BookingUseCaseModule,
	components.BookingHandlerModule,
	components.UserViewConsumerModule,
)
