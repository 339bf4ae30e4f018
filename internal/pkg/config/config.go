package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   broker addresses, etc.), security settings
// - default: Values common across all environments (timeouts, topic names,
//   consumer group ids), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	CarService CarServiceConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type KafkaConfig struct {
	Brokers          []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	CarTopic         string        `envconfig:"KAFKA_CAR_TOPIC" default:"car-events"`
	BookingTopic     string        `envconfig:"KAFKA_BOOKING_TOPIC" default:"booking-events"`
	UserTopic        string        `envconfig:"KAFKA_USER_TOPIC" default:"user-events"`
	CompensationDLQ  string        `envconfig:"KAFKA_COMPENSATION_DLQ" default:"booking-compensation-dlq"`
	ConsumerGroup    string        `envconfig:"KAFKA_CONSUMER_GROUP" default:"car-booking-group"`
	WriteTimeout     time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
	CommitInterval   time.Duration `envconfig:"KAFKA_COMMIT_INTERVAL" default:"1s"`
	ConsumerMinBytes int           `envconfig:"KAFKA_CONSUMER_MIN_BYTES" default:"1"`
	ConsumerMaxBytes int           `envconfig:"KAFKA_CONSUMER_MAX_BYTES" default:"10485760"` // 10MiB
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CarTTL   time.Duration `envconfig:"REDIS_CAR_TTL" default:"10m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// CarServiceConfig is the booking service's view of the car service.
// The timeout bounds every saga step that crosses the service boundary;
// a timed-out call is treated as a failed step.
type CarServiceConfig struct {
	BaseURL string        `envconfig:"CAR_SERVICE_URL" default:"http://car-service:8080"`
	Timeout time.Duration `envconfig:"CAR_SERVICE_TIMEOUT" default:"5s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Kafka: KafkaConfig{
			Brokers:         []string{"localhost:19092"},
			CarTopic:        "car-events",
			BookingTopic:    "booking-events",
			UserTopic:       "user-events",
			CompensationDLQ: "booking-compensation-dlq",
			ConsumerGroup:   "test-group",
			WriteTimeout:    5 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:16379",
			CarTTL: time.Minute,
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		CarService: CarServiceConfig{
			BaseURL: "http://localhost:18080",
			Timeout: 2 * time.Second,
		},
	}
}
