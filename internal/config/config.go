package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Kafka        KafkaConfig
	Redis        RedisConfig
	Telemetry    TelemetryConfig
	S3           S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `envconfig:"DB_HOST" default:"localhost"`
	Port            int    `envconfig:"DB_PORT" default:"5432"`
	User            string `envconfig:"DB_USER" default:"postgres"`
	Password        string `envconfig:"DB_PASSWORD"`
	Database        string `envconfig:"DB_NAME" default:"fulfilment"`
	MaxConnections  int    `envconfig:"DB_MAX_CONNECTIONS" default:"25"`
	MinConnections  int    `envconfig:"DB_MIN_CONNECTIONS" default:"5"`
	MaxConnLifetime int    `envconfig:"DB_MAX_CONN_LIFETIME" default:"300"` // seconds
	AutoMigrate     bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
// An empty APIKey disables authentication.
type AuthConfig struct {
	APIKey string `envconfig:"API_KEY"`
}

// Notification transports
const (
	TransportLog   = "log"
	TransportKafka = "kafka"
	TransportRedis = "redis"
)

// NotificationConfig selects where customer notifications are published.
type NotificationConfig struct {
	Transport string `envconfig:"NOTIFY_TRANSPORT" default:"log"` // "log", "kafka" or "redis"
	Producer  string `envconfig:"NOTIFY_PRODUCER" default:"order-fulfilment"`
}

// KafkaConfig holds Kafka producer configuration.
type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic        string        `envconfig:"KAFKA_TOPIC" default:"customer.notifications"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// RedisConfig holds Redis stream configuration.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	Stream    string `envconfig:"REDIS_STREAM" default:"customer-notifications"`
	MaxLength int64  `envconfig:"REDIS_STREAM_MAX_LEN" default:"100000"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint    string  `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`
	Insecure    bool    `envconfig:"OTEL_INSECURE" default:"true"`
	ServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"order-fulfilment"`
	SampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1.0"`
}

// S3Config holds AWS S3 configuration for fixture files.
type S3Config struct {
	Enabled bool   `envconfig:"S3_ENABLED" default:"false"`
	Bucket  string `envconfig:"S3_BUCKET"`
	Region  string `envconfig:"S3_REGION" default:"us-east-1"`
	Prefix  string `envconfig:"S3_PREFIX" default:"fixtures/"` // Path prefix within bucket
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []interface{}{
		&cfg.Server,
		&cfg.Database,
		&cfg.Logger,
		&cfg.Auth,
		&cfg.Notification,
		&cfg.Kafka,
		&cfg.Redis,
		&cfg.Telemetry,
		&cfg.S3,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Notification.Transport {
	case TransportLog:
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when notification transport is kafka")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka topic is required when notification transport is kafka")
		}
	case TransportRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when notification transport is redis")
		}
		if c.Redis.Stream == "" {
			return fmt.Errorf("redis stream is required when notification transport is redis")
		}
	default:
		return fmt.Errorf("invalid notification transport: %s (must be log, kafka, or redis)", c.Notification.Transport)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return fmt.Errorf("invalid telemetry sample ratio: %v (must be between 0 and 1)", c.Telemetry.SampleRatio)
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
