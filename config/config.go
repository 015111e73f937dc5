package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from an optional
// YAML file and are then overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Events   EventsConfig   `yaml:"events"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // gin mode: debug, release, test
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"` // sqlite or postgres
	DSN           string        `yaml:"dsn"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Seed          bool          `yaml:"seed"`
}

type AuthConfig struct {
	// JWTSecret verifies HS256 bearer tokens issued by the auth service
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type EventsConfig struct {
	Driver   string   `yaml:"driver"` // log, kafka or rabbitmq
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	AMQPURL  string   `yaml:"amqp_url"`
	Exchange string   `yaml:"exchange"`
}

type RedisConfig struct {
	// Addr enables Idempotency-Key support when set
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EventsLog      = "log"
	EventsKafka    = "kafka"
	EventsRabbitMQ = "rabbitmq"
)

// Default returns the configuration used when nothing is provided
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        DriverSQLite,
			DSN:           "food_ordering.db",
			SlowThreshold: 200 * time.Millisecond,
		},
		Auth: AuthConfig{JWTSecret: "food_ordering_dev_secret"},
		Log:  LogConfig{Level: "info"},
		Events: EventsConfig{
			Driver:   EventsLog,
			Topic:    "order-events",
			Exchange: "order_events",
		},
		Redis: RedisConfig{IdempotencyTTL: 24 * time.Hour},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Mode = getEnv("GIN_MODE", c.Server.Mode)
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	if v, err := strconv.ParseBool(os.Getenv("DB_SEED")); err == nil {
		c.Database.Seed = v
	}
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Events.Driver = getEnv("EVENTS_DRIVER", c.Events.Driver)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = splitList(v)
	}
	c.Events.AMQPURL = getEnv("AMQP_URL", c.Events.AMQPURL)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
}

// Validate checks the combinations main relies on
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.Events.Driver {
	case EventsLog:
	case EventsKafka:
		if len(c.Events.Brokers) == 0 || c.Events.Topic == "" {
			errs = append(errs, errors.New("events.brokers and events.topic are required for kafka"))
		}
	case EventsRabbitMQ:
		if c.Events.AMQPURL == "" || c.Events.Exchange == "" {
			errs = append(errs, errors.New("events.amqp_url and events.exchange are required for rabbitmq"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.driver %q is not supported", c.Events.Driver))
	}
	if c.Redis.Addr != "" && c.Redis.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("redis.idempotency_ttl must be positive"))
	}

	return errors.Join(errs...)
}
