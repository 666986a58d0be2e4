package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. FSM_HTTP_PORT.
const EnvPrefix = "FSM"

const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"fieldservice"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost            string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort            string        `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword        string        `envconfig:"DB_PASSWORD"`
	DBName            string        `envconfig:"DB_NAME" default:"fieldservice"`
	DBSslMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBAutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	ServiceTimezone   string        `envconfig:"SERVICE_TIMEZONE" default:"America/Bogota"`
	TransitionTimeout time.Duration `envconfig:"TRANSITION_TIMEOUT" default:"10s"`

	LockBackend       string        `envconfig:"LOCK_BACKEND" default:"memory"`
	RedisURL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	LockTTL           time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	LockRetryInterval time.Duration `envconfig:"LOCK_RETRY_INTERVAL" default:"50ms"`

	NotificationChannel string `envconfig:"NOTIFICATION_CHANNEL" default:"sistema"`
	SpoolCapacity       int    `envconfig:"SPOOL_CAPACITY" default:"1000"`
	RedeliverySchedule  string `envconfig:"REDELIVERY_SCHEDULE" default:"@every 30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoadConfig reads the FSM_ environment into a Config and checks it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.TransitionTimeout <= 0 {
		problems = append(problems, errors.New("FSM_TRANSITION_TIMEOUT must be positive"))
	}
	switch c.LockBackend {
	case LockBackendMemory:
	case LockBackendRedis:
		if c.RedisURL == "" {
			problems = append(problems, errors.New("FSM_REDIS_URL is required with the redis lock backend"))
		}
		if c.LockTTL <= c.TransitionTimeout {
			problems = append(problems, errors.New("FSM_LOCK_TTL must exceed FSM_TRANSITION_TIMEOUT"))
		}
	default:
		problems = append(problems, fmt.Errorf("FSM_LOCK_BACKEND %q is neither memory nor redis", c.LockBackend))
	}
	if c.SpoolCapacity <= 0 {
		problems = append(problems, errors.New("FSM_SPOOL_CAPACITY must be positive"))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
