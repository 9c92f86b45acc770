package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is read once at startup from the environment, optionally seeded
// from a .env file in the working directory.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"storefront"`
	DBSslMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET,required"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"storefront"`

	ReplayBufferSize    int           `env:"REPLAY_BUFFER_SIZE" envDefault:"500"`
	DispatchTimeout     time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"5s"`
	FailureThreshold    int           `env:"FAILURE_THRESHOLD" envDefault:"3"`
	SessionQueueSize    int           `env:"SESSION_QUEUE_SIZE" envDefault:"64"`
	HeartbeatInterval   time.Duration `env:"HEARTBEAT_INTERVAL" envDefault:"15s"`
	MaxMissedHeartbeats int           `env:"MAX_MISSED_HEARTBEATS" envDefault:"3"`
	PollSessionTTL      time.Duration `env:"POLL_SESSION_TTL" envDefault:"2m"`

	WSOriginPatterns []string `env:"WS_ORIGIN_PATTERNS" envSeparator:","`

	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"order-events"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads .env when present and parses the environment.
func LoadConfig(dotenvPath string) (Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var problems []error
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		problems = append(problems, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.ReplayBufferSize <= 0 {
		problems = append(problems, errors.New("REPLAY_BUFFER_SIZE must be positive"))
	}
	if c.FailureThreshold <= 0 {
		problems = append(problems, errors.New("FAILURE_THRESHOLD must be positive"))
	}
	if c.DispatchTimeout <= 0 {
		problems = append(problems, errors.New("DISPATCH_TIMEOUT must be positive"))
	}
	if c.HeartbeatInterval < time.Second {
		problems = append(problems, errors.New("HEARTBEAT_INTERVAL must be at least 1s"))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// SlogLevel parses LOG_LEVEL.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
