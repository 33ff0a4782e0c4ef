package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/core/domain/services"
	"freight/internal/jobs"
)

// Change feed backends selectable with CHANGE_FEED.
const (
	ChangeFeedPostgres = "postgres"
	ChangeFeedRabbitMQ = "rabbitmq"
	ChangeFeedNone     = "none"
)

type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	LogLevel         slog.Level
	JWTSecret        string
	CapacityMinFloor float64
	CapacityBand     float64
	ChangeFeed       string
	RabbitMQURL      string
	RefreshSchedule  string
	// SessionIdleTimeout is how long an unused driver session keeps its
	// rejections before it is evicted.
	SessionIdleTimeout time.Duration
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
// Missing required variables are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:        valueOr(getenv("HTTP_PORT"), "8080"),
		DBHost:          getenv("DB_HOST"),
		DBPort:          valueOr(getenv("DB_PORT"), "5432"),
		DBUser:          getenv("DB_USER"),
		DBPassword:      getenv("DB_PASSWORD"),
		DBName:          getenv("DB_NAME"),
		DBSslMode:       valueOr(getenv("DB_SSLMODE"), "disable"),
		JWTSecret:       getenv("JWT_SECRET"),
		ChangeFeed:      strings.ToLower(valueOr(getenv("CHANGE_FEED"), ChangeFeedPostgres)),
		RabbitMQURL:     getenv("RABBITMQ_URL"),
		RefreshSchedule: valueOr(getenv("REFRESH_SCHEDULE"), jobs.DefaultRefreshSchedule),
	}

	var missing []string
	for name, value := range map[string]string{
		"DB_HOST":    cfg.DBHost,
		"DB_USER":    cfg.DBUser,
		"DB_NAME":    cfg.DBName,
		"JWT_SECRET": cfg.JWTSecret,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if cfg.ChangeFeed == ChangeFeedRabbitMQ && cfg.RabbitMQURL == "" {
		missing = append(missing, "RABBITMQ_URL")
	}

	var errList []error
	if len(missing) > 0 {
		slices.Sort(missing)
		errList = append(errList, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}

	switch cfg.ChangeFeed {
	case ChangeFeedPostgres, ChangeFeedRabbitMQ, ChangeFeedNone:
	default:
		errList = append(errList, fmt.Errorf("CHANGE_FEED must be one of postgres, rabbitmq, none: got %q", cfg.ChangeFeed))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(valueOr(getenv("LOG_LEVEL"), "info"))); err != nil {
		errList = append(errList, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	var err error
	if cfg.CapacityMinFloor, err = parseTons(getenv("CAPACITY_MIN_FLOOR_TONS"), float64(services.DefaultMinFloor)); err != nil {
		errList = append(errList, fmt.Errorf("CAPACITY_MIN_FLOOR_TONS: %w", err))
	}
	if cfg.CapacityBand, err = parseTons(getenv("CAPACITY_BAND_TONS"), float64(services.DefaultBand)); err != nil {
		errList = append(errList, fmt.Errorf("CAPACITY_BAND_TONS: %w", err))
	}

	if cfg.SessionIdleTimeout, err = parseDuration(getenv("SESSION_IDLE_TIMEOUT"), jobs.DefaultSessionIdleTimeout); err != nil {
		errList = append(errList, fmt.Errorf("SESSION_IDLE_TIMEOUT: %w", err))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Connection() postgres.ConnectionConfig {
	return postgres.ConnectionConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func (c Config) CapacityPolicy() (services.CapacityPolicy, error) {
	return services.NewCapacityPolicy(c.CapacityMinFloor, c.CapacityBand)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseTons(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive: got %s", raw)
	}
	return d, nil
}
