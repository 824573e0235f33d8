package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/credential-service/internal/common/constants"
	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

type AuthConfig struct {
	HTTPPort       string
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	BcryptCost     int
	RequestTimeout time.Duration
	AutoMigrate    bool
	StaticDir      string

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

func LoadAuthConfig() (AuthConfig, error) {
	driver := strings.ToLower(getEnv("STORE_DRIVER", constants.DefaultStoreDriver))
	switch driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory:
	default:
		return AuthConfig{}, fmt.Errorf("%w: STORE_DRIVER=%q", commonerrors.ErrInvalidConfig, driver)
	}

	var databaseURL string
	if driver == StoreDriverPostgres {
		var err error
		databaseURL, err = mustEnv("DATABASE_URL")
		if err != nil {
			return AuthConfig{}, err
		}
	}

	bcryptCost, err := getBcryptCost()
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		HTTPPort:       getEnv("AUTH_HTTP_PORT", getEnv("PORT", constants.DefaultAuthHTTPPort)),
		StoreDriver:    driver,
		DatabaseURL:    databaseURL,
		SQLitePath:     getEnv("SQLITE_PATH", constants.DefaultSQLitePath),
		BcryptCost:     bcryptCost,
		RequestTimeout: getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultAuthRequestTimeout),
		AutoMigrate:    getBoolEnv("AUTH_AUTO_MIGRATE", true),
		StaticDir:      os.Getenv("STATIC_DIR"),

		CircuitBreakerThreshold: getInt32Env("DB_CIRCUIT_BREAKER_THRESHOLD", constants.DefaultCircuitBreakerThreshold),
		CircuitBreakerTimeout:   getDurationEnv("DB_CIRCUIT_BREAKER_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("DB_CIRCUIT_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func getBcryptCost() (int, error) {
	v, ok := os.LookupEnv("BCRYPT_COST")
	if !ok || v == "" {
		return constants.DefaultBcryptCost, nil
	}
	cost, err := strconv.Atoi(v)
	if err != nil || cost < constants.MinBcryptCost || cost > constants.MaxBcryptCost {
		return 0, fmt.Errorf("%w: BCRYPT_COST must be an integer in [%d, %d], got %q",
			commonerrors.ErrInvalidConfig, constants.MinBcryptCost, constants.MaxBcryptCost, v)
	}
	return cost, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt32Env(key string, fallback int32) int32 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil || i <= 0 {
		return fallback
	}
	return int32(i)
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
