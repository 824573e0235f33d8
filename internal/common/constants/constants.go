package constants

import "time"

const (
	PasswordMinLength = 8
	// bcrypt reads at most this many bytes of a password.
	BcryptMaxPasswordBytes = 72

	DefaultBcryptCost = 10
	MinBcryptCost     = 10
	MaxBcryptCost     = 31

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	SQLiteBusyTimeoutMs   = 5000
	SQLiteMaxReaderConns  = 4
	DefaultSQLitePath     = "auth.db"
	DefaultStoreDriver    = "postgres"
	DefaultAuthHTTPPort   = "3000"
	DefaultLogLevel       = "info"
	DefaultApplicationTag = "credential-service"

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerMaxHeaderBytes    = 1 << 16

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
