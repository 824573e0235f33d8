package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlibekovAA/credential-service/internal/auth/repository"
	"github.com/AlibekovAA/credential-service/internal/auth/service"
	"github.com/AlibekovAA/credential-service/internal/common/config"
	"github.com/AlibekovAA/credential-service/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/credential-service/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
	"github.com/AlibekovAA/credential-service/internal/common/db"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

const serviceName = "auth"

// AuthApp owns the store and everything built on top of it. Close releases
// the store; the service itself holds no resources.
type AuthApp struct {
	Log     *logger.Logger
	Config  config.AuthConfig
	Store   *repository.GuardedStore
	Service *service.AuthService

	closers []func() error
}

// NewAuthApp reads LOG_DIR, LOG_LEVEL and the auth configuration from the
// environment and builds the app.
func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	log, err := InitializeLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		_ = log.Close()
		return nil, err
	}

	app, err := NewAuthAppWithConfig(ctx, log, cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	app.closers = append(app.closers, log.Close)
	return app, nil
}

func NewAuthAppWithConfig(ctx context.Context, log *logger.Logger, cfg config.AuthConfig) (*AuthApp, error) {
	app := &AuthApp{Log: log, Config: cfg}

	store, err := app.openStore(ctx, cfg.AutoMigrate)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	cb := db.NewDBCircuitBreaker(
		cfg.StoreDriver+"_store",
		cfg.CircuitBreakerThreshold,
		cfg.CircuitBreakerTimeout,
		cfg.CircuitBreakerReset,
		log,
	)
	app.Store = repository.NewGuardedStore(store, cb)

	if err := app.Store.Ping(ctx); err != nil {
		_ = app.Close()
		return nil, commonerrors.ErrStoreUnavailable.WithCause(err)
	}

	app.Service = service.NewAuthService(service.AuthServiceDeps{
		Store:  app.Store,
		Hasher: commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		Log:    log,
	})

	log.Infof("auth app initialized: store=%s bcrypt_cost=%d", cfg.StoreDriver, cfg.BcryptCost)
	return app, nil
}

// Migrate applies the schema for the configured driver and returns.
func Migrate(ctx context.Context, log *logger.Logger, cfg config.AuthConfig) error {
	app := &AuthApp{Log: log, Config: cfg}
	defer app.Close()

	_, err := app.openStore(ctx, true)
	return err
}

// Close runs the registered closers in reverse order and joins their errors.
func (a *AuthApp) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *AuthApp) openStore(ctx context.Context, migrate bool) (repository.CredentialStore, error) {
	switch a.Config.StoreDriver {
	case config.StoreDriverPostgres:
		return a.openPostgres(ctx, migrate)
	case config.StoreDriverSQLite:
		return a.openSQLite(migrate)
	case config.StoreDriverMemory:
		a.Log.Warn("using in-memory credential store; users are lost on restart")
		return repository.NewMemoryCredentialStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}
}

func (a *AuthApp) openPostgres(ctx context.Context, migrate bool) (repository.CredentialStore, error) {
	if migrate {
		if err := db.MigratePostgres(repository.Migrations, repository.PostgresMigrationsDir, a.Config.DatabaseURL); err != nil {
			return nil, commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("postgres migrations: %w", err))
		}
		a.Log.Info("postgres migrations applied")
	}

	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	a.closers = append(a.closers, func() error {
		stopMetrics()
		pool.Close()
		return nil
	})

	return repository.NewPgCredentialStore(pool, a.Log), nil
}

func (a *AuthApp) openSQLite(migrate bool) (repository.CredentialStore, error) {
	sqliteDB, err := repository.OpenSQLite(a.Config.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", a.Config.SQLitePath, err)
	}
	a.closers = append(a.closers, sqliteDB.Close)

	if migrate {
		if err := db.MigrateSQLite(sqliteDB.Writer, repository.Migrations, repository.SQLiteMigrationsDir); err != nil {
			return nil, commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("sqlite migrations: %w", err))
		}
		a.Log.Info("sqlite migrations applied")
	}

	return repository.NewSQLiteCredentialStore(sqliteDB), nil
}

func InitializeLogger() (*logger.Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = constants.DefaultLogLevel
	}
	return logger.New(os.Getenv("LOG_DIR"), serviceName, level)
}
