// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/credstore/internal/config"
	"github.com/allisson/credstore/internal/database"
	"github.com/allisson/credstore/internal/http"
	"github.com/allisson/credstore/internal/keeper"
	"github.com/allisson/credstore/internal/metrics"
	"github.com/allisson/credstore/internal/password"
	"github.com/allisson/credstore/internal/session"
	userHTTP "github.com/allisson/credstore/internal/user/http"
	userRepository "github.com/allisson/credstore/internal/user/repository"
	userUsecase "github.com/allisson/credstore/internal/user/usecase"
	"github.com/allisson/credstore/internal/workerpool"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers and services
	txManager       database.TxManager
	hashPool        *workerpool.Pool
	passwordManager *password.Manager
	sessionSigner   *session.Signer
	recoveryKeeper  keeper.Keeper

	// Repositories
	userRepo userUsecase.UserRepository

	// Use Cases
	userUseCase userUsecase.UseCase

	// Handlers and servers
	userHandler   *userHTTP.UserHandler
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	txManagerInit       sync.Once
	hashPoolInit        sync.Once
	passwordManagerInit sync.Once
	sessionSignerInit   sync.Once
	recoveryKeeperInit  sync.Once
	userRepoInit        sync.Once
	userUseCaseInit     sync.Once
	userHandlerInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = txManager
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus-backed OpenTelemetry metrics provider.
// It returns nil when metrics are disabled in the configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled it returns a no-op implementation so callers never need to branch.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		businessMetrics, err := c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HashPool returns the worker pool that bounds concurrent password hashing.
func (c *Container) HashPool() *workerpool.Pool {
	c.hashPoolInit.Do(func() {
		c.hashPool = workerpool.New(c.config.HashWorkers)
	})
	return c.hashPool
}

// PasswordManager returns the multi-scheme password hash manager.
func (c *Container) PasswordManager() (*password.Manager, error) {
	c.passwordManagerInit.Do(func() {
		manager, err := c.initPasswordManager()
		if err != nil {
			c.initErrors["passwordManager"] = err
			return
		}
		c.passwordManager = manager
	})
	if storedErr, exists := c.initErrors["passwordManager"]; exists {
		return nil, storedErr
	}
	return c.passwordManager, nil
}

// SessionSigner returns the signer that issues and verifies session tokens.
func (c *Container) SessionSigner() (*session.Signer, error) {
	c.sessionSignerInit.Do(func() {
		signer, err := session.NewSigner(c.config.SecretKey, c.config.SessionTokenExpiration)
		if err != nil {
			c.initErrors["sessionSigner"] = fmt.Errorf("failed to create session signer: %w", err)
			return
		}
		c.sessionSigner = signer
	})
	if storedErr, exists := c.initErrors["sessionSigner"]; exists {
		return nil, storedErr
	}
	return c.sessionSigner, nil
}

// RecoveryKeeper returns the keeper used to encrypt recovery codes at rest.
func (c *Container) RecoveryKeeper(ctx context.Context) (keeper.Keeper, error) {
	c.recoveryKeeperInit.Do(func() {
		k, err := keeper.Open(ctx, c.config.KMSKeyURI, c.config.SecretKey)
		if err != nil {
			c.initErrors["recoveryKeeper"] = fmt.Errorf("failed to open recovery code keeper: %w", err)
			return
		}
		c.recoveryKeeper = k
	})
	if storedErr, exists := c.initErrors["recoveryKeeper"]; exists {
		return nil, storedErr
	}
	return c.recoveryKeeper, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.userRepo = repo
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase(ctx context.Context) (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		useCase, err := c.initUserUseCase(ctx)
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the user HTTP handler instance.
func (c *Container) UserHandler(ctx context.Context) (*userHTTP.UserHandler, error) {
	c.userHandlerInit.Do(func() {
		useCase, err := c.UserUseCase(ctx)
		if err != nil {
			c.initErrors["userHandler"] = fmt.Errorf("failed to get user use case for user handler: %w", err)
			return
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// HTTPServer returns the HTTP server instance with all routes configured.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// It returns nil when metrics are disabled in the configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.recoveryKeeper != nil {
		if err := c.recoveryKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("recovery keeper close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initPasswordManager creates the password manager from the configured scheme list.
func (c *Container) initPasswordManager() (*password.Manager, error) {
	schemes := make([]password.Scheme, 0, len(c.config.HashSchemeList()))
	for _, name := range c.config.HashSchemeList() {
		switch password.Scheme(name) {
		case password.SchemeArgon2id, password.SchemeBcrypt, password.SchemePBKDF2SHA256:
			schemes = append(schemes, password.Scheme(name))
		default:
			return nil, fmt.Errorf("unsupported password hashing scheme: %s", name)
		}
	}

	manager, err := password.NewManager(c.HashPool(), schemes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create password manager: %w", err)
	}
	return manager, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase(ctx context.Context) (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	passwordManager, err := c.PasswordManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get password manager for user use case: %w", err)
	}

	signer, err := c.SessionSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get session signer for user use case: %w", err)
	}

	recoveryKeeper, err := c.RecoveryKeeper(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery keeper for user use case: %w", err)
	}

	useCaseConfig := userUsecase.Config{
		LockoutMaxAttempts: c.config.LockoutMaxAttempts,
		LockoutDuration:    c.config.LockoutDuration,
	}

	baseUseCase := userUsecase.NewUserUseCase(
		useCaseConfig,
		txManager,
		userRepo,
		passwordManager,
		signer,
		recoveryKeeper,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return userUsecase.NewUserUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	userUseCase, err := c.UserUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	userHandler, err := c.UserHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		UserHandler: userHandler,
		UserUseCase: userUseCase,

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,

		MetricsEnabled:   c.config.MetricsEnabled,
		MetricsNamespace: c.config.MetricsNamespace,

		RateLimitLoginEnabled:        c.config.RateLimitLoginEnabled,
		RateLimitLoginRequestsPerSec: c.config.RateLimitLoginRequestsPerSec,
		RateLimitLoginBurst:          c.config.RateLimitLoginBurst,
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}
