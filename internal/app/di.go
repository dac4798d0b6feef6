// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"

	"github.com/skillboard/skillboard/internal/cache"
	"github.com/skillboard/skillboard/internal/config"
	"github.com/skillboard/skillboard/internal/database"
	"github.com/skillboard/skillboard/internal/email"
	"github.com/skillboard/skillboard/internal/http"
	"github.com/skillboard/skillboard/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	cache           *cache.Cache
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	emailSender     email.Sender

	// Managers
	txManager database.TxManager

	// Module components, initialized in the di_* files.
	auth          authComponents
	user          userComponents
	skill         skillComponents
	notifications notificationComponents
	outbox        outboxComponents

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	redisInit           sync.Once
	cacheInit           sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	emailSenderInit     sync.Once
	txManagerInit       sync.Once
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

// RedisClient returns the Redis client backing the cache.
func (c *Container) RedisClient(ctx context.Context) (*redis.Client, error) {
	c.redisInit.Do(func() {
		client, err := cache.ConnectRedis(ctx, cache.RedisConfig{
			ConnectionURL:  c.config.RedisURL,
			RetryAttempts:  c.config.RedisRetryAttempts,
			RetryInterval:  c.config.RedisRetryInterval,
			ConnectTimeout: c.config.RedisConnectTimeout,
		})
		if err != nil {
			c.initErrors["redis"] = fmt.Errorf("failed to connect to redis: %w", err)
			return
		}
		c.redisClient = client
	})
	if storedErr, exists := c.initErrors["redis"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// Cache returns the cache instance on top of the Redis backend.
func (c *Container) Cache(ctx context.Context) (*cache.Cache, error) {
	c.cacheInit.Do(func() {
		client, err := c.RedisClient(ctx)
		if err != nil {
			c.initErrors["cache"] = err
			return
		}
		c.cache = cache.New(cache.NewRedisBackend(client), c.Logger())
	})
	if storedErr, exists := c.initErrors["cache"]; exists {
		return nil, storedErr
	}
	return c.cache, nil
}

// MetricsProvider returns the Prometheus metrics provider.
// It returns nil without error when metrics are disabled.
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

// BusinessMetrics returns the business metrics recorder.
// It returns nil without error when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// EmailSender returns the outbound email sender selected by configuration.
func (c *Container) EmailSender() (email.Sender, error) {
	c.emailSenderInit.Do(func() {
		sender, err := c.initEmailSender()
		if err != nil {
			c.initErrors["emailSender"] = err
			return
		}
		c.emailSender = sender
	})
	if storedErr, exists := c.initErrors["emailSender"]; exists {
		return nil, storedErr
	}
	return c.emailSender, nil
}

// HTTPServer returns the API HTTP server instance.
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
// It returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
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

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
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

// initEmailSender creates the email sender selected by EMAIL_PROVIDER.
func (c *Container) initEmailSender() (email.Sender, error) {
	switch c.config.EmailProvider {
	case "postmark":
		sender, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  c.config.PostmarkServerToken,
			PostmarkAccountToken: c.config.PostmarkAccountToken,
			SenderEmail:          c.config.SenderEmail,
			SupportEmail:         c.config.SupportEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create postmark sender: %w", err)
		}
		return sender, nil
	case "dev":
		return email.NewDevSender(c.config.DevEmailDir), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", c.config.EmailProvider)
	}
}

// initHTTPServer creates the API HTTP server with the full router mounted.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	authHandler, err := c.AuthHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	skillHandler, err := c.SkillHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill handler for http server: %w", err)
	}

	unsubscribeHandler, err := c.UnsubscribeHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get unsubscribe handler for http server: %w", err)
	}

	seoHandler, err := c.SEOHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get seo handler for http server: %w", err)
	}

	sessionMiddleware, err := c.SessionMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session middleware for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	handlers := http.Handlers{
		Auth:        authHandler,
		User:        userHandler,
		Skill:       skillHandler,
		Unsubscribe: unsubscribeHandler,
		SEO:         seoHandler,
	}

	router := http.NewRouter(ctx, c.config, handlers, sessionMiddleware, meterProviderOrNil(provider), logger)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, logger), nil
}

// meterProviderOrNil unwraps the provider so a disabled metrics setup passes
// a true nil interface to the router.
func meterProviderOrNil(provider *metrics.Provider) metric.MeterProvider {
	if provider == nil {
		return nil
	}
	return provider.MeterProvider()
}
