// Package app provides the main application lifecycle management for the
// gosignal service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gosignal/internal/api"
	"github.com/jonesrussell/gosignal/internal/config"
	"github.com/jonesrussell/gosignal/internal/content"
	"github.com/jonesrussell/gosignal/internal/database"
	"github.com/jonesrussell/gosignal/internal/indexing"
	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
	"github.com/jonesrussell/gosignal/internal/scheduler"
	"github.com/jonesrussell/gosignal/internal/seo"
)

const (
	// DefaultShutdownTimeout is the default timeout for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
	redisPingTimeout       = 5 * time.Second
)

// App represents the gosignal application with all its dependencies
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sqlx.DB
	redisClient redis.UniversalClient
	indexer     *indexing.Service
	content     *content.Service
	scheduler   *scheduler.Scheduler
	httpServer  *http.Server
	version     string
}

// Options contains configuration for creating a new App
type Options struct {
	ConfigPath string
	Version    string
}

// New creates a new App instance with all dependencies initialized
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", "gosignal"),
		logger.String("version", opts.Version),
	)

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	repo := database.NewRepository(db)

	redisClient, err := connectRedis(cfg, appLogger)
	if err != nil {
		db.Close()
		_ = appLogger.Sync()
		return nil, err
	}

	m := metrics.New()

	var quota indexing.QuotaStore
	if redisClient != nil {
		quota = indexing.NewRedisQuotaStore(redisClient)
	}

	indexer, err := indexing.NewService(indexing.Config{
		BaseURL:     cfg.Site.BaseURL,
		Key:         cfg.Indexing.IndexNowKey,
		GoogleToken: cfg.Indexing.GoogleToken,
		DailyQuota:  cfg.Indexing.DailyQuota,
	}, indexing.Deps{
		Quota:   quota,
		Metrics: m,
		Logger:  appLogger,
	})
	if err != nil {
		closeClients(db, redisClient)
		_ = appLogger.Sync()
		return nil, fmt.Errorf("create indexing service: %w", err)
	}

	seoSvc := seo.NewService(seo.SiteInfo{
		BaseURL:     cfg.Site.BaseURL,
		Name:        cfg.Site.Name,
		Description: cfg.Site.Description,
	}, repo, cfg.SEO.CacheTTL, seo.Deps{
		RedisClient: redisClient,
		Metrics:     m,
		Logger:      appLogger,
	})

	contentSvc := content.NewService(repo, indexer, seoSvc, seoSvc.URLs(), m, appLogger)

	sched, err := scheduler.New(cfg.Indexing.ResubmitCron, contentSvc, appLogger)
	if err != nil {
		closeClients(db, redisClient)
		_ = appLogger.Sync()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	router := api.NewRouter(contentSvc, indexer, seoSvc, repo, redisClient, cfg, appLogger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		redisClient: redisClient,
		indexer:     indexer,
		content:     contentSvc,
		scheduler:   sched,
		httpServer:  httpServer,
		version:     opts.Version,
	}, nil
}

// connectRedis builds and pings the Redis client. An empty URL is not an
// error; quota tracking and SEO caches then run in memory.
func connectRedis(cfg *config.Config, log logger.Logger) (redis.UniversalClient, error) {
	if cfg.Redis.URL == "" {
		log.Info("Redis not configured, using in-memory quota and no SEO cache")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}

	return client, nil
}

func closeClients(db *sqlx.DB, redisClient redis.UniversalClient) {
	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server",
			logger.String("address", a.config.Server.Address),
			logger.String("indexnow_key_location", a.indexer.KeyLocation()),
			logger.Bool("debug", a.config.Debug),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	return a.waitForShutdown(ctx, serverErr)
}

// waitForShutdown handles graceful shutdown
func (a *App) waitForShutdown(ctx context.Context, serverErr chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownErr error

	select {
	case sig := <-sigChan:
		a.logger.Info("Shutting down gracefully",
			logger.String("signal", sig.String()),
		)
	case <-ctx.Done():
		a.logger.Info("Shutting down, context cancelled")
	case err := <-serverErr:
		if err != nil {
			a.logger.Error("Server error", logger.Error(err))
			shutdownErr = err
		}
	}

	a.scheduler.Stop()
	a.shutdownHTTPServer()

	a.logger.Info("Service stopped")
	return shutdownErr
}

// shutdownHTTPServer gracefully shuts down the HTTP server
func (a *App) shutdownHTTPServer() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", logger.Error(err))
	} else {
		a.logger.Info("HTTP server stopped")
	}
}

// ResubmitAll triggers a one-shot full resubmission, used by the CLI.
func (a *App) ResubmitAll(ctx context.Context) (int, error) {
	return a.content.ResubmitAll(ctx)
}

// Close cleans up resources
func (a *App) Close() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", logger.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}
	return a.logger.Sync()
}

// Logger returns the application logger
func (a *App) Logger() logger.Logger {
	return a.logger
}
