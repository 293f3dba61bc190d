package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/memory"
	"github.com/gokatarajesh/trivia-api/internal/db/migrate"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/events"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/server"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Application aggregates shared infrastructure (store, pub/sub, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	hub   *ws.Hub
	http  *http.Server

	broadcaster *events.Broadcaster
	bgCancels   []context.CancelFunc
}

// New bootstraps logger, the configured question store, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("store", cfg.StoreDriver).Msg("starting application bootstrap")

	a := &Application{
		cfg:       cfg,
		logger:    logger,
		hub:       ws.NewHub(logger.With().Str("component", "ws_hub").Logger()),
		bgCancels: make([]context.CancelFunc, 0, 1),
	}

	var deps []server.Dependency

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if a.pool != nil {
		deps = append(deps, server.Dependency{Name: "postgres", Ping: a.pool.Ping})
	}

	var notifier question.Notifier = events.NewLocalNotifier(a.hub, logger)
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		notifier = events.NewPublisher(a.redis, cfg.Events.Channel)
		a.broadcaster = events.NewBroadcaster(a.redis, a.hub, cfg.Events.Channel, logger)
		deps = append(deps, server.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}})
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; change events stay in-process")
	}

	httpMetrics := metrics.NewHTTP(prometheus.DefaultRegisterer, "trivia")

	questionSvc := question.NewService(store, question.ServiceOptions{
		PageSize: cfg.Trivia.PageSize,
		Picker:   question.PickerFromSeed(cfg.Trivia.RandomSeed),
		Notifier: notifier,
		Observer: httpMetrics,
	}, logger)

	a.http = server.NewHTTPServer(cfg, logger, deps, server.Handlers{
		Questions: question.NewHTTPHandlers(questionSvc, logger),
		Stream:    events.NewStreamHandler(a.hub, logger),
	}, httpMetrics)

	return a, nil
}

func (a *Application) openStore(ctx context.Context) (question.Store, error) {
	switch a.cfg.StoreDriver {
	case config.StoreDriverMemory:
		a.logger.Warn().Msg("using in-memory question store; data is lost on restart")
		return memory.NewStore(memory.DefaultCategories...), nil
	case config.StoreDriverPostgres:
		pool, err := pgxpool.New(ctx, a.cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool

		if a.cfg.MigrateOnStart {
			if err := migrate.UpFromPool(ctx, pool, a.logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return repository.NewPoolStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	a.shutdown()
	return runErr
}

func (a *Application) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.hub.CloseAll()

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("question broadcaster stopped")
			}
		}()
	}
}
