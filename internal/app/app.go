package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db/repository"
	"github.com/quizforge/quizforge/internal/ingest"
	"github.com/quizforge/quizforge/internal/logging"
	"github.com/quizforge/quizforge/internal/server"
	ws "github.com/quizforge/quizforge/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	watcher   *ingest.Watcher
	pipeline  *batch.Service
	bgCancels []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN()+" pool_max_conns=10")
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	store := repository.NewStore(pool)
	quizRepo := repository.NewQuizRepository(store)
	batchRepo := repository.NewBatchRepository(store)

	wsHub := ws.NewHub(logger)
	wsHandler := server.NewWSHandler(wsHub, logger)
	progressSink := server.NewHubSink(wsHub, logger)

	extractionCache := batch.NewCache(redisClient, cfg.Pipeline.CacheTTL)
	metrics := batch.NewMetrics(prometheus.DefaultRegisterer)
	pipeline := batch.NewService(extractionCache, progressSink, metrics, logger, batch.ServiceOptions{
		IngestOptions: ingest.Options{MaxFileBytes: cfg.Ingest.MaxFileBytes},
	})

	var watcher *ingest.Watcher
	if cfg.Ingest.WatchDir != "" {
		watcher, err = ingest.NewWatcher(cfg.Ingest.WatchDir, ingest.Options{MaxFileBytes: cfg.Ingest.MaxFileBytes}, logger)
		if err != nil {
			return nil, fmt.Errorf("start ingest watcher: %w", err)
		}
	}

	handlers := server.NewHandlers(pipeline, quizRepo, batchRepo, cfg, logger)
	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, handlers, wsHandler.HandleWebSocket)

	return &Application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		redis:     redisClient,
		http:      apiServer,
		watcher:   watcher,
		pipeline:  pipeline,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
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

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// startBackgroundWorkers launches the watch-directory pipeline when a
// drop directory is configured. Files landing there are extracted and
// logged; the API remains the authoritative ingest path.
func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.watcher == nil {
		return
	}

	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)

	go func() {
		if err := a.watcher.Run(bgCtx); err != nil && err != context.Canceled {
			a.logger.Warn().Err(err).Msg("ingest watcher stopped")
		}
	}()

	go func() {
		for doc := range a.watcher.Documents() {
			// The watcher already extracted the text, so feed it
			// through the pipeline as plain text.
			name := strings.TrimSuffix(filepath.Base(doc.Filename), filepath.Ext(doc.Filename)) + ".txt"
			result, err := a.pipeline.ProcessFiles(bgCtx, []batch.FileInput{
				{Filename: name, Data: []byte(doc.Text)},
			}, batch.ProcessOptions{})
			if err != nil {
				a.logger.Warn().Err(err).Str("file", doc.Filename).Msg("watched file processing failed")
				continue
			}
			a.logger.Info().
				Str("file", doc.Filename).
				Int("questions", len(result.Questions)).
				Msg("watched file processed")
		}
	}()
}
