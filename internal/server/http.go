package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/logging"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires the API routes. wsHandler can be nil if the
// WebSocket layer is not yet initialized.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, handlers *Handlers, wsHandler http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if handlers != nil {
		mux.HandleFunc("POST /v1/detect", handlers.Detect)
		mux.HandleFunc("POST /v1/extract", handlers.Extract)
		mux.HandleFunc("POST /v1/batches", handlers.CreateBatch)
		mux.HandleFunc("GET /v1/batches/{id}", handlers.GetBatch)
		mux.HandleFunc("GET /v1/quizzes", handlers.ListQuizzes)
		mux.HandleFunc("GET /v1/quizzes/{id}", handlers.GetQuiz)
		mux.HandleFunc("DELETE /v1/quizzes/{id}", handlers.DeleteQuiz)
		mux.HandleFunc("GET /v1/quizzes/{id}/export", handlers.ExportQuiz)
		mux.HandleFunc("GET /v1/quizzes/{id}/search", handlers.SearchQuiz)
		mux.HandleFunc("POST /v1/quizzes/{id}/replace", handlers.ReplaceInQuiz)
	}

	if wsHandler != nil {
		mux.HandleFunc("/ws/batches", wsHandler)
	} else {
		mux.HandleFunc("/ws/batches", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "WebSocket handler not yet integrated", http.StatusNotImplemented)
		})
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: withCORS(cfg.CORS, mux),
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
