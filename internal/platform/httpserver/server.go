package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	payoutstructureservice "rewardsplit/contexts/finance-core/payout-structure-service"
	"rewardsplit/internal/platform/metrics"

	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "rewardsplit/internal/platform/httpserver/docs"
)

type Options struct {
	Addr           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	// Clock drives rate limiting; nil means the real clock.
	Clock  clockwork.Clock
	Logger *slog.Logger
}

type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	addr    string
	limiter *operatorLimiter
	payouts payoutstructureservice.Module
}

func New(payouts payoutstructureservice.Module, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		limiter: newOperatorLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.Clock),
		payouts: payouts,
	}
	s.registerRoutes()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id", "X-Request-Id"},
		MaxAge:         300,
	})
	s.handler = metrics.Middleware(corsHandler(s.mux))
	return s
}

// Handler is the full middleware chain in front of the routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /v1/payout-structures", s.limit(s.handleCreateStructure))
	s.mux.HandleFunc("GET /v1/payout-structures/{structure_id}", s.handleGetStructure)
	s.mux.HandleFunc("DELETE /v1/payout-structures/{structure_id}", s.limit(s.handleDeleteStructure))
	s.mux.HandleFunc("PUT /v1/payout-structures/{structure_id}/total-reward", s.limit(s.handleChangeTotalReward))
	s.mux.HandleFunc("POST /v1/payout-structures/{structure_id}/rows", s.limit(s.handleAppendRow))
	s.mux.HandleFunc("DELETE /v1/payout-structures/{structure_id}/rows/{row_index}", s.limit(s.handleRemoveRow))
	s.mux.HandleFunc("PUT /v1/payout-structures/{structure_id}/rows/{row_index}/{field}", s.limit(s.handleChangeRowField))
	s.mux.HandleFunc("DELETE /v1/payout-structures/{structure_id}/rows/{row_index}/{field}", s.limit(s.handleClearField))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
