package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/stripplan/internal/api"
	"github.com/eugenenazirov/stripplan/internal/config"
	"github.com/eugenenazirov/stripplan/internal/metrics"
	"github.com/eugenenazirov/stripplan/internal/packing"
	"github.com/eugenenazirov/stripplan/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	planner packing.Planner
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetCatalog(cfg.Catalog); err != nil {
		return nil, fmt.Errorf("failed to apply initial catalog: %w", err)
	}

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
	}

	planner := packing.New()
	handler := api.NewHandler(planner, store,
		api.WithDefaults(api.PlanningDefaults{
			RollLength:          cfg.RollLength,
			WattsPerMeter:       cfg.WattsPerMeter,
			SafetyFactorPercent: cfg.SafetyFactorPercent,
			SourceMode:          cfg.SourceMode,
		}),
		api.WithPlanMetrics(m),
		api.WithHandlerLogger(logger.Named("planner")),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(m),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter))

	return &App{
		storage: store,
		planner: planner,
		metrics: m,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  server,
	}, nil
}

// BuildRootHandler mounts the API router under /api/ and the metrics endpoint,
// and answers / with a short index of the available endpoints.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, indexText)
	}))
	return mux
}

const indexText = `strip-planner

GET  /api/health
GET  /api/catalog
PUT  /api/catalog
POST /api/plans/cutting[?format=csv]
POST /api/plans/sources[?format=csv]
GET  /metrics
`

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
