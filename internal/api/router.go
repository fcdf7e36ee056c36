package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dcraven/sift/internal/api/handlers"
	mw "github.com/dcraven/sift/internal/api/middleware"
	"github.com/dcraven/sift/internal/buildconfig"
	"github.com/dcraven/sift/internal/config"
	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/remote"
	"github.com/dcraven/sift/internal/service"
	"github.com/dcraven/sift/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Dispatcher   *service.DispatcherService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	stores := store.New(db)
	txRunner := store.NewTxRunner(db)

	// Remote client via provider factory
	remoteProvider := config.RemoteProvider()
	remoteClient, err := remote.NewClient(remoteProvider, config.RemoteBaseURL(), config.RemoteTimeout())
	if err != nil {
		logger.Warn("remote client initialization failed, falling back to mock",
			zap.String("provider", remoteProvider), zap.Error(err))
		remoteClient = remote.NewMockClient()
	} else {
		logger.Info("remote client initialized", zap.String("provider", remoteProvider))
	}

	// Services
	ledgerSvc := service.NewLedgerService(stores, txRunner, logger)
	scoringSvc := service.NewScoringService(stores, logger)
	exportSvc := service.NewExportService(stores)
	personaSvc := service.NewPersonaService(stores, txRunner, logger)
	dispatcherSvc := service.NewDispatcherService(stores.Outbox, remoteClient, logger)
	dispatcherSvc.SetInterval(config.OutboxInterval())
	dispatcherSvc.SetBatchSize(config.OutboxBatchSize())
	dispatcherSvc.SetDispatchRate(config.OutboxDispatchRPS())

	// Handlers
	scoreHandler := handlers.NewScoreHandler(scoringSvc)
	feedbackHandler := handlers.NewFeedbackHandler(ledgerSvc)
	exportHandler := handlers.NewExportHandler(exportSvc)
	personaHandler := handlers.NewPersonaHandler(personaSvc)
	outboxHandler := handlers.NewOutboxHandler(stores.Outbox, dispatcherSvc)

	r := chi.NewRouter()

	app := &App{
		Router:     r,
		Dispatcher: dispatcherSvc,
		startTime:  time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Scoring
		r.Route("/entities", func(r chi.Router) {
			r.Post("/score", scoreHandler.Score)
			r.Post("/similar", scoreHandler.Similar)
		})

		// Feedback ledger
		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.Create)
			r.Get("/", feedbackHandler.List)
			r.Post("/pairs", feedbackHandler.CreatePair)
			r.Get("/stats", feedbackHandler.Stats)
		})

		// Training exports
		r.Get("/export", exportHandler.Get)

		// Personas
		r.Route("/personas", func(r chi.Router) {
			r.Post("/", personaHandler.Create)
			r.Get("/", personaHandler.List)
			r.Get("/active", personaHandler.GetActive)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", personaHandler.GetByName)
				r.Post("/activate", personaHandler.Activate)
			})
		})

		// Sync outbox
		r.Route("/outbox", func(r chi.Router) {
			r.Get("/", outboxHandler.List)
			r.Post("/drain", outboxHandler.Drain)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage lifecycle themselves.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.WeightStore         = (*store.WeightStore)(nil)
	_ domain.FeedbackStore       = (*store.FeedbackStore)(nil)
	_ domain.PairStore           = (*store.PairStore)(nil)
	_ domain.OutboxStore         = (*store.OutboxStore)(nil)
	_ domain.PersonaStore        = (*store.PersonaStore)(nil)
	_ domain.LikedEmbeddingStore = (*store.LikedEmbeddingStore)(nil)
	_ domain.TxRunner            = (*store.TxRunner)(nil)
	_ domain.RemoteClient        = (*remote.HTTPClient)(nil)
	_ domain.RemoteClient        = (*remote.MockClient)(nil)
)
