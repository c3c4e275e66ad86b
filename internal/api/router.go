package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hippo-mem/hippo/internal/api/handlers"
	mw "github.com/hippo-mem/hippo/internal/api/middleware"
	"github.com/hippo-mem/hippo/internal/buildconfig"
	"github.com/hippo-mem/hippo/internal/config"
	"github.com/hippo-mem/hippo/internal/domain"
	"github.com/hippo-mem/hippo/internal/embedding"
	"github.com/hippo-mem/hippo/internal/llm"
	"github.com/hippo-mem/hippo/internal/recall"
	"github.com/hippo-mem/hippo/internal/service"
	"github.com/hippo-mem/hippo/internal/store"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router        *chi.Mux
	Consolidation *service.ConsolidationService
	Watcher       *service.WatcherService
	startTime     time.Time
	requestCount  atomic.Int64
	errorCount    atomic.Int64
}

// NewApp wires stores, external clients, services, and routes for the
// configured workspace. db is only used by the vector recall provider and
// may be nil otherwise.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	memoryDir, err := store.EnsureMemoryDir(config.WorkspaceDir())
	if err != nil {
		return nil, err
	}

	// Stores
	factFile := store.NewFactFile(memoryDir)
	eventLog := store.NewEventLog(memoryDir)
	checkpoint := store.NewCheckpointFile(memoryDir)

	// Recall provider; falls back to disabled when misconfigured so the
	// local layer keeps working.
	recallProvider := newRecallProvider(db, logger)

	// LLM client for consolidation. The mock provider (the default) wires no
	// client: consolidation stays off until a real provider is configured,
	// and the curated document is never rewritten automatically.
	var llmClient domain.LLMClient
	if llmProvider := config.LLMProvider(); llmProvider == llm.ProviderMock {
		logger.Info("no LLM provider configured, consolidation disabled")
	} else {
		client, err := llm.NewClient(llmProvider, config.LLMAPIKey())
		if err != nil {
			logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
		} else {
			llmClient = client
			logger.Info("LLM client initialized", zap.String("provider", llmProvider))
		}
	}

	// Services
	memorySvc := service.NewMemoryService(factFile, eventLog, recallProvider, logger)

	consolidationSvc := service.NewConsolidationService(memorySvc, eventLog, checkpoint, llmClient, logger)
	consolidationSvc.SetInterval(config.ConsolidationInterval())
	consolidationSvc.SetMinAge(config.ConsolidationMinAge())
	consolidationSvc.SetMinEvents(config.ConsolidationMinEvents())

	watcherSvc, err := service.NewWatcherService(memoryDir, memorySvc.ResyncFacts, logger)
	if err != nil {
		return nil, err
	}

	// Handlers
	memoryHandler := handlers.NewMemoryHandler(memorySvc)
	historyHandler := handlers.NewHistoryHandler(memorySvc)
	recallHandler := handlers.NewRecallHandler(memorySvc)
	consolidateHandler := handlers.NewConsolidateHandler(consolidationSvc)

	r := chi.NewRouter()

	app := &App{
		Router:        r,
		Consolidation: consolidationSvc,
		Watcher:       watcherSvc,
		startTime:     time.Now(),
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

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/memory", func(r chi.Router) {
			r.Get("/", memoryHandler.Get)
			r.Put("/", memoryHandler.Put)
			r.Get("/context", memoryHandler.Context)
		})

		r.Route("/history", func(r chi.Router) {
			r.Post("/", historyHandler.Append)
			r.Get("/", historyHandler.List)
			r.Get("/search", historyHandler.Search)
		})

		r.Get("/recall", recallHandler.Search)
		r.Post("/consolidate", consolidateHandler.Trigger)
	})

	return app, nil
}

// newRecallProvider builds the configured recall layer. Any initialization
// failure logs a warning and leaves recall disabled.
func newRecallProvider(db *pgxpool.Pool, logger *zap.Logger) domain.RecallProvider {
	name := config.RecallProvider()

	switch name {
	case recall.ProviderCloud:
		provider, err := recall.NewCloudProvider(recall.CloudConfig{
			BaseURL:      config.RecallAPIURL(),
			APIKey:       config.RecallAPIKey(),
			ContainerTag: config.RecallContainerTag(),
		})
		if err != nil {
			logger.Warn("cloud recall initialization failed", zap.Error(err))
			return recall.NewNoopProvider()
		}
		logger.Info("recall provider initialized", zap.String("provider", name))
		return provider

	case recall.ProviderVector:
		if db == nil {
			logger.Warn("vector recall requires DATABASE_URL, recall disabled")
			return recall.NewNoopProvider()
		}
		embedder, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
		if err != nil {
			logger.Warn("embedding client initialization failed", zap.Error(err))
			return recall.NewNoopProvider()
		}
		provider, err := recall.NewVectorProvider(store.NewRecallIndex(db), embedder)
		if err != nil {
			logger.Warn("vector recall initialization failed", zap.Error(err))
			return recall.NewNoopProvider()
		}
		logger.Info("recall provider initialized", zap.String("provider", name))
		return provider

	case recall.ProviderNone:
		return recall.NewNoopProvider()

	default:
		logger.Warn("unknown recall provider, recall disabled", zap.String("provider", name))
		return recall.NewNoopProvider()
	}
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
			"commit":  buildconfig.Commit(),
		}

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				resp["status"] = "error"
				resp["error"] = err.Error()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
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
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.FactStore       = (*store.FactFile)(nil)
	_ domain.EventLog        = (*store.EventLog)(nil)
	_ domain.CheckpointStore = (*store.CheckpointFile)(nil)
	_ domain.RecallIndex     = (*store.RecallIndex)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.LLMClient       = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient       = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient       = (*llm.MockClient)(nil)
	_ service.FactWriter     = (*service.MemoryService)(nil)
)
