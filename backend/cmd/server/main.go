package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enterprise-brain/backend/internal/adapter"
	"enterprise-brain/backend/internal/api"
	"enterprise-brain/backend/internal/brain"
	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/ingest"
	"enterprise-brain/backend/internal/session"
	"enterprise-brain/backend/pkg/config"
	"enterprise-brain/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...", zap.String("graph_source", cfg.GraphSource))

	ctx := context.Background()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open graph backend", zap.Error(err))
	}
	defer closeBackend()

	// Initialize dependencies
	var fetchOpts []ingest.FetcherOption
	if cfg.FetchPrivate {
		log.Warn("URL ingestion may reach private addresses")
		fetchOpts = append(fetchOpts, ingest.AllowPrivateNetworks())
	}
	opts := brain.Options{
		EnrichLimit: cfg.EnrichLimit,
		Fetcher:     ingest.NewFetcher(cfg.FetchTimeout, fetchOpts...),
	}
	if cfg.NarrationEnabled() {
		narrator := adapter.NewLLMAdapter(cfg.LiteLLMURL, cfg.OpenRouterAPIKey, cfg.ModelID)
		opts.Narrator = narrator
		log.Info("Narration enabled", zap.String("model", narrator.Model()))
	} else {
		log.Info("LITELLM_URL not set, narration disabled")
	}

	svc, err := brain.NewService(ctx, backend, opts)
	if err != nil {
		log.Fatal("Failed to load graph", zap.Error(err))
	}
	stats := svc.Stats()
	log.Info("Graph loaded",
		zap.Int("nodes", stats.TotalNodes),
		zap.Int("edges", stats.TotalEdges),
	)

	sessions := session.NewManager(svc.Store, cfg.SessionTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := api.NewMetrics(reg,
		func() float64 { return float64(svc.Store().Len()) },
		func() float64 { return float64(len(svc.Store().Edges())) },
		func() float64 { return float64(sessions.Len()) },
	)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(svc, sessions, metrics, log), reg)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, cfg.SessionTTL)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// openBackend returns the configured graph backend and a function releasing it
func openBackend(ctx context.Context, cfg *config.Config) (brain.Backend, func(), error) {
	switch cfg.GraphSource {
	case config.SourceNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("create neo4j driver: %w", err)
		}
		repo := graph.NewRepository(driver)
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("verify neo4j connectivity: %w", err)
		}
		if err := repo.EnsureConstraints(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		data := graph.SampleData()
		if cfg.DatasetPath != "" {
			loaded, err := graph.LoadFile(cfg.DatasetPath)
			if err != nil {
				return nil, nil, err
			}
			data = loaded
		}
		return brain.NewMemoryBackend(data), func() {}, nil
	}
}

// sweepSessions drops idle sessions until ctx is cancelled
func sweepSessions(ctx context.Context, sessions *session.Manager, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sessions.Sweep(now)
		}
	}
}
