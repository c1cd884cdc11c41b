package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/assistant"
	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/config"
	"github.com/datalens-io/datalens-engine/pkg/discovery"
	"github.com/datalens-io/datalens-engine/pkg/handlers"
	"github.com/datalens-io/datalens-engine/pkg/llm"
	"github.com/datalens-io/datalens-engine/pkg/logging"
	"github.com/datalens-io/datalens-engine/pkg/middleware"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("catalog_path", cfg.CatalogPath),
		zap.String("ai_provider", cfg.AI.Provider))

	// Catalog is loaded once and read-only afterwards.
	loader := catalog.NewFileLoader(cfg.CatalogPath)
	snapshot, err := loader.Load(context.Background())
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	store := catalog.NewStore(snapshot)
	logger.Info("Catalog loaded",
		zap.Int("applications", len(store.Applications())),
		zap.Int("datasources", len(store.DataSources())),
		zap.Int("tables", len(store.Tables())),
		zap.Int("entities", store.TotalEntityCount()))

	engine := discovery.NewEngine(store, logger)

	// The generative backend is optional; without one the assistant runs on
	// the local responder from the start.
	var primary assistant.ResponseProvider
	if cfg.AI.Provider != "" && cfg.AI.APIKey != "" {
		client, err := llm.NewFromConfig(cfg.AI, logger)
		if err != nil {
			logger.Fatal("Failed to create AI client", zap.Error(err))
		}
		primary = assistant.NewGenerativeProvider(client, cfg.AI.Timeout(), logger)
	} else {
		logger.Warn("No generative backend configured, assistant starts degraded")
	}
	local := assistant.NewLocalProvider(
		time.Duration(cfg.Assistant.LocalDelayMinMs)*time.Millisecond,
		time.Duration(cfg.Assistant.LocalDelayMaxMs)*time.Millisecond,
		logger)
	orchestrator := assistant.NewOrchestrator(primary, local, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewDiscoveryHandler(store, engine, orchestrator, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting datalens-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
