package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"watchtower/internal/cache"
	"watchtower/internal/config"
	"watchtower/internal/demo"
	"watchtower/internal/domain"
	"watchtower/internal/handler"
	"watchtower/internal/hub"
	"watchtower/internal/loader"
	"watchtower/internal/repository/sqlite"
	"watchtower/internal/service"
	"watchtower/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "config file path (overrides search)")
	demoMode := flag.Bool("demo", false, "serve the built-in demo topology")
	flag.Parse()

	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "watchtower",
	})

	var cfg *config.Config
	var cfgPath string
	var err error
	if *configPath != "" {
		cfg, cfgPath, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgPath, err = config.Load()
	}
	if err != nil {
		logger.Fatal("config load failed", "path", cfgPath, "err", err)
	}
	if cfgPath != "" {
		logger.Info("config loaded", "path", cfgPath)
	} else {
		logger.Info("no config file found, using defaults")
	}
	if *demoMode {
		cfg.Topology.DemoMode = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot persistence
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal("open database failed", "path", cfg.Database.Path, "err", err)
	}
	defer repo.Close()
	logger.Info("database opened", "path", cfg.Database.Path)

	// Graph cache: in-memory unless Redis is configured
	var graphCache cache.Cache
	if cfg.Redis.Enabled {
		graphCache, err = cache.NewRedisCache(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Fatal("redis connect failed", "addr", cfg.Redis.Addr, "err", err)
		}
		logger.Info("redis cache connected", "addr", cfg.Redis.Addr)
	} else {
		graphCache = cache.NewMemoryCache()
	}
	defer graphCache.Close()

	eventBus := service.NewEventBus()

	sseHub := hub.New(logger)
	go sseHub.Run(ctx)

	// Forward bus events to connected SSE clients
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventChan:
				sseHub.Broadcast(event)
			}
		}
	}()

	svc := service.NewTopologyService(repo, graphCache, eventBus, logger)
	if err := svc.Bootstrap(ctx); err != nil {
		logger.Warn("bootstrap from persisted snapshot failed", "err", err)
	}

	if err := startSupplier(ctx, cfg, svc, logger); err != nil {
		logger.Fatal("topology source failed", "err", err)
	}

	router := handler.New(svc, sseHub, cfg, logger).Router()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "demo", cfg.Topology.DemoMode)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	logger.Info("server stopped")
}

// startSupplier wires the configured topology source into the service:
// the demo generator plus simulator in demo mode, otherwise the YAML
// loader plus a file watcher that reloads on change. With neither
// configured the server serves whatever Bootstrap restored.
func startSupplier(ctx context.Context, cfg *config.Config, svc *service.TopologyService, logger *log.Logger) error {
	switch {
	case cfg.Topology.DemoMode:
		svc.SetSupplier(func(ctx context.Context) (*domain.Topology, error) {
			return demo.Generate(), nil
		})
		svc.SetStaticAlerts(demo.Alerts())
		if err := svc.Reload(ctx); err != nil {
			return err
		}
		sim := demo.NewSimulator(svc, cfg.Topology.SimulatorInterval, logger)
		go sim.Run(ctx)
		logger.Info("demo mode active", "simulator_interval", cfg.Topology.SimulatorInterval)

	case cfg.Topology.File != "":
		path := cfg.Topology.File
		svc.SetSupplier(func(ctx context.Context) (*domain.Topology, error) {
			return loader.LoadYAML(path)
		})
		if err := svc.Reload(ctx); err != nil {
			return err
		}
		w := watcher.New(path, logger, func() {
			if err := svc.Reload(context.Background()); err != nil {
				logger.Error("reload after file change failed", "err", err)
			}
		})
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				logger.Error("topology watcher stopped", "err", err)
			}
		}()

	default:
		logger.Warn("no topology source configured, serving persisted snapshot only")
	}
	return nil
}
