package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/yndnr/tokclaim-go/internal/audit"
	"github.com/yndnr/tokclaim-go/internal/core/service"
	"github.com/yndnr/tokclaim-go/internal/infra/buildinfo"
	"github.com/yndnr/tokclaim-go/internal/infra/confloader"
	"github.com/yndnr/tokclaim-go/internal/infra/shutdown"
	"github.com/yndnr/tokclaim-go/internal/infra/tlsroots"
	"github.com/yndnr/tokclaim-go/internal/server/config"
	"github.com/yndnr/tokclaim-go/internal/server/httpserver"
	"github.com/yndnr/tokclaim-go/internal/storage"
	"github.com/yndnr/tokclaim-go/internal/telemetry/logger"
	"github.com/yndnr/tokclaim-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tokclaim-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting tokclaim-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, logger.Component("shutdown"))
	metrics := metric.NewRegistry()

	store, err := openStore(cfg, metrics, logger.Component("storage"))
	if err != nil {
		return err
	}
	shutdownHandler.OnClose("store", store.Close)

	sink, err := audit.OpenLogSink(cfg.Audit.Path)
	if err != nil {
		store.Close()
		return fmt.Errorf("open audit sink: %w", err)
	}
	shutdownHandler.OnClose("audit", sink.Close)

	authSvc, err := service.NewAuthService(cfg.Security.ServiceKeys(), &service.AuthServiceConfig{
		CacheTTL:        cfg.Security.AuthCacheTTL,
		GlobalAllowlist: cfg.Security.IPAllowlist,
	})
	if err != nil {
		shutdownHandler.Run()
		return fmt.Errorf("init auth: %w", err)
	}
	if authSvc.KeyCount() == 0 {
		log.Warn("no API keys configured; only public endpoints are usable")
	}

	limits := cfg.Security.ClaimRateLimit
	claims := service.NewClaimService(store, sink,
		service.WithLimiter(service.NewRequesterLimiter(limits.PerSecond, limits.Burst)),
		service.WithMetrics(metrics),
	)

	var ready atomic.Bool
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Claims:              claims,
		AuthService:         authSvc,
		Metrics:             metrics,
		Logger:              logger.Component("http"),
		MetricsAuthRequired: cfg.Server.HTTP.MetricsAuth,
		Ready:               ready.Load,
	})

	httpServer := httpserver.New(cfg.Server.HTTP, router)
	if httpServer.TLS() {
		certs, err := tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile, logger.Component("tls"))
		if err != nil {
			shutdownHandler.Run()
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		if err := certs.Watch(); err != nil {
			log.Warn("certificate hot reload disabled", "error", err)
		}
		shutdownHandler.OnClose("tls certificates", certs.Close)
		httpServer.SetCertificateSource(certs.GetCertificate)
	}
	if err := httpServer.Listen(); err != nil {
		shutdownHandler.Run()
		return fmt.Errorf("listen on %s: %w", cfg.Server.HTTP.Addr, err)
	}

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, logger.Component("config"))
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnClose("config watcher", watcher.Stop)
		}
	}

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		ready.Store(false)
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", httpServer.Addr(),
			"tls", httpServer.TLS())
		if err := httpServer.Serve(); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	ready.Store(true)
	stats := store.Stats()
	log.Info("server started",
		"backend", stats.Backend,
		"allowed", stats.Allowed,
		"claimed", stats.Claimed)

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// openStore creates the configured backend and loads the store from it.
func openStore(cfg *config.ServerConfig, metrics *metric.Registry, log *slog.Logger) (*storage.Store, error) {
	storageCfg, err := cfg.Storage.StorageConfig()
	if err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}

	backend, err := storage.NewBackend(storageCfg, log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if bb, ok := backend.(*storage.BadgerBackend); ok {
		bb.RegisterMetrics(metrics.Registerer())
	}

	store, err := storage.Open(context.Background(), backend, storage.WithLogger(log))
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store.RegisterMetrics(metrics.Registerer()), nil
}

// watchConfig reloads the configuration file on change and applies the
// settings that can change at runtime. Currently only the log level.
func watchConfig(path string, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg, err := config.Load(path)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
