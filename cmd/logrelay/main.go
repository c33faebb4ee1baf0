package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrelay/logrelay/internal/api"
	"github.com/logrelay/logrelay/internal/backend"
	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/ship"
	"github.com/logrelay/logrelay/internal/source"
	"github.com/logrelay/logrelay/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("logrelay starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"provider", cfg.Shipper.EffectiveProvider(),
		"batch_size", cfg.Shipper.BatchSize,
		"flush_interval", cfg.Shipper.FlushInterval,
		"sources", len(cfg.Sources),
		"http_port", cfg.Server.HTTPPort,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Backend selection happens once; shipper settings are immutable from
	// here on.
	be, err := backend.New(cfg.Shipper)
	if err != nil {
		slog.Error("failed to build backend", "err", err)
		os.Exit(1)
	}
	if be == nil {
		slog.Warn("no shipping provider configured, entries will be discarded")
	}

	shipper := ship.New(ship.Config{
		BatchSize:     cfg.Shipper.BatchSize,
		FlushInterval: cfg.Shipper.FlushInterval,
		MaxRetries:    cfg.Shipper.MaxRetries,
		URLConfigured: cfg.Shipper.Endpoint() != "",
	}, be, &ship.Metrics{})
	go shipper.Run(ctx)

	// File followers feed the pipeline; the config watcher re-applies the
	// sources list on change (shipper settings need a restart).
	mgr := source.NewManager(ctx, shipper)
	mgr.Apply(cfg.Sources)
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			mgr.Apply(next.Sources)
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Metrics API + WebSocket stream on one port.
	hub := ws.New(shipper, cfg.Server.WSInterval)
	go hub.Run(ctx)

	token := ""
	if cfg.Server.Auth.Mode == "bearer" {
		token = cfg.Server.Auth.Token()
		if token == "" {
			slog.Warn("bearer auth enabled but token env is empty, metrics API is open")
		}
	}

	httpMux := http.NewServeMux()
	apiHandler := api.New(shipper, token)
	httpMux.Handle("/api/", apiHandler)
	httpMux.Handle("/metrics", apiHandler)
	httpMux.Handle("/ws/metrics", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("logrelay shutting down")
	mgr.Stop()
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
