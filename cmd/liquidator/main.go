// Package main runs the liquidation service: bootstrap cache load over
// RPC, streaming cache maintenance over WebSocket, and the periodic
// health scan that prepares and executes liquidations.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-liquidator/internal/config"
	"solana-liquidator/internal/liquidation"
	"solana-liquidator/internal/observability"
	"solana-liquidator/internal/service"
	"solana-liquidator/internal/solana"
	"solana-liquidator/internal/storage"
	"solana-liquidator/internal/storage/memory"
	"solana-liquidator/internal/storage/migrations"
	pgstore "solana-liquidator/internal/storage/postgres"
)

func main() {
	logger := log.New(os.Stdout, "[liquidator] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := createStore(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to create store: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("")
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	ws, err := solana.NewWSClient(ctx, cfg.WSURL, nil)
	if err != nil {
		logger.Fatalf("Failed to connect websocket: %v", err)
	}
	defer ws.Close()

	manager := service.NewManager(service.ManagerOptions{
		Config:   *cfg,
		Fetcher:  solana.NewHTTPClient(cfg.RPCURL),
		WS:       ws,
		Store:    store,
		Executor: liquidation.NewLogExecutor(logger),
		Metrics:  metrics,
		Logger:   logger,
	})

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = manager.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Service error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStore selects the attempt-history store: Postgres when a DSN is
// configured, in-memory otherwise.
func createStore(ctx context.Context, dsn string, logger *log.Logger) (storage.LiquidationRecordStore, func(), error) {
	if dsn == "" {
		logger.Println("No POSTGRES_DSN set, using in-memory attempt history")
		return memory.NewLiquidationRecordStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgstore.NewLiquidationRecordStore(pool), pool.Close, nil
}

func serveMetrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	logger.Printf("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Printf("Metrics server error: %v", err)
	}
}
