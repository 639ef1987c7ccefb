// Package config loads liquidator configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solana-liquidator/internal/domain"
)

// Config holds all liquidator settings.
type Config struct {
	// RPCURL is the JSON-RPC HTTP endpoint.
	RPCURL string
	// WSURL is the WebSocket endpoint for account subscriptions.
	WSURL string
	// ProgramID is the lending program to track.
	ProgramID domain.Address
	// LUTAddresses are the lookup tables loaded at bootstrap.
	LUTAddresses []domain.Address
	// LiquidatorAuthority signs liquidation transactions.
	LiquidatorAuthority domain.Address
	// MinProfitUSD skips positions below the threshold; zero disables it.
	MinProfitUSD float64
	// ScanInterval is the pause between liquidation scan cycles.
	ScanInterval time.Duration
	// StatsInterval is the pause between cache stats log lines.
	StatsInterval time.Duration
	// MetricsAddr serves Prometheus metrics; empty disables the server.
	MetricsAddr string
	// PostgresDSN enables the attempt history store; empty keeps it in memory.
	PostgresDSN string
	// UpdateQueueSize is the update channel buffer between subscriber
	// and processor.
	UpdateQueueSize int
}

// FromEnv loads configuration from the environment. A .env file in the
// working directory is merged first without overriding set variables.
func FromEnv() (*Config, error) {
	// Missing .env is the normal production case
	_ = godotenv.Load()

	cfg := &Config{
		ScanInterval:    5 * time.Second,
		StatsInterval:   60 * time.Second,
		MetricsAddr:     ":9090",
		UpdateQueueSize: 10000,
	}

	cfg.RPCURL = os.Getenv("RPC_URL")
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC_URL is required")
	}

	cfg.WSURL = os.Getenv("WS_URL")
	if cfg.WSURL == "" {
		return nil, fmt.Errorf("WS_URL is required")
	}

	programID, err := requireAddress("PROGRAM_ID")
	if err != nil {
		return nil, err
	}
	cfg.ProgramID = programID

	if v := os.Getenv("LIQUIDATOR_AUTHORITY"); v != "" {
		addr, err := domain.ParseAddress(v)
		if err != nil {
			return nil, fmt.Errorf("parse LIQUIDATOR_AUTHORITY: %w", err)
		}
		cfg.LiquidatorAuthority = addr
	}

	if v := os.Getenv("LUT_ADDRESSES"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			addr, err := domain.ParseAddress(part)
			if err != nil {
				return nil, fmt.Errorf("parse LUT_ADDRESSES entry %q: %w", part, err)
			}
			cfg.LUTAddresses = append(cfg.LUTAddresses, addr)
		}
	}

	if err := setFloat64(&cfg.MinProfitUSD, "MIN_PROFIT_USD"); err != nil {
		return nil, err
	}
	if err := setSeconds(&cfg.ScanInterval, "SCAN_INTERVAL_SEC"); err != nil {
		return nil, err
	}
	if err := setSeconds(&cfg.StatsInterval, "STATS_INTERVAL_SEC"); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if err := setInt(&cfg.UpdateQueueSize, "UPDATE_QUEUE_SIZE"); err != nil {
		return nil, err
	}
	if cfg.UpdateQueueSize <= 0 {
		return nil, fmt.Errorf("UPDATE_QUEUE_SIZE must be positive")
	}

	return cfg, nil
}

// requireAddress reads and parses a mandatory base58 address variable.
func requireAddress(key string) (domain.Address, error) {
	v := os.Getenv(key)
	if v == "" {
		return domain.ZeroAddress, fmt.Errorf("%s is required", key)
	}
	addr, err := domain.ParseAddress(v)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("parse %s: %w", key, err)
	}
	return addr, nil
}

// Typed env-var helpers. Each only mutates the target when the variable
// is present and non-empty; a malformed value is an error, not a default.

func setFloat64(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setSeconds(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	*dst = time.Duration(n) * time.Second
	return nil
}
