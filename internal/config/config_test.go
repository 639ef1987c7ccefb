package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgramID = "MFv2hWf31Z9kbCa1snEPYctwafyhdvnV7FZnsebVacA"
	testLUT       = "HGmknUTUmeovMc9ryERNWG6UFZDFDVr9xrum3ZhyL4fC"
)

func setRequired(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8899")
	t.Setenv("WS_URL", "ws://localhost:8900")
	t.Setenv("PROGRAM_ID", testProgramID)
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.RPCURL)
	assert.Equal(t, "ws://localhost:8900", cfg.WSURL)
	assert.Equal(t, testProgramID, cfg.ProgramID.String())
	assert.Equal(t, 5*time.Second, cfg.ScanInterval)
	assert.Equal(t, 60*time.Second, cfg.StatsInterval)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 10000, cfg.UpdateQueueSize)
	assert.Empty(t, cfg.LUTAddresses)
	assert.Zero(t, cfg.MinProfitUSD)
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LUT_ADDRESSES", testLUT+" , "+testProgramID)
	t.Setenv("MIN_PROFIT_USD", "25.5")
	t.Setenv("SCAN_INTERVAL_SEC", "30")
	t.Setenv("STATS_INTERVAL_SEC", "10")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("UPDATE_QUEUE_SIZE", "512")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Len(t, cfg.LUTAddresses, 2)
	assert.Equal(t, testLUT, cfg.LUTAddresses[0].String())
	assert.Equal(t, 25.5, cfg.MinProfitUSD)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval)
	assert.Equal(t, 10*time.Second, cfg.StatsInterval)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 512, cfg.UpdateQueueSize)
}

func TestFromEnvMissingRequired(t *testing.T) {
	t.Setenv("RPC_URL", "")
	t.Setenv("WS_URL", "")
	t.Setenv("PROGRAM_ID", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC_URL")

	t.Setenv("RPC_URL", "http://localhost:8899")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WS_URL")

	t.Setenv("WS_URL", "ws://localhost:8900")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROGRAM_ID")
}

func TestFromEnvRejectsMalformed(t *testing.T) {
	setRequired(t)

	t.Setenv("PROGRAM_ID", "not-base58-0OIl")
	_, err := FromEnv()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("SCAN_INTERVAL_SEC", "-5")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("SCAN_INTERVAL_SEC", "")
	t.Setenv("UPDATE_QUEUE_SIZE", "0")
	_, err = FromEnv()
	assert.Error(t, err)
}
