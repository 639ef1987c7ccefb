package liquidation

import (
	"context"
	"log"
)

// LogExecutor is a dry-run Executor: it logs the liquidation it would
// submit and reports success without touching the chain. It is the
// default until a signing executor is configured.
type LogExecutor struct {
	logger *log.Logger
}

// NewLogExecutor creates a dry-run executor. A nil logger falls back to
// log.Default().
func NewLogExecutor(logger *log.Logger) *LogExecutor {
	if logger == nil {
		logger = log.Default()
	}
	return &LogExecutor{logger: logger}
}

var _ Executor = (*LogExecutor)(nil)

// Execute logs the prepared liquidation. The returned signature is empty
// because no transaction is submitted.
func (e *LogExecutor) Execute(_ context.Context, params *Params) (string, error) {
	e.logger.Printf("DRY RUN liquidation: account=%s health=%d asset_bank=%s liability_bank=%s slot=%d",
		params.Account, params.HealthScore, params.AssetBank, params.LiabilityBank, params.Slot)
	return "", nil
}
