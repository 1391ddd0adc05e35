package ops

import (
	"context"

	"github.com/hpungsan/scrapedash/internal/db"
)

// Source states reported by Health.
const (
	SourceOK           = "ok"
	SourceUnconfigured = "unconfigured"
	SourceUnavailable  = "unavailable"
)

// HealthOutput reports process and data source status.
type HealthOutput struct {
	Status string `json:"status"`
	Source string `json:"source"`
	Driver string `json:"driver,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Health pings the data source. The process itself is always "ok": the
// dashboard keeps serving empty views while the store is down.
func Health(ctx context.Context, src *db.Source) *HealthOutput {
	out := &HealthOutput{Status: "ok"}
	if src == nil {
		out.Source = SourceUnconfigured
		return out
	}

	out.Driver = src.Driver()
	if err := src.Ping(ctx); err != nil {
		out.Source = SourceUnavailable
		out.Error = err.Error()
		return out
	}
	out.Source = SourceOK
	return out
}
