// Package ops implements the dashboard's read operations. Each operation
// reads from a *db.Source, normalizes the rows and applies filters.
// Data-layer failures never surface: an unconfigured source logs a
// warning, a failing query logs an error, and both yield empty results.
package ops

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/errors"
	"github.com/hpungsan/scrapedash/internal/locale"
	"github.com/hpungsan/scrapedash/internal/logging"
)

// Limits
const (
	DefaultContentLimit = config.DefaultContentLimit
	MaxContentLimit     = 1000
)

// clampLimit applies the default and upper bound to a content limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultContentLimit
	}
	return min(limit, MaxContentLimit)
}

// LoadInput contains parameters for LoadCaptures.
type LoadInput struct {
	Limit  int // default: 200, max: 1000
	Locale locale.Locale
}

// LoadCaptures reads and normalizes the latest captures, newest first.
// The result is never nil.
func LoadCaptures(ctx context.Context, src *db.Source, input LoadInput, logger *log.Logger) []capture.Record {
	logger = logging.OrDiscard(logger)

	if src == nil {
		logger.Warn("data source not configured; returning empty content list")
		return []capture.Record{}
	}

	rows, err := src.ListContent(ctx, clampLimit(input.Limit))
	if err != nil {
		logFailure(logger, "failed to load scraped content", err)
		return []capture.Record{}
	}

	logger.Debug("loaded captures", "rows", len(rows), "driver", src.Driver())
	return capture.NormalizeAll(rows, capture.WithLocale(input.Locale))
}

// LoadURLs reads and normalizes every monitored URL ordered by URL.
// The result is never nil.
func LoadURLs(ctx context.Context, src *db.Source, logger *log.Logger) []capture.URLRecord {
	logger = logging.OrDiscard(logger)

	if src == nil {
		logger.Warn("data source not configured; returning empty url list")
		return []capture.URLRecord{}
	}

	rows, err := src.ListURLs(ctx)
	if err != nil {
		logFailure(logger, "failed to load monitored urls", err)
		return []capture.URLRecord{}
	}

	logger.Debug("loaded urls", "rows", len(rows), "driver", src.Driver())
	return capture.NormalizeURLs(rows)
}

// logFailure logs err at warn level when the store is unreachable and at
// error level for anything else.
func logFailure(logger *log.Logger, msg string, err error) {
	var dErr *errors.DashError
	if stderrors.As(err, &dErr) && dErr.Code == errors.ErrSourceUnavailable {
		logger.Warn(msg, "err", err)
		return
	}
	logger.Error(msg, "err", err)
}
