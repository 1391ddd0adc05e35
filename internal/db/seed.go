package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/scrapedash/internal/errors"
)

// SeedCapture is a scraped_content row written by the seed command and
// tests. Nil fields are stored as NULL.
type SeedCapture struct {
	ID         *string
	Title      *string
	Summary    *string
	SourceURL  *string
	CapturedAt *time.Time
	Tags       []string
	RawText    *string
}

// SeedURL is a urls row written by the seed command and tests.
type SeedURL struct {
	ID     *string
	URL    string
	Active *bool
}

// InsertCapture writes one capture. Tags are stored comma-joined, the
// form a plain-text scraper column uses. Only the local store is
// writable; the dashboard itself never writes.
func (s *Source) InsertCapture(ctx context.Context, c SeedCapture) error {
	var capturedAt sql.NullString
	if c.CapturedAt != nil {
		capturedAt = sql.NullString{String: c.CapturedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	var tags sql.NullString
	if c.Tags != nil {
		tags = sql.NullString{String: strings.Join(c.Tags, ","), Valid: true}
	}

	query := s.db.Rebind(`
		INSERT INTO scraped_content (id, title, summary, source_url, captured_at, tags, raw_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		toNullString(c.ID), toNullString(c.Title), toNullString(c.Summary),
		toNullString(c.SourceURL), capturedAt, tags, toNullString(c.RawText),
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertURL writes one monitored URL. A nil Active uses the column default.
func (s *Source) InsertURL(ctx context.Context, u SeedURL) error {
	var err error
	if u.Active == nil {
		_, err = s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO urls (id, url) VALUES (?, ?)`),
			toNullString(u.ID), u.URL)
	} else {
		_, err = s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO urls (id, url, active) VALUES (?, ?, ?)`),
			toNullString(u.ID), u.URL, *u.Active)
	}
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
