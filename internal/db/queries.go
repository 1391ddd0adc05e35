package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/lib/pq"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/errors"
)

// DefaultContentLimit caps ListContent when the caller passes no limit.
const DefaultContentLimit = config.DefaultContentLimit

const listContentQuery = `
	SELECT id, title, summary, source_url, captured_at, tags, raw_text
	FROM scraped_content
	ORDER BY captured_at DESC NULLS LAST, id DESC
	LIMIT ?
`

const listURLsQuery = `
	SELECT id, url, active
	FROM urls
	ORDER BY url ASC
`

// ListContent reads up to limit captures, newest first. Rows without a
// capture time sort last; ties break on id descending.
func (s *Source) ListContent(ctx context.Context, limit int) ([]capture.RawRow, error) {
	if limit <= 0 {
		limit = DefaultContentLimit
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(listContentQuery), limit)
	if err != nil {
		return nil, errors.NewQueryFailed("list_content", err)
	}
	defer rows.Close()

	var out []capture.RawRow
	for rows.Next() {
		row, err := s.scanContent(rows)
		if err != nil {
			return nil, errors.NewQueryFailed("list_content", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryFailed("list_content", err)
	}

	return out, nil
}

// urlRow mirrors a urls row with every column nullable.
type urlRow struct {
	ID     sql.NullString `db:"id"`
	URL    sql.NullString `db:"url"`
	Active sql.NullBool   `db:"active"`
}

// ListURLs reads every monitored URL ordered by URL ascending.
func (s *Source) ListURLs(ctx context.Context) ([]capture.RawURLRow, error) {
	var rows []urlRow
	if err := s.db.SelectContext(ctx, &rows, listURLsQuery); err != nil {
		return nil, errors.NewQueryFailed("list_urls", err)
	}

	out := make([]capture.RawURLRow, 0, len(rows))
	for _, r := range rows {
		raw := capture.RawURLRow{
			ID:  fromNullString(r.ID),
			URL: fromNullString(r.URL),
		}
		if r.Active.Valid {
			active := r.Active.Bool
			raw.Active = &active
		}
		out = append(out, raw)
	}
	return out, nil
}

// scanContent scans one scraped_content row into a RawRow, leaving
// timestamp and tag values in their driver shape for the normalizer.
func (s *Source) scanContent(rows *sql.Rows) (capture.RawRow, error) {
	var (
		id, title, summary, sourceURL, rawText sql.NullString
		capturedAt, tags                       any
	)

	if err := rows.Scan(&id, &title, &summary, &sourceURL, &capturedAt, &tags, &rawText); err != nil {
		return capture.RawRow{}, err
	}

	return capture.RawRow{
		ID:         fromNullString(id),
		Title:      fromNullString(title),
		Summary:    fromNullString(summary),
		SourceURL:  fromNullString(sourceURL),
		RawText:    fromNullString(rawText),
		CapturedAt: capturedAt,
		Tags:       s.decodeTags(tags),
	}, nil
}

// decodeTags converts the stored tags column to a sequence where the store
// has one: Postgres text[] literals and JSON arrays become []string, plain
// text is passed on as a comma-joined string.
func (s *Source) decodeTags(v any) any {
	var text string
	switch t := v.(type) {
	case []byte:
		text = string(t)
	case string:
		text = t
	default:
		return v
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case s.driver == config.DriverPostgres && strings.HasPrefix(trimmed, "{"):
		var elems []sql.NullString
		if err := pq.Array(&elems).Scan([]byte(trimmed)); err != nil {
			return text
		}
		tags := make([]string, 0, len(elems))
		for _, e := range elems {
			if e.Valid {
				tags = append(tags, e.String)
			}
		}
		return tags
	case strings.HasPrefix(trimmed, "["):
		var tags []string
		if err := json.Unmarshal([]byte(trimmed), &tags); err != nil {
			return text
		}
		return tags
	}
	return text
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// toNullString converts *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
