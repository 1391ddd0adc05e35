package capture

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/scrapedash/internal/locale"
)

// Option configures Normalize.
type Option func(*settings)

type settings struct {
	locale locale.Locale
	newID  func() string
}

// WithLocale renders capture times with l's layout and time zone.
func WithLocale(l locale.Locale) Option {
	return func(s *settings) { s.locale = l }
}

// WithIDGenerator replaces the random token used when a row has nothing
// to derive an id from.
func WithIDGenerator(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{locale: locale.Default(), newID: RandomID}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// RandomID returns an opaque "row-" token backed by a ULID.
func RandomID() string {
	return "row-" + strings.ToLower(ulid.Make().String())
}

// Normalize converts a raw row into a display Record.
// It is total: any combination of nil or malformed fields yields a valid
// Record with defaults applied.
func Normalize(raw RawRow, opts ...Option) Record {
	return normalize(raw, newSettings(opts))
}

// NormalizeAll normalizes rows in order. The result is never nil.
func NormalizeAll(rows []RawRow, opts ...Option) []Record {
	s := newSettings(opts)
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalize(row, s))
	}
	return out
}

func normalize(raw RawRow, s settings) Record {
	rec := Record{
		Title:      valueOr(raw.Title, UntitledCapture),
		Summary:    valueOr(raw.Summary, ""),
		SourceURL:  valueOr(raw.SourceURL, ""),
		RawText:    valueOr(raw.RawText, ""),
		CapturedAt: UnknownCapturedAt,
		Tags:       ParseTags(raw.Tags),
	}

	iso := ""
	if ts, ok := ParseCapturedAt(raw.CapturedAt, s.locale.Zone()); ok {
		rec.CapturedTime = &ts
		rec.CapturedAt = s.locale.Format(ts)
		iso = ISOString(ts)
	}

	rec.ID = firstNonEmpty(raw.ID, raw.SourceURL, raw.Title, raw.Summary, &iso)
	if rec.ID == "" {
		rec.ID = s.newID()
	}

	return rec
}

// NormalizeURL converts a raw urls row into a URLRecord.
// Active defaults to true; the id falls back to the URL, then a random token.
func NormalizeURL(raw RawURLRow, opts ...Option) URLRecord {
	s := newSettings(opts)

	rec := URLRecord{
		URL:    strings.TrimSpace(valueOr(raw.URL, "")),
		Active: true,
	}
	if raw.Active != nil {
		rec.Active = *raw.Active
	}

	rec.ID = firstNonEmpty(raw.ID, &rec.URL)
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	return rec
}

// NormalizeURLs normalizes urls rows in order. The result is never nil.
func NormalizeURLs(rows []RawURLRow, opts ...Option) []URLRecord {
	out := make([]URLRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeURL(row, opts...))
	}
	return out
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// firstNonEmpty returns the first candidate that is non-nil and not blank.
func firstNonEmpty(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && strings.TrimSpace(*c) != "" {
			return *c
		}
	}
	return ""
}
