package capture

import "time"

// Display defaults for fields the store left empty.
const (
	UntitledCapture   = "Untitled capture"
	UnknownCapturedAt = "Unknown"
)

// Record is one captured-content observation, ready for display.
// Fields correspond to the scraped_content table after defaulting.
type Record struct {
	// ID is the row id, or a fallback derived from other fields
	ID string `json:"id"`

	// Title defaults to "Untitled capture"
	Title string `json:"title"`

	Summary   string `json:"summary"`
	SourceURL string `json:"source_url"`

	// CapturedAt is the locale-formatted capture time, or "Unknown"
	CapturedAt string `json:"captured_at"`

	// CapturedTime is the instant behind CapturedAt; nil when the store
	// had no usable timestamp. Date-range filters compare against it.
	CapturedTime *time.Time `json:"captured_time,omitempty"`

	// Tags are trimmed and non-empty, in source order. Never nil.
	Tags []string `json:"tags"`

	RawText string `json:"raw_text"`
}

// URLRecord is one monitored URL, ready for display.
type URLRecord struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// RawRow is a scraped_content row as read from a loosely-typed store.
// Every field may be nil independently.
type RawRow struct {
	ID        *string
	Title     *string
	Summary   *string
	SourceURL *string
	RawText   *string

	// CapturedAt holds whatever the driver produced: time.Time, *time.Time,
	// string, []byte, an epoch-milliseconds number, or nil.
	CapturedAt any

	// Tags holds a []string / []any sequence, a comma-joined string or
	// []byte, or nil.
	Tags any
}

// RawURLRow is a urls row as read from the store.
type RawURLRow struct {
	ID     *string
	URL    *string
	Active *bool
}
