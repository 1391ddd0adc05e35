package capture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/scrapedash/internal/locale"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func utcLocale() locale.Locale {
	l := locale.Default()
	l.Location = time.UTC
	return l
}

func fixedID(id string) Option {
	return WithIDGenerator(func() string { return id })
}

func TestNormalize_AllNull(t *testing.T) {
	rec := Normalize(RawRow{}, fixedID("row-fixed"))

	require.Equal(t, "row-fixed", rec.ID)
	require.Equal(t, UntitledCapture, rec.Title)
	require.Equal(t, "", rec.Summary)
	require.Equal(t, "", rec.SourceURL)
	require.Equal(t, "", rec.RawText)
	require.Equal(t, UnknownCapturedAt, rec.CapturedAt)
	require.Nil(t, rec.CapturedTime)
	require.NotNil(t, rec.Tags)
	require.Empty(t, rec.Tags)
}

func TestNormalize_AllNullUsesRandomToken(t *testing.T) {
	a := Normalize(RawRow{})
	b := Normalize(RawRow{})

	require.True(t, strings.HasPrefix(a.ID, "row-"), "id = %q", a.ID)
	require.Len(t, a.ID, len("row-")+26)
	require.NotEqual(t, a.ID, b.ID)
}

func TestNormalize_FullRow(t *testing.T) {
	ts := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
	rec := Normalize(RawRow{
		ID:         strPtr("9f1c"),
		Title:      strPtr("Launch notes"),
		Summary:    strPtr("A summary"),
		SourceURL:  strPtr("https://example.com/a"),
		RawText:    strPtr("raw body"),
		CapturedAt: ts,
		Tags:       []string{" news", "launch "},
	}, WithLocale(utcLocale()))

	require.Equal(t, Record{
		ID:           "9f1c",
		Title:        "Launch notes",
		Summary:      "A summary",
		SourceURL:    "https://example.com/a",
		CapturedAt:   "1/10/2024, 11:30:00 PM",
		CapturedTime: &ts,
		Tags:         []string{"news", "launch"},
		RawText:      "raw body",
	}, rec)
}

func TestNormalize_IDFallbackLadder(t *testing.T) {
	ts := time.Date(2024, 3, 5, 8, 15, 30, 250*int(time.Millisecond), time.UTC)

	tests := []struct {
		name string
		row  RawRow
		want string
	}{
		{
			name: "provided id wins",
			row:  RawRow{ID: strPtr("abc"), SourceURL: strPtr("https://x")},
			want: "abc",
		},
		{
			name: "source url next",
			row:  RawRow{SourceURL: strPtr("https://x"), Title: strPtr("T")},
			want: "https://x",
		},
		{
			name: "title after source url",
			row:  RawRow{Title: strPtr("T"), Summary: strPtr("S")},
			want: "T",
		},
		{
			name: "summary after title",
			row:  RawRow{Summary: strPtr("S"), CapturedAt: ts},
			want: "S",
		},
		{
			name: "iso timestamp after summary",
			row:  RawRow{CapturedAt: ts},
			want: "2024-03-05T08:15:30.250Z",
		},
		{
			name: "empty strings are skipped",
			row:  RawRow{ID: strPtr(""), SourceURL: strPtr("  "), Title: strPtr(""), Summary: strPtr("S")},
			want: "S",
		},
		{
			name: "unparseable timestamp falls through to token",
			row:  RawRow{CapturedAt: "not a date"},
			want: "row-fixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(tt.row, fixedID("row-fixed"))
			require.Equal(t, tt.want, rec.ID)
		})
	}
}

func TestNormalize_IDFromTimestampIsISO(t *testing.T) {
	// Null id, source url, title and summary with a valid capture time.
	ts := time.Date(2024, 1, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	rec := Normalize(RawRow{CapturedAt: ts})

	require.Equal(t, ISOString(ts), rec.ID)
	require.Equal(t, "2024-01-11T04:30:00.000Z", rec.ID)
}

func TestNormalize_EmptyTitleIsKept(t *testing.T) {
	rec := Normalize(RawRow{ID: strPtr("1"), Title: strPtr("")})
	require.Equal(t, "", rec.Title)
}

func TestNormalize_CapturedAtStringAndUnknown(t *testing.T) {
	l := utcLocale()

	rec := Normalize(RawRow{ID: strPtr("1"), CapturedAt: "2024-01-10T23:30:00Z"}, WithLocale(l))
	require.Equal(t, "1/10/2024, 11:30:00 PM", rec.CapturedAt)
	require.NotNil(t, rec.CapturedTime)

	rec = Normalize(RawRow{ID: strPtr("1"), CapturedAt: "yesterday-ish"}, WithLocale(l))
	require.Equal(t, UnknownCapturedAt, rec.CapturedAt)
	require.Nil(t, rec.CapturedTime)

	rec = Normalize(RawRow{ID: strPtr("1"), CapturedAt: ""}, WithLocale(l))
	require.Equal(t, UnknownCapturedAt, rec.CapturedAt)
}

func TestNormalize_DoesNotShareTagsWithInput(t *testing.T) {
	src := []string{"a", "b"}
	rec := Normalize(RawRow{Tags: src})
	rec.Tags[0] = "changed"
	require.Equal(t, []string{"a", "b"}, src)
}

func TestNormalizeAll(t *testing.T) {
	require.NotNil(t, NormalizeAll(nil))
	require.Empty(t, NormalizeAll(nil))

	recs := NormalizeAll([]RawRow{
		{ID: strPtr("1")},
		{ID: strPtr("2"), Tags: "x,y"},
	})
	require.Len(t, recs, 2)
	require.Equal(t, "1", recs[0].ID)
	require.Equal(t, []string{"x", "y"}, recs[1].Tags)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		row  RawURLRow
		want URLRecord
	}{
		{
			name: "full row",
			row:  RawURLRow{ID: strPtr("u1"), URL: strPtr(" https://a.example "), Active: boolPtr(false)},
			want: URLRecord{ID: "u1", URL: "https://a.example", Active: false},
		},
		{
			name: "active defaults to true",
			row:  RawURLRow{ID: strPtr("u2"), URL: strPtr("https://b.example")},
			want: URLRecord{ID: "u2", URL: "https://b.example", Active: true},
		},
		{
			name: "id falls back to trimmed url",
			row:  RawURLRow{URL: strPtr("  https://c.example")},
			want: URLRecord{ID: "https://c.example", URL: "https://c.example", Active: true},
		},
		{
			name: "all null",
			row:  RawURLRow{},
			want: URLRecord{ID: "row-fixed", URL: "", Active: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeURL(tt.row, fixedID("row-fixed")))
		})
	}
}

func TestNormalizeURLs(t *testing.T) {
	out := NormalizeURLs(nil)
	require.NotNil(t, out)
	require.Empty(t, out)
}
