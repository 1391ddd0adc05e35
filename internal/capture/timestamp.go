package capture

import (
	"database/sql"
	"math"
	"strings"
	"time"
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05-07",
	"2006-01-02 15:04:05 -0700 MST",
	time.RFC1123Z,
	time.RFC1123,
}

// localLayouts have no offset and are read in the caller's zone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// dateOnly is read as UTC midnight, like a bare ISO date.
const dateOnly = "2006-01-02"

// ParseCapturedAt interprets a stored capture timestamp.
// time.Time values are used directly; strings are tried against a fixed
// list of layouts; numbers are epoch milliseconds. Zero values, blank
// strings and anything unparseable report false.
func ParseCapturedAt(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case sql.NullTime:
		return t.Time, t.Valid && !t.Time.IsZero()
	case string:
		return parseTimeString(t, loc)
	case []byte:
		return parseTimeString(string(t), loc)
	case int64:
		return fromMillis(float64(t))
	case int:
		return fromMillis(float64(t))
	case float64:
		return fromMillis(t)
	}
	return time.Time{}, false
}

func parseTimeString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Go's time.String output may carry a monotonic clock suffix.
	if i := strings.Index(s, " m="); i > 0 {
		s = s[:i]
	}

	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	if ts, err := time.Parse(dateOnly, s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// maxMillis bounds epoch values to the ECMAScript Date range.
const maxMillis = 8.64e15

func fromMillis(ms float64) (time.Time, bool) {
	if ms == 0 || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// ISOString renders t as UTC with millisecond precision, e.g.
// 2024-01-10T23:30:00.000Z.
func ISOString(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
