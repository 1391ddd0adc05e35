// Package filter narrows a list of capture records by free text, tags and
// a capture date range, and derives the tag facet shown beside the list.
//
// All functions are pure: inputs are never modified and the same inputs
// always produce the same output.
package filter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hpungsan/scrapedash/internal/capture"
)

// predicate is one independent filter group.
type predicate func(capture.Record) bool

// Apply returns the records matching every active group of st, in input
// order. Date bounds are evaluated in loc (nil means time.Local).
// The result is a new slice and is never nil.
func Apply(records []capture.Record, st State, loc *time.Location) []capture.Record {
	preds := compile(st, loc)

	out := make([]capture.Record, 0, len(records))
	for _, rec := range records {
		if matchAll(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

func matchAll(rec capture.Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}
	return true
}

// compile turns st into the list of groups that are actually set.
func compile(st State, loc *time.Location) []predicate {
	if loc == nil {
		loc = time.Local
	}
	var preds []predicate

	if needle := strings.ToLower(strings.TrimSpace(st.Search)); needle != "" {
		preds = append(preds, textMatch(needle))
	}

	wanted := make([]string, 0, len(st.Tags))
	for _, t := range st.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) > 0 {
		preds = append(preds, tagMatch(wanted))
	}

	if start, ok := ParseDate(st.StartDate, loc); ok {
		preds = append(preds, func(rec capture.Record) bool {
			return rec.CapturedTime != nil && !rec.CapturedTime.Before(start)
		})
	}

	if end, ok := ParseDate(st.EndDate, loc); ok {
		end = endOfDay(end)
		preds = append(preds, func(rec capture.Record) bool {
			return rec.CapturedTime != nil && !rec.CapturedTime.After(end)
		})
	}

	return preds
}

// textMatch checks each searchable field on its own so a match can never
// straddle two fields.
func textMatch(needle string) predicate {
	return func(rec capture.Record) bool {
		for _, field := range [...]string{rec.Title, rec.Summary, rec.RawText, rec.SourceURL} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
}

// tagMatch requires every wanted tag (already lower-cased) on the record.
func tagMatch(wanted []string) predicate {
	return func(rec capture.Record) bool {
		have := make(map[string]struct{}, len(rec.Tags))
		for _, t := range rec.Tags {
			have[strings.ToLower(t)] = struct{}{}
		}
		for _, w := range wanted {
			if _, ok := have[w]; !ok {
				return false
			}
		}
		return true
	}
}

// TagUniverse returns every distinct trimmed, non-empty tag across records,
// ordered by the collation rules of lang. Equal-collating tags fall back
// to byte order so the result does not depend on record order.
func TagUniverse(records []capture.Record, lang language.Tag) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, rec := range records {
		for _, t := range rec.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}

	col := collate.New(lang)
	sort.Slice(tags, func(i, j int) bool {
		if c := col.CompareString(tags[i], tags[j]); c != 0 {
			return c < 0
		}
		return tags[i] < tags[j]
	})
	return tags
}
