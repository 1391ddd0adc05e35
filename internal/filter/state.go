package filter

import (
	"strings"
	"time"
)

// State is the user's current filter selection. It is a value type:
// every method returns a new State and leaves the receiver untouched.
type State struct {
	// Search is matched case-insensitively against title, summary, raw text
	// and source URL.
	Search string `json:"search,omitempty"`

	// Tags must all be present on a record. Order is display order only.
	Tags []string `json:"tags,omitempty"`

	// StartDate and EndDate are YYYY-MM-DD; empty or unparseable means unset.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// DateLayout is the form a date input submits.
const DateLayout = "2006-01-02"

// Active reports whether any filter field is set.
func (s State) Active() bool {
	return strings.TrimSpace(s.Search) != "" ||
		len(s.Tags) > 0 ||
		s.StartDate != "" ||
		s.EndDate != ""
}

// Clear returns the empty State: search, tags and both dates reset together.
func (s State) Clear() State {
	return State{}
}

// HasTag reports whether tag is selected (exact match, as displayed).
func (s State) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag returns a State with tag removed if selected, else appended.
func (s State) ToggleTag(tag string) State {
	next := s
	next.Tags = make([]string, 0, len(s.Tags)+1)
	found := false
	for _, t := range s.Tags {
		if t == tag {
			found = true
			continue
		}
		next.Tags = append(next.Tags, t)
	}
	if !found {
		next.Tags = append(next.Tags, tag)
	}
	if len(next.Tags) == 0 {
		next.Tags = nil
	}
	return next
}

// ParseDate reads a YYYY-MM-DD value as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// endOfDay returns the last millisecond of t's calendar day in t's zone.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// EmptyMessage picks the table placeholder when nothing is visible.
// An empty store with no filters reads differently from filters that
// exclude everything.
func EmptyMessage(total int, s State) string {
	if total == 0 && !s.Active() {
		return "No captures yet. Configure URLs and run your scraper to see results here."
	}
	return "No captures match your filters. Try adjusting your search or tag selection."
}
