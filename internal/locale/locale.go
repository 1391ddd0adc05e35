// Package locale resolves the display locale for a request: which layout
// capture timestamps are rendered with, which collation orders the tag
// universe, and which time zone date-range filters are evaluated in.
package locale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Locale bundles the presentation settings derived from a language tag.
type Locale struct {
	Tag      language.Tag
	Location *time.Location
	Layout   string
}

type entry struct {
	tag    language.Tag
	layout string
}

// supported is ordered by preference; the first entry is the matcher default.
var supported = []entry{
	{language.AmericanEnglish, "1/2/2006, 3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006, 15:04:05"},
	{language.German, "2.1.2006, 15:04:05"},
	{language.French, "02/01/2006 15:04:05"},
	{language.Spanish, "2/1/2006, 15:04:05"},
	{language.Japanese, "2006/1/2 15:04:05"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, e := range supported {
		tags[i] = e.tag
	}
	return language.NewMatcher(tags)
}()

// Default returns the American English locale in the process time zone.
func Default() Locale {
	return Locale{
		Tag:      supported[0].tag,
		Location: time.Local,
		Layout:   supported[0].layout,
	}
}

// Supported returns the language tags a display layout exists for.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supported))
	for i, e := range supported {
		tags[i] = e.tag
	}
	return tags
}

// New builds a Locale from a BCP 47 tag and an IANA zone name.
// Unknown tags match the closest supported language; "" or "Local" zone
// means the process time zone.
func New(tag, zone string) (Locale, error) {
	loc, err := LoadLocation(zone)
	if err != nil {
		return Default(), err
	}

	l := Match(parseTags(tag)...)
	l.Location = loc
	return l, nil
}

// LoadLocation resolves an IANA zone name. "" and "Local" mean time.Local.
func LoadLocation(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" || strings.EqualFold(zone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return loc, nil
}

// Match picks the best supported locale for the preferred tags.
// The returned Locale uses time.Local; callers override Location as needed.
func Match(preferred ...language.Tag) Locale {
	if len(preferred) == 0 {
		return Default()
	}
	_, idx, _ := matcher.Match(preferred...)
	e := supported[idx]
	return Locale{Tag: e.tag, Location: time.Local, Layout: e.layout}
}

// FromAcceptLanguage resolves an Accept-Language header against fallback.
// An empty or malformed header returns fallback unchanged; otherwise the
// fallback's time zone is kept and only language-dependent fields change.
func FromAcceptLanguage(header string, fallback Locale) Locale {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	l := Match(tags...)
	l.Location = fallback.Location
	return l
}

// Format renders t in the locale's layout and time zone.
func (l Locale) Format(t time.Time) string {
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	layout := l.Layout
	if layout == "" {
		layout = supported[0].layout
	}
	return t.In(loc).Format(layout)
}

// Zone returns the locale's time zone, defaulting to time.Local.
func (l Locale) Zone() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

func parseTags(s string) []language.Tag {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return nil
	}
	return []language.Tag{tag}
}
