package filter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hpungsan/scrapedash/internal/capture"
)

var utc = time.UTC

func at(s string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, utc)
	if err != nil {
		panic(err)
	}
	return &t
}

func rec(id string, tags []string, captured *time.Time) capture.Record {
	if tags == nil {
		tags = []string{}
	}
	return capture.Record{ID: id, Title: "title " + id, Tags: tags, CapturedTime: captured}
}

func ids(records []capture.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sampleRecords() []capture.Record {
	return []capture.Record{
		{ID: "1", Title: "Go release notes", Summary: "generics", SourceURL: "https://go.dev/blog", Tags: []string{"Go", "release"}, CapturedTime: at("2024-01-10T08:00:00")},
		{ID: "2", Title: "Rust weekly", RawText: "borrow checker deep dive", Tags: []string{"rust"}, CapturedTime: at("2024-01-12T23:59:59")},
		{ID: "3", Title: "Untitled capture", SourceURL: "https://example.com/pricing", Tags: []string{"pricing", "go"}},
		{ID: "4", Title: "Database tips", Summary: "Postgres NULLS LAST", Tags: []string{}, CapturedTime: at("2024-01-09T23:59:59")},
	}
}

func TestApply_EmptyStateReturnsAllInOrder(t *testing.T) {
	records := sampleRecords()

	got := Apply(records, State{}, utc)

	require.Equal(t, records, got)
	got[0].Title = "mutated"
	require.Equal(t, "Go release notes", records[0].Title, "result must not alias input")
}

func TestApply_NilRecords(t *testing.T) {
	got := Apply(nil, State{Search: "x"}, utc)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestApply_TextMatch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "title case-insensitive", search: "RUST", want: []string{"2"}},
		{name: "summary", search: "generics", want: []string{"1"}},
		{name: "raw text", search: "borrow checker", want: []string{"2"}},
		{name: "source url", search: "example.com/pri", want: []string{"3"}},
		{name: "trimmed", search: "   nulls last  ", want: []string{"4"}},
		{name: "whitespace only is unset", search: "   ", want: []string{"1", "2", "3", "4"}},
		{name: "no match", search: "haskell", want: []string{}},
		{name: "no cross-field match", search: "notesgenerics", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleRecords(), State{Search: tt.search}, utc)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_TextMatchDoesNotStraddleFields(t *testing.T) {
	records := []capture.Record{{ID: "x", Title: "abc", Summary: "def", Tags: []string{}}}

	require.Empty(t, Apply(records, State{Search: "cd"}, utc))
	require.Len(t, Apply(records, State{Search: "bc"}, utc), 1)
}

func TestApply_TagIntersection(t *testing.T) {
	records := []capture.Record{
		rec("only-x", []string{"X"}, nil),
		rec("x-and-y", []string{"x", "Y"}, nil),
		rec("none", nil, nil),
	}

	got := Apply(records, State{Tags: []string{"x", "y"}}, utc)
	require.Equal(t, []string{"x-and-y"}, ids(got))

	got = Apply(records, State{Tags: []string{"x"}}, utc)
	require.Equal(t, []string{"only-x", "x-and-y"}, ids(got))
}

func TestApply_TagMatchIsCaseInsensitive(t *testing.T) {
	got := Apply(sampleRecords(), State{Tags: []string{"GO"}}, utc)
	require.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApply_StartDate(t *testing.T) {
	records := []capture.Record{
		rec("late-on-start-day", nil, at("2024-01-10T23:30:00")),
		rec("day-before", nil, at("2024-01-09T23:59:59")),
		rec("midnight", nil, at("2024-01-10T00:00:00")),
		rec("unknown", nil, nil),
	}

	got := Apply(records, State{StartDate: "2024-01-10"}, utc)
	require.Equal(t, []string{"late-on-start-day", "midnight"}, ids(got))
}

func TestApply_EndDateCoversWholeDay(t *testing.T) {
	records := []capture.Record{
		rec("end-of-day", nil, at("2024-01-12T23:59:59")),
		rec("next-day", nil, at("2024-01-13T00:00:00")),
		rec("earlier", nil, at("2024-01-01T12:00:00")),
		rec("unknown", nil, nil),
	}

	got := Apply(records, State{EndDate: "2024-01-12"}, utc)
	require.Equal(t, []string{"end-of-day", "earlier"}, ids(got))
}

func TestApply_EndDateMillisecondBound(t *testing.T) {
	last := time.Date(2024, 1, 12, 23, 59, 59, int(999*time.Millisecond), utc)
	after := last.Add(time.Millisecond)
	records := []capture.Record{rec("last", nil, &last), rec("after", nil, &after)}

	require.Equal(t, []string{"last"}, ids(Apply(records, State{EndDate: "2024-01-12"}, utc)))
}

func TestApply_DatesUseLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-01-09T20:00Z is 2024-01-10 05:00 in Tokyo.
	ts := time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)
	records := []capture.Record{rec("r", nil, &ts)}

	require.Len(t, Apply(records, State{StartDate: "2024-01-10"}, tokyo), 1)
	require.Empty(t, Apply(records, State{StartDate: "2024-01-10"}, utc))
}

func TestApply_InvertedRangeIsEmpty(t *testing.T) {
	got := Apply(sampleRecords(), State{StartDate: "2024-01-12", EndDate: "2024-01-10"}, utc)
	require.Empty(t, got)
}

func TestApply_MalformedDatesAreUnset(t *testing.T) {
	got := Apply(sampleRecords(), State{StartDate: "01/10/2024", EndDate: "soon"}, utc)
	require.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestApply_CombinedGroups(t *testing.T) {
	st := State{
		Search:    "go",
		Tags:      []string{"release"},
		StartDate: "2024-01-10",
		EndDate:   "2024-01-10",
	}
	require.Equal(t, []string{"1"}, ids(Apply(sampleRecords(), st, utc)))
}

func TestApply_DoesNotMutateState(t *testing.T) {
	st := State{Search: " Go ", Tags: []string{"GO", "Release"}}
	before := State{Search: " Go ", Tags: []string{"GO", "Release"}}

	_ = Apply(sampleRecords(), st, utc)
	require.Equal(t, before, st)
}

func TestApply_ClearRestoresUnfilteredView(t *testing.T) {
	records := sampleRecords()
	st := State{Search: "rust", Tags: []string{"rust"}, StartDate: "2024-01-01", EndDate: "2024-02-01"}

	require.Len(t, Apply(records, st, utc), 1)
	require.Equal(t, Apply(records, State{}, utc), Apply(records, st.Clear(), utc))
}

func TestTagUniverse(t *testing.T) {
	records := []capture.Record{
		rec("a", []string{"beta", " Alpha", "gamma"}, nil),
		rec("b", []string{"alpha", "beta", ""}, nil),
		rec("c", []string{"  ", "Zeta", "éclair"}, nil),
	}

	got := TagUniverse(records, language.AmericanEnglish)
	require.Equal(t, []string{"alpha", "Alpha", "beta", "éclair", "gamma", "Zeta"}, got)
}

func TestTagUniverse_PermutationInvariant(t *testing.T) {
	records := []capture.Record{
		rec("1", []string{"news", "Go"}, nil),
		rec("2", []string{"go", "ai"}, nil),
		rec("3", []string{"AI", "news", "db"}, nil),
		rec("4", []string{"Ünicode", "zebra"}, nil),
	}
	want := TagUniverse(records, language.AmericanEnglish)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]capture.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, TagUniverse(shuffled, language.AmericanEnglish))
	}

	seen := map[string]bool{}
	for _, tag := range want {
		require.NotEmpty(t, tag)
		require.False(t, seen[tag], "duplicate %q", tag)
		seen[tag] = true
	}
}

func TestTagUniverse_Empty(t *testing.T) {
	got := TagUniverse(nil, language.English)
	require.NotNil(t, got)
	require.Empty(t, got)
}
