package capture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{name: "nil", input: nil, want: []string{}},
		{name: "comma string", input: "a, b ,  c", want: []string{"a", "b", "c"}},
		{name: "sequence", input: []string{"a", " b", "c  "}, want: []string{"a", "b", "c"}},
		{name: "string and sequence agree", input: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "blank entries dropped from string", input: "a,, ,b,", want: []string{"a", "b"}},
		{name: "blank entries dropped from sequence", input: []string{"", "  ", "x"}, want: []string{"x"}},
		{name: "empty string", input: "", want: []string{}},
		{name: "whitespace string", input: "   ", want: []string{}},
		{name: "bytes", input: []byte("go,sql"), want: []string{"go", "sql"}},
		{name: "any sequence keeps strings only", input: []any{"a", 3, nil, " b "}, want: []string{"a", "b"}},
		{name: "nullable elements", input: []*string{strPtr("a"), nil, strPtr(" ")}, want: []string{"a"}},
		{name: "unsupported type", input: 42, want: []string{}},
		{name: "order preserved", input: "zeta,alpha,Mid", want: []string{"zeta", "alpha", "Mid"}},
		{name: "duplicates preserved", input: "a,a", want: []string{"a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.input)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_NullTagsIsEmpty(t *testing.T) {
	rec := Normalize(RawRow{ID: strPtr("1"), Tags: nil})
	require.Equal(t, []string{}, rec.Tags)
}
