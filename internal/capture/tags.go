package capture

import "strings"

// ParseTags turns a stored tags value into a clean tag list.
// Sequences are taken element by element, strings are split on commas.
// Every element is trimmed and blanks are dropped. Unsupported shapes
// and nil yield an empty, non-nil slice.
func ParseTags(v any) []string {
	var parts []string
	switch t := v.(type) {
	case nil:
	case []string:
		parts = t
	case []*string:
		for _, p := range t {
			if p != nil {
				parts = append(parts, *p)
			}
		}
	case []any:
		for _, e := range t {
			switch s := e.(type) {
			case string:
				parts = append(parts, s)
			case []byte:
				parts = append(parts, string(s))
			}
		}
	case string:
		parts = strings.Split(t, ",")
	case []byte:
		parts = strings.Split(string(t), ",")
	}

	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
