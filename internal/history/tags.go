package history

import (
	"encoding/json"
	"sort"
	"strings"
)

// TagSet is a set of short labels: trimmed, non-empty, unique and sorted.
type TagSet []string

// NewTagSet builds a TagSet from raw labels.
func NewTagSet(tags ...string) TagSet {
	seen := make(map[string]struct{}, len(tags))
	out := make(TagSet, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	i := sort.SearchStrings(s, tag)
	return i < len(s) && s[i] == tag
}

// HasAny reports whether the set contains at least one of tags.
func (s TagSet) HasAny(tags []string) bool {
	for _, t := range tags {
		if s.Has(strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

// MarshalJSON writes an array, never null.
func (s TagSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return marshalJSON([]string(s))
}

// UnmarshalJSON accepts an array or a comma-separated string.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = tagsFrom(v)
	return nil
}

func tagsFrom(v any) TagSet {
	switch t := v.(type) {
	case []any:
		raw := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			raw = append(raw, scalarString(e))
		}
		return NewTagSet(raw...)
	case string:
		return NewTagSet(strings.Split(t, ",")...)
	default:
		return NewTagSet()
	}
}
