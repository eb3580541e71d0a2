package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the timestamp layout used in the JSON file format.
const TimeFormat = "2006-01-02T15:04:05Z"

// Item is one canonical history record. Items are never mutated after they
// are written; tag edits replace the item.
type Item struct {
	TS      time.Time
	Kind    Kind
	Payload map[string]any
	Output  Output
	Tags    TagSet
}

type wireItem struct {
	TS      string         `json:"ts"`
	Kind    Kind           `json:"kind"`
	Payload map[string]any `json:"payload"`
	Output  Output         `json:"output"`
	Tags    TagSet         `json:"tags"`
}

// MarshalJSON writes the ts/kind/payload/output/tags shape.
func (i Item) MarshalJSON() ([]byte, error) {
	payload := i.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return marshalJSON(wireItem{
		TS:      i.TS.UTC().Format(TimeFormat),
		Kind:    i.Kind,
		Payload: payload,
		Output:  i.Output,
		Tags:    i.Tags,
	})
}

// UnmarshalJSON accepts any JSON value and normalizes it.
func (i *Item) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = Normalize(v)
	return nil
}

// Normalize converts any decoded JSON value into an Item. It never fails:
// missing fields get defaults, legacy field names are accepted and
// non-object values are wrapped.
func Normalize(v any) Item {
	return normalizeAt(v, time.Now())
}

// NormalizeJSON decodes data and normalizes it. Only invalid JSON is an
// error.
func NormalizeJSON(data []byte) (Item, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Item{}, fmt.Errorf("decode history item: %w", err)
	}
	return Normalize(v), nil
}

func normalizeAt(v any, now time.Time) Item {
	item := Item{
		TS:      stamp(now),
		Kind:    KindUnknown,
		Payload: map[string]any{},
		Output:  Text(""),
		Tags:    NewTagSet(),
	}

	switch t := v.(type) {
	case map[string]any:
		if k, ok := first(t, "kind", "type"); ok {
			if s, isStr := k.(string); isStr {
				item.Kind = ParseKind(s)
			}
		}
		if p, ok := first(t, "payload", "input", "data"); ok {
			item.Payload = payloadFrom(p)
		}
		if o, ok := first(t, "output", "result"); ok {
			item.Output = outputFrom(o)
		}
		if tags, ok := t["tags"]; ok {
			item.Tags = tagsFrom(tags)
		}
		if ts, ok := first(t, "ts", "timestamp"); ok {
			if parsed, ok := parseTimestamp(ts); ok {
				item.TS = parsed
			}
		}
	case string:
		item.Output = Text(t)
	case []any:
		item.Output = outputFrom(t)
	case nil:
	default:
		item.Payload = map[string]any{"value": t}
	}
	return item
}

// first returns the first present, non-null value among keys.
func first(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func payloadFrom(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return stamp(parsed), true
			}
		}
	case float64:
		if t <= 0 {
			return time.Time{}, false
		}
		if t > 1e12 { // milliseconds
			return stamp(time.UnixMilli(int64(t))), true
		}
		return stamp(time.Unix(int64(t), 0)), true
	}
	return time.Time{}, false
}

// stamp reduces t to the precision stored in the file format.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// canonical round-trips v through JSON so stored payloads contain only
// JSON types.
func canonical(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func (i Item) clone() Item {
	out := i
	out.Payload = cloneValue(i.Payload).(map[string]any)
	out.Tags = append(TagSet{}, i.Tags...)
	return out
}
