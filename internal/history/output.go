package history

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Output is the result recorded on an item: one string, or a non-empty
// list of strings.
type Output struct {
	text string
	list []string
}

// Text returns a single-string output.
func Text(s string) Output {
	return Output{text: s}
}

// List returns a list output. An empty list collapses to Text("").
func List(items ...string) Output {
	if len(items) == 0 {
		return Output{}
	}
	return Output{list: append([]string(nil), items...)}
}

// IsList reports whether the output is a list.
func (o Output) IsList() bool {
	return o.list != nil
}

// Strings returns the output as a list; a single string is a one-element
// list.
func (o Output) Strings() []string {
	if o.list != nil {
		return append([]string(nil), o.list...)
	}
	return []string{o.text}
}

// String returns the text, or list entries separated by blank lines.
func (o Output) String() string {
	if o.list != nil {
		return strings.Join(o.list, "\n\n")
	}
	return o.text
}

// Equal reports whether two outputs hold the same value and shape.
func (o Output) Equal(other Output) bool {
	if o.IsList() != other.IsList() || o.text != other.text || len(o.list) != len(other.list) {
		return false
	}
	for i := range o.list {
		if o.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes a string or an array of strings.
func (o Output) MarshalJSON() ([]byte, error) {
	if o.list != nil {
		return marshalJSON(o.list)
	}
	return marshalJSON(o.text)
}

// UnmarshalJSON accepts any JSON value.
func (o *Output) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = outputFrom(v)
	return nil
}

// outputFrom converts a decoded JSON value. Objects with a "text" string
// use it, other objects become compact JSON, null becomes "".
func outputFrom(v any) Output {
	switch t := v.(type) {
	case nil:
		return Text("")
	case string:
		return Text(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			items = append(items, elementString(e))
		}
		return List(items...)
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			return Text(text)
		}
		return Text(compactJSON(t))
	default:
		return Text(scalarString(t))
	}
}

func elementString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			return text
		}
		return compactJSON(t)
	case []any:
		return compactJSON(t)
	default:
		return scalarString(t)
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return compactJSON(t)
	}
}

func compactJSON(v any) string {
	data, err := marshalJSON(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
