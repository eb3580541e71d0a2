package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrNoJSON is returned when model output contains no decodable JSON.
var ErrNoJSON = errors.New("no JSON found in model output")

// ParseStructuredJSON extracts a JSON document from model output. It accepts
// bare JSON, JSON wrapped in a markdown code fence, and JSON surrounded by
// prose. The result is re-encoded compactly.
func ParseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoJSON
	}

	for _, candidate := range []string{content, unfence(content), outermostJSON(content)} {
		if candidate == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("normalize structured output: %w", err)
		}
		return out, nil
	}
	return nil, ErrNoJSON
}

// unfence strips a leading ``` or ```json line and a trailing ``` line.
func unfence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}
	_, body, ok := strings.Cut(content, "\n")
	if !ok {
		return ""
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// outermostJSON returns the span from the first { or [ to the last matching
// closer.
func outermostJSON(content string) string {
	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return ""
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end <= start {
		return ""
	}
	return content[start : end+1]
}

var schemaCache sync.Map // schema text -> *jsonschema.Schema

// ValidateStructuredJSON validates doc against schemaRaw. The schema may be
// bare or wrapped as {"schema": ...} / {"json_schema": {"schema": ...}}.
// An empty schema accepts anything.
func ValidateStructuredJSON(schemaRaw, doc json.RawMessage) error {
	if len(schemaRaw) == 0 {
		return nil
	}
	schema, err := compileSchema(schemaRaw)
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode structured JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("structured output does not match schema: %w", err)
	}
	return nil
}

func compileSchema(schemaRaw json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaRaw)
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	core, err := unwrapSchema(schemaRaw)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(core)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schemaCache.Store(key, schema)
	return schema, nil
}

func unwrapSchema(schemaRaw json.RawMessage) (json.RawMessage, error) {
	var wrapper struct {
		Schema     json.RawMessage `json:"schema"`
		JSONSchema *struct {
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	}
	if err := json.Unmarshal(schemaRaw, &wrapper); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	switch {
	case len(wrapper.Schema) > 0:
		return wrapper.Schema, nil
	case wrapper.JSONSchema != nil && len(wrapper.JSONSchema.Schema) > 0:
		return wrapper.JSONSchema.Schema, nil
	default:
		return schemaRaw, nil
	}
}
