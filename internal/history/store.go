package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCap is the number of items a Store keeps.
const DefaultCap = 20

// ErrIndexOutOfRange is returned by SetTags for a missing index.
var ErrIndexOutOfRange = errors.New("history index out of range")

// ImportError reports an import that was rejected as a whole. The store
// is unchanged when it is returned.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return "import history: " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

// Store is a capped newest-first list of items. Index 0 is the newest.
type Store struct {
	mu    sync.RWMutex
	items []Item
	cap   int
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for new items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store holding at most capacity items.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	s := &Store{cap: capacity, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cap returns the store capacity.
func (s *Store) Cap() int { return s.cap }

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Append records a new item at the head and evicts from the tail past the
// cap. payload is converted to a JSON object; a non-object value is
// stored under "value". output may be a string, a list or an Output.
func (s *Store) Append(kind Kind, payload any, output any, tags ...string) Item {
	item := Item{
		Kind:    ParseKind(string(kind)),
		Payload: map[string]any{},
		Output:  Text(""),
		Tags:    NewTagSet(tags...),
	}
	if p, err := canonical(payload); err == nil && p != nil {
		item.Payload = payloadFrom(p)
	} else if err != nil {
		item.Payload = map[string]any{"value": fmt.Sprint(payload)}
	}
	switch o := output.(type) {
	case Output:
		item.Output = o
	case string:
		item.Output = Text(o)
	case []string:
		item.Output = List(o...)
	default:
		if v, err := canonical(o); err == nil {
			item.Output = outputFrom(v)
		} else {
			item.Output = Text(fmt.Sprint(o))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	item.TS = stamp(s.now())
	s.items = append([]Item{item}, s.items...)
	if len(s.items) > s.cap {
		s.items = s.items[:s.cap]
	}
	return item.clone()
}

// Items returns a copy of every item, newest first.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Query selects items. Zero fields do not restrict.
type Query struct {
	// Kinds is an allow-list.
	Kinds []Kind
	// Tags matches items carrying at least one of the tags.
	Tags []string
	// Search is a case-insensitive substring of the payload and output JSON.
	Search string
	Limit  int
}

// Filter returns matching items, newest first.
func (s *Store) Filter(q Query) []Item {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	var tags []string
	for _, t := range q.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if len(q.Kinds) > 0 && !containsKind(q.Kinds, it.Kind) {
			continue
		}
		if len(tags) > 0 && !it.Tags.HasAny(tags) {
			continue
		}
		if needle != "" && !strings.Contains(searchText(it), needle) {
			continue
		}
		out = append(out, it.clone())
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func searchText(it Item) string {
	out, _ := it.Output.MarshalJSON()
	return strings.ToLower(compactJSON(it.Payload) + "\n" + string(out))
}

// Export returns the items as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	items := s.Items()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return buf.Bytes(), nil
}

// Import replaces the store contents with the items in data, a JSON
// array in newest-first order. Every element is normalized, then the cap
// is applied. Malformed JSON or a non-array leaves the store unchanged
// and returns an *ImportError. It returns the number of items kept.
func (s *Store) Import(data []byte) (int, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, &ImportError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	raw, ok := v.([]any)
	if !ok {
		return 0, &ImportError{Err: errors.New("expected a JSON array of items")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	items := make([]Item, 0, len(raw))
	for _, e := range raw {
		items = append(items, normalizeAt(e, now))
	}
	if len(items) > s.cap {
		items = items[:s.cap]
	}
	s.items = items
	return len(items), nil
}

// Clear removes every item.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// SetTags replaces the tags of the item at index.
func (s *Store) SetTags(index int, tags []string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return Item{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	updated := s.items[index].clone()
	updated.Tags = NewTagSet(tags...)
	s.items[index] = updated
	return updated.clone(), nil
}

// KnownTags returns every tag in use, sorted.
func (s *Store) KnownTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, it := range s.items {
		for _, t := range it.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Latest returns the newest item of any of kinds, or of any kind when
// none are given.
func (s *Store) Latest(kinds ...Kind) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if len(kinds) == 0 || containsKind(kinds, it.Kind) {
			return it.clone(), true
		}
	}
	return Item{}, false
}

// ExportFilename names an export file taken at now.
func ExportFilename(now time.Time) string {
	return "presence_history_" + now.UTC().Format("20060102_150405") + ".json"
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}
