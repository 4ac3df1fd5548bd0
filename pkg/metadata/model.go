// Package metadata stores serialized entities as named mappings on a model.
// A Model is never changed in place: Put returns a new Model and the caller
// keeps using the copy it got back.
package metadata

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Mapping is the serialized form of an entity.
type Mapping = map[string]any

var (
	// ErrNotFound is returned when a key has no stored mapping.
	ErrNotFound = errors.New("metadata: key not found")
	// ErrMissingID is returned when a mapping lacks its "id" key.
	ErrMissingID = errors.New("metadata: missing id")
	// ErrMalformed is returned when a mapping cannot be decoded.
	ErrMalformed = errors.New("metadata: malformed mapping")
)

// Model is an immutable set of named mappings tagged with a revision.
type Model struct {
	revision string
	entries  map[string]Mapping
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{revision: uuid.NewString(), entries: map[string]Mapping{}}
}

// Revision identifies this copy of the model.
func (m *Model) Revision() string { return m.revision }

// Keys returns the stored keys in sorted order.
func (m *Model) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a copy of the mapping under key.
func (m *Model) Get(key string) (Mapping, bool) {
	v, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return Clone(v), true
}

// Put returns a new model with key fully replaced by v. The receiver is
// left untouched.
func (m *Model) Put(key string, v Mapping) *Model {
	next := &Model{
		revision: uuid.NewString(),
		entries:  make(map[string]Mapping, len(m.entries)+1),
	}
	for k, e := range m.entries {
		next.entries[k] = e
	}
	next.entries[key] = Clone(v)
	return next
}

// Clone deep-copies a mapping, including nested mappings and lists.
func Clone(v Mapping) Mapping {
	if v == nil {
		return nil
	}
	out := make(Mapping, len(v))
	for k, e := range v {
		out[k] = cloneValue(e)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	}
	return v
}

// ID reads the integer "id" key of a mapping. Values decoded from JSON
// arrive as float64 and are accepted when integral.
func ID(v Mapping) (int, error) {
	raw, ok := v["id"]
	if !ok {
		return 0, ErrMissingID
	}
	n, ok := Int(raw)
	if !ok {
		return 0, fmt.Errorf("%w: id is %T", ErrMalformed, raw)
	}
	return n, nil
}

// Int converts a decoded scalar to int.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Float converts a decoded scalar to float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Fields reads typed values out of a mapping and remembers the first
// failure, so decoders can read every key and check once.
type Fields struct {
	m   Mapping
	err error
}

// Read starts decoding m.
func Read(m Mapping) *Fields { return &Fields{m: m} }

// Err returns the first decoding failure.
func (f *Fields) Err() error { return f.err }

func (f *Fields) fail(key, want string) {
	if f.err != nil {
		return
	}
	if _, ok := f.m[key]; !ok {
		f.err = fmt.Errorf("%w: missing %q", ErrMalformed, key)
		return
	}
	f.err = fmt.Errorf("%w: %q is %T, want %s", ErrMalformed, key, f.m[key], want)
}

func (f *Fields) Float(key string) float64 {
	v, ok := Float(f.m[key])
	if !ok {
		f.fail(key, "number")
	}
	return v
}

func (f *Fields) Int(key string) int {
	v, ok := Int(f.m[key])
	if !ok {
		f.fail(key, "integer")
	}
	return v
}

func (f *Fields) String(key string) string {
	v, ok := f.m[key].(string)
	if !ok {
		f.fail(key, "string")
	}
	return v
}

func (f *Fields) Bool(key string) bool {
	v, ok := f.m[key].(bool)
	if !ok {
		f.fail(key, "bool")
	}
	return v
}

// Map reads a nested mapping. A nil value is returned as nil without error.
func (f *Fields) Map(key string) Mapping {
	raw, ok := f.m[key]
	if !ok {
		f.fail(key, "mapping")
		return nil
	}
	if raw == nil {
		return nil
	}
	v, ok := raw.(map[string]any)
	if !ok {
		f.fail(key, "mapping")
	}
	return v
}

// List reads a list of nested mappings.
func (f *Fields) List(key string) []Mapping {
	raw, ok := f.m[key]
	if !ok {
		f.fail(key, "list")
		return nil
	}
	switch t := raw.(type) {
	case nil:
		return nil
	case []map[string]any:
		return t
	case []any:
		out := make([]Mapping, 0, len(t))
		for _, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				f.fail(key, "list of mappings")
				return nil
			}
			out = append(out, m)
		}
		return out
	}
	f.fail(key, "list")
	return nil
}
