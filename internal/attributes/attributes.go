// Package attributes models formatting attached to runs of text and to lines.
//
// A Map is an insertion-ordered set of key/value pairs. Values are strings, bools, or numbers (numbers are stored as float64 so that decoded and constructed maps
// compare equal). A nil value is only meaningful inside a retain operation, where it removes the key from the retained text.
//
// The reserved key LineTypeKey holds a line's block type. It is stored on the line terminator ('\n'), never on a text run. Absence means LineTypeNormal.
package attributes

import (
	"fmt"
	"strings"
)

// LineTypeKey is the reserved key holding a line's block type.
const LineTypeKey = "$type"

// LineType is a block type such as "heading-1" or "ul".
type LineType string

// LineTypeNormal is the line type of a line whose terminator has no LineTypeKey.
const LineTypeNormal LineType = "normal"

type entry struct {
	key   string
	value any
}

// Map is an ordered attribute map. The zero value is an empty map. Maps are values: every method that changes a Map returns a copy.
type Map struct {
	entries []entry
}

// Pair is a key/value pair used to build a Map.
type Pair struct {
	Key   string
	Value any
}

// New returns a Map from pairs, in order. A repeated key keeps its first position and its last value. It panics if a value is not a string, bool, number, or nil.
func New(pairs ...Pair) Map {
	var m Map
	for _, p := range pairs {
		m = m.With(p.Key, p.Value)
	}
	return m
}

// ForLineType returns the attributes a line terminator carries for lt: empty for LineTypeNormal (or ""), {LineTypeKey: lt} otherwise.
func ForLineType(lt LineType) Map {
	if lt == LineTypeNormal || lt == "" {
		return Map{}
	}
	return New(Pair{Key: LineTypeKey, Value: string(lt)})
}

// Len returns the number of keys.
func (m Map) Len() int { return len(m.entries) }

// IsEmpty reports whether m has no keys.
func (m Map) IsEmpty() bool { return len(m.entries) == 0 }

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Pairs returns the entries in order.
func (m Map) Pairs() []Pair {
	pairs := make([]Pair, len(m.entries))
	for i, e := range m.entries {
		pairs[i] = Pair{Key: e.key, Value: e.value}
	}
	return pairs
}

func (m Map) index(key string) int {
	for i, e := range m.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Get returns the value for key.
func (m Map) Get(key string) (any, bool) {
	i := m.index(key)
	if i < 0 {
		return nil, false
	}
	return m.entries[i].value, true
}

// Has reports whether key is present (even with a nil value).
func (m Map) Has(key string) bool {
	return m.index(key) >= 0
}

// With returns a copy of m with key set to v. An existing key keeps its position.
func (m Map) With(key string, v any) Map {
	nv, err := normalize(v)
	if err != nil {
		panic(fmt.Errorf("attributes: key %q: %w", key, err))
	}
	out := m.clone()
	if i := out.index(key); i >= 0 {
		out.entries[i].value = nv
		return out
	}
	out.entries = append(out.entries, entry{key: key, value: nv})
	return out
}

// Without returns a copy of m without key.
func (m Map) Without(key string) Map {
	i := m.index(key)
	if i < 0 {
		return m
	}
	out := Map{entries: make([]entry, 0, len(m.entries)-1)}
	out.entries = append(out.entries, m.entries[:i]...)
	out.entries = append(out.entries, m.entries[i+1:]...)
	return out
}

// LineType returns the line type stored under LineTypeKey, or LineTypeNormal.
func (m Map) LineType() LineType {
	v, ok := m.Get(LineTypeKey)
	if !ok {
		return LineTypeNormal
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return LineTypeNormal
	}
	return LineType(s)
}

// TextAttributes returns m without the reserved line type key.
func (m Map) TextAttributes() Map {
	return m.Without(LineTypeKey)
}

// Equal reports whether m and other hold the same keys and values. Order is ignored.
func (m Map) Equal(other Map) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for _, e := range m.entries {
		v, ok := other.Get(e.key)
		if !ok || v != e.value {
			return false
		}
	}
	return true
}

func (m Map) clone() Map {
	if m.entries == nil {
		return Map{}
	}
	out := Map{entries: make([]entry, len(m.entries), len(m.entries)+1)}
	copy(out.entries, m.entries)
	return out
}

func (m Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", e.key, e.value)
	}
	b.WriteByte('}')
	return b.String()
}

// MergeRight returns the union of a and b; b's value wins when both have a key. Keys keep a's order, then b's new keys follow.
func MergeRight(a, b Map) Map {
	out := a.clone()
	for _, e := range b.entries {
		out = out.With(e.key, e.value)
	}
	return out
}

// Compose applies b over a as a retain would: b's values override a's, and a nil value in b removes the key. If keepNil is true, nil values are kept (used when composing
// two retains, so that the removal still applies to the underlying text).
func Compose(a, b Map, keepNil bool) Map {
	out := MergeRight(a, b)
	if keepNil {
		return out
	}
	for _, e := range b.entries {
		if e.value == nil {
			out = out.Without(e.key)
		}
	}
	return out
}

// Intersect returns the keys of a whose values are equal in b, in a's order.
func Intersect(a, b Map) Map {
	var out Map
	for _, e := range a.entries {
		if v, ok := b.Get(e.key); ok && v == e.value {
			out.entries = append(out.entries, e)
		}
	}
	return out
}

func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported attribute value type %T", v)
	}
}
