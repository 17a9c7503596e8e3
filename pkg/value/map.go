package value

import "iter"

// Entry is a single key-value pair used to construct MAP values in a
// defined order.
type Entry struct {
	Key   string
	Value Value
}

// Map is an insertion-ordered mapping of field names to values. It is
// immutable once constructed.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap builds a Map from entries in order. A repeated key keeps its
// original position and takes the last value.
func NewMap(entries ...Entry) *Map {
	m := &Map{vals: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, seen := m.vals[e.Key]; !seen {
			m.keys = append(m.keys, e.Key)
		}
		m.vals[e.Key] = e.Value
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value stored under key, if any.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns a copy of the key sequence in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Iter iterates entries in insertion order.
func (m *Map) Iter() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Entries returns a copy of the entry sequence in insertion order.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, len(m.keys))
	for i, k := range m.keys {
		entries[i] = Entry{Key: k, Value: m.vals[k]}
	}
	return entries
}

// equal ignores insertion order: same key set, equal values.
func (m *Map) equal(o *Map) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for k, v := range m.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
