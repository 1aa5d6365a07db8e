// Package values implements the ordered, case-insensitive parameter/header
// map shared by URIs and header fields (spec §3.2).
package values

import (
	"sort"
	"strings"

	"github.com/voicecore/sipsrtp/internal/escape"
	"github.com/voicecore/sipsrtp/internal/qtoken"
)

type entry struct {
	key      string // original-case key, for rendering
	value    string
	hasValue bool
}

// Map is a preserved-insertion-order mapping from case-insensitive key to
// an optional value. Equality of two Maps does not depend on order.
type Map struct {
	entries []entry
	index   map[string]int // lower-cased key -> index in entries
}

// New returns an empty Map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

func lc(k string) string { return strings.ToLower(k) }

// Set inserts or replaces the value for key, preserving its original
// position if it already existed, or appending a new entry otherwise.
func (m *Map) Set(key, value string) *Map {
	k := lc(key)
	if i, ok := m.index[k]; ok {
		m.entries[i] = entry{key: key, value: value, hasValue: true}
		return m
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value, hasValue: true})
	return m
}

// SetFlag inserts or replaces key with no value (serializes without "=").
func (m *Map) SetFlag(key string) *Map {
	k := lc(key)
	if i, ok := m.index[k]; ok {
		m.entries[i] = entry{key: key, hasValue: false}
		return m
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, hasValue: false})
	return m
}

// Get returns the value for key and whether it is present. A present key
// with no value (a flag) returns ("", true).
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[lc(key)]
	if !ok {
		return "", false
	}
	return m.entries[i].value, true
}

// Has reports whether key is present, with or without a value.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[lc(key)]
	return ok
}

// HasValue reports whether key is present and carries a value.
func (m *Map) HasValue(key string) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[lc(key)]
	return ok && m.entries[i].hasValue
}

// Del removes key, if present.
func (m *Map) Del(key string) *Map {
	if m == nil {
		return m
	}
	k := lc(key)
	i, ok := m.index[k]
	if !ok {
		return m
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for kk, idx := range m.index {
		if idx > i {
			m.index[kk] = idx - 1
		}
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order, in their original case.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// Clone returns a deep, independent copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	m2 := &Map{
		entries: make([]entry, len(m.entries)),
		index:   make(map[string]int, len(m.index)),
	}
	copy(m2.entries, m.entries)
	for k, v := range m.index {
		m2.index[k] = v
	}
	return m2
}

// Equal compares two Maps by key set and value under case-insensitive
// comparison; insertion order is not significant.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, e := range m.entries {
		v, ok := other.Get(e.key)
		if !ok || !strings.EqualFold(v, e.value) || m.HasValue(e.key) != other.HasValue(e.key) {
			return false
		}
	}
	return true
}

// EncodeParams renders the map as ";k=v;k2=v2", percent-encoding values
// with the URI-parameter character class.
func (m *Map) EncodeParams() string {
	if m.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for _, e := range m.entries {
		sb.WriteByte(';')
		sb.WriteString(escape.Encode(e.key, escape.Param))
		if e.hasValue && e.value != "" {
			sb.WriteByte('=')
			sb.WriteString(escape.Encode(e.value, escape.Param))
		}
	}
	return sb.String()
}

// EncodeHeaders renders the map as "h1=v1&h2=v2" (no leading '?'),
// percent-encoding with the URI-parameter character class.
func (m *Map) EncodeHeaders() string {
	if m.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape.Encode(e.key, escape.Param))
		sb.WriteByte('=')
		sb.WriteString(escape.Encode(e.value, escape.Param))
	}
	return sb.String()
}

// ParseParams parses a ";k=v;k2=v2" (or bare "k=v;k2=v2") string into a Map,
// percent-decoding values.
func ParseParams(s string) *Map {
	m := New()
	for _, seg := range qtoken.Split(s, ';') {
		if seg == "" {
			continue
		}
		k, v, hasValue := splitKV(seg)
		if hasValue {
			m.Set(escape.Decode(k), escape.Decode(v))
		} else {
			m.SetFlag(escape.Decode(k))
		}
	}
	return m
}

// ParseHeaders parses a "h1=v1&h2=v2" string into a Map, percent-decoding.
func ParseHeaders(s string) *Map {
	m := New()
	for _, seg := range qtoken.Split(s, '&') {
		if seg == "" {
			continue
		}
		k, v, hasValue := splitKV(seg)
		if hasValue {
			m.Set(escape.Decode(k), escape.Decode(v))
		} else {
			m.Set(escape.Decode(k), "")
		}
	}
	return m
}

func splitKV(seg string) (key, value string, hasValue bool) {
	if i := strings.IndexByte(seg, '='); i >= 0 {
		return seg[:i], seg[i+1:], true
	}
	return seg, "", false
}

// SortedKV returns key/last-value pairs sorted by key, for deterministic
// rendering order independent from insertion order (used where the wire
// format wants alphabetic parameter order).
func (m *Map) SortedKV() [][2]string {
	kvs := make([][2]string, len(m.entries))
	for i, e := range m.entries {
		kvs[i] = [2]string{e.key, e.value}
	}
	sort.Slice(kvs, func(i, j int) bool { return strings.ToLower(kvs[i][0]) < strings.ToLower(kvs[j][0]) })
	return kvs
}
