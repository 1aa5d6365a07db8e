package values_test

import (
	"testing"

	"github.com/voicecore/sipsrtp/internal/values"
)

func TestMapOrderInsensitiveEquality(t *testing.T) {
	a := values.New()
	a.Set("transport", "udp")
	a.SetFlag("lr")

	b := values.New()
	b.SetFlag("lr")
	b.Set("Transport", "UDP")

	if !a.Equal(b) {
		t.Fatalf("expected maps with different insertion order and key case to be equal")
	}
	if a.Keys()[0] != "transport" {
		t.Fatalf("Set should preserve insertion order and original case: got %v", a.Keys())
	}
}

func TestMapSetPreservesPosition(t *testing.T) {
	m := values.New()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("re-setting a key should keep its original position, got %v", got)
	}
	if v, _ := m.Get("a"); v != "3" {
		t.Fatalf("Get(a) = %q, want 3", v)
	}
}

func TestMapFlagHasNoValue(t *testing.T) {
	m := values.New()
	m.SetFlag("lr")

	if !m.Has("lr") {
		t.Fatal("Has(lr) = false, want true")
	}
	if m.HasValue("lr") {
		t.Fatal("HasValue(lr) = true, want false for a flag param")
	}
	v, ok := m.Get("lr")
	if !ok || v != "" {
		t.Fatalf("Get(lr) = (%q, %v), want (\"\", true)", v, ok)
	}
}

func TestParseParamsRoundTrip(t *testing.T) {
	m := values.ParseParams(";transport=udp;lr;ttl=70")
	if v, _ := m.Get("transport"); v != "udp" {
		t.Fatalf("transport = %q, want udp", v)
	}
	if !m.Has("lr") || m.HasValue("lr") {
		t.Fatal("lr should be present as a flag")
	}
	if v, _ := m.Get("ttl"); v != "70" {
		t.Fatalf("ttl = %q, want 70", v)
	}
}

func TestMapDelShiftsIndex(t *testing.T) {
	m := values.New()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("c", "3")
	m.Del("b")

	if m.Has("b") {
		t.Fatal("b should be removed")
	}
	if v, ok := m.Get("c"); !ok || v != "3" {
		t.Fatalf("c survives Del of an earlier key, got (%q, %v)", v, ok)
	}
}

func TestNilMapIsReadSafe(t *testing.T) {
	var m *values.Map
	if m.Has("x") || m.HasValue("x") || m.Len() != 0 {
		t.Fatal("nil Map should behave as empty on reads")
	}
	if v, ok := m.Get("x"); ok || v != "" {
		t.Fatalf("Get on nil Map = (%q, %v)", v, ok)
	}
}
