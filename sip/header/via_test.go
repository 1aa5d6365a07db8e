package header_test

import (
	"testing"

	"github.com/voicecore/sipsrtp/sip/endpoint"
	"github.com/voicecore/sipsrtp/sip/header"
)

func entry(host string) header.ViaEntry {
	return header.ViaEntry{Transport: endpoint.UDP, SentBy: endpoint.Host(host)}
}

func TestViaPushPopReverseOrder(t *testing.T) {
	v := &header.Via{}
	hosts := []string{"a.example.com", "b.example.com", "c.example.com"}
	for _, h := range hosts {
		v.Push(entry(h))
	}

	var popped []string
	for {
		e, ok := v.Pop()
		if !ok {
			break
		}
		popped = append(popped, e.SentBy.String())
	}

	if len(popped) != len(hosts) {
		t.Fatalf("popped %d entries, want %d", len(popped), len(hosts))
	}
	for i, h := range hosts {
		want := entry(h).SentBy.String()
		got := popped[len(hosts)-1-i]
		if got != want {
			t.Fatalf("pop order mismatch at %d: got %q, want %q", i, got, want)
		}
	}
}

func TestViaParseRoundTrip(t *testing.T) {
	v, err := header.Parse("Via", "SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	via, ok := v.(*header.Via)
	if !ok || len(via.Entries) != 1 {
		t.Fatalf("got %#v", v)
	}
	branch, ok := via.Entries[0].Branch()
	if !ok || branch != "z9hG4bK776asdhds" {
		t.Fatalf("Branch() = (%q, %v)", branch, ok)
	}
}
