package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/endpoint"
	"github.com/voicecore/sipsrtp/sip/uri"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"sip:alice@atlanta.example.com",
		"sip:alice@atlanta.example.com:5060;transport=tcp",
		"sips:bob@biloxi.example.com",
		"tel:+1-212-555-0101",
		"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"http://example.com/path",
		"cid:foo4foo1@bar.net",
	}
	for _, in := range cases {
		u, err := uri.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if u.String() == "" {
			t.Fatalf("Parse(%q).String() is empty", in)
		}
		u2, err := uri.Parse(u.String())
		if err != nil {
			t.Fatalf("re-parsing %q: %v", u.String(), err)
		}
		if !u.Equal(u2) {
			t.Fatalf("round trip not equal: %q -> %q -> %q", in, u.String(), u2.String())
		}
	}
}

func TestParseUnsupportedScheme(t *testing.T) {
	if _, err := uri.Parse("ftp://example.com"); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}

func TestSIPTransportDefaultsToUDP(t *testing.T) {
	u, err := uri.Parse("sip:alice@atlanta.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Transport() != endpoint.UDP {
		t.Fatalf("Transport() = %v, want UDP", u.Transport())
	}
}

func TestSIPSAlwaysTLS(t *testing.T) {
	u, err := uri.Parse("sips:alice@atlanta.example.com;transport=tcp")
	if err != nil {
		t.Fatal(err)
	}
	if u.Transport() != endpoint.TLS {
		t.Fatalf("sips Transport() = %v, want TLS even with transport=tcp", u.Transport())
	}
}

func TestSIPEqualityIgnoresParamOrder(t *testing.T) {
	a, err := uri.Parse("sip:alice@atlanta.example.com;transport=tcp;lr")
	if err != nil {
		t.Fatal(err)
	}
	b, err := uri.Parse("sip:alice@atlanta.example.com;lr;transport=tcp")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("URIs differing only in parameter order should be equal")
	}
}

func TestParseSIPStructuralFields(t *testing.T) {
	parsed, err := uri.Parse("sip:alice@atlanta.example.com:5060;transport=tcp")
	if err != nil {
		t.Fatal(err)
	}
	got, ok := parsed.(*uri.SIP)
	if !ok {
		t.Fatalf("Parse returned %T, want *uri.SIP", parsed)
	}

	want := &uri.SIP{
		User:    "alice",
		HasUser: true,
		Addr:    endpoint.HostPort("atlanta.example.com", 5060),
	}
	want.Params = values.New().Set("transport", "tcp")
	want.Headers = values.New()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() structural mismatch (-want +got):\n%s", diff)
	}
}

func TestSIPCloneIsIndependent(t *testing.T) {
	u, err := uri.Parse("sip:alice@atlanta.example.com;transport=tcp")
	if err != nil {
		t.Fatal(err)
	}
	c := u.Clone().(*uri.SIP)
	c.Params.Set("transport", "ws")
	if orig := u.(*uri.SIP); orig.Params != nil {
		if v, _ := orig.Params.Get("transport"); v != "tcp" {
			t.Fatalf("mutating clone affected original: transport = %q", v)
		}
	}
}
