package endpoint_test

import (
	"net/netip"
	"testing"

	"github.com/voicecore/sipsrtp/sip/endpoint"
)

func TestParseProtoCaseInsensitive(t *testing.T) {
	for _, name := range []string{"udp", "UDP", "Udp"} {
		p, err := endpoint.ParseProto(name)
		if err != nil {
			t.Fatalf("ParseProto(%q): %v", name, err)
		}
		if p != endpoint.UDP {
			t.Fatalf("ParseProto(%q) = %v, want UDP", name, p)
		}
	}
}

func TestParseProtoUnknown(t *testing.T) {
	if _, err := endpoint.ParseProto("SCTP"); err == nil {
		t.Fatal("expected an error for an unrecognized transport")
	}
}

func TestProtoDefaultPorts(t *testing.T) {
	cases := map[endpoint.Proto]uint16{
		endpoint.UDP: 5060,
		endpoint.TCP: 5060,
		endpoint.TLS: 5061,
		endpoint.WS:  80,
		endpoint.WSS: 443,
	}
	for p, want := range cases {
		if got := p.DefaultPort(); got != want {
			t.Fatalf("%v.DefaultPort() = %d, want %d", p, got, want)
		}
	}
}

func TestAddrHostPortString(t *testing.T) {
	a := endpoint.HostPort("atlanta.example.com", 5060)
	if got := a.String(); got != "atlanta.example.com:5060" {
		t.Fatalf("String() = %q", got)
	}
}

func TestAddrIPv6Bracketed(t *testing.T) {
	a := endpoint.HostPort("2001:db8::1", 5060)
	if !a.IsIPv6() {
		t.Fatal("expected an IPv6 literal to be recognized")
	}
	if got := a.String(); got != "[2001:db8::1]:5060" {
		t.Fatalf("String() = %q", got)
	}
}

func TestAddrEqualIgnoresHostCase(t *testing.T) {
	a := endpoint.Host("Atlanta.Example.com")
	b := endpoint.Host("atlanta.example.com")
	if !a.Equal(b) {
		t.Fatal("hostname comparison should be case-insensitive")
	}
}

func TestAddrEqualComparesParsedIPsByValue(t *testing.T) {
	a := endpoint.Host("192.0.2.1")
	b := endpoint.Host("192.0.2.1")
	if !a.Equal(b) {
		t.Fatal("identical IP literals should compare equal")
	}
	c := endpoint.Host("192.0.2.2")
	if a.Equal(c) {
		t.Fatal("distinct IPs should not compare equal")
	}
}

func TestNewSubstitutesDefaultPort(t *testing.T) {
	ip := netip.MustParseAddr("192.0.2.1")
	e := endpoint.New(endpoint.TLS, ip, 0)
	if e.Port != 5061 {
		t.Fatalf("Port = %d, want 5061 (TLS default)", e.Port)
	}
}

func TestNewNormalizesIPv4MappedIPv6(t *testing.T) {
	ip := netip.MustParseAddr("::ffff:192.0.2.1")
	e := endpoint.New(endpoint.UDP, ip, 5060)
	if !e.IP.Is4() {
		t.Fatalf("expected the IPv4-mapped address to normalize to a bare IPv4 address, got %v", e.IP)
	}
}

func TestEndpointEqualIgnoresUnsetChannelAndConn(t *testing.T) {
	ip := netip.MustParseAddr("192.0.2.1")
	a := endpoint.New(endpoint.TCP, ip, 5060)
	b := endpoint.New(endpoint.TCP, ip, 5060, endpoint.WithConnectionID("conn-1"))
	if !a.Equal(b) {
		t.Fatal("an endpoint with no connection id set should still compare equal to one that has it")
	}
}

func TestEndpointEqualComparesConnWhenBothSet(t *testing.T) {
	ip := netip.MustParseAddr("192.0.2.1")
	a := endpoint.New(endpoint.TCP, ip, 5060, endpoint.WithConnectionID("conn-1"))
	b := endpoint.New(endpoint.TCP, ip, 5060, endpoint.WithConnectionID("conn-2"))
	if a.Equal(b) {
		t.Fatal("endpoints with differing connection ids (both set) should not compare equal")
	}
}

func TestEndpointIsValid(t *testing.T) {
	ip := netip.MustParseAddr("192.0.2.1")
	valid := endpoint.New(endpoint.UDP, ip, 5060)
	if !valid.IsValid() {
		t.Fatal("expected a UDP endpoint with a valid address to be valid")
	}
	invalid := endpoint.Endpoint{Protocol: endpoint.ProtoUnknown, IP: ip, Port: 5060}
	if invalid.IsValid() {
		t.Fatal("expected an unknown-protocol endpoint to be invalid")
	}
}
