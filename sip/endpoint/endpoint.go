// Package endpoint implements the transport-endpoint descriptor (spec §3.3)
// and the host/port address value shared by the URI and header models.
package endpoint

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/util"
)

// Proto identifies a SIP transport protocol.
type Proto uint8

const (
	// ProtoUnknown is the zero value; no default port is associated with it.
	ProtoUnknown Proto = iota
	UDP
	TCP
	TLS
	WS
	WSS
)

// ErrUnknownProto is returned by [ParseProto] for an unrecognized name.
const ErrUnknownProto errorutil.Error = "unknown transport protocol"

// ParseProto parses a transport name ("UDP", "TCP", "TLS", "WS", "WSS"),
// case-insensitively.
func ParseProto(s string) (Proto, error) {
	switch util.UCase(s) {
	case "UDP":
		return UDP, nil
	case "TCP":
		return TCP, nil
	case "TLS":
		return TLS, nil
	case "WS":
		return WS, nil
	case "WSS":
		return WSS, nil
	default:
		return ProtoUnknown, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownProto, s))
	}
}

// String renders the protocol in upper case, as it appears on the wire
// (Via "SIP/2.0/<TRANSPORT>", URI "transport=" parameter lower-cased by callers).
func (p Proto) String() string {
	switch p {
	case UDP:
		return "UDP"
	case TCP:
		return "TCP"
	case TLS:
		return "TLS"
	case WS:
		return "WS"
	case WSS:
		return "WSS"
	default:
		return ""
	}
}

// DefaultPort returns the well-known port for the protocol (5060 UDP/TCP,
// 5061 TLS, 80 WS, 443 WSS), or 0 if the protocol is unknown.
func (p Proto) DefaultPort() uint16 {
	switch p {
	case UDP, TCP:
		return 5060
	case TLS:
		return 5061
	case WS:
		return 80
	case WSS:
		return 443
	default:
		return 0
	}
}

// IsValid reports whether p is one of the recognized transport protocols.
func (p Proto) IsValid() bool { return p >= UDP && p <= WSS }

// Addr is a host with an optional port, as used by URI host-port components
// and Via sent-by values. It keeps the original hostname text (for non-IP
// literal hosts) alongside a parsed IP when the host is an IP literal.
type Addr struct {
	host    string
	ip      net.IP
	port    uint16
	hasPort bool
}

// Host returns an Addr for a bare hostname or IP literal, no port.
func Host(host string) Addr {
	host = strings.Trim(host, "[]")
	return Addr{host: host, ip: parseIP(host)}
}

// HostPort returns an Addr with an explicit port.
func HostPort(host string, port uint16) Addr {
	host = strings.Trim(host, "[]")
	return Addr{host: host, ip: parseIP(host), port: port, hasPort: true}
}

func parseIP(host string) net.IP {
	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip
}

// Host returns the hostname or IP-literal text, without brackets.
func (a Addr) Host() string { return a.host }

// IP returns the parsed IP, or nil when the host is not an IP literal.
func (a Addr) IP() net.IP { return a.ip }

// Port returns the port and whether one was set.
func (a Addr) Port() (uint16, bool) { return a.port, a.hasPort }

// IsIPv6 reports whether the host is an IPv6 literal requiring bracketing.
func (a Addr) IsIPv6() bool { return a.ip != nil && a.ip.To4() == nil }

// String renders "host[:port]", bracketing IPv6 literals.
func (a Addr) String() string {
	host := a.host
	if a.ip != nil {
		host = a.ip.String()
	}
	if a.IsIPv6() {
		host = "[" + host + "]"
	}
	if !a.hasPort {
		return host
	}
	return host + ":" + strconv.Itoa(int(a.port))
}

// Clone returns an independent copy.
func (a Addr) Clone() Addr {
	var ip net.IP
	if a.ip != nil {
		ip = append(net.IP(nil), a.ip...)
	}
	a.ip = ip
	return a
}

// Equal compares host (case-insensitively for names, byte-wise for parsed
// IPs) and port.
func (a Addr) Equal(other Addr) bool {
	var hostEq bool
	switch {
	case a.ip != nil && other.ip != nil:
		hostEq = a.ip.Equal(other.ip)
	case a.ip == nil && other.ip == nil:
		hostEq = util.EqFold(a.host, other.host)
	default:
		return false
	}
	return hostEq && a.port == other.port && a.hasPort == other.hasPort
}

// IsZero reports whether the Addr carries no host and no port.
func (a Addr) IsZero() bool { return a.host == "" && a.ip == nil && !a.hasPort }

// Endpoint is the transport-level descriptor of spec §3.3: a protocol, an
// address and optional channel/connection identifiers tying a message to
// the physical connection it arrived on or must depart on.
type Endpoint struct {
	Protocol     Proto
	IP           netip.Addr
	Port         uint16
	ChannelID    string
	HasChannel   bool
	ConnID       string
	HasConn      bool
}

// Option configures an Endpoint at construction time.
type Option func(*Endpoint)

// WithChannelID attaches a transport channel identifier (e.g. a WebSocket
// connection handle) to the endpoint.
func WithChannelID(id string) Option {
	return func(e *Endpoint) {
		e.ChannelID = id
		e.HasChannel = true
	}
}

// WithConnectionID attaches a connection-oriented transport's connection
// identifier (TCP/TLS) to the endpoint.
func WithConnectionID(id string) Option {
	return func(e *Endpoint) {
		e.ConnID = id
		e.HasConn = true
	}
}

// New builds an Endpoint, normalizing an IPv4-mapped IPv6 address down to
// IPv4 and substituting the protocol's default port when port is 0.
func New(proto Proto, ip netip.Addr, port uint16, opts ...Option) Endpoint {
	if ip.Is4In6() {
		ip = netip.AddrFrom4(ip.As4())
	}
	if port == 0 {
		port = proto.DefaultPort()
	}
	e := Endpoint{Protocol: proto, IP: ip, Port: port}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// String renders "PROTO ip:port".
func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s", e.Protocol, net.JoinHostPort(e.IP.String(), strconv.Itoa(int(e.Port))))
}

// Equal compares protocol, address and port always; channel and connection
// identifiers participate in the comparison only when both sides set them.
func (e Endpoint) Equal(other Endpoint) bool {
	if e.Protocol != other.Protocol || e.IP != other.IP || e.Port != other.Port {
		return false
	}
	if e.HasChannel && other.HasChannel && e.ChannelID != other.ChannelID {
		return false
	}
	if e.HasConn && other.HasConn && e.ConnID != other.ConnID {
		return false
	}
	return true
}

// IsValid reports whether the endpoint has a recognized protocol and a
// valid address.
func (e Endpoint) IsValid() bool { return e.Protocol.IsValid() && e.IP.IsValid() }
