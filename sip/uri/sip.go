package uri

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/escape"
	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// SIP represents a sip: or sips: URI.
type SIP struct {
	Secure  bool
	User    string
	HasUser bool
	Addr    endpoint.Addr
	Params  *values.Map
	Headers *values.Map
}

func parseSIP(scheme, rest string) (*SIP, error) {
	user, hasUser, hostPort, tail := splitUserHostTail(rest)
	host, portStr, hasPort, err := validateHost(hostPort)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	paramsStr, headersStr := splitParamsHeaders(tail)
	params, headers := parseParamsHeaders(paramsStr, headersStr)

	u := &SIP{
		Secure:  scheme == "sips",
		Params:  params,
		Headers: headers,
	}
	if hasUser {
		u.User, u.HasUser = escape.Decode(user), true
	}
	if hasPort {
		port, convErr := strconv.ParseUint(portStr, 10, 16)
		if convErr != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "non-numeric port"))
		}
		u.Addr = endpoint.HostPort(host, uint16(port))
	} else {
		u.Addr = endpoint.Host(host)
	}
	return u, nil
}

func (u *SIP) scheme() string {
	if u.Secure {
		return "sips"
	}
	return "sip"
}

func (u *SIP) Scheme() string { return u.scheme() }

// Transport implements the URI interface's §3.1 effective-transport rule:
// sips always resolves to TLS regardless of any transport parameter.
func (u *SIP) Transport() endpoint.Proto {
	if u.Secure {
		return endpoint.TLS
	}
	return transportFromParam(u.Params)
}

func (u *SIP) String() string {
	var sb strings.Builder
	sb.WriteString(u.scheme())
	sb.WriteByte(':')
	if u.HasUser {
		sb.WriteString(escape.Encode(u.User, escape.User))
		sb.WriteByte('@')
	}
	sb.WriteString(u.Addr.String())

	params := u.Params
	if !u.Secure {
		params = injectTransportParam(params, "sip", endpoint.UDP, u.Transport())
	}
	sb.WriteString(params.EncodeParams())

	if hdr := u.Headers.EncodeHeaders(); hdr != "" {
		sb.WriteByte('?')
		sb.WriteString(hdr)
	}
	return sb.String()
}

func (u *SIP) Clone() URI {
	c := *u
	c.Params = u.Params.Clone()
	c.Headers = u.Headers.Clone()
	return &c
}

func (u *SIP) Equal(other URI) bool {
	o, ok := other.(*SIP)
	if !ok {
		return false
	}
	if u.Secure != o.Secure || u.HasUser != o.HasUser {
		return false
	}
	if u.HasUser && u.User != o.User {
		return false
	}
	if !canonicalAddrEqual(u.Addr, u.Transport(), o.Addr, o.Transport()) {
		return false
	}
	return u.Params.Equal(o.Params) && u.Headers.Equal(o.Headers)
}

// canonicalAddrEqual compares host plus explicit-or-default port, per
// §4.3's "canonical-address" equality rule.
func canonicalAddrEqual(a endpoint.Addr, aProto endpoint.Proto, b endpoint.Addr, bProto endpoint.Proto) bool {
	aPort, aHas := a.Port()
	if !aHas {
		aPort = aProto.DefaultPort()
	}
	bPort, bHas := b.Port()
	if !bHas {
		bPort = bProto.DefaultPort()
	}
	return hostEqual(a, b) && aPort == bPort
}

func hostEqual(a, b endpoint.Addr) bool {
	if a.IP() != nil && b.IP() != nil {
		return a.IP().Equal(b.IP())
	}
	if a.IP() == nil && b.IP() == nil {
		return strings.EqualFold(a.Host(), b.Host())
	}
	return false
}

// IsValid reports whether the host is non-empty (the sole exception being
// the REGISTER wildcard "*", which this type does not model — callers
// parsing a wildcard Contact/To value handle it before reaching the URI
// parser). No other part of the address is checked.
func (u *SIP) IsValid() bool {
	return u.Addr.Host() != ""
}
