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

// Generic covers every supported scheme that shares sip's "user@host-port;
// params?headers" grammar but carries no scheme-specific semantics of its
// own beyond the implicit transport: http, https, ws, wss, msrp, msrps,
// im and cid.
type Generic struct {
	SchemeName string
	User       string
	HasUser    bool
	Addr       endpoint.Addr
	Params     *values.Map
	Headers    *values.Map
}

func parseGeneric(scheme, rest string) (*Generic, error) {
	if webStyleSchemes[scheme] {
		rest = strings.TrimPrefix(rest, "//")
	}

	user, hasUser, hostPort, tail := splitUserHostTail(rest)
	host, portStr, hasPort, err := validateHost(hostPort)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	paramsStr, headersStr := splitParamsHeaders(tail)
	params, headers := parseParamsHeaders(paramsStr, headersStr)

	u := &Generic{SchemeName: scheme, Params: params, Headers: headers}
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

func (u *Generic) Scheme() string { return u.SchemeName }

// Transport implements §3.1's effective-transport rule for the non-sip
// schemes: msrp → TCP, msrps → TLS, otherwise the transport parameter if
// present and recognized, else UDP. ws/wss carry their own implicit
// transport (WS/WSS) used as the baseline for the serializer's injection
// rule even though §3.1 only names sips/msrp/msrps explicitly; absent an
// explicit parameter a ws: URI still means WS on the wire.
func (u *Generic) Transport() endpoint.Proto {
	switch u.SchemeName {
	case "msrp":
		return endpoint.TCP
	case "msrps":
		return endpoint.TLS
	case "ws":
		if p, ok := transportParamOverride(u.Params); ok {
			return p
		}
		return endpoint.WS
	case "wss":
		if p, ok := transportParamOverride(u.Params); ok {
			return p
		}
		return endpoint.WSS
	default:
		return transportFromParam(u.Params)
	}
}

func transportParamOverride(params *values.Map) (endpoint.Proto, bool) {
	v, ok := params.Get("transport")
	if !ok {
		return endpoint.ProtoUnknown, false
	}
	p, err := endpoint.ParseProto(v)
	if err != nil {
		return endpoint.ProtoUnknown, false
	}
	return p, true
}

func (u *Generic) String() string {
	var sb strings.Builder
	sb.WriteString(u.SchemeName)
	sb.WriteByte(':')
	if webStyleSchemes[u.SchemeName] {
		sb.WriteString("//")
	}
	if u.HasUser {
		sb.WriteString(escape.Encode(u.User, escape.User))
		sb.WriteByte('@')
	}
	sb.WriteString(u.Addr.String())

	implicit := implicitTransport(u.SchemeName)
	params := injectTransportParam(u.Params, u.SchemeName, implicit, u.Transport())
	sb.WriteString(params.EncodeParams())

	if hdr := u.Headers.EncodeHeaders(); hdr != "" {
		sb.WriteByte('?')
		sb.WriteString(hdr)
	}
	return sb.String()
}

func implicitTransport(scheme string) endpoint.Proto {
	switch scheme {
	case "msrp":
		return endpoint.TCP
	case "msrps":
		return endpoint.TLS
	case "ws":
		return endpoint.WS
	case "wss":
		return endpoint.WSS
	default:
		return endpoint.UDP
	}
}

func (u *Generic) Clone() URI {
	c := *u
	c.Params = u.Params.Clone()
	c.Headers = u.Headers.Clone()
	return &c
}

func (u *Generic) Equal(other URI) bool {
	o, ok := other.(*Generic)
	if !ok || u.SchemeName != o.SchemeName || u.HasUser != o.HasUser {
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

func (u *Generic) IsValid() bool { return u.Addr.Host() != "" }
