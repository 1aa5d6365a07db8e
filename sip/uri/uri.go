// Package uri implements the URI model of spec §3.1/§4.3: parsing and
// serialization for sip, sips, tel, urn and the six "web-style" schemes
// (http, https, ws, wss, msrp, msrps) plus im and cid.
package uri

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/util"
	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// ErrUnsupportedScheme is returned by [Parse] when the scheme prefix does
// not match any URI kind this package knows how to parse.
const ErrUnsupportedScheme errorutil.Error = "unsupported URI scheme"

// ErrMalformedURI is returned for a recognized scheme whose tail does not
// parse per §4.3's decoder steps (bad host, unterminated IPv6 literal, …).
const ErrMalformedURI errorutil.Error = "malformed URI"

// URI is implemented by every concrete URI kind (SIP, Tel, URN, Generic).
type URI interface {
	// Scheme returns the lower-case scheme name ("sip", "tel", "urn", …).
	Scheme() string
	// String renders the URI back to wire text.
	String() string
	// Clone returns an independent deep copy.
	Clone() URI
	// Equal compares two URIs under the canonical-address + parameter/header
	// equality rule of §4.3.
	Equal(other URI) bool
	// IsValid reports whether the URI satisfies its kind's invariants.
	IsValid() bool
	// Transport returns the effective transport protocol per §3.1: sips →
	// TLS, msrp → TCP, msrps → TLS, otherwise the transport parameter if
	// present and recognized, else UDP.
	Transport() endpoint.Proto
}

// webStyleSchemes strip a leading "//" per §4.3 step 2 and are rendered
// with one back per the serializer rule in §4.3.
var webStyleSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "msrp": true, "msrps": true,
}

// Parse parses any supported URI. Unknown schemes fail with
// [ErrUnsupportedScheme].
func Parse(s string) (URI, error) {
	scheme, rest, ok := cutScheme(s)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedScheme, s))
	}

	switch scheme {
	case "sip", "sips":
		u, err := parseSIP(scheme, rest)
		return u, errtrace.Wrap(err)
	case "tel":
		u, err := parseTel(rest)
		return u, errtrace.Wrap(err)
	case "urn":
		u, err := parseURN(rest)
		return u, errtrace.Wrap(err)
	case "http", "https", "ws", "wss", "msrp", "msrps", "im", "cid":
		u, err := parseGeneric(scheme, rest)
		return u, errtrace.Wrap(err)
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedScheme, scheme))
	}
}

// cutScheme locates the first ':' and lower-cases the prefix, per §4.3
// step 1. A scheme must be a non-empty token preceding the colon.
func cutScheme(s string) (scheme, rest string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return "", "", false
	}
	return util.LCase(s[:i]), s[i+1:], true
}

// splitUserHostTail implements §4.3 steps 3-4: if '@' precedes any ';' or
// '?', split into user and host-port tail; otherwise the whole string is
// host-port. Returns the host-port segment and the raw params/headers tail
// (starting with ';' or '?', or empty).
func splitUserHostTail(rest string) (user string, hasUser bool, hostPort, tail string) {
	stop := len(rest)
	for i := 0; i < len(rest); i++ {
		if rest[i] == ';' || rest[i] == '?' {
			stop = i
			break
		}
	}
	if at := strings.IndexByte(rest[:stop], '@'); at >= 0 {
		user, hasUser = rest[:at], true
		rest = rest[at+1:]
		stop -= at + 1
	}
	hostPort = rest[:stop]
	tail = rest[stop:]
	return user, hasUser, hostPort, tail
}

// splitParamsHeaders splits a tail beginning with ';' or '?' (or empty)
// into the params segment (without leading ';') and the headers segment
// (without leading '?').
func splitParamsHeaders(tail string) (params, headers string) {
	if tail == "" {
		return "", ""
	}
	if tail[0] == '?' {
		return "", tail[1:]
	}
	// tail[0] == ';'
	if q := strings.IndexByte(tail, '?'); q >= 0 {
		return tail[1:q], tail[q+1:]
	}
	return tail[1:], ""
}

// validateHost implements §4.3 step 6: reject ',' and '"'; multi-colon
// hosts must be bracketed IPv6 literals; collapse a "::: "triple colon to
// "::" per RFC 5118 §4.10.
func validateHost(hostPort string) (host string, port string, hasPort bool, err error) {
	if strings.ContainsAny(hostPort, ",\"") {
		return "", "", false, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "host contains invalid character"))
	}

	if strings.HasPrefix(hostPort, "[") {
		end := strings.IndexByte(hostPort, ']')
		if end < 0 {
			return "", "", false, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "unterminated IPv6 literal"))
		}
		host = collapseTripleColon(hostPort[1:end])
		remainder := hostPort[end+1:]
		if remainder == "" {
			return host, "", false, nil
		}
		if !strings.HasPrefix(remainder, ":") {
			return "", "", false, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "junk after IPv6 literal"))
		}
		return host, remainder[1:], true, nil
	}

	if strings.Count(hostPort, ":") > 1 {
		return "", "", false, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "multi-colon host is not bracketed"))
	}

	if i := strings.IndexByte(hostPort, ':'); i >= 0 {
		return hostPort[:i], hostPort[i+1:], true, nil
	}
	return hostPort, "", false, nil
}

func collapseTripleColon(host string) string {
	return strings.ReplaceAll(host, ":::", "::")
}

func parseParamsHeaders(paramsStr, headersStr string) (params, headers *values.Map) {
	if paramsStr != "" {
		params = values.ParseParams(paramsStr)
	} else {
		params = values.New()
	}
	if headersStr != "" {
		headers = values.ParseHeaders(headersStr)
	} else {
		headers = values.New()
	}
	return params, headers
}

// transportFromParam resolves the "transport" parameter against the
// recognized protocol names, defaulting to UDP when absent or unrecognized.
func transportFromParam(params *values.Map) endpoint.Proto {
	if v, ok := params.Get("transport"); ok {
		if p, err := endpoint.ParseProto(v); err == nil {
			return p
		}
	}
	return endpoint.UDP
}

// injectTransportParam implements the serializer half of §4.3's transport
// rule: when the effective transport differs from the scheme's implicit
// transport and the scheme is not sips/msrp/msrps, the rendered form must
// carry an explicit transport parameter.
func injectTransportParam(params *values.Map, scheme string, implicit endpoint.Proto, effective endpoint.Proto) *values.Map {
	if scheme == "sips" || scheme == "msrp" || scheme == "msrps" {
		return params
	}
	if effective == implicit || params.Has("transport") {
		return params
	}
	out := params.Clone()
	out.Set("transport", strings.ToLower(effective.String()))
	return out
}
