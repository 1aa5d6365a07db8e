package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/qtoken"
	"github.com/voicecore/sipsrtp/internal/util"
)

// ErrMalformedDigest is returned for an authentication header whose value
// does not start with "Digest ".
const ErrMalformedDigest errorutil.Error = "malformed authentication header"

// digestKeys are the keys the §4.6 digest map recognizes; any other key is
// still stored (param maps aren't restricted to this set) but these are
// the ones named.
var digestKeys = map[string]bool{
	"realm": true, "nonce": true, "username": true, "response": true,
	"uri": true, "algorithm": true, "cnonce": true, "nc": true,
	"qop": true, "opaque": true,
}

// Digest is the parsed `Digest k=v, k=v, …` challenge/credentials map of
// §4.6, shared by all four authentication header variants.
type Digest struct {
	Params map[string]string
	// order preserves original key order for round-trip rendering.
	order []string
}

func parseDigest(v string) (Digest, error) {
	v = util.TrimSP(v)
	const prefix = "Digest "
	if len(v) < len(prefix) || !strings.EqualFold(v[:len(prefix)], prefix) {
		return Digest{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedDigest, v))
	}
	rest := v[len(prefix):]

	d := Digest{Params: map[string]string{}}
	for _, seg := range qtoken.Split(rest, ',') {
		seg = util.TrimSP(seg)
		if seg == "" {
			continue
		}
		k, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		k = util.TrimSP(k)
		val = unquoteDigestValue(util.TrimSP(val))
		d.Params[util.LCase(k)] = val
		d.order = append(d.order, k)
	}
	return d, nil
}

func unquoteDigestValue(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// quotedDigestParams are rendered with surrounding quotes; nc/qop/algorithm
// are conventionally bare tokens.
var quotedDigestParams = map[string]bool{
	"realm": true, "nonce": true, "username": true, "response": true,
	"uri": true, "cnonce": true, "opaque": true,
}

func (d Digest) String() string {
	var sb strings.Builder
	sb.WriteString("Digest ")
	keys := d.order
	if len(keys) == 0 {
		for k := range d.Params {
			keys = append(keys, k)
		}
	}
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		v := d.Params[util.LCase(k)]
		if quotedDigestParams[util.LCase(k)] {
			sb.WriteByte('"')
			sb.WriteString(v)
			sb.WriteByte('"')
		} else {
			sb.WriteString(v)
		}
	}
	return sb.String()
}

func (d Digest) Clone() Digest {
	p := make(map[string]string, len(d.Params))
	for k, v := range d.Params {
		p[k] = v
	}
	return Digest{Params: p, order: append([]string(nil), d.order...)}
}

func (d Digest) Equal(other Digest) bool {
	if len(d.Params) != len(other.Params) {
		return false
	}
	for k, v := range d.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// Get returns a digest parameter by key (case-insensitive).
func (d Digest) Get(key string) (string, bool) {
	v, ok := d.Params[util.LCase(key)]
	return v, ok
}

func init() {
	Register("WWW-Authenticate", authParser(func(d Digest) Header { return &WWWAuthenticate{d} }))
	Register("Authorization", authParser(func(d Digest) Header { return &Authorization{d} }))
	Register("Proxy-Authenticate", authParser(func(d Digest) Header { return &ProxyAuthenticate{d} }))
	Register("Proxy-Authorization", authParser(func(d Digest) Header { return &ProxyAuthorization{d} }))
	Register("Authentication-Info", func(v string) (Header, error) {
		d, err := parseDigestBare(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &AuthenticationInfo{d}, nil
	})
}

func authParser(wrap func(Digest) Header) ParseFunc {
	return func(v string) (Header, error) {
		d, err := parseDigest(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return wrap(d), nil
	}
}

// parseDigestBare parses a comma-separated k=v list without the leading
// "Digest " scheme token, used by Authentication-Info.
func parseDigestBare(v string) (Digest, error) {
	d := Digest{Params: map[string]string{}}
	for _, seg := range qtoken.Split(util.TrimSP(v), ',') {
		seg = util.TrimSP(seg)
		if seg == "" {
			continue
		}
		k, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		k = util.TrimSP(k)
		val = unquoteDigestValue(util.TrimSP(val))
		d.Params[util.LCase(k)] = val
		d.order = append(d.order, k)
	}
	return d, nil
}

// WWWAuthenticate, Authorization, ProxyAuthenticate and ProxyAuthorization
// are the four authentication header variants of §3.4/§4.6, each tagged by
// the header name that carried it so the serializer emits the right name.
type WWWAuthenticate struct{ Digest }
type Authorization struct{ Digest }
type ProxyAuthenticate struct{ Digest }
type ProxyAuthorization struct{ Digest }

// AuthenticationInfo is the SPEC_FULL-supplemented complement of the
// challenge/credential family (§4.6's natural counterpart), a bare
// comma-separated k=v list with no leading scheme token.
type AuthenticationInfo struct{ Digest }

func (h *WWWAuthenticate) Name() Name     { return "WWW-Authenticate" }
func (h *WWWAuthenticate) String() string { return h.Digest.String() }
func (h *WWWAuthenticate) Clone() Header  { return &WWWAuthenticate{h.Digest.Clone()} }
func (h *WWWAuthenticate) Equal(other Header) bool {
	o, ok := other.(*WWWAuthenticate)
	return ok && h.Digest.Equal(o.Digest)
}

func (h *Authorization) Name() Name     { return "Authorization" }
func (h *Authorization) String() string { return h.Digest.String() }
func (h *Authorization) Clone() Header  { return &Authorization{h.Digest.Clone()} }
func (h *Authorization) Equal(other Header) bool {
	o, ok := other.(*Authorization)
	return ok && h.Digest.Equal(o.Digest)
}

func (h *ProxyAuthenticate) Name() Name     { return "Proxy-Authenticate" }
func (h *ProxyAuthenticate) String() string { return h.Digest.String() }
func (h *ProxyAuthenticate) Clone() Header  { return &ProxyAuthenticate{h.Digest.Clone()} }
func (h *ProxyAuthenticate) Equal(other Header) bool {
	o, ok := other.(*ProxyAuthenticate)
	return ok && h.Digest.Equal(o.Digest)
}

func (h *ProxyAuthorization) Name() Name     { return "Proxy-Authorization" }
func (h *ProxyAuthorization) String() string { return h.Digest.String() }
func (h *ProxyAuthorization) Clone() Header  { return &ProxyAuthorization{h.Digest.Clone()} }
func (h *ProxyAuthorization) Equal(other Header) bool {
	o, ok := other.(*ProxyAuthorization)
	return ok && h.Digest.Equal(o.Digest)
}

func (h *AuthenticationInfo) Name() Name     { return "Authentication-Info" }
func (h *AuthenticationInfo) String() string { return h.Digest.String()[len("Digest "):] }
func (h *AuthenticationInfo) Clone() Header  { return &AuthenticationInfo{h.Digest.Clone()} }
func (h *AuthenticationInfo) Equal(other Header) bool {
	o, ok := other.(*AuthenticationInfo)
	return ok && h.Digest.Equal(o.Digest)
}
