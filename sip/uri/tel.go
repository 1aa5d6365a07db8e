package uri

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// Tel represents a tel: URI (RFC 3966). It has no host component; the
// "number" plays that role.
type Tel struct {
	Number  string
	Params  *values.Map
	Headers *values.Map
}

func parseTel(rest string) (*Tel, error) {
	_, _, numberPart, tail := splitUserHostTail(rest)
	paramsStr, headersStr := splitParamsHeaders(tail)
	params, headers := parseParamsHeaders(paramsStr, headersStr)

	number := stripTelFormatting(numberPart)

	return &Tel{Number: number, Params: params, Headers: headers}, nil
}

// stripTelFormatting implements §4.3 step 7: strip spaces and hyphens
// from the user (number) part.
func stripTelFormatting(s string) string {
	if !strings.ContainsAny(s, " -") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '-' {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func (u *Tel) Scheme() string { return "tel" }

// Transport is always UDP for tel: URIs; they carry no network address.
func (u *Tel) Transport() endpoint.Proto { return endpoint.UDP }

func (u *Tel) String() string {
	var sb strings.Builder
	sb.WriteString("tel:")
	sb.WriteString(u.Number)
	sb.WriteString(u.Params.EncodeParams())
	if hdr := u.Headers.EncodeHeaders(); hdr != "" {
		sb.WriteByte('?')
		sb.WriteString(hdr)
	}
	return sb.String()
}

func (u *Tel) Clone() URI {
	c := *u
	c.Params = u.Params.Clone()
	c.Headers = u.Headers.Clone()
	return &c
}

func (u *Tel) Equal(other URI) bool {
	o, ok := other.(*Tel)
	if !ok {
		return false
	}
	return u.Number == o.Number && u.Params.Equal(o.Params) && u.Headers.Equal(o.Headers)
}

func (u *Tel) IsValid() bool { return u.Number != "" }
