package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/qtoken"
	"github.com/voicecore/sipsrtp/internal/util"
	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/uri"
)

// ErrMalformedAddr is returned when a name-addr/addr-spec segment (the
// shape shared by From, To, Contact, Route, Record-Route, …) cannot be
// parsed.
const ErrMalformedAddr errorutil.Error = "malformed address field"

// NameAddr is the "[display-name] (name-addr|addr-spec) *(;param)" element
// that underlies From, To, Contact, Route, Record-Route, Reply-To,
// Refer-To, Referred-By, P-Asserted-Identity and P-Preferred-Identity.
type NameAddr struct {
	DisplayName string
	HasDisplay  bool
	URI         uri.URI
	Params      *values.Map
}

// ParseNameAddr parses one comma-tokenized segment of an address header.
func ParseNameAddr(seg string) (NameAddr, error) {
	seg = util.TrimSP(seg)

	if i := strings.IndexByte(seg, '<'); i >= 0 {
		end := strings.IndexByte(seg[i:], '>')
		if end < 0 {
			return NameAddr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAddr, "unterminated name-addr"))
		}
		end += i

		display := util.TrimSP(seg[:i])
		u, err := uri.Parse(seg[i+1 : end])
		if err != nil {
			return NameAddr{}, errtrace.Wrap(err)
		}

		na := NameAddr{URI: u, Params: values.New()}
		if display != "" {
			na.DisplayName, na.HasDisplay = unquote(display), true
		}
		for _, p := range qtoken.Split(strings.TrimPrefix(seg[end+1:], ";"), ';') {
			if p == "" {
				continue
			}
			applyParam(na.Params, p)
		}
		return na, nil
	}

	// addr-spec form: no angle brackets, the bare URI (its own trailing
	// ;params are parsed as part of the URI, not the header field).
	u, err := uri.Parse(seg)
	if err != nil {
		return NameAddr{}, errtrace.Wrap(err)
	}
	return NameAddr{URI: u, Params: values.New()}, nil
}

func applyParam(m *values.Map, seg string) {
	if i := strings.IndexByte(seg, '='); i >= 0 {
		m.Set(seg[:i], seg[i+1:])
	} else {
		m.SetFlag(seg)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\"`, `"`)
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}

func quoteIfNeeded(s string) string {
	needsQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '.' || c == '-' || c == '_' || c == '+' || c == '~') {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (a NameAddr) String() string {
	var sb strings.Builder
	if a.HasDisplay {
		sb.WriteString(quoteIfNeeded(a.DisplayName))
		sb.WriteByte(' ')
	}
	sb.WriteByte('<')
	if a.URI != nil {
		sb.WriteString(a.URI.String())
	}
	sb.WriteByte('>')
	sb.WriteString(a.Params.EncodeParams())
	return sb.String()
}

func (a NameAddr) Clone() NameAddr {
	c := a
	if a.URI != nil {
		c.URI = a.URI.Clone()
	}
	c.Params = a.Params.Clone()
	return c
}

func (a NameAddr) Equal(other NameAddr) bool {
	if a.URI == nil || other.URI == nil {
		return a.URI == other.URI
	}
	return a.URI.Equal(other.URI) && a.Params.Equal(other.Params)
}

// Tag returns the "tag" parameter, used by From/To.
func (a NameAddr) Tag() (string, bool) { return a.Params.Get("tag") }
