package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/qtoken"
)

// parseAddrList tokenizes a comma-separated list of NameAddr segments per
// §4.1/§4.5 (used by Contact, Route, Record-Route, Call-Info, Geolocation,
// Error-Info). It has no wildcard handling of its own: Contact's registered
// parser below recognizes a bare "*" before calling it.
func parseAddrList(v string) ([]NameAddr, error) {
	segs := qtoken.Split(v, ',')
	out := make([]NameAddr, 0, len(segs))
	for _, seg := range segs {
		na, err := ParseNameAddr(seg)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		out = append(out, na)
	}
	return out, nil
}

func renderAddrList(list []NameAddr) string {
	var sb strings.Builder
	for i, a := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

func cloneAddrList(list []NameAddr) []NameAddr {
	if list == nil {
		return nil
	}
	out := make([]NameAddr, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

func equalAddrList(a, b []NameAddr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func init() {
	Register("Contact", func(v string) (Header, error) {
		if strings.TrimSpace(v) == "*" {
			return &Contact{Wildcard: true}, nil
		}
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &Contact{List: list}, nil
	})
	Register("Route", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &Route{List: list}, nil
	})
	Register("Record-Route", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &RecordRoute{List: list}, nil
	})
	Register("Call-Info", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &CallInfo{List: list}, nil
	})
	Register("Geolocation", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &Geolocation{List: list}, nil
	})
	Register("Error-Info", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &ErrorInfo{List: list}, nil
	})
	Register("Alert-Info", func(v string) (Header, error) {
		list, err := parseAddrList(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &AlertInfo{List: list}, nil
	})
}

// Contact is the multiplicity-respecting Contact list of §3.4, with the
// REGISTER-removal wildcard form ("Contact: *") represented distinctly.
type Contact struct {
	List     []NameAddr
	Wildcard bool
}

func (h *Contact) Name() Name { return "Contact" }
func (h *Contact) String() string {
	if h.Wildcard {
		return "*"
	}
	return renderAddrList(h.List)
}
func (h *Contact) Clone() Header {
	return &Contact{List: cloneAddrList(h.List), Wildcard: h.Wildcard}
}
func (h *Contact) Equal(other Header) bool {
	o, ok := other.(*Contact)
	return ok && h.Wildcard == o.Wildcard && equalAddrList(h.List, o.List)
}

// Route is the ordered Route set of §3.4 (top at index 0).
type Route struct{ List []NameAddr }

func (h *Route) Name() Name       { return "Route" }
func (h *Route) String() string   { return renderAddrList(h.List) }
func (h *Route) Clone() Header    { return &Route{cloneAddrList(h.List)} }
func (h *Route) Equal(other Header) bool {
	o, ok := other.(*Route)
	return ok && equalAddrList(h.List, o.List)
}

// RecordRoute is the ordered Record-Route set of §3.4 (top at index 0).
type RecordRoute struct{ List []NameAddr }

func (h *RecordRoute) Name() Name     { return "Record-Route" }
func (h *RecordRoute) String() string { return renderAddrList(h.List) }
func (h *RecordRoute) Clone() Header  { return &RecordRoute{cloneAddrList(h.List)} }
func (h *RecordRoute) Equal(other Header) bool {
	o, ok := other.(*RecordRoute)
	return ok && equalAddrList(h.List, o.List)
}

// CallInfo is the Call-Info list of §3.4, also carrying image/icon params.
type CallInfo struct{ List []NameAddr }

func (h *CallInfo) Name() Name     { return "Call-Info" }
func (h *CallInfo) String() string { return renderAddrList(h.List) }
func (h *CallInfo) Clone() Header  { return &CallInfo{cloneAddrList(h.List)} }
func (h *CallInfo) Equal(other Header) bool {
	o, ok := other.(*CallInfo)
	return ok && equalAddrList(h.List, o.List)
}

// Geolocation is the Geolocation list of §3.4 (RFC 6442).
type Geolocation struct{ List []NameAddr }

func (h *Geolocation) Name() Name     { return "Geolocation" }
func (h *Geolocation) String() string { return renderAddrList(h.List) }
func (h *Geolocation) Clone() Header  { return &Geolocation{cloneAddrList(h.List)} }
func (h *Geolocation) Equal(other Header) bool {
	o, ok := other.(*Geolocation)
	return ok && equalAddrList(h.List, o.List)
}

// ErrorInfo is the Error-Info list, a SPEC_FULL supplement built on the
// same entity_addr shape as Call-Info/Geolocation.
type ErrorInfo struct{ List []NameAddr }

func (h *ErrorInfo) Name() Name     { return "Error-Info" }
func (h *ErrorInfo) String() string { return renderAddrList(h.List) }
func (h *ErrorInfo) Clone() Header  { return &ErrorInfo{cloneAddrList(h.List)} }
func (h *ErrorInfo) Equal(other Header) bool {
	o, ok := other.(*ErrorInfo)
	return ok && equalAddrList(h.List, o.List)
}

// AlertInfo is the Alert-Info list (RFC 3261 §20.4), built on the same
// entity_addr shape as Call-Info/Error-Info.
type AlertInfo struct{ List []NameAddr }

func (h *AlertInfo) Name() Name     { return "Alert-Info" }
func (h *AlertInfo) String() string { return renderAddrList(h.List) }
func (h *AlertInfo) Clone() Header  { return &AlertInfo{cloneAddrList(h.List)} }
func (h *AlertInfo) Equal(other Header) bool {
	o, ok := other.(*AlertInfo)
	return ok && equalAddrList(h.List, o.List)
}
