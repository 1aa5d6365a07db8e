package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/qtoken"
	"github.com/voicecore/sipsrtp/internal/util"
)

// Text is a plain singleton text-valued header (RFC 3261 §20's Subject,
// Organization, Server, User-Agent, Priority, Content-Disposition,
// Content-Encoding, Content-Language, Date, In-Reply-To, MIME-Version,
// Retry-After, Timestamp, Warning, P-Asserted-Identity's textual siblings,
// …). One Go type serves every header name in textHeaderNames; only the
// name differs, which is why spec §3.4 samples this family rather than
// enumerating it.
type Text struct {
	HeaderName Name
	Value      string
}

func (h *Text) Name() Name     { return h.HeaderName }
func (h *Text) String() string { return h.Value }
func (h *Text) Clone() Header  { c := *h; return &c }
func (h *Text) Equal(other Header) bool {
	o, ok := other.(*Text)
	return ok && h.HeaderName == o.HeaderName && h.Value == o.Value
}

// textHeaderNames lists every RFC 3261 §20 singleton text header the
// SPEC_FULL supplement adds beyond spec.md's sampled set, plus the
// singleton structured fields (Reason, Resource-Priority, Geolocation-*,
// Event, Subscription-State) whose values are carried verbatim since no
// component in this core interprets their sub-grammar.
var textHeaderNames = []Name{
	"Subject", "Organization", "Server", "User-Agent", "Priority",
	"Content-Type", "Content-Disposition", "Content-Encoding", "Content-Language",
	"Date", "In-Reply-To", "MIME-Version", "Retry-After", "Timestamp",
	"Warning", "Reason", "Resource-Priority", "Geolocation-Routing",
	"Geolocation-Error", "Event", "Subscription-State",
}

func init() {
	for _, name := range textHeaderNames {
		name := name
		Register(name, func(v string) (Header, error) {
			return &Text{HeaderName: name, Value: util.TrimSP(v)}, nil
		})
	}
}

// TokenList is a comma-separated list of bare tokens (Allow, Supported,
// Unsupported, Require, Proxy-Require, Allow-Events).
type TokenList struct {
	HeaderName Name
	Tokens     []string
}

var tokenListHeaderNames = []Name{
	"Allow", "Supported", "Unsupported", "Require", "Proxy-Require", "Allow-Events",
}

func init() {
	for _, name := range tokenListHeaderNames {
		name := name
		Register(name, func(v string) (Header, error) {
			return &TokenList{HeaderName: name, Tokens: splitTokenList(v)}, nil
		})
	}
}

func splitTokenList(v string) []string {
	var out []string
	for _, seg := range qtoken.Split(v, ',') {
		seg = util.TrimSP(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func (h *TokenList) Name() Name { return h.HeaderName }
func (h *TokenList) String() string {
	return strings.Join(h.Tokens, ", ")
}
func (h *TokenList) Clone() Header {
	return &TokenList{HeaderName: h.HeaderName, Tokens: append([]string(nil), h.Tokens...)}
}
func (h *TokenList) Equal(other Header) bool {
	o, ok := other.(*TokenList)
	if !ok || h.HeaderName != o.HeaderName || len(h.Tokens) != len(o.Tokens) {
		return false
	}
	for i := range h.Tokens {
		if !strings.EqualFold(h.Tokens[i], o.Tokens[i]) {
			return false
		}
	}
	return true
}

// MediaRangeList is Accept/Accept-Encoding/Accept-Language: a
// comma-separated list of tokens each carrying its own ;params (q-value
// etc.), tokenized with the quoted-tokenizer per §4.1.
type MediaRangeList struct {
	HeaderName Name
	Entries    []string
}

var mediaRangeHeaderNames = []Name{"Accept", "Accept-Encoding", "Accept-Language"}

func init() {
	for _, name := range mediaRangeHeaderNames {
		name := name
		Register(name, func(v string) (Header, error) {
			var entries []string
			for _, seg := range qtoken.Split(v, ',') {
				seg = util.TrimSP(seg)
				if seg != "" {
					entries = append(entries, seg)
				}
			}
			return &MediaRangeList{HeaderName: name, Entries: entries}, nil
		})
	}
}

func (h *MediaRangeList) Name() Name     { return h.HeaderName }
func (h *MediaRangeList) String() string { return strings.Join(h.Entries, ", ") }
func (h *MediaRangeList) Clone() Header {
	return &MediaRangeList{HeaderName: h.HeaderName, Entries: append([]string(nil), h.Entries...)}
}
func (h *MediaRangeList) Equal(other Header) bool {
	o, ok := other.(*MediaRangeList)
	if !ok || h.HeaderName != o.HeaderName || len(h.Entries) != len(o.Entries) {
		return false
	}
	for i := range h.Entries {
		if h.Entries[i] != o.Entries[i] {
			return false
		}
	}
	return true
}

func init() {
	Register("P-Asserted-Identity", addrSingleton("P-Asserted-Identity"))
	Register("P-Preferred-Identity", addrSingleton("P-Preferred-Identity"))
	Register("Refer-To", addrSingleton("Refer-To"))
	Register("Referred-By", addrSingleton("Referred-By"))
	Register("Refer-Sub", func(v string) (Header, error) {
		return &Text{HeaderName: "Refer-Sub", Value: util.TrimSP(v)}, nil
	})
}

func addrSingleton(name Name) ParseFunc {
	return func(v string) (Header, error) {
		na, err := ParseNameAddr(v)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return &AddrSingleton{HeaderName: name, Addr: na}, nil
	}
}

// AddrSingleton is a single NameAddr-valued header: P-Asserted-Identity,
// P-Preferred-Identity, Refer-To, Referred-By.
type AddrSingleton struct {
	HeaderName Name
	Addr       NameAddr
}

func (h *AddrSingleton) Name() Name     { return h.HeaderName }
func (h *AddrSingleton) String() string { return h.Addr.String() }
func (h *AddrSingleton) Clone() Header {
	return &AddrSingleton{HeaderName: h.HeaderName, Addr: h.Addr.Clone()}
}
func (h *AddrSingleton) Equal(other Header) bool {
	o, ok := other.(*AddrSingleton)
	return ok && h.HeaderName == o.HeaderName && h.Addr.Equal(o.Addr)
}

// Any is the generic fallback for an unrecognized header name, preserved
// verbatim to guarantee round-trip (§8.1 property 1) even for headers the
// typed model does not know.
type Any struct {
	HeaderName string
	Value      string
}

func (h *Any) Name() Name     { return CanonicName(h.HeaderName) }
func (h *Any) String() string { return h.Value }
func (h *Any) Clone() Header  { c := *h; return &c }
func (h *Any) Equal(other Header) bool {
	o, ok := other.(*Any)
	return ok && strings.EqualFold(h.HeaderName, o.HeaderName) && h.Value == o.Value
}
