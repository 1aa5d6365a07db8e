// Package header implements the typed SIP header fields of spec §3.4: one
// Go type per header family, a canonical/compact name table, and a
// dispatch-based parser feeding spec §4.5's header-parsing algorithm.
package header

import (
	"net/textproto"
	"sync"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/util"
	"github.com/voicecore/sipsrtp/internal/values"
)

// Header is implemented by every typed header field value.
type Header interface {
	// Name returns the canonical header name this value serializes under.
	Name() Name
	// String renders the header's value (not including "Name: ").
	String() string
	// Clone returns an independent deep copy.
	Clone() Header
	// Equal compares two header values of the same kind.
	Equal(other Header) bool
}

// Name is a canonical SIP header name, e.g. "Via", "Content-Length".
type Name string

// compactAliases maps the RFC 3261 §7.3.3 compact forms, plus a few
// canonicalization exceptions textproto.CanonicalMIMEHeaderKey gets wrong
// for SIP (Call-ID, CSeq, MIME-Version, WWW-Authenticate).
var compactAliases = map[string]Name{
	"v": "Via",
	"i": "Call-ID",
	"m": "Contact",
	"l": "Content-Length",
	"c": "Content-Type",
	"o": "Event",
	"f": "From",
	"r": "Refer-To",
	"s": "Subject",
	"k": "Supported",
	"t": "To",
	"u": "Allow-Events",

	"call-id":          "Call-ID",
	"cseq":             "CSeq",
	"mime-version":     "MIME-Version",
	"www-authenticate": "WWW-Authenticate",
}

// CanonicName canonicalizes a header name, expanding compact aliases.
func CanonicName(name string) Name {
	name = util.TrimSP(name)
	lower := util.LCase(name)
	if n, ok := compactAliases[lower]; ok {
		return n
	}
	return Name(textproto.CanonicalMIMEHeaderKey(name))
}

// ErrUnknownHeader is a sentinel for a header name with no typed parser.
// [Parse] does not return it: such a header is parsed as a generic [Any]
// without error.
const ErrUnknownHeader errorutil.Error = "no typed parser for header"

// ParseFunc parses a single header value (already unfolded, already split
// from its name) into a typed Header.
type ParseFunc func(value string) (Header, error)

var (
	registryMu sync.RWMutex
	registry   = map[Name]ParseFunc{}
)

// Register associates a canonical header name with its value parser. Typed
// header files call this from an init() func, letting callers extend the
// dispatch table without touching this package.
func Register(name Name, fn ParseFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// Lookup returns the registered parser for a canonical name, if any.
func Lookup(name Name) (ParseFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Parse dispatches a raw header line's name and value to the registered
// typed parser, falling back to [Any] for unrecognized names, per §4.5.
func Parse(rawName, value string) (Header, error) {
	name := CanonicName(rawName)
	if fn, ok := Lookup(name); ok {
		h, err := fn(value)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return h, nil
	}
	return &Any{HeaderName: rawName, Value: value}, nil
}
