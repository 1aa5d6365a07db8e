// Package sip implements the SIP message model of spec §3.4: the typed
// header aggregate, Request/Response first lines, and the parse/serialize
// entry points of §6.5 built on sip/codec, sip/header and sip/uri.
package sip

import (
	"strings"

	"github.com/voicecore/sipsrtp/sip/header"
)

// Message holds the fields common to requests and responses: the ordered
// header list (original order preserved, including unknown headers kept
// verbatim as header.Any), an optional body, and the raw buffer the
// decoder produced it from, when applicable.
type Message struct {
	Headers []header.Header
	Body    []byte
	Raw     []byte // set only when produced by the decoder (§3.4)
}

// HasBody reports whether the message carries a body, which per §3.4 is
// true iff the bytes following CRLFCRLF were non-empty.
func (m *Message) HasBody() bool { return len(m.Body) > 0 }

// Header returns the first header matching name, if any.
func (m *Message) Header(name header.Name) (header.Header, bool) {
	for _, h := range m.Headers {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// HeaderAll returns every header matching name, in original order.
func (m *Message) HeaderAll(name header.Name) []header.Header {
	var out []header.Header
	for _, h := range m.Headers {
		if h.Name() == name {
			out = append(out, h)
		}
	}
	return out
}

// AddHeader appends a header to the end of the ordered list.
func (m *Message) AddHeader(h header.Header) { m.Headers = append(m.Headers, h) }

// RemoveHeader removes every header matching name.
func (m *Message) RemoveHeader(name header.Name) {
	out := m.Headers[:0]
	for _, h := range m.Headers {
		if h.Name() != name {
			out = append(out, h)
		}
	}
	m.Headers = out
}

// Via returns the Via header set, if present.
func (m *Message) Via() (*header.Via, bool) {
	h, ok := m.Header("Via")
	if !ok {
		return nil, false
	}
	v, ok := h.(*header.Via)
	return v, ok
}

// PushVia prepends a new Via entry, creating the header if absent, so the
// new entry becomes the top (§4.7/§4.8).
func (m *Message) PushVia(e header.ViaEntry) {
	if v, ok := m.Via(); ok {
		v.Push(e)
		return
	}
	m.AddHeader(&header.Via{Entries: []header.ViaEntry{e}})
}

// From returns the From field, if present.
func (m *Message) From() (*header.From, bool) {
	h, ok := m.Header("From")
	if !ok {
		return nil, false
	}
	f, ok := h.(*header.From)
	return f, ok
}

// To returns the To field, if present.
func (m *Message) To() (*header.To, bool) {
	h, ok := m.Header("To")
	if !ok {
		return nil, false
	}
	t, ok := h.(*header.To)
	return t, ok
}

// CallID returns the Call-ID value, or "" if absent.
func (m *Message) CallID() string {
	h, ok := m.Header("Call-ID")
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.String())
}

// CSeq returns the CSeq field, if present.
func (m *Message) CSeq() (*header.CSeq, bool) {
	h, ok := m.Header("CSeq")
	if !ok {
		return nil, false
	}
	c, ok := h.(*header.CSeq)
	return c, ok
}

// ContentLength returns the Content-Length value, defaulting to 0 when
// the header is absent (§3.4).
func (m *Message) ContentLength() int64 {
	h, ok := m.Header("Content-Length")
	if !ok {
		return 0
	}
	cl, ok := h.(*header.ContentLength)
	if !ok {
		return 0
	}
	return cl.Value
}

// MaxForwards returns the Max-Forwards value, or -1 if absent (§3.4).
func (m *Message) MaxForwards() int64 {
	h, ok := m.Header("Max-Forwards")
	if !ok {
		return -1
	}
	mf, ok := h.(*header.MaxForwards)
	if !ok {
		return -1
	}
	return mf.Value
}

// Expires returns the Expires value, or -1 if absent (§3.4).
func (m *Message) Expires() int64 {
	h, ok := m.Header("Expires")
	if !ok {
		return -1
	}
	e, ok := h.(*header.Expires)
	if !ok {
		return -1
	}
	return e.Value
}

// MinExpires returns the Min-Expires value, or -1 if absent (§3.4).
func (m *Message) MinExpires() int64 {
	h, ok := m.Header("Min-Expires")
	if !ok {
		return -1
	}
	e, ok := h.(*header.MinExpires)
	if !ok {
		return -1
	}
	return e.Value
}

// ContentType returns the Content-Type header's text value, and whether
// it is present.
func (m *Message) ContentType() (string, bool) {
	h, ok := m.Header("Content-Type")
	if !ok {
		return "", false
	}
	return h.String(), true
}

// Clone returns an independent deep copy of the message.
func (m *Message) Clone() Message {
	c := Message{Body: append([]byte(nil), m.Body...)}
	c.Headers = make([]header.Header, len(m.Headers))
	for i, h := range m.Headers {
		c.Headers[i] = h.Clone()
	}
	return c
}
