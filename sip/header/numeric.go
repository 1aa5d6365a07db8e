package header

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/util"
)

// ErrMalformedCSeq is returned when a CSeq value's sequence number isn't
// numeric, per §4.5's "malformed required header" list.
const ErrMalformedCSeq errorutil.Error = "malformed CSeq header"

func init() {
	Register("CSeq", func(v string) (Header, error) {
		parts := strings.Fields(v)
		if len(parts) != 2 {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedCSeq, v))
		}
		n, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedCSeq, err))
		}
		return &CSeq{Number: uint32(n), Method: util.UCase(parts[1])}, nil
	})
	Register("Content-Length", func(v string) (Header, error) {
		n, err := strconv.ParseInt(util.TrimSP(v), 10, 64)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(errContentLength, err))
		}
		return &ContentLength{Value: n}, nil
	})
	Register("Max-Forwards", func(v string) (Header, error) {
		n, err := strconv.ParseInt(util.TrimSP(v), 10, 64)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(errMaxForwards, err))
		}
		return &MaxForwards{Value: n}, nil
	})
	Register("Expires", func(v string) (Header, error) {
		n, err := strconv.ParseInt(util.TrimSP(v), 10, 64)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(errExpires, err))
		}
		return &Expires{Value: n}, nil
	})
	Register("Min-Expires", func(v string) (Header, error) {
		n, err := strconv.ParseInt(util.TrimSP(v), 10, 64)
		if err != nil {
			// optional header: the codec elides a header whose parse
			// fails here instead of failing the message, per §4.5, since
			// Min-Expires is not among the required headers.
			return nil, errtrace.Wrap(errorutil.NewWrapperError(errMinExpires, err))
		}
		return &MinExpires{Value: n}, nil
	})
}

const (
	errContentLength errorutil.Error = "malformed Content-Length header"
	errMaxForwards   errorutil.Error = "malformed Max-Forwards header"
	errExpires       errorutil.Error = "malformed Expires header"
	errMinExpires    errorutil.Error = "malformed Min-Expires header"
)

// CSeq is the structured CSeq field: sequence number + method.
type CSeq struct {
	Number uint32
	Method string
}

func (h *CSeq) Name() Name     { return "CSeq" }
func (h *CSeq) String() string { return strconv.FormatUint(uint64(h.Number), 10) + " " + h.Method }
func (h *CSeq) Clone() Header  { c := *h; return &c }
func (h *CSeq) Equal(other Header) bool {
	o, ok := other.(*CSeq)
	return ok && h.Number == o.Number && strings.EqualFold(h.Method, o.Method)
}

// ContentLength is the Content-Length field, default 0 when absent.
type ContentLength struct{ Value int64 }

func (h *ContentLength) Name() Name     { return "Content-Length" }
func (h *ContentLength) String() string { return strconv.FormatInt(h.Value, 10) }
func (h *ContentLength) Clone() Header  { c := *h; return &c }
func (h *ContentLength) Equal(other Header) bool {
	o, ok := other.(*ContentLength)
	return ok && h.Value == o.Value
}

// MaxForwards is the Max-Forwards field, default 70 when absent on build.
// The parser never produces one for a message that omits the header;
// Message.MaxForwards in package sip reports -1 in that case.
type MaxForwards struct{ Value int64 }

func (h *MaxForwards) Name() Name     { return "Max-Forwards" }
func (h *MaxForwards) String() string { return strconv.FormatInt(h.Value, 10) }
func (h *MaxForwards) Clone() Header  { c := *h; return &c }
func (h *MaxForwards) Equal(other Header) bool {
	o, ok := other.(*MaxForwards)
	return ok && h.Value == o.Value
}

// Expires is the structured Expires field (seconds).
type Expires struct{ Value int64 }

func (h *Expires) Name() Name     { return "Expires" }
func (h *Expires) String() string { return strconv.FormatInt(h.Value, 10) }
func (h *Expires) Clone() Header  { c := *h; return &c }
func (h *Expires) Equal(other Header) bool {
	o, ok := other.(*Expires)
	return ok && h.Value == o.Value
}

// MinExpires is the structured Min-Expires field. Message.MinExpires in
// package sip reports -1 when the header is absent.
type MinExpires struct{ Value int64 }

func (h *MinExpires) Name() Name     { return "Min-Expires" }
func (h *MinExpires) String() string { return strconv.FormatInt(h.Value, 10) }
func (h *MinExpires) Clone() Header  { c := *h; return &c }
func (h *MinExpires) Equal(other Header) bool {
	o, ok := other.(*MinExpires)
	return ok && h.Value == o.Value
}
