package header

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/internal/qtoken"
	"github.com/voicecore/sipsrtp/internal/util"
	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// ErrMalformedVia is returned for a Via segment that does not match
// "SIP/2.0/<TRANSPORT> sent-by[;params]".
const ErrMalformedVia errorutil.Error = "malformed Via header"

// ViaEntry is one element of the Via set (§4.7).
type ViaEntry struct {
	Transport endpoint.Proto
	SentBy    endpoint.Addr
	Params    *values.Map
}

func init() {
	Register("Via", func(v string) (Header, error) {
		segs := qtoken.Split(v, ',')
		entries := make([]ViaEntry, 0, len(segs))
		for _, seg := range segs {
			e, err := parseViaEntry(seg)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			entries = append(entries, e)
		}
		return &Via{Entries: entries}, nil
	})
}

func parseViaEntry(seg string) (ViaEntry, error) {
	seg = util.TrimSP(seg)

	sp := strings.IndexByte(seg, ' ')
	if sp < 0 {
		return ViaEntry{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedVia, seg))
	}
	protoPart, rest := seg[:sp], util.TrimSP(seg[sp+1:])

	parts := strings.Split(protoPart, "/")
	if len(parts) != 3 || !strings.EqualFold(parts[0], "SIP") || parts[1] != "2.0" {
		return ViaEntry{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedVia, protoPart))
	}
	transport, err := endpoint.ParseProto(parts[2])
	if err != nil {
		return ViaEntry{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedVia, err))
	}

	// tolerate "branch" appearing without a preceding ';' by injecting one,
	// per §4.7.
	rest = injectMissingBranchSemicolon(rest)

	fields := qtoken.Split(rest, ';')
	if len(fields) == 0 {
		return ViaEntry{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedVia, "missing sent-by"))
	}

	var sentBy endpoint.Addr
	sentByStr := util.TrimSP(fields[0])
	if host, port, ok := strings.Cut(sentByStr, ":"); ok && !strings.HasPrefix(sentByStr, "[") {
		p, convErr := strconv.ParseUint(port, 10, 16)
		if convErr != nil {
			return ViaEntry{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedVia, "bad port"))
		}
		sentBy = endpoint.HostPort(host, uint16(p))
	} else {
		sentBy = endpoint.Host(sentByStr)
	}

	params := values.New()
	for _, p := range fields[1:] {
		p = util.TrimSP(p)
		if p == "" {
			continue
		}
		applyParam(params, p)
	}

	return ViaEntry{Transport: transport, SentBy: sentBy, Params: params}, nil
}

// injectMissingBranchSemicolon handles a "branch=" token appearing without
// its required leading ';' by inserting one, a known-tolerated malformation
// per §4.7.
func injectMissingBranchSemicolon(rest string) string {
	idx := strings.Index(rest, "branch=")
	if idx <= 0 || rest[idx-1] == ';' {
		return rest
	}
	return rest[:idx] + ";" + rest[idx:]
}

func (e ViaEntry) String() string {
	var sb strings.Builder
	sb.WriteString("SIP/2.0/")
	sb.WriteString(e.Transport.String())
	sb.WriteByte(' ')
	sb.WriteString(e.SentBy.String())
	sb.WriteString(e.Params.EncodeParams())
	return sb.String()
}

func (e ViaEntry) Clone() ViaEntry {
	e.Params = e.Params.Clone()
	return e
}

func (e ViaEntry) Equal(o ViaEntry) bool {
	return e.Transport == o.Transport && e.SentBy.Equal(o.SentBy) && e.Params.Equal(o.Params)
}

// Branch returns the branch parameter, if present.
func (e ViaEntry) Branch() (string, bool) { return e.Params.Get("branch") }

// Via is the ordered Via set of §3.4/§4.7: the top (most recently
// inserted, index 0) is the element the current hop prepended.
type Via struct{ Entries []ViaEntry }

func (h *Via) Name() Name { return "Via" }
func (h *Via) String() string {
	var sb strings.Builder
	for i, e := range h.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
func (h *Via) Clone() Header {
	out := make([]ViaEntry, len(h.Entries))
	for i, e := range h.Entries {
		out[i] = e.Clone()
	}
	return &Via{out}
}
func (h *Via) Equal(other Header) bool {
	o, ok := other.(*Via)
	if !ok || len(h.Entries) != len(o.Entries) {
		return false
	}
	for i := range h.Entries {
		if !h.Entries[i].Equal(o.Entries[i]) {
			return false
		}
	}
	return true
}

// Top returns the first (most recently added) Via entry.
func (h *Via) Top() (ViaEntry, bool) {
	if len(h.Entries) == 0 {
		return ViaEntry{}, false
	}
	return h.Entries[0], true
}

// Push prepends a new Via entry, making it the top.
func (h *Via) Push(e ViaEntry) {
	h.Entries = append([]ViaEntry{e}, h.Entries...)
}

// Pop removes and returns the top Via entry, per property 8.1.4: pushing N
// entries and popping N yields them in reverse push order.
func (h *Via) Pop() (ViaEntry, bool) {
	if len(h.Entries) == 0 {
		return ViaEntry{}, false
	}
	e := h.Entries[0]
	h.Entries = h.Entries[1:]
	return e, true
}
