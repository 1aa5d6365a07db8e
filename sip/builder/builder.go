// Package builder implements the auxiliary message-construction helpers of
// spec §4.8: the branch/Call-ID/tag generators, a basic-request
// constructor, and the dialog-aware builders for ACK/BYE/CANCEL and 2xx
// responses to INVITE.
package builder

import (
	"strings"

	"github.com/voicecore/sipsrtp/internal/randid"
	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip"
	"github.com/voicecore/sipsrtp/sip/endpoint"
	"github.com/voicecore/sipsrtp/sip/header"
	"github.com/voicecore/sipsrtp/sip/uri"
)

// NewBranch returns a fresh Via branch value: the magic cookie followed by
// random hex, per §4.8.
func NewBranch() string { return randid.NewBranch() }

// NewCallID returns a fresh Call-ID value, per §4.8.
func NewCallID() string { return randid.NewCallID() }

// NewTag returns a fresh From/To tag value: ten random lowercase
// alphanumeric characters, per §4.8.
func NewTag() string { return randid.NewTag() }

// Option configures a builder beyond its required arguments.
type Option func(*sip.Request)

// WithFromTag overrides the randomly generated From tag.
func WithFromTag(tag string) Option {
	return func(r *sip.Request) {
		if f, ok := r.From(); ok {
			f.Params.Set("tag", tag)
		}
	}
}

// WithCallID overrides the randomly generated Call-ID.
func WithCallID(id string) Option {
	return func(r *sip.Request) {
		r.RemoveHeader("Call-ID")
		r.AddHeader(&header.Any{HeaderName: "Call-ID", Value: id})
	}
}

// WithCSeq overrides the default initial CSeq number (1).
func WithCSeq(n uint32) Option {
	return func(r *sip.Request) {
		if c, ok := r.CSeq(); ok {
			c.Number = n
		}
	}
}

// newVia builds a single-entry Via header for localEP, with a fresh branch.
func newVia(localEP endpoint.Endpoint) *header.Via {
	params := values.New()
	params.Set("branch", NewBranch())
	return &header.Via{Entries: []header.ViaEntry{{
		Transport: localEP.Protocol,
		SentBy:    endpoint.HostPort(localEP.IP.String(), localEP.Port),
		Params:    params,
	}}}
}

// BuildBasicRequest implements §6.5's build_basic_request entry point: a
// minimal but valid out-of-dialog request carrying a single Via with a
// fresh branch for localEP, Max-Forwards 70, a From built from fromURI
// with a fresh tag, the given To, a fresh Call-ID, CSeq "1 <method>" and
// Content-Length 0.
func BuildBasicRequest(method string, requestURI uri.URI, to header.NameAddr, fromURI uri.URI, localEP endpoint.Endpoint, opts ...Option) *sip.Request {
	req := &sip.Request{
		Method:     strings.ToUpper(method),
		RequestURI: requestURI,
		SIPVersion: "SIP/2.0",
	}

	req.AddHeader(newVia(localEP))
	req.AddHeader(&header.MaxForwards{Value: 70})

	fromParams := values.New()
	fromParams.Set("tag", NewTag())
	req.AddHeader(&header.From{NameAddr: header.NameAddr{URI: fromURI, Params: fromParams, HasDisplay: false}})

	if to.Params == nil {
		to.Params = values.New()
	}
	req.AddHeader(&header.To{NameAddr: to})

	req.AddHeader(&header.Any{HeaderName: "Call-ID", Value: NewCallID()})
	req.AddHeader(&header.CSeq{Number: 1, Method: req.Method})
	req.AddHeader(&header.ContentLength{Value: 0})

	for _, opt := range opts {
		opt(req)
	}
	return req
}
