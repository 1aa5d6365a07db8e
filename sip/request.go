package sip

import "github.com/voicecore/sipsrtp/sip/uri"

// Request is a SIP request: method, Request-URI, SIP-Version and the
// common Message fields.
type Request struct {
	Message
	Method     string
	RequestURI uri.URI
	SIPVersion string
}

func (r *Request) Clone() *Request {
	c := &Request{Message: r.Message.Clone(), Method: r.Method, SIPVersion: r.SIPVersion}
	if r.RequestURI != nil {
		c.RequestURI = r.RequestURI.Clone()
	}
	return c
}

// StartLine renders the request-line: "Method Request-URI SIP-Version".
func (r *Request) StartLine() string {
	uriText := ""
	if r.RequestURI != nil {
		uriText = r.RequestURI.String()
	}
	return r.Method + " " + uriText + " " + r.SIPVersion
}
