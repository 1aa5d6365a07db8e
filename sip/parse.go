package sip

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/errs"
	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/sip/codec"
	"github.com/voicecore/sipsrtp/sip/uri"
)

// errMessageKind distinguishes the two first-line shapes before either
// Request or Response can be constructed.
const errMessageKind errorutil.Error = "message is neither a request nor a response"

// Decoded is implemented by *Request and *Response, the two possible
// results of [ParseMessage].
type Decoded interface {
	StartLine() string
}

// ParseMessage frames the buffer (§4.4), parses its headers (§4.5), then
// dispatches the first line to a Request or Response. Filling Via
// received/rport (§4.7) from the connection a message arrived on is a
// transport-layer concern left to callers, who can amend the returned
// Via after parsing.
func ParseMessage(data []byte) (Decoded, error) {
	startLine, headerLines, body, err := codec.Frame(data)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	headers, err := codec.ParseHeaderLines(headerLines)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	msg := Message{Headers: headers, Body: body, Raw: data}

	if strings.HasPrefix(startLine, "SIP/") {
		resp, perr := parseStatusLine(startLine)
		if perr != nil {
			return nil, errtrace.Wrap(perr)
		}
		resp.Message = msg
		return resp, nil
	}

	req, perr := parseRequestLine(startLine)
	if perr != nil {
		return nil, errtrace.Wrap(perr)
	}
	req.Message = msg
	return req, nil
}

// ParseRequest parses a buffer known to contain a request, per §6.5.
func ParseRequest(data []byte) (*Request, error) {
	m, err := ParseMessage(data)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	r, ok := m.(*Request)
	if !ok {
		return nil, errtrace.Wrap(errMessageKind)
	}
	return r, nil
}

// ParseResponse parses a buffer known to contain a response, per §6.5.
func ParseResponse(data []byte) (*Response, error) {
	m, err := ParseMessage(data)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	r, ok := m.(*Response)
	if !ok {
		return nil, errtrace.Wrap(errMessageKind)
	}
	return r, nil
}

func parseRequestLine(line string) (*Request, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, errtrace.Wrap(errs.MalformedFirstLine)
	}
	u, err := uri.Parse(parts[1])
	if err != nil {
		return nil, errtrace.Wrap(errs.NewHeaderValidation(errs.FieldURI, err.Error()))
	}
	return &Request{Method: strings.ToUpper(parts[0]), RequestURI: u, SIPVersion: parts[2]}, nil
}

func parseStatusLine(line string) (*Response, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return nil, errtrace.Wrap(errs.MalformedFirstLine)
	}
	code, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errtrace.Wrap(errs.MalformedFirstLine)
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	return &Response{SIPVersion: parts[0], StatusCode: code, ReasonPhrase: reason}, nil
}
