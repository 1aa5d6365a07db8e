package sip

import "strconv"

// Response is a SIP response: SIP-Version, status code, reason phrase and
// the common Message fields.
type Response struct {
	Message
	SIPVersion   string
	StatusCode   int
	ReasonPhrase string
}

func (r *Response) Clone() *Response {
	return &Response{
		Message:      r.Message.Clone(),
		SIPVersion:   r.SIPVersion,
		StatusCode:   r.StatusCode,
		ReasonPhrase: r.ReasonPhrase,
	}
}

// StartLine renders the status-line: "SIP-Version Status-Code Reason-Phrase".
func (r *Response) StartLine() string {
	return r.SIPVersion + " " + strconv.Itoa(r.StatusCode) + " " + r.ReasonPhrase
}

// IsProvisional reports whether the status code is 1xx.
func (r *Response) IsProvisional() bool { return r.StatusCode >= 100 && r.StatusCode < 200 }

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// reasonPhrases gives the canonical reason phrase for a small set of
// status codes commonly synthesized by builders; §9's design-note
// resolution of the duplicate 580 entry lands here: 580 has a single
// canonical name.
var reasonPhrases = map[int]string{
	100: "Trying",
	180: "Ringing",
	200: "OK",
	400: "Bad Request",
	404: "Not Found",
	408: "Request Timeout",
	480: "Temporarily Unavailable",
	486: "Busy Here",
	487: "Request Terminated",
	494: "Security Agreement Required",
	500: "Server Internal Error",
	580: "Precondition Failure",
	603: "Decline",
}

// ReasonPhraseFor returns the canonical reason phrase for a status code,
// or "" if none is known.
func ReasonPhraseFor(code int) string { return reasonPhrases[code] }
