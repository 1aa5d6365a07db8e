// Package errs implements the error taxonomy of spec §7: sentinel values
// compared with errors.Is, plus a typed HeaderValidation carrying the
// offending field name.
package errs

import "github.com/voicecore/sipsrtp/internal/errorutil"

// MessageTooLarge is returned when a buffer exceeds the 200,000-byte
// framing limit of §4.4.
const MessageTooLarge errorutil.Error = "message too large"

// NotSip is returned when the first line of a buffer does not contain
// "SIP", or the buffer is shorter than the 7-byte minimum.
const NotSip errorutil.Error = "not a SIP message"

// MalformedFirstLine is returned when a request line or status line
// cannot be parsed.
const MalformedFirstLine errorutil.Error = "malformed first line"

// UnsupportedURIScheme is returned when a URI scheme is not recognized.
const UnsupportedURIScheme errorutil.Error = "unsupported URI scheme"

// Unauthenticated is returned by the SRTP decryptor when HMAC
// verification fails. (Reserved, unused on the SIP side.)
const Unauthenticated errorutil.Error = "authentication failed"

// MasterKeyNotFound is returned when an inbound packet's MKI does not
// match any configured master key.
const MasterKeyNotFound errorutil.Error = "master key not found for MKI"

// InputPacketTooShort is returned when an SRTP/SRTCP packet cannot
// contain the expected trailer (authentication tag, MKI, SRTCP index).
const InputPacketTooShort errorutil.Error = "input packet too short"

// NoAuthenticationTag is returned when a packet is missing its
// authentication trailer entirely.
const NoAuthenticationTag errorutil.Error = "no authentication tag"

// Field identifies the header or component a [HeaderValidation] error
// concerns.
type Field string

const (
	FieldVia                     Field = "Via"
	FieldCSeq                    Field = "CSeq"
	FieldCallID                  Field = "CallID"
	FieldFrom                    Field = "From"
	FieldTo                      Field = "To"
	FieldContentLength            Field = "ContentLength"
	FieldMaxForwards             Field = "MaxForwards"
	FieldExpires                 Field = "Expires"
	FieldSipVersion              Field = "SipVersion"
	FieldURI                     Field = "URI"
	FieldContactHeader           Field = "ContactHeader"
	FieldRouteHeader             Field = "RouteHeader"
	FieldReferToHeader           Field = "ReferToHeader"
	FieldPAssertedIdentityHeader Field = "PAssertedIdentityHeader"
	FieldPPreferredIdentityHeader Field = "PPreferredIdentityHeader"
	FieldContentType             Field = "ContentType"
)

// HeaderValidation is a required header that failed to parse, or is
// absent when required, per §4.5/§7.
type HeaderValidation struct {
	Field  Field
	Reason string
}

func (e *HeaderValidation) Error() string {
	if e.Reason == "" {
		return "header validation failed: " + string(e.Field)
	}
	return "header validation failed: " + string(e.Field) + ": " + e.Reason
}

// NewHeaderValidation constructs a [HeaderValidation] error.
func NewHeaderValidation(field Field, reason string) error {
	return &HeaderValidation{Field: field, Reason: reason}
}
