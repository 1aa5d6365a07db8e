// Package sdes implements the SDP "crypto" attribute of spec §3.6/§4.17,
// the SDES key-exchange mechanism that carries SRTP master key material
// inside session descriptions (RFC 4568), and its conversion to and from
// an [srtp.Context].
package sdes

import "github.com/voicecore/sipsrtp/internal/errorutil"

// ErrMalformedAttribute is returned when a `crypto:` attribute line does
// not match the grammar of §4.17.
const ErrMalformedAttribute errorutil.Error = "malformed crypto attribute"

// ErrUnsupportedKeyMethod names a key-params method other than "inline",
// the only one spec §4.17 defines. The decoder does not return it: a field
// without the "inline:" prefix ends the key-params list and is kept as a
// session parameter.
const ErrUnsupportedKeyMethod errorutil.Error = "unsupported key method"
