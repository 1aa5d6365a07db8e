// Package srtp implements the SRTP/SRTCP cryptographic engine of spec
// §3.5, §4.9-§4.16 and §6.3: per-packet authenticated encryption and
// decryption of RTP/RTCP per RFC 3711, master-key/session-key derivation,
// 48-bit packet-index reconstruction across sequence-number wrap, the
// AES-CM and AES-f8 keystream transforms and HMAC-SHA1 authentication.
package srtp

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
)

// cipherKind distinguishes the two keystream transforms a [Suite] may use.
type cipherKind uint8

const (
	cipherCM cipherKind = iota
	cipherF8
)

// Suite identifies one of the seven SRTP crypto suites of §6.3. All use a
// 14-byte master salt and HMAC-SHA1 truncated to the suite's tag length.
type Suite uint8

const (
	AES_CM_128_HMAC_SHA1_80 Suite = iota
	AES_CM_128_HMAC_SHA1_32
	F8_128_HMAC_SHA1_80
	AES_192_CM_HMAC_SHA1_80
	AES_192_CM_HMAC_SHA1_32
	AES_256_CM_HMAC_SHA1_80
	AES_256_CM_HMAC_SHA1_32
)

// ErrUnknownSuite is returned by [ParseSuite] for an unrecognized name.
const ErrUnknownSuite errorutil.Error = "unknown SRTP crypto suite"

type suiteInfo struct {
	name   string
	keyLen int
	tagLen int
	cipher cipherKind
}

var suiteTable = map[Suite]suiteInfo{
	AES_CM_128_HMAC_SHA1_80: {"AES_CM_128_HMAC_SHA1_80", 16, 10, cipherCM},
	AES_CM_128_HMAC_SHA1_32: {"AES_CM_128_HMAC_SHA1_32", 16, 4, cipherCM},
	F8_128_HMAC_SHA1_80:     {"F8_128_HMAC_SHA1_80", 16, 10, cipherF8},
	AES_192_CM_HMAC_SHA1_80: {"AES_192_CM_HMAC_SHA1_80", 24, 10, cipherCM},
	AES_192_CM_HMAC_SHA1_32: {"AES_192_CM_HMAC_SHA1_32", 24, 4, cipherCM},
	AES_256_CM_HMAC_SHA1_80: {"AES_256_CM_HMAC_SHA1_80", 32, 10, cipherCM},
	AES_256_CM_HMAC_SHA1_32: {"AES_256_CM_HMAC_SHA1_32", 32, 4, cipherCM},
}

// const masterSaltLen is fixed across every suite, per §3.5/§6.3.
const masterSaltLen = 14

// authKeyLen is the HMAC-SHA1 session key length, per §4.10.
const authKeyLen = 20

// ParseSuite parses a suite name as it appears on the wire (SDES `crypto`
// attribute, §6.3), case-sensitively since the names are fixed tokens.
func ParseSuite(name string) (Suite, error) {
	for s, info := range suiteTable {
		if info.name == name {
			return s, nil
		}
	}
	return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownSuite, name))
}

// String renders the suite's wire name.
func (s Suite) String() string { return suiteTable[s].name }

// KeyLen returns the suite's master/session key length in bytes (16, 24 or 32).
func (s Suite) KeyLen() int { return suiteTable[s].keyLen }

// TagLen returns the suite's default authentication tag length in bytes (10 or 4).
func (s Suite) TagLen() int { return suiteTable[s].tagLen }

// IsValid reports whether s is one of the seven recognized suites.
func (s Suite) IsValid() bool { _, ok := suiteTable[s]; return ok }

// knownSuiteNames lists the wire names of the seven suites, for
// [IsKnownSuiteName].
func knownSuiteNames() []string {
	out := make([]string, 0, len(suiteTable))
	for _, info := range suiteTable {
		out = append(out, info.name)
	}
	return out
}

// IsKnownSuiteName reports whether name matches one of the seven suites,
// without allocating a [Suite] value for it.
func IsKnownSuiteName(name string) bool {
	for _, n := range knownSuiteNames() {
		if n == name {
			return true
		}
	}
	return false
}

func (s Suite) isF8() bool { return suiteTable[s].cipher == cipherF8 }

// normalizeSuiteName upper-cases nothing (names are case-sensitive fixed
// tokens per §6.3) but trims incidental whitespace a caller might pass.
func normalizeSuiteName(s string) string { return strings.TrimSpace(s) }
