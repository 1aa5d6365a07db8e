package srtp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
)

// authTag computes the HMAC-SHA1 tag of §4.16 over authPortion (the packet
// up to, but not including, any MKI) concatenated with the 32-bit ROC, and
// truncates it to tagLen bytes.
func authTag(authKey, authPortion []byte, roc uint32, tagLen int) []byte {
	mac := hmac.New(sha1.New, authKey)
	mac.Write(authPortion)
	var rocBuf [4]byte
	binary.BigEndian.PutUint32(rocBuf[:], roc)
	mac.Write(rocBuf[:])
	full := mac.Sum(nil)
	return full[:tagLen]
}

// verifyTag recomputes the expected tag and compares it against received
// in constant time, per §4.16's authentication-before-decryption rule.
func verifyTag(authKey, authPortion []byte, roc uint32, tagLen int, received []byte) bool {
	if len(received) != tagLen {
		return false
	}
	expected := authTag(authKey, authPortion, roc, tagLen)
	return subtle.ConstantTimeCompare(expected, received) == 1
}
