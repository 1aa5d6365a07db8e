package srtp

import (
	"crypto/aes"
	"encoding/binary"

	"braces.dev/errtrace"
)

// f8RTPIV builds the 16-byte AES-f8 IV for an RTP packet per §4.14:
// a zero byte, the packed M/PT byte, SEQ, timestamp, SSRC and ROC.
func f8RTPIV(marker bool, payloadType byte, seq uint16, timestamp, ssrc, roc uint32) [16]byte {
	var iv [16]byte
	iv[0] = 0
	mpt := payloadType & 0x7f
	if marker {
		mpt |= 0x80
	}
	iv[1] = mpt
	binary.BigEndian.PutUint16(iv[2:4], seq)
	binary.BigEndian.PutUint32(iv[4:8], timestamp)
	binary.BigEndian.PutUint32(iv[8:12], ssrc)
	binary.BigEndian.PutUint32(iv[12:16], roc)
	return iv
}

// f8RTCPIV builds the 16-byte AES-f8 IV for an SRTCP packet per §4.14: a
// zero byte, the encrypted flag folded into the top bit of the SRTCP
// index, the packet's V/P/RC byte, PT and length, and the SSRC.
func f8RTCPIV(encrypted bool, srtcpIndex uint32, vpRC, pt byte, length uint16, ssrc uint32) [16]byte {
	var iv [16]byte
	iv[0] = 0

	idx := srtcpIndex & 0x7fffffff
	if encrypted {
		idx |= 0x80000000
	}
	binary.BigEndian.PutUint32(iv[4:8], idx)

	iv[8] = vpRC
	iv[9] = pt
	binary.BigEndian.PutUint16(iv[10:12], length)
	binary.BigEndian.PutUint32(iv[12:16], ssrc)
	return iv
}

// f8Mask derives the IV-masking key m of §4.12: the session salt, padded
// to the encryption key's length with the alternating bit pattern 0x55,
// XORed against the session encryption key.
func f8Mask(sessionKey, sessionSalt []byte) []byte {
	m := make([]byte, len(sessionKey))
	copy(m, sessionSalt)
	for i := len(sessionSalt); i < len(m); i++ {
		m[i] = 0x55
	}
	for i := range m {
		m[i] ^= sessionKey[i]
	}
	return m
}

// aesF8Keystream XORs n bytes of AES-f8 keystream into dst, per §4.12:
//
//	m = (salt||0x5555…) XOR k_e
//	IV' = E(m, IV)
//	S(-1) = 0
//	S(j) = E(k_e, IV' XOR j XOR S(j-1))
func aesF8Keystream(sessionKey, sessionSalt []byte, iv [16]byte, dst, src []byte) error {
	keyBlock, err := aes.NewCipher(sessionKey)
	if err != nil {
		return errtrace.Wrap(err)
	}

	m := f8Mask(sessionKey, sessionSalt)
	maskBlock, err := aes.NewCipher(m)
	if err != nil {
		return errtrace.Wrap(err)
	}

	var ivPrime [16]byte
	maskBlock.Encrypt(ivPrime[:], iv[:])

	var prevS [16]byte // S(-1) = 0
	n := len(src)
	for off := 0; off < n; off += 16 {
		var jBuf [16]byte
		binary.BigEndian.PutUint64(jBuf[8:], uint64(off/16))

		var in [16]byte
		for i := 0; i < 16; i++ {
			in[i] = ivPrime[i] ^ jBuf[i] ^ prevS[i]
		}
		var s [16]byte
		keyBlock.Encrypt(s[:], in[:])

		end := off + 16
		if end > n {
			end = n
		}
		chunk := end - off
		for i := 0; i < chunk; i++ {
			dst[off+i] = src[off+i] ^ s[i]
		}
		prevS = s
	}
	return nil
}
