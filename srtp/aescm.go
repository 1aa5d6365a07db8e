package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"braces.dev/errtrace"
)

// aesCMIV builds the 16-byte AES-CM initial counter value of §4.13: the
// 14-byte session salt, with the SSRC XORed into bytes [4:8] and the
// 48-bit packet index (shifted left 16 bits, so it occupies bytes [8:16]
// as a 48-bit big-endian quantity left-justified to 64 bits) XORed into
// bytes [8:16]. The trailing two bytes double as AES-CM's low-order
// per-block counter and start at zero.
func aesCMIV(salt []byte, ssrc uint32, packetIndex uint64) [16]byte {
	var iv [16]byte
	copy(iv[:14], salt)

	var ssrcBuf [4]byte
	binary.BigEndian.PutUint32(ssrcBuf[:], ssrc)
	for i := 0; i < 4; i++ {
		iv[4+i] ^= ssrcBuf[i]
	}

	var piBuf [8]byte
	binary.BigEndian.PutUint64(piBuf[:], packetIndex<<16)
	for i := 0; i < 8; i++ {
		iv[8+i] ^= piBuf[i]
	}

	return iv
}

// aesCMKeystream XORs n bytes of AES-CM keystream, generated under
// sessionKey starting at iv, into dst (dst and src may overlap, matching
// cipher.Stream.XORKeyStream's contract) — used symmetrically for both
// encryption and decryption per §4.11.
func aesCMKeystream(sessionKey []byte, iv [16]byte, dst, src []byte) error {
	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return errtrace.Wrap(err)
	}
	stream := cipher.NewCTR(block, iv[:])
	stream.XORKeyStream(dst, src)
	return nil
}
