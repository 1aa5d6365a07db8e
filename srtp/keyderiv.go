package srtp

import (
	"crypto/aes"
	"encoding/binary"

	"braces.dev/errtrace"
)

// Key-derivation labels of §4.10/§6.3 (RFC 3711 §4.3): which session
// secret a given derivation produces.
const (
	labelRTPEncryption  byte = 0
	labelRTPAuth        byte = 1
	labelRTPSalt        byte = 2
	labelRTCPEncryption byte = 3
	labelRTCPAuth       byte = 4
	labelRTCPSalt       byte = 5
)

// kdrRate returns r = PI / 2^kdr for the given packet index and KDR
// exponent, per §4.10 ("kdr=0 ⇒ r=PI, else r = PI / 2^kdr" — division by
// 2^0 is the identity, so the two cases collapse into one shift).
func kdrRate(packetIndex uint64, kdr uint8) uint64 {
	return packetIndex >> kdr
}

// deriveKey implements §4.10's session-key derivation: build the 14-byte
// key_id from (label, r), XOR it against the master salt, AES-CM-encrypt
// the zero-filled block of the requested output length under masterKey,
// and return outLen bytes.
func deriveKey(masterKey, masterSalt []byte, label byte, packetIndex uint64, kdr uint8, outLen int) ([]byte, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	r := kdrRate(packetIndex, kdr)

	// key_id = (label << 48) | r, right-justified into 14 bytes big-endian:
	// label occupies byte index 7, r the low 48 bits (bytes 8..13).
	var keyID [14]byte
	keyID[7] = label
	var rBuf [8]byte
	binary.BigEndian.PutUint64(rBuf[:], r&((1<<48)-1))
	copy(keyID[8:14], rBuf[2:8])

	// x = master_salt XOR key_id, right-aligned, padded to a 16-byte AES-CM
	// input block with two trailing zero bytes.
	var x [16]byte
	copy(x[:14], masterSalt)
	for i := 0; i < 14; i++ {
		x[i] ^= keyID[i]
	}

	out := make([]byte, outLen)
	counter := x
	produced := 0
	for produced < outLen {
		var block16 [16]byte
		block.Encrypt(block16[:], counter[:])
		n := copy(out[produced:], block16[:])
		produced += n
		incrementCounter(&counter)
	}
	return out, nil
}

// incrementCounter increments a 16-byte big-endian counter in place, used
// when a derivation needs more than one AES block of output (the 20-byte
// authentication key and the 24- and 32-byte session keys do).
func incrementCounter(b *[16]byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}
