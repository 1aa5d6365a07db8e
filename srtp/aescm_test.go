package srtp

import "testing"

// TestAESCMKeystreamRFC3711AppendixB checks aesCMKeystream's raw output
// against the leading bytes of the RFC 3711 §B.2 AES-CM keystream test
// vector (also carried by the pack's lanikai-alohartc/internal/rtp's
// TestAESCounterMode), independent of this package's own IV-construction
// helper (aesCMIV) so a bug there cannot mask a bug in the underlying
// counter-mode transform or vice versa.
func TestAESCMKeystreamRFC3711AppendixB(t *testing.T) {
	sessionKey := mustHex(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	var iv [16]byte
	copy(iv[:], mustHex(t, "F0F1F2F3F4F5F6F7F8F9FAFBFCFD0000"))

	src := make([]byte, 48)
	dst := make([]byte, 48)
	if err := aesCMKeystream(sessionKey, iv, dst, src); err != nil {
		t.Fatalf("aesCMKeystream: %v", err)
	}

	want := mustHex(t, "E03EAD0935C95E80E166B16DD92B4EB4"+
		"D23513162B02D0F72A43A2FE4A5F97AB"+
		"41E95B3BB0A2E8DD477901E4FCA894C0")
	if string(dst) != string(want) {
		t.Fatalf("keystream = %X, want %X", dst, want)
	}
}
