package srtp_test

import (
	"testing"

	"github.com/voicecore/sipsrtp/srtp"
)

func TestParseSuiteRoundTrip(t *testing.T) {
	names := []string{
		"AES_CM_128_HMAC_SHA1_80", "AES_CM_128_HMAC_SHA1_32", "F8_128_HMAC_SHA1_80",
		"AES_192_CM_HMAC_SHA1_80", "AES_192_CM_HMAC_SHA1_32",
		"AES_256_CM_HMAC_SHA1_80", "AES_256_CM_HMAC_SHA1_32",
	}
	for _, name := range names {
		s, err := srtp.ParseSuite(name)
		if err != nil {
			t.Fatalf("ParseSuite(%q): %v", name, err)
		}
		if s.String() != name {
			t.Fatalf("String() = %q, want %q", s.String(), name)
		}
		if !s.IsValid() {
			t.Fatalf("%q should be valid", name)
		}
	}
}

func TestParseSuiteUnknown(t *testing.T) {
	if _, err := srtp.ParseSuite("NOT_A_SUITE"); err == nil {
		t.Fatal("expected an error for an unknown suite name")
	}
}

func TestSuiteKeyLengths(t *testing.T) {
	cases := map[srtp.Suite]int{
		srtp.AES_CM_128_HMAC_SHA1_80: 16,
		srtp.AES_192_CM_HMAC_SHA1_80: 24,
		srtp.AES_256_CM_HMAC_SHA1_80: 32,
	}
	for s, want := range cases {
		if got := s.KeyLen(); got != want {
			t.Fatalf("%s.KeyLen() = %d, want %d", s, got, want)
		}
	}
}

func TestSuiteTagLengths(t *testing.T) {
	if srtp.AES_CM_128_HMAC_SHA1_80.TagLen() != 10 {
		t.Fatal("80-bit suite should report a 10-byte tag")
	}
	if srtp.AES_CM_128_HMAC_SHA1_32.TagLen() != 4 {
		t.Fatal("32-bit suite should report a 4-byte tag")
	}
}
