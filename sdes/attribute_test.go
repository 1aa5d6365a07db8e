package sdes_test

import (
	"crypto/rand"
	"testing"

	"github.com/voicecore/sipsrtp/sdes"
	"github.com/voicecore/sipsrtp/srtp"
)

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestCryptoAttributeRoundTrip(t *testing.T) {
	mk := srtp.MasterKey{Key: randBytes(t, 16), Salt: randBytes(t, 14)}
	attr := sdes.FromMasterKey(1, srtp.AES_CM_128_HMAC_SHA1_80, mk)

	line := attr.String()
	parsed, err := sdes.ParseCryptoAttribute(line)
	if err != nil {
		t.Fatalf("ParseCryptoAttribute(%q): %v", line, err)
	}
	if parsed.Tag != 1 || parsed.SuiteName != "AES_CM_128_HMAC_SHA1_80" {
		t.Fatalf("got Tag=%d Suite=%s", parsed.Tag, parsed.SuiteName)
	}
	if len(parsed.KeyParams) != 1 {
		t.Fatalf("got %d key-params, want 1", len(parsed.KeyParams))
	}

	gotMK, err := parsed.KeyParams[0].MasterKey(parsed.Suite)
	if err != nil {
		t.Fatalf("MasterKey: %v", err)
	}
	if string(gotMK.Key) != string(mk.Key) || string(gotMK.Salt) != string(mk.Salt) {
		t.Fatal("recovered master key/salt do not match the original")
	}
}

func TestParseCryptoAttributeWithPrefix(t *testing.T) {
	mk := srtp.MasterKey{Key: randBytes(t, 16), Salt: randBytes(t, 14)}
	line := "a=crypto:" + sdes.FromMasterKey(1, srtp.AES_CM_128_HMAC_SHA1_80, mk).String()

	attr, err := sdes.ParseCryptoAttribute(line)
	if err != nil {
		t.Fatalf("ParseCryptoAttribute: %v", err)
	}
	if attr.Tag != 1 {
		t.Fatalf("Tag = %d, want 1", attr.Tag)
	}
}

func TestParseCryptoAttributeWithLifetimeAndMKI(t *testing.T) {
	mk := srtp.MasterKey{Key: randBytes(t, 16), Salt: randBytes(t, 14)}
	line := sdes.FromMasterKey(1, srtp.AES_CM_128_HMAC_SHA1_80, mk).String() + "|2^20|1:4"

	attr, err := sdes.ParseCryptoAttribute(line)
	if err != nil {
		t.Fatalf("ParseCryptoAttribute: %v", err)
	}
	kp := attr.KeyParams[0]
	if kp.Lifetime != 1<<20 {
		t.Fatalf("Lifetime = %d, want %d", kp.Lifetime, 1<<20)
	}
	if kp.MKILen != 4 {
		t.Fatalf("MKILen = %d, want 4", kp.MKILen)
	}
}

func TestParseCryptoAttributeMalformed(t *testing.T) {
	cases := []string{
		"",
		"1 AES_CM_128_HMAC_SHA1_80",
		"notanumber AES_CM_128_HMAC_SHA1_80 inline:AAAA",
	}
	for _, c := range cases {
		if _, err := sdes.ParseCryptoAttribute(c); err == nil {
			t.Fatalf("expected an error parsing %q", c)
		}
	}
}

func TestToContextBuildsUsableContext(t *testing.T) {
	mk := srtp.MasterKey{Key: randBytes(t, 16), Salt: randBytes(t, 14)}
	attr := sdes.FromMasterKey(1, srtp.AES_CM_128_HMAC_SHA1_80, mk)

	ctx, err := attr.ToContext()
	if err != nil {
		t.Fatalf("ToContext: %v", err)
	}
	if ctx == nil {
		t.Fatal("ToContext returned a nil context")
	}
}
