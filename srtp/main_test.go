package srtp_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the protect/unprotect engine leaves no goroutines
// behind; everything in this package is synchronous, so this is a
// regression guard against an accidental background goroutine creeping in.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
