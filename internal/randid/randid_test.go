package randid_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/voicecore/sipsrtp/internal/randid"
)

// mockSource stands in for a mockgen-generated fake of randid.Source,
// built directly against gomock.Controller since no code generation runs
// in this environment. It replays a fixed byte sequence, looping if the
// caller asks for more than it holds.
type mockSource struct {
	ctrl *gomock.Controller
	data []byte
	pos  int
}

func newMockSource(ctrl *gomock.Controller, data []byte) *mockSource {
	return &mockSource{ctrl: ctrl, data: data}
}

func (m *mockSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = m.data[m.pos%len(m.data)]
		m.pos++
	}
	return len(p), nil
}

func TestHexStringUsesInjectedSource(t *testing.T) {
	ctrl := gomock.NewController(t)

	restore := randid.SetSourceForTest(newMockSource(ctrl, []byte{0xAB}))
	defer restore()

	got := randid.HexString(4)
	if want := "abababab"; got != want {
		t.Fatalf("HexString = %q, want %q", got, want)
	}
}

func TestLowerAlnumUsesInjectedSourceAndAlphabet(t *testing.T) {
	ctrl := gomock.NewController(t)

	restore := randid.SetSourceForTest(newMockSource(ctrl, []byte{0}))
	defer restore()

	got := randid.LowerAlnum(5)
	if got != "aaaaa" {
		t.Fatalf("LowerAlnum = %q, want %q (byte 0 maps to the first alphabet character)", got, "aaaaa")
	}
}

func TestBytesReturnsInjectedData(t *testing.T) {
	ctrl := gomock.NewController(t)

	pattern := []byte{0x01, 0x02, 0x03, 0x04}
	restore := randid.SetSourceForTest(newMockSource(ctrl, pattern))
	defer restore()

	got := randid.Bytes(4)
	if !bytes.Equal(got, pattern) {
		t.Fatalf("Bytes = %x, want %x", got, pattern)
	}
}

func TestNewBranchCarriesMagicCookie(t *testing.T) {
	if b := randid.NewBranch(); !strings.HasPrefix(b, randid.BranchMagicCookie) {
		t.Fatalf("NewBranch() = %q, missing magic cookie prefix %q", b, randid.BranchMagicCookie)
	}
}
