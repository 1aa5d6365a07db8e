package srtp

import "testing"

func TestReconstructIndexNoWrap(t *testing.T) {
	pi, v := reconstructIndex(100, 0, 105)
	if v != 0 {
		t.Fatalf("v = %d, want 0", v)
	}
	if pi != 105 {
		t.Fatalf("pi = %d, want 105", pi)
	}
}

func TestReconstructIndexForwardWrap(t *testing.T) {
	// sl just before wrap, seq just after: ROC should advance.
	sl := uint16(65530)
	seq := uint16(5)
	pi, v := reconstructIndex(sl, 0, seq)
	if v != 1 {
		t.Fatalf("v = %d, want 1 (ROC should advance across the wrap)", v)
	}
	if pi != uint64(seq)|uint64(1)<<16 {
		t.Fatalf("pi = %d, want %d", pi, uint64(seq)|uint64(1)<<16)
	}
}

func TestReconstructIndexOldPacketBeforeWrap(t *testing.T) {
	// Receiver has already rolled over (ROC=1, sl small); a late, old
	// packet with a high seq belongs to the previous ROC.
	sl := uint16(5)
	seq := uint16(65530)
	pi, v := reconstructIndex(sl, 1, seq)
	if v != 0 {
		t.Fatalf("v = %d, want 0 (late packet belongs to the prior ROC)", v)
	}
	if pi != uint64(seq) {
		t.Fatalf("pi = %d, want %d", pi, uint64(seq))
	}
}

func TestReconstructIndexStableWithinHalfRange(t *testing.T) {
	// sl >= 2^15 and seq close by: ROC must not advance.
	sl := uint16(40000)
	seq := uint16(40010)
	_, v := reconstructIndex(sl, 3, seq)
	if v != 3 {
		t.Fatalf("v = %d, want 3 (no rollover should be inferred)", v)
	}
}

func TestCommitReceivedIndexAdoptsCandidate(t *testing.T) {
	roc, sl := commitReceivedIndex(7, 1234)
	if roc != 7 || sl != 1234 {
		t.Fatalf("commitReceivedIndex = (%d, %d), want (7, 1234)", roc, sl)
	}
}
