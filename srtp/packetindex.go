package srtp

// reconstructIndex implements §4.9's packet-index reconstruction: given the
// 16-bit sequence number carried on the wire and the receiver's stored
// highest-received sequence number sl plus its current ROC, compute the
// 48-bit packet index and the v (candidate ROC) used to build it.
//
//	if sl < 2^15: v = ROC-1 if seq-sl > 2^15, else ROC
//	if sl >= 2^15: v = ROC+1 if sl-2^15 > seq, else ROC
//	PI = seq + (v << 16)
func reconstructIndex(sl uint16, roc uint32, seq uint16) (pi uint64, v uint32) {
	const half = 1 << 15

	if sl < half {
		if int32(seq)-int32(sl) > half {
			v = roc - 1
		} else {
			v = roc
		}
	} else {
		if int32(sl)-half > int32(seq) {
			v = roc + 1
		} else {
			v = roc
		}
	}

	pi = uint64(seq) | uint64(v)<<16
	return pi, v
}

// commitReceivedIndex implements the receive-side ROC/sl commit rule of
// §4.9: only after authentication succeeds does the reconstructed v become
// the stored ROC, and sl the stored highest sequence number. "Wrap
// detected" (seq < sl) is folded directly into v by reconstructIndex.
// UnprotectRTP calls it only when the packet advances the index (v is
// ROC+1, or v is ROC and seq is above sl), so a late packet leaves ROC
// and sl unchanged.
func commitReceivedIndex(v uint32, seq uint16) (newROC uint32, newSL uint16) {
	return v, seq
}
