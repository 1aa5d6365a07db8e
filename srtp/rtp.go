package srtp

import (
	"encoding/binary"

	"braces.dev/errtrace"
)

// rtpHeaderLen returns the length of pkt's fixed-plus-CSRC-plus-extension
// RTP header, and ok=false if pkt is too short to contain one.
func rtpHeaderLen(pkt []byte) (int, bool) {
	if len(pkt) < 12 {
		return 0, false
	}
	cc := int(pkt[0] & 0x0f)
	hlen := 12 + cc*4
	if len(pkt) < hlen {
		return 0, false
	}
	if pkt[0]&0x10 != 0 { // extension bit X
		if len(pkt) < hlen+4 {
			return 0, false
		}
		extWords := int(binary.BigEndian.Uint16(pkt[hlen+2 : hlen+4]))
		hlen += 4 + extWords*4
		if len(pkt) < hlen {
			return 0, false
		}
	}
	return hlen, true
}

func rtpSeq(pkt []byte) uint16   { return binary.BigEndian.Uint16(pkt[2:4]) }
func rtpSSRC(pkt []byte) uint32  { return binary.BigEndian.Uint32(pkt[8:12]) }
func rtpMarker(pkt []byte) bool  { return pkt[1]&0x80 != 0 }
func rtpPT(pkt []byte) byte      { return pkt[1] & 0x7f }
func rtpTimestamp(pkt []byte) uint32 { return binary.BigEndian.Uint32(pkt[4:8]) }

// ProtectRTP implements §4.15's send-side SRTP transform: encrypt the RTP
// payload under the current master key's derived session key and append
// an MKI (if configured) and an authentication tag.
func (c *Context) ProtectRTP(pkt []byte) ([]byte, error) {
	hlen, ok := rtpHeaderLen(pkt)
	if !ok {
		return nil, errtrace.Wrap(ErrInputPacketTooShort)
	}

	ssrc := rtpSSRC(pkt)
	seq := rtpSeq(pkt)
	st := c.streamFor(ssrc)

	var packetIndex uint64
	if !st.sendInit {
		packetIndex = uint64(seq)
		st.sendInit = true
	} else {
		var v uint32
		packetIndex, v = reconstructIndex(st.sendSL, st.sendROC, seq)
		st.sendROC = v
	}
	st.sendSL = seq

	mk := c.currentKey()
	encKey, authKey, salt, err := c.sendSessionKeys(st, mk, packetIndex)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	payload := pkt[hlen:]
	encPayload := make([]byte, len(payload))
	if err := c.encryptRTP(encKey, salt, ssrc, packetIndex, pkt, encPayload, payload); err != nil {
		return nil, errtrace.Wrap(err)
	}

	out := make([]byte, hlen+len(encPayload)+c.mkiLen+c.tagLen)
	copy(out, pkt[:hlen])
	copy(out[hlen:], encPayload)

	mkiOff := hlen + len(encPayload)
	if c.mkiLen > 0 {
		copy(out[mkiOff:mkiOff+c.mkiLen], mkiBytes(mk.MKI, c.mkiLen))
	}

	tag := authTag(authKey, out[:mkiOff], st.sendROC, c.tagLen)
	copy(out[mkiOff+c.mkiLen:], tag)
	return out, nil
}

// UnprotectRTP implements §4.15's receive-side SRTP transform:
// reconstruct the packet index, verify the authentication tag before
// touching the ciphertext, and decrypt the payload into a newly allocated
// packet.
func (c *Context) UnprotectRTP(pkt []byte) ([]byte, error) {
	hlen, ok := rtpHeaderLen(pkt)
	if !ok {
		return nil, errtrace.Wrap(ErrInputPacketTooShort)
	}
	if len(pkt) < hlen+c.mkiLen+c.tagLen {
		return nil, errtrace.Wrap(ErrNoAuthenticationTag)
	}

	tagOff := len(pkt) - c.tagLen
	mkiOff := tagOff - c.mkiLen
	tag := pkt[tagOff:]
	mki := pkt[mkiOff:tagOff]

	mk, err := c.keyByMKI(mki)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	ssrc := rtpSSRC(pkt)
	seq := rtpSeq(pkt)
	st := c.streamFor(ssrc)

	var v uint32
	var packetIndex uint64
	if !st.slInit {
		v = st.roc
		packetIndex = uint64(seq) | uint64(v)<<16
	} else {
		packetIndex, v = reconstructIndex(st.sl, st.roc, seq)
	}

	encKey, authKey, salt, err := c.recvSessionKeys(st, mk, packetIndex)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if !verifyTag(authKey, pkt[:mkiOff], v, c.tagLen, tag) {
		return nil, errtrace.Wrap(ErrUnauthenticated)
	}

	payload := pkt[hlen:mkiOff]
	out := make([]byte, hlen+len(payload))
	copy(out[:hlen], pkt[:hlen])
	if err := c.encryptRTP(encKey, salt, ssrc, packetIndex, pkt, out[hlen:], payload); err != nil {
		return nil, errtrace.Wrap(err)
	}

	if !st.slInit || v == st.roc+1 || (v == st.roc && seq > st.sl) {
		st.roc, st.sl = commitReceivedIndex(v, seq)
	}
	st.slInit = true
	return out, nil
}

// encryptRTP applies the suite's keystream transform symmetrically for
// both encryption and decryption, per §4.11/§4.12.
func (c *Context) encryptRTP(sessionKey, salt []byte, ssrc uint32, packetIndex uint64, fullPkt []byte, dst, src []byte) error {
	if c.suite.isF8() {
		iv := f8RTPIV(rtpMarker(fullPkt), rtpPT(fullPkt), rtpSeq(fullPkt), rtpTimestamp(fullPkt), ssrc, uint32(packetIndex>>16))
		return errtrace.Wrap(aesF8Keystream(sessionKey, salt, iv, dst, src))
	}
	iv := aesCMIV(salt, ssrc, packetIndex)
	return errtrace.Wrap(aesCMKeystream(sessionKey, iv, dst, src))
}

// mkiBytes right-justifies mki into an n-byte big-endian field, per the
// standardized 32-bit MKI (design note 3).
func mkiBytes(mki []byte, n int) []byte {
	out := make([]byte, n)
	if len(mki) >= n {
		copy(out, mki[len(mki)-n:])
	} else {
		copy(out[n-len(mki):], mki)
	}
	return out
}
