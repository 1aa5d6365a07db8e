package srtp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"

	"braces.dev/errtrace"
)

const rtcpHeaderLen = 8

func rtcpVPRC(pkt []byte) byte    { return pkt[0] }
func rtcpPT(pkt []byte) byte      { return pkt[1] }
func rtcpLength(pkt []byte) uint16 { return binary.BigEndian.Uint16(pkt[2:4]) }
func rtcpSSRC(pkt []byte) uint32  { return binary.BigEndian.Uint32(pkt[4:8]) }

// rtcpAuthTag computes the SRTCP authentication tag of §4.16: HMAC-SHA1
// over authPortion alone (the E-bit/index field already carries the
// rollover-free counter, so unlike RTP no separate ROC is appended).
func rtcpAuthTag(authKey, authPortion []byte, tagLen int) []byte {
	mac := hmac.New(sha1.New, authKey)
	mac.Write(authPortion)
	full := mac.Sum(nil)
	return full[:tagLen]
}

func verifyRTCPTag(authKey, authPortion []byte, tagLen int, received []byte) bool {
	if len(received) != tagLen {
		return false
	}
	expected := rtcpAuthTag(authKey, authPortion, tagLen)
	return subtle.ConstantTimeCompare(expected, received) == 1
}

// ProtectRTCP implements §4.15's send-side SRTCP transform: encrypt the
// RTCP packet's payload (everything after its 8-byte fixed header) and
// append the 31-bit SRTCP index with the encrypted flag, an MKI (if
// configured) and an authentication tag.
func (c *Context) ProtectRTCP(pkt []byte) ([]byte, error) {
	if len(pkt) < rtcpHeaderLen {
		return nil, errtrace.Wrap(ErrInputPacketTooShort)
	}

	ssrc := rtcpSSRC(pkt)
	st := c.streamFor(ssrc)
	index := st.rtcpIndex
	if st.sentRTCP {
		index++
	}
	st.rtcpIndex = index
	st.sentRTCP = true

	mk := c.currentKey()
	encKey, authKey, salt, err := c.rtcpSessionKeys(mk)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	payload := pkt[rtcpHeaderLen:]
	encPayload := make([]byte, len(payload))
	if err := c.encryptRTCP(encKey, salt, true, index, pkt, encPayload, payload); err != nil {
		return nil, errtrace.Wrap(err)
	}

	out := make([]byte, rtcpHeaderLen+len(encPayload)+4+c.mkiLen+c.tagLen)
	copy(out, pkt[:rtcpHeaderLen])
	copy(out[rtcpHeaderLen:], encPayload)

	idxOff := rtcpHeaderLen + len(encPayload)
	binary.BigEndian.PutUint32(out[idxOff:idxOff+4], (index&0x7fffffff)|0x80000000)

	mkiOff := idxOff + 4
	if c.mkiLen > 0 {
		copy(out[mkiOff:mkiOff+c.mkiLen], mkiBytes(mk.MKI, c.mkiLen))
	}

	tag := rtcpAuthTag(authKey, out[:mkiOff], c.tagLen)
	copy(out[mkiOff+c.mkiLen:], tag)
	return out, nil
}

// UnprotectRTCP implements §4.15's receive-side SRTCP transform.
func (c *Context) UnprotectRTCP(pkt []byte) ([]byte, error) {
	if len(pkt) < rtcpHeaderLen+4+c.mkiLen+c.tagLen {
		return nil, errtrace.Wrap(ErrInputPacketTooShort)
	}

	tagOff := len(pkt) - c.tagLen
	mkiOff := tagOff - c.mkiLen
	idxOff := mkiOff - 4
	tag := pkt[tagOff:]
	mki := pkt[mkiOff:tagOff]
	idxField := binary.BigEndian.Uint32(pkt[idxOff : idxOff+4])
	encrypted := idxField&0x80000000 != 0
	index := idxField & 0x7fffffff

	mk, err := c.keyByMKI(mki)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	encKey, authKey, salt, err := c.rtcpSessionKeys(mk)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if !verifyRTCPTag(authKey, pkt[:mkiOff], c.tagLen, tag) {
		return nil, errtrace.Wrap(ErrUnauthenticated)
	}

	ssrc := rtcpSSRC(pkt)
	payload := pkt[rtcpHeaderLen:idxOff]
	out := make([]byte, rtcpHeaderLen+len(payload))
	copy(out[:rtcpHeaderLen], pkt[:rtcpHeaderLen])
	if encrypted {
		if err := c.encryptRTCP(encKey, salt, encrypted, index, pkt, out[rtcpHeaderLen:], payload); err != nil {
			return nil, errtrace.Wrap(err)
		}
	} else {
		copy(out[rtcpHeaderLen:], payload)
	}

	st := c.streamFor(ssrc)
	st.rtcpIndex = index
	st.sentRTCP = true
	return out, nil
}

// encryptRTCP applies the suite's keystream transform symmetrically for
// both encryption and decryption, per §4.11/§4.12/§4.14.
func (c *Context) encryptRTCP(sessionKey, salt []byte, encrypted bool, index uint32, fullPkt []byte, dst, src []byte) error {
	if c.suite.isF8() {
		iv := f8RTCPIV(encrypted, index, rtcpVPRC(fullPkt), rtcpPT(fullPkt), rtcpLength(fullPkt), rtcpSSRC(fullPkt))
		return errtrace.Wrap(aesF8Keystream(sessionKey, salt, iv, dst, src))
	}
	iv := aesCMIV(salt, rtcpSSRC(fullPkt), uint64(index))
	return errtrace.Wrap(aesCMKeystream(sessionKey, iv, dst, src))
}
