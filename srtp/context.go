package srtp

import (
	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
)

// MasterKey is one master key/salt pair, optionally identified by an MKI
// for suites negotiating more than one (§3.6/§4.17).
type MasterKey struct {
	Key  []byte
	Salt []byte
	MKI  []byte
}

// Option configures a [Context] beyond its required suite and master key.
type Option func(*Context)

// WithKDR sets the key-derivation rate exponent of §4.10 (default 0, no
// re-derivation). kdr must be in [0,24].
func WithKDR(kdr uint8) Option {
	return func(c *Context) { c.kdr = kdr }
}

// WithTagLength overrides the suite's default authentication tag length,
// per §6.3's per-session tag-length negotiation.
func WithTagLength(n int) Option {
	return func(c *Context) { c.tagLen = n }
}

// WithMKILength declares the wire length, in bytes, of the MKI field
// carried on every packet. Per the standardized 32-bit MKI (design note
// 3), n must be in [1,4].
func WithMKILength(n int) Option {
	return func(c *Context) { c.mkiLen = n }
}

// WithMasterKey adds an additional master key, selectable by MKI on
// receive and used for all future sends until another is added.
func WithMasterKey(mk MasterKey) Option {
	return func(c *Context) { c.keys = append(c.keys, mk) }
}

// streamState tracks the per-SSRC rollover and sequence state of §4.9.
type streamState struct {
	roc    uint32
	sl     uint16
	slInit bool

	sendROC  uint32
	sendSL   uint16
	sendInit bool

	rtcpIndex uint32
	sentRTCP  bool

	sendKeysValid bool
	sendKeysR     uint64
	sendKeyID     []byte
	sendEncKey    []byte
	sendAuthKey   []byte
	sendSalt      []byte

	recvKeysValid bool
	recvKeysR     uint64
	recvKeyID     []byte
	recvEncKey    []byte
	recvAuthKey   []byte
	recvSalt      []byte
}

// Context holds the negotiated crypto suite and master key material for
// one SRTP/SRTCP session and the mutable per-SSRC state of §4.9, per
// §3.5/§6.3.
type Context struct {
	suite  Suite
	keys   []MasterKey
	kdr    uint8
	tagLen int
	mkiLen int

	streams map[uint32]*streamState
}

// NewContext constructs a [Context] for suite, seeded with the given
// initial master key. Additional keys may be added with [WithMasterKey].
func NewContext(suite Suite, initial MasterKey, opts ...Option) (*Context, error) {
	if !suite.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownSuite, ""))
	}
	if len(initial.Key) != suite.KeyLen() || len(initial.Salt) != masterSaltLen {
		return nil, errtrace.Wrap(ErrInvalidMasterKey)
	}

	c := &Context{
		suite:   suite,
		keys:    []MasterKey{initial},
		tagLen:  suite.TagLen(),
		streams: make(map[uint32]*streamState),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mkiLen != 0 && (c.mkiLen < 1 || c.mkiLen > 4) {
		return nil, errtrace.Wrap(ErrInvalidMKILength)
	}
	for _, k := range c.keys {
		if len(k.Key) != suite.KeyLen() || len(k.Salt) != masterSaltLen {
			return nil, errtrace.Wrap(ErrInvalidMasterKey)
		}
	}
	return c, nil
}

// currentKey returns the most recently added master key, used for
// outbound packets per §6.3's "most recent key wins" send-side rule.
func (c *Context) currentKey() MasterKey {
	return c.keys[len(c.keys)-1]
}

// keyByMKI selects a master key by its MKI for inbound packets, per
// §4.17. With no MKI configured the single configured key is returned
// regardless of mki.
func (c *Context) keyByMKI(mki []byte) (MasterKey, error) {
	if c.mkiLen == 0 || len(c.keys) == 1 {
		return c.keys[0], nil
	}
	for _, k := range c.keys {
		if bytesEqual(k.MKI, mki) {
			return k, nil
		}
	}
	return MasterKey{}, errtrace.Wrap(ErrMasterKeyNotFound)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sessionKeys derives the RTP encryption key, authentication key and
// salt for master key mk at packetIndex, per §4.10.
func (c *Context) sessionKeys(mk MasterKey, packetIndex uint64) (encKey, authKey, salt []byte, err error) {
	encKey, err = deriveKey(mk.Key, mk.Salt, labelRTPEncryption, packetIndex, c.kdr, c.suite.KeyLen())
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	authKey, err = deriveKey(mk.Key, mk.Salt, labelRTPAuth, packetIndex, c.kdr, authKeyLen)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	salt, err = deriveKey(mk.Key, mk.Salt, labelRTPSalt, packetIndex, c.kdr, masterSaltLen)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	return encKey, authKey, salt, nil
}

// sendSessionKeys returns st's cached send-side session keys for mk at
// packetIndex, re-deriving only when the KDR window r = packetIndex>>kdr
// has advanced or the master key has changed, per §3.5's refresh rule
// ("session keys are derived exactly when they are null, or … packet_index
// mod 2^KDR == 0").
func (c *Context) sendSessionKeys(st *streamState, mk MasterKey, packetIndex uint64) (encKey, authKey, salt []byte, err error) {
	r := packetIndex >> c.kdr
	if st.sendKeysValid && st.sendKeysR == r && bytesEqual(st.sendKeyID, mk.Key) {
		return st.sendEncKey, st.sendAuthKey, st.sendSalt, nil
	}
	encKey, authKey, salt, err = c.sessionKeys(mk, packetIndex)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	st.sendKeysValid = true
	st.sendKeysR = r
	st.sendKeyID = mk.Key
	st.sendEncKey, st.sendAuthKey, st.sendSalt = encKey, authKey, salt
	return encKey, authKey, salt, nil
}

// recvSessionKeys is [Context.sendSessionKeys]'s receive-side twin,
// cached independently since the send and receive packet-index sequences
// advance through different KDR windows.
func (c *Context) recvSessionKeys(st *streamState, mk MasterKey, packetIndex uint64) (encKey, authKey, salt []byte, err error) {
	r := packetIndex >> c.kdr
	if st.recvKeysValid && st.recvKeysR == r && bytesEqual(st.recvKeyID, mk.Key) {
		return st.recvEncKey, st.recvAuthKey, st.recvSalt, nil
	}
	encKey, authKey, salt, err = c.sessionKeys(mk, packetIndex)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	st.recvKeysValid = true
	st.recvKeysR = r
	st.recvKeyID = mk.Key
	st.recvEncKey, st.recvAuthKey, st.recvSalt = encKey, authKey, salt
	return encKey, authKey, salt, nil
}

// rtcpSessionKeys derives the RTCP encryption key, authentication key and
// salt for master key mk, per §4.10. RTCP never rotates keys on an index
// (§4.15: no KDR for RTCP), so it is always derived at packet index 0.
func (c *Context) rtcpSessionKeys(mk MasterKey) (encKey, authKey, salt []byte, err error) {
	encKey, err = deriveKey(mk.Key, mk.Salt, labelRTCPEncryption, 0, 0, c.suite.KeyLen())
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	authKey, err = deriveKey(mk.Key, mk.Salt, labelRTCPAuth, 0, 0, authKeyLen)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	salt, err = deriveKey(mk.Key, mk.Salt, labelRTCPSalt, 0, 0, masterSaltLen)
	if err != nil {
		return nil, nil, nil, errtrace.Wrap(err)
	}
	return encKey, authKey, salt, nil
}

// streamFor returns (creating if needed) the rollover state for ssrc.
func (c *Context) streamFor(ssrc uint32) *streamState {
	s, ok := c.streams[ssrc]
	if !ok {
		s = &streamState{}
		c.streams[ssrc] = s
	}
	return s
}
