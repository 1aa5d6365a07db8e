package sdes

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/internal/errorutil"
	"github.com/voicecore/sipsrtp/srtp"
)

// KeyParam is one `inline:` key-params entry of §4.17. Key holds the
// base64-decoded blob as-is (master key concatenated with salt); call
// [KeyParam.MasterKey] to split it once the suite's key/salt lengths are
// known.
type KeyParam struct {
	Key      []byte
	Lifetime uint64 // 0 means absent
	MKI      []byte
	MKILen   int // 0 means absent
}

// CryptoAttribute is a parsed `a=crypto:` line, per §3.6/§4.17.
type CryptoAttribute struct {
	Tag           int
	Suite         srtp.Suite
	SuiteName     string // preserves the wire name even if Suite is unrecognized
	KeyParams     []KeyParam
	SessionParams []string
}

// String renders attr back onto the wire, per §4.17's grammar:
//
//	<tag> <crypto-suite> <key-params> [<key-params>...] [<session-params>]
//
// The caller prepends whatever attribute-line prefix its transport uses
// ("a=crypto:" for SDP); ParseCryptoAttribute accepts that prefix but
// String does not reintroduce it, so a bare value round-trips byte-for-byte.
func (attr *CryptoAttribute) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", attr.Tag, attr.suiteName())
	for _, kp := range attr.KeyParams {
		b.WriteByte(' ')
		b.WriteString(kp.String())
	}
	for _, sp := range attr.SessionParams {
		b.WriteByte(' ')
		b.WriteString(sp)
	}
	return b.String()
}

func (attr *CryptoAttribute) suiteName() string {
	if attr.SuiteName != "" {
		return attr.SuiteName
	}
	return attr.Suite.String()
}

// String renders one key-params entry: "inline:<base64(key||salt)>"
// optionally followed by "|<lifetime>" and "|<MKI>:<length>".
func (kp KeyParam) String() string {
	var b strings.Builder
	b.WriteString("inline:")
	b.WriteString(base64.StdEncoding.EncodeToString(kp.Key))
	if kp.Lifetime != 0 {
		fmt.Fprintf(&b, "|%s", lifetimeString(kp.Lifetime))
	}
	if kp.MKILen != 0 {
		fmt.Fprintf(&b, "|%s:%d", mkiString(kp.MKI), kp.MKILen)
	}
	return b.String()
}

// lifetimeString prefers the "2^n" form of §4.17 when lifetime is an
// exact power of two, falling back to decimal otherwise.
func lifetimeString(lifetime uint64) string {
	if lifetime > 1 {
		for n := uint(1); n < 64; n++ {
			if uint64(1)<<n == lifetime {
				return fmt.Sprintf("2^%d", n)
			}
		}
	}
	return strconv.FormatUint(lifetime, 10)
}

func mkiString(mki []byte) string {
	var n uint64
	for _, b := range mki {
		n = n<<8 | uint64(b)
	}
	return strconv.FormatUint(n, 10)
}

// ParseCryptoAttribute parses an `a=crypto:` line (with or without the
// "a=crypto:" prefix) per §4.17's grammar.
func ParseCryptoAttribute(line string) (*CryptoAttribute, error) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "a=crypto:")

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, line))
	}

	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad tag: "+fields[0]))
	}

	attr := &CryptoAttribute{Tag: tag, SuiteName: fields[1]}
	if s, err := srtp.ParseSuite(fields[1]); err == nil {
		attr.Suite = s
	}

	i := 2
	for ; i < len(fields); i++ {
		if !strings.HasPrefix(fields[i], "inline:") {
			break
		}
		kp, err := parseKeyParam(fields[i])
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		attr.KeyParams = append(attr.KeyParams, kp)
	}
	if len(attr.KeyParams) == 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "no key-params"))
	}
	attr.SessionParams = fields[i:]

	return attr, nil
}

// parseKeyParam parses one "inline:<base64>[|lifetime][|MKI:length]" field.
func parseKeyParam(field string) (KeyParam, error) {
	field = strings.TrimPrefix(field, "inline:")
	parts := strings.Split(field, "|")

	combined, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return KeyParam{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad key-info: "+err.Error()))
	}

	kp := KeyParam{}
	rest := parts[1:]
	for _, p := range rest {
		if mki, length, ok := splitMKI(p); ok {
			n, err := strconv.ParseUint(mki, 10, 32)
			if err != nil {
				return KeyParam{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad MKI: "+p))
			}
			l, err := strconv.Atoi(length)
			if err != nil {
				return KeyParam{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad MKI length: "+p))
			}
			if l < 1 || l > 128 {
				return KeyParam{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad MKI length: "+p))
			}
			buf := make([]byte, l)
			for i := 0; i < l && i < 4; i++ {
				buf[l-1-i] = byte(n >> (8 * i))
			}
			kp.MKI = buf
			kp.MKILen = l
			continue
		}
		lifetime, err := parseLifetime(p)
		if err != nil {
			return KeyParam{}, errtrace.Wrap(err)
		}
		kp.Lifetime = lifetime
	}

	kp.Key = combined
	return kp, nil
}

func splitMKI(s string) (mki, length string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	mki, length = s[:i], s[i+1:]
	for _, c := range length {
		if c < '0' || c > '9' {
			return "", "", false
		}
	}
	return mki, length, true
}

func parseLifetime(s string) (uint64, error) {
	if n, found := strings.CutPrefix(s, "2^"); found {
		exp, err := strconv.Atoi(n)
		if err != nil || exp < 0 || exp >= 64 {
			return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad lifetime: "+s))
		}
		return uint64(1) << uint(exp), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedAttribute, "bad lifetime: "+s))
	}
	return v, nil
}

// MasterKey splits kp's combined key-info blob into the master key and
// salt lengths suite requires, per §6.3's per-suite key/salt sizes.
func (kp KeyParam) MasterKey(suite srtp.Suite) (srtp.MasterKey, error) {
	keyLen := suite.KeyLen()
	const saltLen = 14
	if len(kp.Key) < keyLen+saltLen {
		return srtp.MasterKey{}, errtrace.Wrap(errorutil.NewWrapperError(
			ErrMalformedAttribute, fmt.Sprintf("key material too short: got %d, want %d", len(kp.Key), keyLen+saltLen)))
	}
	return srtp.MasterKey{
		Key:  kp.Key[:keyLen],
		Salt: kp.Key[keyLen : keyLen+saltLen],
		MKI:  kp.MKI,
	}, nil
}

// NewKeyParam builds a key-params entry from an [srtp.MasterKey], for
// rendering a fresh offer/answer crypto attribute.
func NewKeyParam(mk srtp.MasterKey) KeyParam {
	combined := make([]byte, 0, len(mk.Key)+len(mk.Salt))
	combined = append(combined, mk.Key...)
	combined = append(combined, mk.Salt...)
	kp := KeyParam{Key: combined}
	if len(mk.MKI) > 0 {
		kp.MKI = mk.MKI
		kp.MKILen = len(mk.MKI)
	}
	return kp
}
