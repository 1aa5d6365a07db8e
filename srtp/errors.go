package srtp

import (
	"github.com/voicecore/sipsrtp/errs"
	"github.com/voicecore/sipsrtp/internal/errorutil"
)

// ErrInvalidMasterKey is returned when a master key or salt does not match
// the suite's required lengths.
const ErrInvalidMasterKey errorutil.Error = "invalid master key material"

// ErrInvalidMKILength is returned when an MKI length outside [1,4] bytes is
// configured, per §9 design note 3 (standardized 32-bit MKI, wire length
// restricted to 1-4 bytes even though §3.6/§4.17's grammar allows up to 128).
const ErrInvalidMKILength errorutil.Error = "MKI length must be in [1,4] bytes"

// Re-exported sentinel errors from the shared §7 taxonomy, so callers only
// need to import this package to errors.Is-match SRTP failures.
const (
	ErrUnauthenticated      = errs.Unauthenticated
	ErrMasterKeyNotFound    = errs.MasterKeyNotFound
	ErrInputPacketTooShort  = errs.InputPacketTooShort
	ErrNoAuthenticationTag  = errs.NoAuthenticationTag
)
