package uri

import (
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// URN represents a urn: URI. Per §4.3 step 5 the entire remainder after
// "urn:" is treated as an opaque host; no user/port/param splitting is
// attempted.
type URN struct {
	NSS string
}

func parseURN(rest string) (*URN, error) {
	return &URN{NSS: rest}, nil
}

func (u *URN) Scheme() string { return "urn" }

func (u *URN) Transport() endpoint.Proto { return endpoint.UDP }

func (u *URN) String() string { return "urn:" + u.NSS }

func (u *URN) Clone() URI { c := *u; return &c }

func (u *URN) Equal(other URI) bool {
	o, ok := other.(*URN)
	return ok && u.NSS == o.NSS
}

func (u *URN) IsValid() bool { return u.NSS != "" }
