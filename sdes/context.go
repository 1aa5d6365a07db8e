package sdes

import (
	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/srtp"
)

// ToContext implements §6.5's crypto_attr_to_context: builds an
// [srtp.Context] from the first key-params entry of attr (the offered or
// selected crypto line), applying opts for any session parameters this
// core supports (currently none are parsed from SessionParams; callers
// wanting a non-default KDR or tag length pass the matching srtp.Option
// directly).
func (attr *CryptoAttribute) ToContext(opts ...srtp.Option) (*srtp.Context, error) {
	if len(attr.KeyParams) == 0 {
		return nil, errtrace.Wrap(ErrMalformedAttribute)
	}
	mk, err := attr.KeyParams[0].MasterKey(attr.Suite)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if mk.MKI != nil {
		opts = append(opts, srtp.WithMKILength(attr.KeyParams[0].MKILen))
	}
	ctx, err := srtp.NewContext(attr.Suite, mk, opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return ctx, nil
}

// FromMasterKey implements §6.5's context_to_crypto_attr: renders a fresh
// crypto attribute offering suite and mk under the given tag.
func FromMasterKey(tag int, suite srtp.Suite, mk srtp.MasterKey) *CryptoAttribute {
	return &CryptoAttribute{
		Tag:       tag,
		Suite:     suite,
		KeyParams: []KeyParam{NewKeyParam(mk)},
	}
}
