package sip

import (
	"strings"

	"github.com/voicecore/sipsrtp/errs"
)

// ValidateRequest implements §3.4's request-validity invariant and §6.5's
// validate_request entry point: at least one Via, Max-Forwards ≤ 70,
// Call-ID non-empty, From and To present, SIP version SIP/2.0, CSeq
// present with method matching the request method, and Content-Length > 0
// implying Content-Type present. Returns nil when valid, or the first
// offending [errs.HeaderValidation].
func ValidateRequest(r *Request) error {
	via, ok := r.Via()
	if !ok || len(via.Entries) == 0 {
		return errs.NewHeaderValidation(errs.FieldVia, "at least one Via is required")
	}

	if mf := r.MaxForwards(); mf > 70 {
		return errs.NewHeaderValidation(errs.FieldMaxForwards, "must not exceed 70")
	}

	if r.CallID() == "" {
		return errs.NewHeaderValidation(errs.FieldCallID, "Call-ID must be non-empty")
	}

	if _, ok := r.From(); !ok {
		return errs.NewHeaderValidation(errs.FieldFrom, "From is required")
	}
	if _, ok := r.To(); !ok {
		return errs.NewHeaderValidation(errs.FieldTo, "To is required")
	}

	if r.SIPVersion != "SIP/2.0" {
		return errs.NewHeaderValidation(errs.FieldSipVersion, "must be SIP/2.0")
	}

	cseq, ok := r.CSeq()
	if !ok {
		return errs.NewHeaderValidation(errs.FieldCSeq, "CSeq is required")
	}
	if !strings.EqualFold(cseq.Method, r.Method) {
		return errs.NewHeaderValidation(errs.FieldCSeq, "CSeq method must equal request method")
	}

	if r.ContentLength() > 0 {
		if _, ok := r.ContentType(); !ok {
			return errs.NewHeaderValidation(errs.FieldContentType, "Content-Type is required when Content-Length > 0")
		}
	}

	return nil
}
