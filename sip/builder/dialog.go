package builder

import (
	"strings"

	"github.com/voicecore/sipsrtp/internal/values"
	"github.com/voicecore/sipsrtp/sip"
	"github.com/voicecore/sipsrtp/sip/endpoint"
	"github.com/voicecore/sipsrtp/sip/header"
	"github.com/voicecore/sipsrtp/sip/uri"
)

// RemoteTarget implements §4.8's remote-target resolution rule: the top
// Record-Route URI if it carries strict-router semantics (no "lr"
// parameter); otherwise the top Contact URI; otherwise fromURI.
func RemoteTarget(msg *sip.Message, fromURI uri.URI) uri.URI {
	if rr, ok := msg.Header("Record-Route"); ok {
		if r, ok := rr.(*header.RecordRoute); ok && len(r.List) > 0 {
			top := r.List[0]
			if top.Params == nil || !top.Params.Has("lr") {
				if top.URI != nil {
					return top.URI
				}
			}
		}
	}
	if c, ok := msg.Header("Contact"); ok {
		if ct, ok := c.(*header.Contact); ok && !ct.Wildcard && len(ct.List) > 0 {
			if ct.List[0].URI != nil {
				return ct.List[0].URI
			}
		}
	}
	return fromURI
}

// RouteSetFromRecordRoute implements §4.8's "Record-Route order is
// reversed when translated to Route for subsequent in-dialog requests":
// the Record-Route set is recorded top-down along the request path, but a
// UAC building an in-dialog request must traverse it bottom-up.
func RouteSetFromRecordRoute(rr *header.RecordRoute) *header.Route {
	if rr == nil || len(rr.List) == 0 {
		return nil
	}
	out := make([]header.NameAddr, len(rr.List))
	for i, na := range rr.List {
		out[len(rr.List)-1-i] = na.Clone()
	}
	return &header.Route{List: out}
}

// BuildAck implements §6.5's build_ack: the ACK acknowledging response to
// invite. Per §4.8, an ACK to a 2xx response is a fresh request (new
// branch, new top Via) sent directly to the remote target; an ACK to a
// non-2xx response is constructed within the original transaction, reusing
// the top Via (including its branch) of invite. Either way the CSeq number
// is carried over from invite with the method changed to ACK, and the To
// tag is taken from response (set by the UAS on any non-100 response).
func BuildAck(invite *sip.Request, response *sip.Response, localEP endpoint.Endpoint) *sip.Request {
	ack := &sip.Request{SIPVersion: "SIP/2.0", Method: "ACK"}

	if response.IsSuccess() {
		ack.RequestURI = RemoteTarget(&response.Message, invite.RequestURI)
		ack.AddHeader(newVia(localEP))
	} else {
		ack.RequestURI = invite.RequestURI.Clone()
		if via, ok := invite.Via(); ok {
			if top, ok := via.Top(); ok {
				ack.AddHeader(&header.Via{Entries: []header.ViaEntry{top.Clone()}})
			}
		}
	}

	if from, ok := invite.From(); ok {
		ack.AddHeader(&header.From{NameAddr: from.NameAddr.Clone()})
	}
	if to, ok := response.To(); ok {
		ack.AddHeader(&header.To{NameAddr: to.NameAddr.Clone()})
	} else if to, ok := invite.To(); ok {
		ack.AddHeader(&header.To{NameAddr: to.NameAddr.Clone()})
	}
	ack.AddHeader(&header.Any{HeaderName: "Call-ID", Value: invite.CallID()})
	ack.AddHeader(&header.MaxForwards{Value: 70})

	cseqNum := uint32(1)
	if c, ok := invite.CSeq(); ok {
		cseqNum = c.Number
	}
	ack.AddHeader(&header.CSeq{Number: cseqNum, Method: "ACK"})

	if rr, ok := invite.Header("Record-Route"); ok {
		if route := RouteSetFromRecordRoute(rr.(*header.RecordRoute)); route != nil {
			ack.AddHeader(route)
		}
	}
	ack.AddHeader(&header.ContentLength{Value: 0})
	return ack
}

// BuildOkToInvite implements §6.5's build_ok_to_invite: a 200 response to
// invite, copying its Via set, From, To (with a fresh tag if one isn't
// already set, e.g. from a retransmission), Call-ID and CSeq, adding a
// Contact for localEP and the given body.
func BuildOkToInvite(invite *sip.Request, localEP endpoint.Endpoint, body []byte, contentType string) *sip.Response {
	resp := &sip.Response{SIPVersion: "SIP/2.0", StatusCode: 200, ReasonPhrase: sip.ReasonPhraseFor(200)}

	if via, ok := invite.Via(); ok {
		resp.AddHeader(via.Clone())
	}
	if from, ok := invite.From(); ok {
		resp.AddHeader(&header.From{NameAddr: from.NameAddr.Clone()})
	}
	to := header.NameAddr{Params: values.New()}
	if invTo, ok := invite.To(); ok {
		to = invTo.NameAddr.Clone()
	}
	if _, hasTag := to.Tag(); !hasTag {
		to.Params.Set("tag", NewTag())
	}
	resp.AddHeader(&header.To{NameAddr: to})
	resp.AddHeader(&header.Any{HeaderName: "Call-ID", Value: invite.CallID()})
	if c, ok := invite.CSeq(); ok {
		resp.AddHeader(&header.CSeq{Number: c.Number, Method: c.Method})
	}

	contactParams := values.New()
	resp.AddHeader(&header.Contact{List: []header.NameAddr{{
		URI:    localContactURI(localEP),
		Params: contactParams,
	}}})

	resp.Body = body
	if len(body) > 0 {
		resp.AddHeader(&header.Text{HeaderName: "Content-Type", Value: contentType})
	}
	resp.AddHeader(&header.ContentLength{Value: int64(len(body))})
	return resp
}

// localContactURI builds a sip: URI for localEP, with an explicit
// transport parameter when the endpoint's protocol isn't UDP.
func localContactURI(localEP endpoint.Endpoint) uri.URI {
	raw := "sip:" + endpoint.HostPort(localEP.IP.String(), localEP.Port).String()
	if localEP.Protocol.IsValid() && localEP.Protocol != endpoint.UDP {
		raw += ";transport=" + strings.ToLower(localEP.Protocol.String())
	}
	u, err := uri.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

// BuildBye implements §6.5's build_bye: a BYE within the dialog established
// by invite and its final 2xx response inviteOK, sent from localEP. Per
// §4.8, the dialog's To/From are swapped when the call was incoming
// (invite arrived rather than was sent), and lastCSeq+1 becomes the new
// request's sequence number. (§6.5 names an opaque "channel" and
// "remote_ep" in this position; this core has no channel/transport type,
// so the caller's local sending endpoint is taken directly instead — the
// remote target is resolved from the dialog state via [RemoteTarget].)
func BuildBye(invite *sip.Request, inviteOK *sip.Response, localEP endpoint.Endpoint, incoming bool, lastCSeq uint32) *sip.Request {
	localFrom, ok := invite.From()
	var localNA header.NameAddr
	if ok {
		localNA = localFrom.NameAddr.Clone()
	}
	remoteTo, ok := inviteOK.To()
	if !ok {
		remoteTo, _ = invite.To()
	}
	var remoteNA header.NameAddr
	if remoteTo != nil {
		remoteNA = remoteTo.NameAddr.Clone()
	}

	fromNA, toNA := localNA, remoteNA
	if incoming {
		fromNA, toNA = remoteNA, localNA
	}

	bye := &sip.Request{Method: "BYE", SIPVersion: "SIP/2.0", RequestURI: RemoteTarget(&inviteOK.Message, toNA.URI)}
	bye.AddHeader(newVia(localEP))
	bye.AddHeader(&header.MaxForwards{Value: 70})
	bye.AddHeader(&header.From{NameAddr: fromNA})
	bye.AddHeader(&header.To{NameAddr: toNA})
	bye.AddHeader(&header.Any{HeaderName: "Call-ID", Value: invite.CallID()})
	bye.AddHeader(&header.CSeq{Number: lastCSeq + 1, Method: "BYE"})

	if rr, ok := invite.Header("Record-Route"); ok {
		if route := RouteSetFromRecordRoute(rr.(*header.RecordRoute)); route != nil {
			bye.AddHeader(route)
		}
	}
	bye.AddHeader(&header.ContentLength{Value: 0})
	return bye
}

// BuildCancel implements §6.5's build_cancel: a CANCEL for invite, reusing
// its top Via (including branch) and CSeq number (lastCSeq is used only
// when invite carries no CSeq), with the CSeq method changed to CANCEL. (§6.5 also names an opaque "channel" and "remote_ep"
// here; CANCEL needs neither since it reuses invite's own Via and
// Request-URI verbatim, per §4.8.)
func BuildCancel(invite *sip.Request, lastCSeq uint32) *sip.Request {
	cancel := &sip.Request{Method: "CANCEL", SIPVersion: "SIP/2.0", RequestURI: invite.RequestURI.Clone()}

	if via, ok := invite.Via(); ok {
		if top, ok := via.Top(); ok {
			cancel.AddHeader(&header.Via{Entries: []header.ViaEntry{top.Clone()}})
		}
	}
	cancel.AddHeader(&header.MaxForwards{Value: 70})
	if from, ok := invite.From(); ok {
		cancel.AddHeader(&header.From{NameAddr: from.NameAddr.Clone()})
	}
	if to, ok := invite.To(); ok {
		cancel.AddHeader(&header.To{NameAddr: to.NameAddr.Clone()})
	}
	cancel.AddHeader(&header.Any{HeaderName: "Call-ID", Value: invite.CallID()})
	cseqNum := lastCSeq
	if c, ok := invite.CSeq(); ok {
		cseqNum = c.Number
	}
	cancel.AddHeader(&header.CSeq{Number: cseqNum, Method: "CANCEL"})
	cancel.AddHeader(&header.ContentLength{Value: 0})
	return cancel
}
