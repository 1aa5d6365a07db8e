package builder_test

import (
	"net/netip"
	"testing"

	"github.com/voicecore/sipsrtp/sip"
	"github.com/voicecore/sipsrtp/sip/builder"
	"github.com/voicecore/sipsrtp/sip/endpoint"
	"github.com/voicecore/sipsrtp/sip/header"
	"github.com/voicecore/sipsrtp/sip/uri"
)

func mustParseURI(t *testing.T, s string) uri.URI {
	t.Helper()
	u, err := uri.Parse(s)
	if err != nil {
		t.Fatalf("uri.Parse(%q): %v", s, err)
	}
	return u
}

func localEP(t *testing.T) endpoint.Endpoint {
	t.Helper()
	ip, err := netip.ParseAddr("192.0.2.1")
	if err != nil {
		t.Fatal(err)
	}
	return endpoint.New(endpoint.UDP, ip, 5060)
}

func TestBranchesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := builder.NewBranch()
		if seen[b] {
			t.Fatalf("duplicate branch generated: %s", b)
		}
		seen[b] = true
	}
}

func TestBuildBasicRequestIsValid(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	req := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t))

	if err := sip.ValidateRequest(req); err != nil {
		t.Fatalf("ValidateRequest: %v", err)
	}
	via, ok := req.Via()
	if !ok || len(via.Entries) != 1 {
		t.Fatalf("expected exactly one Via entry, got %#v", via)
	}
	if _, ok := via.Entries[0].Branch(); !ok {
		t.Fatal("expected a branch parameter on the generated Via")
	}
	from, ok := req.From()
	if !ok {
		t.Fatal("missing From")
	}
	if _, ok := from.Tag(); !ok {
		t.Fatal("expected a fresh From tag")
	}
}

func TestBuildBasicRequestOptionsApply(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	req := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t),
		builder.WithFromTag("fixed-tag"), builder.WithCallID("fixed-call-id"), builder.WithCSeq(42))

	from, _ := req.From()
	if tag, _ := from.Tag(); tag != "fixed-tag" {
		t.Fatalf("From tag = %q, want fixed-tag", tag)
	}
	if req.CallID() != "fixed-call-id" {
		t.Fatalf("CallID = %q, want fixed-call-id", req.CallID())
	}
	cseq, _ := req.CSeq()
	if cseq.Number != 42 {
		t.Fatalf("CSeq.Number = %d, want 42", cseq.Number)
	}
}

func TestBuildAckTo2xxUsesFreshBranch(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	invite := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t))

	resp := builder.BuildOkToInvite(invite, localEP(t), nil, "")
	ack := builder.BuildAck(invite, resp, localEP(t))

	if ack.Method != "ACK" {
		t.Fatalf("Method = %q, want ACK", ack.Method)
	}
	inviteVia, _ := invite.Via()
	ackVia, _ := ack.Via()
	inviteBranch, _ := inviteVia.Entries[0].Branch()
	ackBranch, _ := ackVia.Entries[0].Branch()
	if inviteBranch == ackBranch {
		t.Fatal("ACK to a 2xx must use a fresh branch, not reuse the INVITE's")
	}
	if ack.CallID() != invite.CallID() {
		t.Fatal("ACK must carry the same Call-ID as the INVITE")
	}
}

func TestBuildAckToNon2xxReusesBranch(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	invite := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t))

	resp := &sip.Response{SIPVersion: "SIP/2.0", StatusCode: 486, ReasonPhrase: "Busy Here"}
	if v, ok := invite.Via(); ok {
		resp.AddHeader(v.Clone())
	}
	if to, ok := invite.To(); ok {
		toClone := to.NameAddr.Clone()
		toClone.Params.Set("tag", "xyz")
		resp.AddHeader(&header.To{NameAddr: toClone})
	}

	ack := builder.BuildAck(invite, resp, localEP(t))

	inviteVia, _ := invite.Via()
	ackVia, _ := ack.Via()
	inviteBranch, _ := inviteVia.Entries[0].Branch()
	ackBranch, _ := ackVia.Entries[0].Branch()
	if inviteBranch != ackBranch {
		t.Fatalf("ACK to a non-2xx must reuse the INVITE's branch: %q vs %q", inviteBranch, ackBranch)
	}
}

func TestBuildByeSwapsFromToForIncomingCall(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	invite := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t))
	okResp := builder.BuildOkToInvite(invite, localEP(t), nil, "")

	bye := builder.BuildBye(invite, okResp, localEP(t), true, 1)

	byeFrom, _ := bye.From()
	inviteTo, _ := invite.To()
	if !byeFrom.URI.Equal(inviteTo.URI) {
		t.Fatalf("incoming-call BYE's From should be the original To: got %s, want %s", byeFrom.URI, inviteTo.URI)
	}

	cseq, _ := bye.CSeq()
	if cseq.Number != 2 || cseq.Method != "BYE" {
		t.Fatalf("CSeq = %+v, want {2 BYE}", cseq)
	}
}

func TestBuildCancelReusesViaAndCSeqNumber(t *testing.T) {
	to := header.NameAddr{URI: mustParseURI(t, "sip:bob@biloxi.example.com")}
	invite := builder.BuildBasicRequest("INVITE", mustParseURI(t, "sip:bob@biloxi.example.com"),
		to, mustParseURI(t, "sip:alice@atlanta.example.com"), localEP(t))

	cancel := builder.BuildCancel(invite, 1)

	inviteVia, _ := invite.Via()
	cancelVia, _ := cancel.Via()
	inviteBranch, _ := inviteVia.Entries[0].Branch()
	cancelBranch, _ := cancelVia.Entries[0].Branch()
	if inviteBranch != cancelBranch {
		t.Fatal("CANCEL must reuse the INVITE's branch")
	}
	cseq, _ := cancel.CSeq()
	if cseq.Number != 1 || cseq.Method != "CANCEL" {
		t.Fatalf("CSeq = %+v, want {1 CANCEL}", cseq)
	}
}
