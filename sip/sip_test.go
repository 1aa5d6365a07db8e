package sip_test

import (
	"testing"

	"github.com/voicecore/sipsrtp/sip"
)

const rawInvite = "INVITE sip:bob@biloxi.example.com SIP/2.0\r\n" +
	"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds\r\n" +
	"Max-Forwards: 70\r\n" +
	"To: Bob <sip:bob@biloxi.example.com>\r\n" +
	"From: Alice <sip:alice@atlanta.example.com>;tag=1928301774\r\n" +
	"Call-ID: a84b4c76e66710@pc33.atlanta.example.com\r\n" +
	"CSeq: 314159 INVITE\r\n" +
	"Contact: <sip:alice@pc33.atlanta.example.com>\r\n" +
	"Content-Length: 0\r\n" +
	"\r\n"

func TestParseMessageRequest(t *testing.T) {
	msg, err := sip.ParseMessage([]byte(rawInvite))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	req, ok := msg.(*sip.Request)
	if !ok {
		t.Fatalf("got %T, want *sip.Request", msg)
	}
	if req.Method != "INVITE" {
		t.Fatalf("Method = %q, want INVITE", req.Method)
	}
	if req.CallID() != "a84b4c76e66710@pc33.atlanta.example.com" {
		t.Fatalf("CallID = %q", req.CallID())
	}
	if err := sip.ValidateRequest(req); err != nil {
		t.Fatalf("ValidateRequest: %v", err)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	msg, err := sip.ParseMessage([]byte(rawInvite))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	out := sip.SerializeMessage(msg)

	msg2, err := sip.ParseMessage(out)
	if err != nil {
		t.Fatalf("re-parsing serialized message: %v\n%s", err, out)
	}
	req1, req2 := msg.(*sip.Request), msg2.(*sip.Request)
	if req1.StartLine() != req2.StartLine() {
		t.Fatalf("start line changed across round trip: %q vs %q", req1.StartLine(), req2.StartLine())
	}
	if req1.CallID() != req2.CallID() {
		t.Fatalf("Call-ID changed across round trip")
	}
}

func TestValidateRequestRejectsExcessiveMaxForwards(t *testing.T) {
	raw := "INVITE sip:bob@biloxi.example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds\r\n" +
		"Max-Forwards: 71\r\n" +
		"To: Bob <sip:bob@biloxi.example.com>\r\n" +
		"From: Alice <sip:alice@atlanta.example.com>;tag=1928301774\r\n" +
		"Call-ID: a84b4c76e66710@pc33.atlanta.example.com\r\n" +
		"CSeq: 314159 INVITE\r\n" +
		"Content-Length: 0\r\n" +
		"\r\n"
	req, err := sip.ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if err := sip.ValidateRequest(req); err == nil {
		t.Fatal("expected Max-Forwards > 70 to be rejected")
	}
}

func TestValidateRequestRejectsCSeqMethodMismatch(t *testing.T) {
	raw := "BYE sip:bob@biloxi.example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds\r\n" +
		"Max-Forwards: 70\r\n" +
		"To: Bob <sip:bob@biloxi.example.com>\r\n" +
		"From: Alice <sip:alice@atlanta.example.com>;tag=1928301774\r\n" +
		"Call-ID: a84b4c76e66710@pc33.atlanta.example.com\r\n" +
		"CSeq: 314159 INVITE\r\n" +
		"Content-Length: 0\r\n" +
		"\r\n"
	req, err := sip.ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if err := sip.ValidateRequest(req); err == nil {
		t.Fatal("expected CSeq method mismatch to be rejected")
	}
}

func TestParseResponse(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds\r\n" +
		"To: Bob <sip:bob@biloxi.example.com>;tag=a6c85cf\r\n" +
		"From: Alice <sip:alice@atlanta.example.com>;tag=1928301774\r\n" +
		"Call-ID: a84b4c76e66710@pc33.atlanta.example.com\r\n" +
		"CSeq: 314159 INVITE\r\n" +
		"Content-Length: 0\r\n" +
		"\r\n"
	resp, err := sip.ParseResponse([]byte(raw))
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.StatusCode != 200 || !resp.IsSuccess() {
		t.Fatalf("StatusCode = %d, IsSuccess = %v", resp.StatusCode, resp.IsSuccess())
	}
}

func TestParseMessageRejectsEmpty(t *testing.T) {
	if _, err := sip.ParseMessage(nil); err == nil {
		t.Fatal("expected an error parsing an empty buffer")
	}
}
