package codec_test

import (
	"errors"
	"testing"

	"github.com/voicecore/sipsrtp/errs"
	"github.com/voicecore/sipsrtp/sip/codec"
)

func TestFrameSplitsStartLineHeadersAndBody(t *testing.T) {
	raw := "INVITE sip:bob@biloxi.example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds\r\n" +
		"Content-Length: 5\r\n" +
		"\r\n" +
		"hello"

	startLine, headerLines, body, err := codec.Frame([]byte(raw))
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if startLine != "INVITE sip:bob@biloxi.example.com SIP/2.0" {
		t.Fatalf("startLine = %q", startLine)
	}
	if len(headerLines) != 2 {
		t.Fatalf("got %d header lines, want 2: %v", len(headerLines), headerLines)
	}
	if string(body) != "hello" {
		t.Fatalf("body = %q, want %q", body, "hello")
	}
}

func TestFrameUnfoldsContinuationLines(t *testing.T) {
	raw := "INVITE sip:bob@biloxi.example.com SIP/2.0\r\n" +
		"Subject: A tale\r\n of two\r\n\tcities\r\n" +
		"\r\n"

	_, headerLines, _, err := codec.Frame([]byte(raw))
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(headerLines) != 1 {
		t.Fatalf("got %d header lines, want 1 (folded into one): %v", len(headerLines), headerLines)
	}
	if headerLines[0] != "Subject: A tale of two cities" {
		t.Fatalf("headerLines[0] = %q", headerLines[0])
	}
}

func TestFrameRejectsUndersizedBuffer(t *testing.T) {
	_, _, _, err := codec.Frame([]byte("x"))
	if !errors.Is(err, errs.NotSip) {
		t.Fatalf("err = %v, want errs.NotSip", err)
	}
}

func TestFrameRejectsOversizedBuffer(t *testing.T) {
	huge := make([]byte, codec.MaxMessageSize+1)
	_, _, _, err := codec.Frame(huge)
	if !errors.Is(err, errs.MessageTooLarge) {
		t.Fatalf("err = %v, want errs.MessageTooLarge", err)
	}
}

func TestFrameRejectsNonSipStartLine(t *testing.T) {
	_, _, _, err := codec.Frame([]byte("HELLO WORLD\r\n\r\n"))
	if !errors.Is(err, errs.NotSip) {
		t.Fatalf("err = %v, want errs.NotSip", err)
	}
}

func TestFrameToleratesMissingBodySeparator(t *testing.T) {
	raw := "OPTIONS sip:bob@biloxi.example.com SIP/2.0\r\nVia: SIP/2.0/UDP host\r\n"
	_, headerLines, body, err := codec.Frame([]byte(raw))
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(headerLines) != 1 {
		t.Fatalf("got %d header lines, want 1: %v", len(headerLines), headerLines)
	}
	if body != nil {
		t.Fatalf("body = %q, want nil", body)
	}
}

func TestParseHeaderLinesSkipsBlankAndMalformedOptional(t *testing.T) {
	lines := []string{
		"",
		"Via: SIP/2.0/UDP pc33.atlanta.example.com;branch=z9hG4bK776asdhds",
		"Min-Expires: not-a-number",
	}
	headers, err := codec.ParseHeaderLines(lines)
	if err != nil {
		t.Fatalf("ParseHeaderLines: %v", err)
	}
	if len(headers) != 1 {
		t.Fatalf("got %d headers, want 1 (malformed optional header elided): %v", len(headers), headers)
	}
}

func TestParseHeaderLinesFailsOnMalformedRequiredHeader(t *testing.T) {
	lines := []string{"Content-Length: not-a-number"}
	if _, err := codec.ParseHeaderLines(lines); err == nil {
		t.Fatal("expected a malformed Content-Length to fail the whole parse")
	}
}

func TestCodecStrictValidationRejectsMalformedOptionalHeader(t *testing.T) {
	c := codec.New(codec.WithStrictValidation())
	lines := []string{"Min-Expires: not-a-number"}
	if _, err := c.ParseHeaderLines(lines); err == nil {
		t.Fatal("expected strict validation to reject a malformed optional header")
	}
}

func TestCodecDefaultIsLenient(t *testing.T) {
	c := codec.New()
	lines := []string{"Min-Expires: not-a-number"}
	headers, err := c.ParseHeaderLines(lines)
	if err != nil {
		t.Fatalf("ParseHeaderLines: %v", err)
	}
	if len(headers) != 0 {
		t.Fatalf("got %d headers, want 0", len(headers))
	}
}

func TestCodecFrameHonorsCustomMaxSize(t *testing.T) {
	c := codec.New(codec.WithMaxMessageSize(10))
	_, _, _, err := c.Frame([]byte("INVITE sip:bob@biloxi.example.com SIP/2.0\r\n\r\n"))
	if !errors.Is(err, errs.MessageTooLarge) {
		t.Fatalf("err = %v, want errs.MessageTooLarge", err)
	}
}
