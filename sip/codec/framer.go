// Package codec implements the message framer (§4.4), header parser
// (§4.5) and serializer that together turn a wire buffer into a typed
// message and back.
package codec

import (
	"bytes"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/errs"
)

// MaxMessageSize is the framing limit of §4.4: buffers larger than this
// are rejected outright.
const MaxMessageSize = 200_000

// MinMessageSize is the framing limit of §4.4: buffers shorter than this
// cannot possibly contain a start line.
const MinMessageSize = 7

// Frame splits a raw buffer into its start line, unfolded header lines and
// body, per §4.4's algorithm: split at the first CRLF to isolate the start
// line, locate CRLFCRLF to isolate headers from body (lenient: no
// CRLFCRLF means the whole remainder is headers and there is no body),
// unfold continuation lines (CRLF followed by whitespace collapses to a
// single space), then split the header block on CRLF.
func Frame(data []byte) (startLine string, headerLines []string, body []byte, err error) {
	if len(data) > MaxMessageSize {
		return "", nil, nil, errtrace.Wrap(errs.MessageTooLarge)
	}
	if len(data) < MinMessageSize {
		return "", nil, nil, errtrace.Wrap(errs.NotSip)
	}

	firstCRLF := bytes.Index(data, []byte("\r\n"))
	var firstLine []byte
	var rest []byte
	if firstCRLF < 0 {
		firstLine = data
		rest = nil
	} else {
		firstLine = data[:firstCRLF]
		rest = data[firstCRLF+2:]
	}

	if !bytes.Contains(firstLine, []byte("SIP")) {
		return "", nil, nil, errtrace.Wrap(errs.NotSip)
	}

	var headerBlock []byte
	if idx := bytes.Index(rest, []byte("\r\n\r\n")); idx >= 0 {
		headerBlock = rest[:idx]
		body = rest[idx+4:]
	} else {
		headerBlock = bytes.TrimSuffix(rest, []byte("\r\n"))
		body = nil
	}

	unfolded := unfold(string(headerBlock))
	if unfolded == "" {
		return string(firstLine), nil, body, nil
	}
	headerLines = strings.Split(unfolded, "\r\n")

	return string(firstLine), headerLines, body, nil
}

// unfold collapses any CRLF followed by one or more whitespace characters
// into a single space, per §4.4.
func unfold(block string) string {
	if !strings.Contains(block, "\r\n ") && !strings.Contains(block, "\r\n\t") {
		return block
	}

	var sb strings.Builder
	sb.Grow(len(block))
	i := 0
	for i < len(block) {
		if strings.HasPrefix(block[i:], "\r\n") && i+2 < len(block) && isWS(block[i+2]) {
			sb.WriteByte(' ')
			i += 2
			for i < len(block) && isWS(block[i]) {
				i++
			}
			continue
		}
		sb.WriteByte(block[i])
		i++
	}
	return sb.String()
}

func isWS(c byte) bool { return c == ' ' || c == '\t' }
