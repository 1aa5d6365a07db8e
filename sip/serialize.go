package sip

import "strings"

// SerializeMessage implements §6.5's serialize_message entry point:
// render the start line, then each header in its canonical name, then the
// CRLFCRLF separator, then the body if present.
func SerializeMessage(m Decoded) []byte {
	var sb strings.Builder
	sb.WriteString(m.StartLine())
	sb.WriteString("\r\n")

	var msg *Message
	switch v := m.(type) {
	case *Request:
		msg = &v.Message
	case *Response:
		msg = &v.Message
	default:
		return []byte(sb.String() + "\r\n")
	}

	for _, h := range msg.Headers {
		sb.WriteString(string(h.Name()))
		sb.WriteString(": ")
		sb.WriteString(h.String())
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")

	if len(msg.Body) > 0 {
		sb.Write(msg.Body)
	}

	return []byte(sb.String())
}
