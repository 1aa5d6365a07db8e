// Package qtoken implements the quoted-string-aware tokenizer shared by
// the SIP header and parameter-map parsers.
package qtoken

// Split breaks s into top-level segments separated by delim, treating any
// byte that occurs inside a double-quoted region as non-delimiting. A
// quoted region starts at an unescaped '"' and ends at the next unescaped
// '"'; '\' is the escape character inside quotes. Leading runs of delim
// (and the empty segments they would otherwise produce) are skipped; the
// byte content of every other segment is preserved verbatim, including
// surrounding whitespace and quote characters, so callers may re-parse it.
func Split(s string, delim byte) []string {
	var (
		segs     []string
		start    int
		inQuotes bool
		escaped  bool
		seenAny  bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inQuotes {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuotes = false
			}
			continue
		}

		switch {
		case c == '"':
			inQuotes = true
		case c == delim:
			seg := s[start:i]
			start = i + 1
			if seg == "" && !seenAny {
				// leading doubled-up delimiter, skip it entirely
				continue
			}
			seenAny = true
			segs = append(segs, seg)
		}
	}

	if tail := s[start:]; tail != "" || seenAny {
		segs = append(segs, tail)
	}

	return segs
}
