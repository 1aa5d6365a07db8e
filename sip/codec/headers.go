package codec

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/errs"
	"github.com/voicecore/sipsrtp/sip/header"
)

// requiredFields maps the header names whose malformed values fail the
// whole decode (§4.5's "malformed required header" list) to the §7 error
// taxonomy field they report as.
var requiredFields = map[header.Name]errs.Field{
	"Via":            errs.FieldVia,
	"CSeq":           errs.FieldCSeq,
	"Content-Length": errs.FieldContentLength,
	"Max-Forwards":   errs.FieldMaxForwards,
	"Expires":        errs.FieldExpires,
}

// ParseHeaderLines parses the unfolded header lines produced by [Frame]
// into an ordered list of typed headers, per §4.5. A malformed required
// header (Via, CSeq, Content-Length, Max-Forwards, Expires) fails the
// whole parse with a [errs.HeaderValidation]; any other header whose typed
// parser fails (Min-Expires, for one) is silently elided instead. A header
// with no typed parser is kept as a generic [header.Any].
func ParseHeaderLines(lines []string) ([]header.Header, error) {
	out := make([]header.Header, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rawName, rawValue, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rawName = strings.TrimSpace(rawName)
		rawValue = strings.TrimSpace(rawValue)

		h, err := header.Parse(rawName, rawValue)
		if err != nil {
			name := header.CanonicName(rawName)
			if field, required := requiredFields[name]; required {
				return nil, errtrace.Wrap(errs.NewHeaderValidation(field, err.Error()))
			}
			// optional header malformed: elide it, per §4.5/§7.
			continue
		}
		out = append(out, h)
	}
	return out, nil
}
