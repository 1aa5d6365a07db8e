package codec

import (
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/voicecore/sipsrtp/errs"
	"github.com/voicecore/sipsrtp/internal/log"
	"github.com/voicecore/sipsrtp/sip/header"
)

// Codec bundles the framing/header-parsing limits and diagnostics a caller
// can tune, built through functional options rather than a file or
// environment-based loader.
type Codec struct {
	maxSize int
	strict  bool
	logger  *slog.Logger
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithMaxMessageSize sets the size limit for a single Codec. The
// package-level [Frame] still rejects buffers over [MaxMessageSize], so a
// value above it does not admit larger buffers.
func WithMaxMessageSize(n int) Option {
	return func(c *Codec) { c.maxSize = n }
}

// WithStrictValidation makes a malformed optional header fail the parse
// instead of being silently elided, for callers that would rather reject a
// questionable message than forward a partially-decoded one.
func WithStrictValidation() Option {
	return func(c *Codec) { c.strict = true }
}

// WithLogger attaches a logger the Codec reports elided headers
// to at Debug level. The zero Codec logs nothing ([log.Noop]).
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// New builds a Codec, defaulting to [MaxMessageSize], lenient optional
// header handling, and a silent logger.
func New(opts ...Option) *Codec {
	c := &Codec{maxSize: MaxMessageSize, logger: log.Noop}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Frame behaves like the package-level [Frame], honoring this Codec's
// configured maximum message size.
func (c *Codec) Frame(data []byte) (startLine string, headerLines []string, body []byte, err error) {
	if len(data) > c.maxSize {
		return "", nil, nil, errtrace.Wrap(errs.MessageTooLarge)
	}
	return Frame(data)
}

// ParseHeaderLines behaves like the package-level [ParseHeaderLines],
// additionally failing on a malformed optional header when the Codec was
// built with [WithStrictValidation], and logging elided headers otherwise.
func (c *Codec) ParseHeaderLines(lines []string) ([]header.Header, error) {
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
			if c.strict {
				return nil, errtrace.Wrap(errs.NewHeaderValidation(errs.Field(name), err.Error()))
			}
			c.logger.Debug("eliding malformed optional header", "header", name, "err", err)
			continue
		}
		out = append(out, h)
	}
	return out, nil
}
