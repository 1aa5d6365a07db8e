// Package log provides the preconfigured slog loggers used when a caller
// opts into diagnostics; nothing in sipsrtp logs implicitly at a level
// above Debug/Trace, so a silent Noop logger is the constructor default.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	console "github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
)

// Def is the default console logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stdout, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a verbose developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop discards everything; this is what every sipsrtp constructor uses
// unless the caller supplies a logger via its functional options.
var Noop = slog.New(noopHandler{})

type stringValue struct{ v fmt.Stringer }

func (v stringValue) LogValue() slog.Value { return slog.StringValue(v.v.String()) }

// StringValue wraps a fmt.Stringer (e.g. a URI or Addr) for lazy formatting.
func StringValue(v fmt.Stringer) slog.LogValuer { return stringValue{v} }
