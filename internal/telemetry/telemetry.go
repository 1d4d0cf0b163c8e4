// Package telemetry wires structured logging and request correlation for
// the CLI and any host embedding this module. None of it is wire-visible:
// correlation IDs never enter a digest, a schedule, or a coefficient, only
// log lines.
package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sixafter/nanoid"
)

// NewLogger builds a zerolog.Logger writing JSON lines to w (or a
// human-readable console writer over os.Stderr if w is nil).
func NewLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// CorrelationID returns a short, collision-resistant identifier for
// tagging a single embed/verify/extract request across log lines. It
// carries no cryptographic meaning and
// must never be used as watermark salt or seed material.
func CorrelationID() string {
	return nanoid.MustWithLength(12)
}

// WithRequest returns a context carrying both logger and correlation ID,
// following zerolog's own ctx-embedding idiom (zerolog.Ctx /
// logger.WithContext). A fresh correlation ID is minted and attached to
// the logger as the "correlation_id" field, so every log line emitted via
// zerolog.Ctx(ctx) on the returned context already carries it.
func WithRequest(ctx context.Context, logger zerolog.Logger) (context.Context, string) {
	id := CorrelationID()
	enriched := logger.With().Str("correlation_id", id).Logger()
	return enriched.WithContext(ctx), id
}

// LoggerFrom returns the logger embedded in ctx by WithRequest, or the
// disabled global logger if none was attached.
func LoggerFrom(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// EnsureRequest guarantees ctx carries an enabled logger and a fresh
// correlation ID: it reuses whatever logger the caller already attached
// (via WithRequest or zerolog's own Logger.WithContext) unless that
// logger is disabled, in which case it falls back to a default stderr
// logger so that exported operations always produce their entry/exit log
// pair. Every call mints its own correlation ID, even if ctx already had
// one, since each call is its own request.
func EnsureRequest(ctx context.Context) (context.Context, *zerolog.Logger, string) {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		fresh := NewLogger(nil)
		logger = &fresh
	}

	id := CorrelationID()
	enriched := logger.With().Str("correlation_id", id).Logger()
	return enriched.WithContext(ctx), &enriched, id
}
