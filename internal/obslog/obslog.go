// Package obslog provides structured, leveled logging for driver/cache/
// build concerns that are not user-facing compiler diagnostics (those go
// through internal/diag and are rendered by internal/diagfmt instead).
// Phase timing is reported as a slog attribute rather than accumulated
// into a separate report type.
package obslog

import (
	"io"
	"log/slog"
	"time"
)

// New builds a text-handler logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything, used where the caller
// (e.g. a library test) has no interest in driver diagnostics.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Phase tracks one named stage's wall-clock duration and logs it on End.
type Phase struct {
	logger *slog.Logger
	name   string
	file   string
	start  time.Time
}

// BeginPhase starts timing a named stage, optionally scoped to one file.
func BeginPhase(logger *slog.Logger, name, file string) *Phase {
	return &Phase{logger: logger, name: name, file: file, start: time.Now()}
}

// End logs the phase's elapsed duration at debug level, with an optional
// note (e.g. a cache-hit/miss outcome).
func (p *Phase) End(note string) {
	elapsed := time.Since(p.start)
	args := []any{"phase", p.name, "elapsed_ms", float64(elapsed) / float64(time.Millisecond)}
	if p.file != "" {
		args = append(args, "file", p.file)
	}
	if note != "" {
		args = append(args, "note", note)
	}
	p.logger.Debug("phase complete", args...)
}
