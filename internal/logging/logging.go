// Package logging builds the process logger.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kurobon/gitdistance/internal/distance"
)

// ErrInvalidFormat is returned for a log format other than text or json,
// both here and by config validation.
var ErrInvalidFormat = errors.New("invalid log format")

// ParseLevel maps a level name to a slog level. Unknown names are an error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New creates a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return slog.New(h), nil
}

// VisitFunc returns a walk hook that logs each expanded commit at debug level.
// When debug is disabled the hook is a no-op so walks stay cheap.
func VisitFunc(logger *slog.Logger) distance.VisitFunc {
	if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
		return func(distance.CommitID, int) {}
	}
	return func(id distance.CommitID, depth int) {
		logger.Debug("visit", "commit", id.String(), "depth", depth)
	}
}
