package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
)

var ErrUnknownFormat = errors.NewSentinel("unknown log format")

// NewLogger builds the service logger writing to w.
//
// format is either "text" or "json" and level is one of the [slog.Level] names such as "debug" or "info".
func NewLogger(w io.Writer, format string, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrap(err, "parse log level", slog.String("level", level))
	}
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       lvl,
		ReplaceAttr: nil,
	}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, errors.Wrap(ErrUnknownFormat, "build log handler", slog.String("format", format))
	}
	return slog.New(NewContextHandler(handler)), nil
}
