package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/draogmims2caom2/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and makes
// it the slog default. Logs go to stderr so stdout stays free for command output.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// newLogger takes level parsing from the shared logger, which writes to
// stdout, and rebuilds the same handler on w.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	shared := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	opts := &slog.HandlerOptions{Level: enabledLevel(shared.Handler())}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("app", "draogmims2caom2")
}

// enabledLevel returns the lowest level h accepts.
func enabledLevel(h slog.Handler) slog.Level {
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if h.Enabled(context.Background(), lvl) {
			return lvl
		}
	}
	return slog.LevelError
}
