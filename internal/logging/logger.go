package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger from the bound flags. It exists before the
// project file is loaded so load warnings are logged too.
func NewLogger(v *viper.Viper) *slog.Logger {
	debug := v != nil && v.GetBool("debug")
	return New(os.Stderr, levelFromEnv(debug))
}

// New builds a text logger writing to w
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time for cleaner output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func levelFromEnv(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("SOLWATCH_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shortPath trims a source path to its module-relative part
func shortPath(file string) string {
	if idx := strings.Index(file, "solwatch/"); idx != -1 {
		return file[idx+len("solwatch/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
