// Package logging builds the structured logger used across commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// secretPatterns match attribute keys whose values must never reach
// the log output. The vault stores no secrets, but env values and
// tokens pass through log call sites.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i).*_TOKEN$`),
	regexp.MustCompile(`(?i).*_SECRET$`),
	regexp.MustCompile(`(?i).*PASSWORD.*`),
	regexp.MustCompile(`(?i)^auth_token$`),
}

// New creates a JSON logger on stderr at the given level. Level is one
// of "debug", "info", "warn", "error"; anything else means info.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger with a custom writer, for tests.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: redactSecrets,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// redactSecrets is a ReplaceAttr hook masking sensitive fields.
func redactSecrets(groups []string, a slog.Attr) slog.Attr {
	for _, pattern := range secretPatterns {
		if pattern.MatchString(a.Key) {
			return slog.Attr{Key: a.Key, Value: slog.StringValue("***REDACTED***")}
		}
	}
	return a
}
