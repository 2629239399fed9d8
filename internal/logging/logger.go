package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
)

// New builds the process logger. format is console (pretty, for local
// runs), json, or ecs (Elastic Common Schema fields for log shipping).
func New(app, format, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, app, format, level)
}

func NewWithWriter(w io.Writer, app, format, level string) zerolog.Logger {
	var base zerolog.Logger
	switch strings.ToLower(format) {
	case "ecs":
		base = ecszerolog.New(w)
	case "json":
		base = zerolog.New(w).With().Timestamp().Logger()
	default:
		base = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}

	return base.Level(ParseLevel(level)).With().Str("app", app).Logger()
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
