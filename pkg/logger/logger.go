package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// ParseLevel maps a config log level to a zerolog level (defaults to info)
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds a logger writing to out in the given format.
// "json" produces one JSON object per line, anything else a colored console writer.
func New(out io.Writer, level, format string) zerolog.Logger {
	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(out).With().Timestamp().Logger()
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(out),
		}).With().Timestamp().Logger()
	}
	return l.Level(ParseLevel(level))
}

// Init initializes the global logger with the specified level and format
func Init(level, format string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = New(os.Stderr, level, format)
}

// Get returns a reference to the global logger
func Get() *zerolog.Logger {
	return &log.Logger
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
