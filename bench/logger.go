package bench

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const EnvLogLevel = "LOG_LEVEL"

// NewLogger builds a human-readable logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		logger = logger.Level(zerolog.InfoLevel)
		logger.Warn().Err(err).Str("level", level).Msg("failed to parse log level, fallback to info")
		return logger
	}
	return logger.Level(lvl)
}

// LoggerFromEnv reads the level from LOG_LEVEL and writes to stderr.
func LoggerFromEnv() zerolog.Logger {
	level, ok := os.LookupEnv(EnvLogLevel)
	if !ok {
		level = "info"
	}
	return NewLogger(os.Stderr, level)
}
