package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger creates the CLI logger. An empty level means warn. With a
// log file, JSON lines are appended to it; otherwise a console writer prints
// to stderr.
func setupLogger(logFile, logLevel string, stderr io.Writer) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if logLevel != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil || parsed == zerolog.NoLevel {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q (want debug, info, warn or error)", logLevel)
		}
		level = parsed
	}

	if logFile == "" {
		console := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
		return zerolog.New(console).Level(level).With().Timestamp().Logger(), nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to open log file: %w", err)
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), nil
}
