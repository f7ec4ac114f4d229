// Package logging builds the zerolog loggers used by the ChatMacro programs.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dekarrin/chatmacro/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger from cfg. If cfg gives a log file, logs are written to
// it as JSON and the file is rotated once it grows too large; otherwise they
// are written to console in human-readable form.
//
// The returned io.Closer must be closed once logging is done.
func New(cfg config.Log, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = lj
		closer = lj
	} else {
		if console == nil {
			console = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly, NoColor: true}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}
