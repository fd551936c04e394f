package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions selects where diagnostic lines go
type LogOptions struct {
	// Console receives human readable lines; nil disables console output
	Console io.Writer
	NoColor bool
	// File, when set, receives JSON lines appended to that path
	File    string
	Verbose bool
}

// NewLogger builds the diagnostic logger. The returned close function releases the
// log file and is never nil.
func NewLogger(opts LogOptions) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	closeFn := func() error { return nil }

	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly, NoColor: opts.NoColor})
	}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closeFn, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return logger, closeFn, nil
}
