// Package logging wires the module's ambient structured logging.
//
// Every package in this module that needs to report something outside of
// its return values (a fold happened, a verification failed) goes through
// here instead of fmt.Println, matching how the rest of the gnark-adjacent
// corpus standardizes on zerolog.
package logging

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// L returns the package-wide logger. The level defaults to Info and can be
// overridden by setting the SUPERNOVA_LOG_LEVEL environment variable to any
// value accepted by zerolog.ParseLevel.
func L() *zerolog.Logger {
	once.Do(func() {
		level := zerolog.InfoLevel
		if v := os.Getenv("SUPERNOVA_LOG_LEVEL"); v != "" {
			if parsed, err := zerolog.ParseLevel(v); err == nil {
				level = parsed
			}
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			Level(level).
			With().Timestamp().Logger()
	})
	return &logger
}

// SetOutput swaps the underlying writer, for a caller (such as a test) that
// wants to assert on emitted log lines without console color codes.
func SetOutput(w zerolog.ConsoleWriter) {
	logger = zerolog.New(w).Level(logger.GetLevel()).With().Timestamp().Logger()
}
