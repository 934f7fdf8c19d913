package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/5w1tchy/libapi/internal/config"
)

// newLogger builds the process logger: console output in development,
// JSON in production.
func newLogger(cfg config.Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if !cfg.IsProduction() {
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = os.Stdout
			cw.TimeFormat = time.TimeOnly
		})
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "libapi").Logger()
}
