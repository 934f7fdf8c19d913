package main

import (
	stdlog "log"

	"github.com/rs/zerolog"
)

// stdLogger routes net/http's internal error log through zerolog.
func stdLogger(log zerolog.Logger) *stdlog.Logger {
	l := log.With().Str("component", "http").Logger()
	return stdlog.New(l, "", 0)
}
