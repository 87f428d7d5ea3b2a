// Package logging wraps zerolog behind the two calls the original
// source made everywhere: an always-on INFO line and a DEBUG line
// gated by a runtime flag (original_source/misc.hpp's INFO/DEBUG
// macros, gated there by a compile-time _DEBUG flag).
package logging

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	logger  = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}).With().Timestamp().Logger()
	debugOn int32
)

// SetDebug toggles whether Debug() calls are emitted.
func SetDebug(on bool) {
	if on {
		atomic.StoreInt32(&debugOn, 1)
	} else {
		atomic.StoreInt32(&debugOn, 0)
	}
}

// Info always logs, matching the original's unconditional INFO macro.
func Info(msg string, fields map[string]any) {
	event := logger.Info()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Debug logs only when debugging is enabled, matching the original's
// _DEBUG-gated DEBUG macro.
func Debug(msg string, fields map[string]any) {
	if atomic.LoadInt32(&debugOn) == 0 {
		return
	}
	event := logger.Debug()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Error logs an error with its message, always on (errors are never
// gated behind the debug flag).
func Error(msg string, err error, fields map[string]any) {
	event := logger.Error().Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
