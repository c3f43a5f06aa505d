// Package diag provides the minimal logging seam the rendering pipeline
// calls into from its non-fatal recovery paths: a thin interface so callers
// can plug in whatever their application already uses, defaulting to
// silence.
package diag

import "log"

// Logger is the logging seam every package in this module accepts instead
// of calling a global logger directly.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// noop discards everything; the zero value of Logger callers get unless
// they opt into one.
type noop struct{}

func (noop) Warnf(string, ...any)  {}
func (noop) Debugf(string, ...any) {}

// Noop is the default, silent Logger.
var Noop Logger = noop{}

// StdLogger adapts the standard library's log package to Logger. Debugf is
// gated by Verbose so routine recovery paths don't spam stderr by default.
type StdLogger struct {
	Verbose bool
}

func (s StdLogger) Warnf(format string, args ...any) {
	log.Printf("warn: "+format, args...)
}

func (s StdLogger) Debugf(format string, args ...any) {
	if s.Verbose {
		log.Printf("debug: "+format, args...)
	}
}
