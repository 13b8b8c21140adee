// Package monitoring wires the planner's logging: a swappable package-level
// Logf for command-line status lines, and the ops/diag/trace streams that
// each library package exposes through SetLogWriters.
package monitoring

import (
	"io"
	"log"
)

// Logf is the status logger used by the command-line tools. It defaults to
// log.Printf; tests mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetOutput points Logf at w, prefixing each line with prefix. A nil w
// mutes Logf.
func SetOutput(w io.Writer, prefix string) {
	if w == nil {
		SetLogger(nil)
		return
	}
	SetLogger(log.New(w, prefix, log.LstdFlags).Printf)
}
