package monitoring

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/banshee-data/terrain.planner/internal/scenario"
	"github.com/banshee-data/terrain.planner/internal/scenario/slideshow"
	"github.com/banshee-data/terrain.planner/internal/scenario/transition"
	"github.com/banshee-data/terrain.planner/internal/terrain/contour"
)

// LogWriters holds the io.Writers for each logging stream. A nil writer
// disables that stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

// Log levels accepted by StreamsFor, from quietest to noisiest.
const (
	LevelOff   = "off"
	LevelOps   = "ops"
	LevelDiag  = "diag"
	LevelTrace = "trace"
)

// StreamsFor routes every stream at or below level to w. "ops" enables
// only the ops stream; "trace" enables all three.
func StreamsFor(level string, w io.Writer) (LogWriters, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelOff:
		return LogWriters{}, nil
	case LevelOps, "":
		return LogWriters{Ops: w}, nil
	case LevelDiag:
		return LogWriters{Ops: w, Diag: w}, nil
	case LevelTrace:
		return LogWriters{Ops: w, Diag: w, Trace: w}, nil
	}
	return LogWriters{}, fmt.Errorf("unknown log level %q (want off, ops, diag or trace)", level)
}

// RotatingFile configures size-based rotation for a log file.
type RotatingFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// NewRotatingWriter returns a writer that appends to f.Path and rotates it
// once it exceeds f.MaxSizeMB. Close the writer on shutdown.
func NewRotatingWriter(f RotatingFile) io.WriteCloser {
	maxSize := f.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	backups := f.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	return &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    maxSize,
		MaxBackups: backups,
		LocalTime:  true,
	}
}

// Install points the logging streams of every planner package at w.
func Install(w LogWriters) {
	contour.SetLogWriters(w.Ops, w.Diag, w.Trace)
	scenario.SetLogWriters(w.Ops, w.Diag, w.Trace)
	transition.SetLogWriters(w.Ops, w.Diag, w.Trace)
	slideshow.SetLogWriters(w.Ops, w.Diag, w.Trace)
}
