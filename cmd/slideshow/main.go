// Command slideshow plays a sequence of saved scenario snapshots as an
// animated slideshow, writing one JSON frame per line.
//
// Usage:
//
//	go run ./cmd/slideshow [flags] phase1.json phase2.json [...]
//
// Each consecutive pair of snapshots is diffed and animated; the output is
// newline-delimited JSON suitable for piping into a renderer.
//
// Flags:
//
//	-config     Planner config JSON (default: built-in defaults)
//	-duration   Slide transition length (default: from config)
//	-interval   Frame interval (default: from config)
//	-plan       Print the transition plans without animating
//	-out        Output path (default: stdout)
//	-log-level  off, ops, diag or trace (default: ops)
//	-log-file   Rotated log file (default: stderr)
//	-version    Print version and exit
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/terrain.planner/internal/config"
	"github.com/banshee-data/terrain.planner/internal/fsutil"
	"github.com/banshee-data/terrain.planner/internal/monitoring"
	"github.com/banshee-data/terrain.planner/internal/scenario"
	"github.com/banshee-data/terrain.planner/internal/scenario/slideshow"
	"github.com/banshee-data/terrain.planner/internal/scenario/transition"
	"github.com/banshee-data/terrain.planner/internal/timeutil"
	"github.com/banshee-data/terrain.planner/internal/version"
)

const maxSnapshotSize = 4 * 1024 * 1024

type options struct {
	configPath string
	duration   time.Duration
	interval   time.Duration
	planOnly   bool
	out        string
	logLevel   string
	logFile    string
	version    bool
	paths      []string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "Planner config JSON")
	fs.DurationVar(&o.duration, "duration", 0, "Slide transition length (default: from config)")
	fs.DurationVar(&o.interval, "interval", 0, "Frame interval (default: from config)")
	fs.BoolVar(&o.planOnly, "plan", false, "Print the transition plans without animating")
	fs.StringVar(&o.out, "out", "", "Output path (default: stdout)")
	fs.StringVar(&o.logLevel, "log-level", monitoring.LevelOps, "off, ops, diag or trace")
	fs.StringVar(&o.logFile, "log-file", "", "Rotated log file (default: stderr)")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.version {
		return o, nil
	}
	o.paths = fs.Args()
	if len(o.paths) < 2 {
		return o, errors.New("need at least two snapshot files")
	}
	if o.duration < 0 || o.interval < 0 {
		return o, errors.New("-duration and -interval must be non-negative")
	}
	return o, nil
}

func loadConfig(fsys fsutil.FileSystem, path string) (*config.PlannerConfig, error) {
	if path == "" {
		return config.DefaultPlannerConfig(), nil
	}
	return config.LoadPlannerConfigFS(fsys, path)
}

func loadSnapshots(fsys fsutil.FileSystem, paths []string, zoneRadius float64) ([]scenario.Snapshot, error) {
	parser := scenario.Parser{ZoneRadiusMeters: zoneRadius}
	out := make([]scenario.Snapshot, 0, len(paths))
	for _, p := range paths {
		data, err := fsutil.ReadFileLimited(fsys, p, maxSnapshotSize)
		if err != nil {
			return nil, err
		}
		s, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if s.Name == "" {
			s.Name = p
		}
		out = append(out, s)
	}
	return out, nil
}

// planRecord summarises one slide-to-slide plan by entity id.
type planRecord struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Removed    []string `json:"removed"`
	Added      []string `json:"added"`
	Paired     []string `json:"paired"`
	Duplicates []string `json:"duplicates,omitempty"`
}

func newPlanRecord(from, to string, p scenario.TransitionPlan) planRecord {
	ids := func(es []scenario.Entity) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.ID.String()
		}
		return out
	}
	rec := planRecord{From: from, To: to, Removed: ids(p.Removed), Added: ids(p.Added), Paired: make([]string, len(p.Paired))}
	for i, pr := range p.Paired {
		rec.Paired[i] = pr.ID().String()
	}
	for _, id := range p.Duplicates {
		rec.Duplicates = append(rec.Duplicates, id.String())
	}
	return rec
}

// frameRecord is one line of animation output.
type frameRecord struct {
	Slide int              `json:"slide"`
	From  string           `json:"from"`
	To    string           `json:"to"`
	Frame transition.Frame `json:"frame"`
}

func run(ctx context.Context, o options, fsys fsutil.FileSystem, clock timeutil.Clock, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, o.configPath)
	if err != nil {
		return err
	}
	slides, err := loadSnapshots(fsys, o.paths, cfg.GetZoneRadiusMeters())
	if err != nil {
		return err
	}

	if o.out == "" {
		return play(ctx, o, cfg, slides, clock, stdout)
	}
	fw, err := fsys.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := play(ctx, o, cfg, slides, clock, fw); err != nil {
		fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// play writes the plan or frame stream for slides to w.
func play(ctx context.Context, o options, cfg *config.PlannerConfig, slides []scenario.Snapshot, clock timeutil.Clock, w io.Writer) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	enc := json.NewEncoder(bw)

	if o.planOnly {
		for i := 1; i < len(slides); i++ {
			plan := scenario.Diff(slides[i-1], slides[i])
			if err := enc.Encode(newPlanRecord(slides[i-1].Name, slides[i].Name, plan)); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	duration := o.duration
	if duration == 0 {
		duration = cfg.GetTransitionDuration()
	}
	interval := o.interval
	if interval == 0 {
		interval = cfg.GetFrameInterval()
	}

	deck := slideshow.NewDeck(transition.NewAnimator(clock), duration)
	for _, s := range slides {
		deck.Add(s)
	}
	if _, err := deck.Start(); err != nil {
		return err
	}
	defer deck.Stop()

	monitoring.Logf("playing %d slides, %v per transition at %v", len(slides), duration, interval)
	for slide := 1; ; slide++ {
		from, _ := deck.Current()
		tr, err := deck.Next()
		if errors.Is(err, slideshow.ErrAtEnd) {
			break
		}
		if err != nil {
			return err
		}
		to, _ := deck.Current()

		var encErr error
		err = tr.Run(ctx, interval, func(f transition.Frame) {
			if encErr == nil {
				encErr = enc.Encode(frameRecord{Slide: slide, From: from.Name, To: to.Name, Frame: f})
			}
		})
		if encErr != nil {
			return fmt.Errorf("failed to write frame: %w", encErr)
		}
		if err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func setupLogging(o options) (io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if o.logFile != "" {
		rw := monitoring.NewRotatingWriter(monitoring.RotatingFile{Path: o.logFile})
		w, closer = rw, rw
	}
	streams, err := monitoring.StreamsFor(o.logLevel, w)
	if err != nil {
		return nil, err
	}
	monitoring.Install(streams)
	if strings.EqualFold(o.logLevel, monitoring.LevelOff) {
		w = nil
	}
	monitoring.SetOutput(w, "[slideshow] ")
	return closer, nil
}

func main() {
	fs := flag.NewFlagSet("slideshow", flag.ExitOnError)
	o, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "slideshow %s: %v\n", version.Version, err)
		fs.Usage()
		os.Exit(2)
	}
	if o.version {
		fmt.Println(version.String("slideshow"))
		return
	}

	closer, err := setupLogging(o)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, o, fsutil.OSFileSystem{}, timeutil.RealClock{}, os.Stdout)
	stop()
	if err != nil {
		monitoring.Logf("error: %v", err)
	}
	if closer != nil {
		closer.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
