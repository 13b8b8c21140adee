package transition

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/banshee-data/terrain.planner/internal/scenario"
	"github.com/banshee-data/terrain.planner/internal/timeutil"
)

// ErrCancelled is returned by Run when the transition was cancelled.
var ErrCancelled = errors.New("transition cancelled")

// State is the lifecycle of a Transition.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Animator starts transitions on a clock. A nil Clock uses the wall clock.
type Animator struct {
	Clock timeutil.Clock
}

// NewAnimator returns an Animator driven by clock.
func NewAnimator(clock timeutil.Clock) *Animator {
	return &Animator{Clock: clock}
}

// Begin starts a transition now. The plan is copied by value and each
// Transition owns its own timeline.
func (a *Animator) Begin(plan scenario.TransitionPlan, duration time.Duration) *Transition {
	clock := a.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	tr := &Transition{
		clock:    clock,
		plan:     plan,
		duration: duration,
		start:    clock.Now(),
		state:    StateRunning,
	}
	diagf("begin: %d paired, %d added, %d removed over %v",
		len(plan.Paired), len(plan.Added), len(plan.Removed), duration)
	return tr
}

// Transition is one eased interpolation between two snapshots. Tick, Cancel
// and State are safe for concurrent use.
type Transition struct {
	mu       sync.Mutex
	clock    timeutil.Clock
	plan     scenario.TransitionPlan
	duration time.Duration
	start    time.Time
	state    State
	seq      int
	settled  bool // the e=1 frame has been emitted
}

// State returns the current lifecycle state.
func (tr *Transition) State() State {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.state
}

// Plan returns the plan being animated.
func (tr *Transition) Plan() scenario.TransitionPlan {
	return tr.plan
}

// Cancel stops a running transition. No frame is produced afterwards.
// Cancelling a completed or cancelled transition does nothing.
func (tr *Transition) Cancel() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.state != StateRunning {
		return
	}
	tr.state = StateCancelled
	diagf("cancelled after %d frames", tr.seq)
}

// Tick produces the frame for the current clock time. Once the eased
// progress has reached 1, the following Tick returns the final frame and the
// transition completes. ok is false when the transition is no longer
// running. A non-positive duration completes on the first Tick.
func (tr *Transition) Tick() (f Frame, ok bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.state != StateRunning {
		return Frame{}, false
	}

	elapsed := tr.clock.Since(tr.start)
	if tr.settled || tr.duration <= 0 {
		f = Frame{
			Seq:      tr.seq,
			Elapsed:  elapsed,
			Progress: 1,
			Eased:    1,
			Final:    true,
			Entities: buildFrame(tr.plan, 1, true),
		}
		tr.seq++
		tr.state = StateCompleted
		diagf("completed after %d frames (%v)", tr.seq, elapsed)
		return f, true
	}

	t := float64(elapsed) / float64(tr.duration)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	e := EaseInOutCubic(t)
	f = Frame{
		Seq:      tr.seq,
		Elapsed:  elapsed,
		Progress: t,
		Eased:    e,
		Entities: buildFrame(tr.plan, e, false),
	}
	tr.seq++
	if e >= 1 {
		tr.settled = true
	}
	tracef("frame %d t=%.3f e=%.3f", f.Seq, t, e)
	return f, true
}

// Frames returns a lazy sequence producing one frame per received tick. The
// final frame follows the e=1 frame without waiting for another tick. The
// sequence ends when the transition completes or is cancelled, when ticks is
// closed, or when the consumer stops ranging.
func (tr *Transition) Frames(ticks <-chan time.Time) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for range ticks {
			f, ok := tr.Tick()
			if !ok || !yield(f) || f.Final {
				return
			}
			if f.Eased >= 1 {
				f, ok = tr.Tick()
				if ok {
					yield(f)
				}
				return
			}
		}
	}
}

// Run emits a frame immediately and then one per interval of the
// transition's clock until the transition completes. sink is called without
// any lock held, so it may call Cancel. Run returns nil on completion,
// ErrCancelled if Cancel was called, or the context error, in which case the
// transition is cancelled.
func (tr *Transition) Run(ctx context.Context, interval time.Duration, sink func(Frame)) error {
	ticker := tr.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		f, ok := tr.Tick()
		if !ok {
			if tr.State() == StateCompleted {
				return nil
			}
			return ErrCancelled
		}
		sink(f)
		switch {
		case f.Final:
			return nil
		case f.Eased >= 1:
			// The final frame follows without waiting for a tick.
			continue
		}

		select {
		case <-ctx.Done():
			tr.Cancel()
			return ctx.Err()
		case <-ticker.C():
		}
	}
}
