// Package slideshow steps through an ordered queue of snapshots, animating
// each move with a fresh transition.
package slideshow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/terrain.planner/internal/scenario"
	"github.com/banshee-data/terrain.planner/internal/scenario/transition"
)

// DefaultDuration is the slide-to-slide animation length.
const DefaultDuration = time.Second

var (
	ErrEmpty      = errors.New("slideshow is empty")
	ErrNotStarted = errors.New("slideshow not started")
	ErrAtEnd      = errors.New("already at the last slide")
	ErrAtStart    = errors.New("already at the first slide")
)

// Deck is a slideshow queue. At most one transition is active per deck:
// navigating cancels the active transition before starting the next one.
type Deck struct {
	anim     *transition.Animator
	duration time.Duration

	mu     sync.Mutex
	slides []scenario.Snapshot
	index  int // -1 until Start
	active *transition.Transition
}

// NewDeck returns an empty deck. A non-positive duration uses
// DefaultDuration.
func NewDeck(anim *transition.Animator, duration time.Duration) *Deck {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Deck{anim: anim, duration: duration, index: -1}
}

// Add appends a slide and returns the new length.
func (d *Deck) Add(s scenario.Snapshot) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slides = append(d.slides, s)
	tracef("added %q at %d", s.Name, len(d.slides)-1)
	return len(d.slides)
}

// Remove deletes slide i. Removing the current slide cancels the active
// transition; the deck then shows the slide that moved into its place, or
// the new last slide.
func (d *Deck) Remove(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.slides) {
		return fmt.Errorf("remove slide %d: out of range [0,%d)", i, len(d.slides))
	}
	d.slides = append(d.slides[:i:i], d.slides[i+1:]...)
	tracef("removed slide %d, %d left", i, len(d.slides))

	switch {
	case d.index < 0:
	case len(d.slides) == 0:
		d.cancelActive()
		d.index = -1
	case i == d.index:
		d.cancelActive()
		if d.index >= len(d.slides) {
			d.index = len(d.slides) - 1
		}
	case i < d.index:
		d.index--
	}
	return nil
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.slides)
}

// Index returns the current slide, or -1 before Start.
func (d *Deck) Index() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// Current returns the current slide.
func (d *Deck) Current() (scenario.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index < 0 {
		return scenario.Snapshot{}, false
	}
	return d.slides[d.index], true
}

// Active returns the most recently started transition, or nil.
func (d *Deck) Active() *transition.Transition {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Start jumps to the first slide without animating.
func (d *Deck) Start() (scenario.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.slides) == 0 {
		opsf("start: %v", ErrEmpty)
		return scenario.Snapshot{}, ErrEmpty
	}
	d.cancelActive()
	d.index = 0
	diagf("start: showing %q (1/%d)", d.slides[0].Name, len(d.slides))
	return d.slides[0], nil
}

// Stop cancels any active transition and rewinds to before Start.
func (d *Deck) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelActive()
	d.index = -1
}

// Next animates to the following slide.
func (d *Deck) Next() (*transition.Transition, error) {
	return d.step(+1)
}

// Prev animates to the preceding slide.
func (d *Deck) Prev() (*transition.Transition, error) {
	return d.step(-1)
}

func (d *Deck) step(delta int) (*transition.Transition, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index < 0 {
		opsf("step %+d: %v", delta, ErrNotStarted)
		return nil, ErrNotStarted
	}
	to := d.index + delta
	if to >= len(d.slides) {
		return nil, ErrAtEnd
	}
	if to < 0 {
		return nil, ErrAtStart
	}

	d.cancelActive()
	plan := scenario.Diff(d.slides[d.index], d.slides[to])
	d.active = d.anim.Begin(plan, d.duration)
	diagf("slide %d -> %d (%q -> %q)", d.index, to, d.slides[d.index].Name, d.slides[to].Name)
	d.index = to
	return d.active, nil
}

func (d *Deck) cancelActive() {
	if d.active != nil {
		d.active.Cancel()
		d.active = nil
	}
}
