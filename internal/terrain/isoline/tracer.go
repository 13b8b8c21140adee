package isoline

// chain is a polyline under construction. Points grow at both ends: back
// holds the tail side in order, front holds the head side in reverse.
type chain struct {
	front   []Point
	back    []Point
	headKey int
	tailKey int
	closed  bool
	merged  bool
}

func (c *chain) first() Point {
	if len(c.front) > 0 {
		return c.front[len(c.front)-1]
	}
	return c.back[0]
}

// points returns the chain head to tail with consecutive duplicates removed.
// Duplicates appear when a level passes exactly through a sample shared by
// several edges.
func (c *chain) points() []Point {
	out := make([]Point, 0, len(c.front)+len(c.back))
	add := func(p Point) {
		if n := len(out); n > 0 && out[n-1] == p {
			return
		}
		out = append(out, p)
	}
	for i := len(c.front) - 1; i >= 0; i-- {
		add(c.front[i])
	}
	for _, p := range c.back {
		add(p)
	}
	return out
}

// tracer assembles cell segments into lines for one level. Only open chain
// ends are indexed, and an end is removed as soon as another segment
// attaches to it.
type tracer struct {
	cols   int
	ends   map[int]*chain
	chains []*chain
}

func newTracer(cols int) *tracer {
	return &tracer{cols: cols, ends: make(map[int]*chain)}
}

// hkey identifies the horizontal edge from sample (r, c) to (r, c+1).
func (t *tracer) hkey(r, c int) int { return (r*t.cols + c) * 2 }

// vkey identifies the vertical edge from sample (r, c) to (r+1, c).
func (t *tracer) vkey(r, c int) int { return (r*t.cols+c)*2 + 1 }

func (t *tracer) segment(ka int, pa Point, kb int, pb Point) {
	ca, okA := t.ends[ka]
	cb, okB := t.ends[kb]

	switch {
	case !okA && !okB:
		ch := &chain{back: []Point{pa, pb}, headKey: ka, tailKey: kb}
		t.ends[ka] = ch
		t.ends[kb] = ch
		t.chains = append(t.chains, ch)
	case okA && !okB:
		t.extend(ca, ka, kb, pb)
	case !okA && okB:
		t.extend(cb, kb, ka, pa)
	case ca == cb:
		delete(t.ends, ka)
		delete(t.ends, kb)
		ca.back = append(ca.back, ca.first())
		ca.closed = true
	default:
		t.join(ca, ka, cb, kb)
	}
}

// extend grows ch past its end at key at, to a new end p on edge next.
func (t *tracer) extend(ch *chain, at, next int, p Point) {
	delete(t.ends, at)
	if ch.headKey == at {
		ch.front = append(ch.front, p)
		ch.headKey = next
	} else {
		ch.back = append(ch.back, p)
		ch.tailKey = next
	}
	t.ends[next] = ch
}

// join splices cb onto ca where ca's end ka meets cb's end kb. The points at
// ka and kb lie on different edges of the same cell, so both are kept.
func (t *tracer) join(ca *chain, ka int, cb *chain, kb int) {
	delete(t.ends, ka)
	delete(t.ends, kb)

	pts := cb.points()
	far := cb.tailKey
	if cb.tailKey == kb {
		reverse(pts)
		far = cb.headKey
	}

	if ca.tailKey == ka {
		ca.back = append(ca.back, pts...)
		ca.tailKey = far
	} else {
		ca.front = append(ca.front, pts...)
		ca.headKey = far
	}
	t.ends[far] = ca

	cb.merged = true
	cb.front, cb.back = nil, nil
}

// lines returns the finished lines in the order their chains were started.
// Chains that collapse to a single point are dropped.
func (t *tracer) lines(level float64) []Line {
	var out []Line
	for _, ch := range t.chains {
		if ch.merged {
			continue
		}
		pts := ch.points()
		if len(pts) < 2 {
			continue
		}
		out = append(out, Line{Level: level, Points: pts, Closed: ch.closed})
	}
	return out
}

func reverse(p []Point) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
