package curvefit

import (
	"fmt"
	"math"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/polygon"
)

// Change reports the effect of adding a point to a Builder: segments at index
// FirstChanged and beyond may have changed, and Added is true if a new segment
// has been appended.
type Change struct {
	FirstChanged int
	Added        bool
}

// NoChange is reported if the curves of a Builder did not change.
var NoChange = Change{FirstChanged: -1}

// Changed is false for NoChange.
func (c Change) Changed() bool {
	return c.FirstChanged >= 0
}

// Merge combines two changes into one covering both.
func (c Change) Merge(other Change) Change {
	if !other.Changed() {
		return c
	}
	if !c.Changed() {
		return other
	}
	return Change{
		FirstChanged: min(c.FirstChanged, other.FirstChanged),
		Added:        c.Added || other.Added,
	}
}

func (c Change) String() string {
	if !c.Changed() {
		return "no change"
	}
	return fmt.Sprintf("changed from %d, added=%v", c.FirstChanged, c.Added)
}

// State is the state of a Builder.
type State int

// Builder states.
const (
	Empty   State = iota // no point yet
	Single               // one point, no curve
	Fitting              // at least one curve
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Single:
		return "single"
	case Fitting:
		return "fitting"
	}
	return "<unknown>"
}

// resampleSlack is the relative tolerance when comparing distances with the
// resampling distance. It keeps input which is already spaced at LinDist
// from losing points to rounding.
const resampleSlack = 1e-9

// Builder fits a spline to points as they arrive, e.g. from pointer input.
// Input is resampled at an even distance (Options.LinDist) along the lines
// between successive input points.
//
// Only the last segment of the spline is refitted when new points arrive.
// When it exceeds the error tolerance, it is split; the first part is sealed
// and never changes again, the second part becomes the new open segment.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	ctx         *FittingContext
	linDist     float64
	sealed      curves.Spline // immutable segments
	open        curves.Cubic  // the one segment still to change
	hasOpen     bool
	prev        curves.Pair // last resampled point
	tanL        curves.Pair // left tangent of the open segment
	totalLength float64
	first       int // first sample of the open segment
}

// NewBuilder creates a builder for validated options.
func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		ctx:     NewFittingContext(nil, opts),
		linDist: opts.LinDist,
	}, nil
}

// MustNewBuilder is like NewBuilder, but panics on invalid options.
func MustNewBuilder(opts Options) *Builder {
	b, err := NewBuilder(opts)
	if err != nil {
		panic(err)
	}
	return b
}

// State returns the current state of the builder.
func (b *Builder) State() State {
	switch len(b.ctx.pts) {
	case 0:
		return Empty
	case 1:
		return Single
	}
	return Fitting
}

// Curves returns the spline fitted so far. The result is a copy.
func (b *Builder) Curves() curves.Spline {
	s := make(curves.Spline, 0, len(b.sealed)+1)
	s = append(s, b.sealed...)
	if b.hasOpen {
		s = append(s, b.open)
	}
	return s
}

// Points returns a copy of the resampled points.
func (b *Builder) Points() []curves.Pair {
	return append([]curves.Pair(nil), b.ctx.pts...)
}

// AddPoint adds an input point. Points closer than LinDist to the last
// resampled point are ignored; the distance to it carries over to the next
// call. Otherwise the line towards p is resampled and every new sample is
// fitted. Points with NaN or infinite coordinates are ignored.
func (b *Builder) AddPoint(p curves.Pair) Change {
	if !p.IsValid() {
		tracer().Errorf("ignoring invalid point %v", p)
		return NoChange
	}
	if len(b.ctx.pts) == 0 {
		b.prev = p
		b.ctx.appendPoint(p, 0)
		return NoChange
	}
	md := b.linDist
	td := b.prev.Distance(p)
	n := int(math.Floor(td/md + resampleSlack))
	if n == 0 {
		return NoChange
	}
	dir := (p - b.prev).Normalized()
	start := b.prev
	change := NoChange
	for k := 1; k <= n; k++ {
		np := start + dir.Scaled(md*float64(k))
		if k == n && math.Abs(td-float64(n)*md) <= resampleSlack*md {
			np = p
		}
		change = change.Merge(b.addInternal(np))
		b.prev = np
	}
	return change
}

func (b *Builder) addInternal(np curves.Pair) Change {
	ctx := b.ctx
	last := len(ctx.pts)
	if last == 0 {
		panic("builder needs a point to start with")
	}
	b.totalLength += b.linDist
	ctx.appendPoint(np, b.totalLength)
	if last == 1 {
		p0 := ctx.pts[0]
		tanL := (np - p0).Normalized()
		b.tanL = tanL
		b.open, b.hasOpen = wuBarsky(p0, np, tanL, -tanL), true
		return Change{FirstChanged: 0, Added: true}
	}
	lastCurve := len(b.sealed)
	first := b.first
	// only the first segment may improve its left tangent, later ones have
	// to keep the tangent of their predecessor
	tanL := b.tanL
	if lastCurve == 0 {
		tanL = ctx.LeftTangent(last)
	}
	tanR := ctx.RightTangent(first)
	r := ctx.FitCurve(first, last, tanL, tanR)
	if r.OK() {
		b.open = r.Curve
		return Change{FirstChanged: lastCurve, Added: false}
	}
	split := r.Split
	tanM1 := ctx.CenterTangent(first, last, split)
	tanM2 := -tanM1
	if first == 0 && split < EndTangentNPoints {
		tanL = ctx.LeftTangent(split)
	}
	sealed := ctx.FitCurve(first, split, tanL, tanM1)
	b.sealed = append(b.sealed, sealed.Curve)
	next := ctx.FitCurve(split, last, tanM2, tanR)
	b.open = next.Curve
	b.first = split
	b.tanL = tanM2
	tracer().Debugf("sealed segment %d at sample %d", lastCurve, split)
	return Change{FirstChanged: lastCurve, Added: true}
}

// Clear resets the builder to its initial, empty state.
func (b *Builder) Clear() {
	b.ctx.reset()
	b.sealed = b.sealed[:0]
	b.open, b.hasOpen = curves.Cubic{}, false
	b.prev, b.tanL = 0, 0
	b.totalLength = 0
	b.first = 0
}

// ChangedRegion returns the area possibly affected by a change, i.e. the
// union of the convex hulls of the control points of all segments from
// c.FirstChanged on. A cubic lies within the hull of its control points.
// Straight segments are padded by LinDist/2 on every side.
// Returns nil for NoChange.
func (b *Builder) ChangedRegion(c Change) *polygon.Region {
	if !c.Changed() {
		return nil
	}
	s := b.Curves()
	if c.FirstChanged >= len(s) {
		return nil
	}
	hulls := make([]*polygon.Polygon, 0, len(s)-c.FirstChanged)
	for i, seg := range s[c.FirstChanged:] {
		ctrl := seg.Controls()
		hull := polygon.ConvexHull(ctrl[:]...)
		if hull.N() < 3 {
			// straight segment, pad it to a box
			ll, ur := s[c.FirstChanged+i : c.FirstChanged+i+1].BoundingBox()
			pad := curves.P(b.linDist/2, b.linDist/2)
			hull = polygon.Box(ll-pad, ur+pad)
		}
		hulls = append(hulls, hull)
	}
	return polygon.RegionOf(hulls...)
}
