package curvefit

import (
	"fmt"
	"math"

	"github.com/npillmayer/curves"
)

// Tuning constants of the fitter.
const (
	MaxIterations     = 4 // Newton reparameterizations per fit; a fit makes MaxIterations+1 attempts
	EndTangentNPoints = 8 // points considered for the tangent at either end of the input
	MidTangentNPoints = 4 // points considered on each side of a split point
)

// FittingContext holds the samples of a fit and the tables derived from them.
// Ranges [first,last] passed to its methods are inclusive indices into the
// samples. The batch fitter and the Builder share this type.
type FittingContext struct {
	pts          []curves.Pair // samples
	arclen       []float64     // arclen[i]: length of polyline pts[0..i]
	u            []float64     // parameter of pts[first+i] for the range currently fitted
	squaredError float64       // fit tolerance, squared
	epsilon      float64       // numerically zero
}

// NewFittingContext creates a context for a sample sequence. Arc lengths are
// not yet initialized. Options have to be valid; this is not checked again.
func NewFittingContext(pts []curves.Pair, opts Options) *FittingContext {
	ctx := &FittingContext{
		squaredError: opts.MaxError * opts.MaxError,
		epsilon:      opts.Epsilon,
	}
	ctx.pts = append(ctx.pts, pts...)
	return ctx
}

// Points returns the samples of the context. Clients must not modify them.
func (ctx *FittingContext) Points() []curves.Pair {
	return ctx.pts
}

// ArcLengths returns the arc length table.
func (ctx *FittingContext) ArcLengths() []float64 {
	return ctx.arclen
}

// Params returns the parameterization of the range fitted last.
func (ctx *FittingContext) Params() []float64 {
	return ctx.u
}

// SquaredError is the squared tolerance of fits.
func (ctx *FittingContext) SquaredError() float64 {
	return ctx.squaredError
}

// appendPoint adds a sample with a given cumulative arc length.
func (ctx *FittingContext) appendPoint(p curves.Pair, arclen float64) {
	ctx.pts = append(ctx.pts, p)
	ctx.arclen = append(ctx.arclen, arclen)
}

func (ctx *FittingContext) reset() {
	ctx.pts = ctx.pts[:0]
	ctx.arclen = ctx.arclen[:0]
	ctx.u = ctx.u[:0]
}

func (ctx *FittingContext) totalLength() float64 {
	return ctx.arclen[len(ctx.arclen)-1]
}

// InitializeArcLengths fills the arc length table from the samples.
// It must be called once, before any fitting, on an empty table.
func (ctx *FittingContext) InitializeArcLengths() {
	if len(ctx.arclen) != 0 {
		panic("arc lengths already initialized")
	}
	if len(ctx.pts) == 0 {
		return
	}
	ctx.arclen = append(ctx.arclen, 0)
	clen := 0.0
	pp := ctx.pts[0]
	for _, np := range ctx.pts[1:] {
		clen += pp.Distance(np)
		ctx.arclen = append(ctx.arclen, clen)
		pp = np
	}
}

// LeftTangent estimates the tangent at the first sample, looking at samples
// up to index last-1, but at most EndTangentNPoints. Directions towards
// nearer samples get higher weights.
func (ctx *FittingContext) LeftTangent(last int) curves.Pair {
	if len(ctx.pts) < 2 {
		panic("cannot estimate tangent with less than 2 points")
	}
	pts, arclen := ctx.pts, ctx.arclen
	totalLen := ctx.totalLength()
	p0 := pts[0]
	tanL := (pts[1] - p0).Normalized()
	total := tanL
	weightTotal := 1.0
	last = min(EndTangentNPoints, last-1)
	for i := 2; i <= last; i++ {
		ti := 1 - arclen[i]/totalLen
		weight := ti * ti * ti
		total += (pts[i] - p0).Normalized().Scaled(weight)
		weightTotal += weight
	}
	// directions may cancel out, then there is nothing to normalize
	if total.Length() > ctx.epsilon {
		tanL = total.Scaled(1 / weightTotal).Normalized()
	}
	return tanL
}

// RightTangent estimates the tangent at the last sample, pointing backwards,
// looking at samples down to index first+1, but at most EndTangentNPoints.
func (ctx *FittingContext) RightTangent(first int) curves.Pair {
	if len(ctx.pts) < 2 {
		panic("cannot estimate tangent with less than 2 points")
	}
	pts, arclen := ctx.pts, ctx.arclen
	totalLen := ctx.totalLength()
	n := len(pts)
	p3 := pts[n-1]
	tanR := (pts[n-2] - p3).Normalized()
	total := tanR
	weightTotal := 1.0
	first = max(n-(EndTangentNPoints+1), first+1)
	for i := n - 3; i >= first; i-- {
		t := arclen[i] / totalLen
		weight := t * t * t
		total += (pts[i] - p3).Normalized().Scaled(weight)
		weightTotal += weight
	}
	if total.Length() > ctx.epsilon {
		tanR = total.Scaled(1 / weightTotal).Normalized()
	}
	return tanR
}

// CenterTangent estimates the tangent at a split point, pointing towards the
// left half. The right half has to use the inverse tangent.
// Requires first < split < last.
func (ctx *FittingContext) CenterTangent(first, last, split int) curves.Pair {
	if !(first < split && split < last) {
		panic(fmt.Sprintf("split point %d not within (%d,%d)", split, first, last))
	}
	pts, arclen := ctx.pts, ctx.arclen
	splitLen := arclen[split]
	pSplit := pts[split]
	eps := ctx.epsilon
	// left half
	firstLen := arclen[first]
	partLen := splitLen - firstLen
	var total curves.Pair
	weightTotal := 0.0
	for i := max(first, split-MidTangentNPoints); i < split; i++ {
		t := (arclen[i] - firstLen) / partLen
		weight := t * t * t
		total += (pts[i] - pSplit).Normalized().Scaled(weight)
		weightTotal += weight
	}
	var tanL curves.Pair
	if total.Length() > eps && weightTotal > eps {
		tanL = total.Scaled(1 / weightTotal).Normalized()
	} else {
		tanL = (pts[split-1] - pSplit).Normalized()
	}
	// right half
	partLen = arclen[last] - splitLen
	total, weightTotal = 0, 0
	for i := split + 1; i <= min(last, split+MidTangentNPoints); i++ {
		ti := 1 - (arclen[i]-splitLen)/partLen
		weight := ti * ti * ti
		total += (pSplit - pts[i]).Normalized().Scaled(weight)
		weightTotal += weight
	}
	var tanR curves.Pair
	if total.Length() > eps && weightTotal > eps {
		tanR = total.Scaled(1 / weightTotal).Normalized()
	} else {
		tanR = (pSplit - pts[split+1]).Normalized()
	}
	// both halves weigh the same, whatever their sample counts
	total = tanL + tanR
	if total.LengthSquared() < eps {
		// directions opposing: try the immediate neighbours, else use the left half
		tanL = (pts[split-1] - pSplit).Normalized()
		tanR = (pSplit - pts[split+1]).Normalized()
		total = tanL + tanR
		if total.LengthSquared() < eps {
			tracer().Debugf("center tangent at %d degenerate, using left side", split)
			return tanL
		}
	}
	return total.Scaled(0.5).Normalized()
}

// ArcLengthParameterize sets up a chord-length parameterization of the
// range [first,last]. It replaces the previous parameterization.
func (ctx *FittingContext) ArcLengthParameterize(first, last int) {
	arclen := ctx.arclen
	ctx.u = ctx.u[:0]
	start := arclen[first]
	diff := arclen[last] - start
	ctx.u = append(ctx.u, 0)
	for i := first + 1; i < last; i++ {
		ctx.u = append(ctx.u, (arclen[i]-start)/diff)
	}
	ctx.u = append(ctx.u, 1)
}

// wuBarsky places both handles at a third of the chord length.
func wuBarsky(p0, p3, tanL, tanR curves.Pair) curves.Cubic {
	alpha := p0.Distance(p3) / 3
	return curves.C3(p0, p0+tanL.Scaled(alpha), p3+tanR.Scaled(alpha), p3)
}

// GenerateCubic finds the least-squares cubic for the range [first,last],
// given the tangents at both ends and the current parameterization.
// The anchors of the cubic are the first and last sample of the range.
func (ctx *FittingContext) GenerateCubic(first, last int, tanL, tanR curves.Pair) curves.Cubic {
	pts, u := ctx.pts, ctx.u
	p0, p3 := pts[first], pts[last]
	var c00, c01, c11, x0, x1 float64 // C[0,1] == C[1,0]
	for i := 1; i < last-first+1; i++ {
		t := u[i]
		ti := 1 - t
		b0 := ti * ti * ti
		b1 := 3 * ti * ti * t
		b2 := 3 * ti * t * t
		b3 := t * t * t
		// Q(t) with p1=p0 and p2=p3
		s := p0.Scaled(b0+b1) + p3.Scaled(b2+b3)
		v := pts[first+i] - s
		a0 := tanL.Scaled(b1)
		a1 := tanR.Scaled(b2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		x0 += a0.Dot(v)
		x1 += a1.Dot(v)
	}
	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01
	alphaL := detXC1 / detC0C1
	alphaR := detC0X / detC0C1
	chord := p0.Distance(p3)
	eps2 := ctx.epsilon * chord
	if math.Abs(detC0C1) < ctx.epsilon || !(alphaL > eps2) || !(alphaR > eps2) {
		tracer().Debugf("falling back to Wu/Barsky for [%d,%d], det=%g", first, last, detC0C1)
		return wuBarsky(p0, p3, tanL, tanR)
	}
	return curves.C3(p0, p0+tanL.Scaled(alphaL), p3+tanR.Scaled(alphaR), p3)
}

// Reparameterize improves the parameter of every interior sample of the
// range by a Newton step towards the nearest point of c.
func (ctx *FittingContext) Reparameterize(first, last int, c curves.Cubic) {
	pts, u := ctx.pts, ctx.u
	for i := 1; i < last-first; i++ {
		p := pts[first+i]
		t := u[i]
		q := c.Interpolate(t) - p
		q1 := c.Derivative(t)
		q2 := c.SecondDerivative(t)
		num := q.Dot(q1)
		den := q1.Dot(q1) + q.Dot(q2)
		if math.Abs(den) <= ctx.epsilon {
			continue
		}
		if nu := t - num/den; nu >= 0 && nu <= 1 {
			u[i] = nu
		}
	}
}

// MaxSquaredError finds the sample of the range with the largest squared
// distance to c at its parameter. It returns the distance and the index of
// the sample, clamped to lie strictly within (first,last); this is the
// place to split the range.
func (ctx *FittingContext) MaxSquaredError(first, last int, c curves.Cubic) (float64, int) {
	pts, u := ctx.pts, ctx.u
	n := last - first + 1
	s := n / 2
	maxErr := 0.0
	for i := 1; i < n; i++ {
		d := pts[first+i].DistanceSquared(c.Interpolate(u[i]))
		if d > maxErr {
			maxErr = d
			s = i
		}
	}
	split := first + s
	if split <= first {
		split = first + 1
	}
	if split >= last {
		split = last - 1
	}
	return maxErr, split
}
