package curves

import "math"

// Cubic is a cubic Bézier segment with anchors P0 and P3 and controls P1 and P2.
type Cubic struct {
	P0, P1, P2, P3 Pair
}

// C3 is a quick notation for constructing a cubic from its four points.
func C3(p0, p1, p2, p3 Pair) Cubic {
	return Cubic{P0: p0, P1: p1, P2: p2, P3: p3}
}

// Start is the first anchor.
func (c Cubic) Start() Pair {
	return c.P0
}

// End is the last anchor.
func (c Cubic) End() Pair {
	return c.P3
}

// Interpolate evaluates the curve at t, with t in [0,1].
func (c Cubic) Interpolate(t float64) Pair {
	ti := 1 - t
	b0 := ti * ti * ti
	b1 := 3 * ti * ti * t
	b2 := 3 * ti * t * t
	b3 := t * t * t
	return c.P0.Scaled(b0) + c.P1.Scaled(b1) + c.P2.Scaled(b2) + c.P3.Scaled(b3)
}

// Derivative evaluates the first derivative Q'(t).
func (c Cubic) Derivative(t float64) Pair {
	ti := 1 - t
	d0 := (c.P1 - c.P0).Scaled(3)
	d1 := (c.P2 - c.P1).Scaled(3)
	d2 := (c.P3 - c.P2).Scaled(3)
	return d0.Scaled(ti*ti) + d1.Scaled(2*ti*t) + d2.Scaled(t*t)
}

// SecondDerivative evaluates Q''(t).
func (c Cubic) SecondDerivative(t float64) Pair {
	d0 := (c.P2 - c.P1.Scaled(2) + c.P0).Scaled(6)
	d1 := (c.P3 - c.P2.Scaled(2) + c.P1).Scaled(6)
	return d0.Scaled(1-t) + d1.Scaled(t)
}

// Transformed returns the cubic with all four points transformed by m.
// Bézier curves are invariant under affine maps, so this is the
// transformed curve.
func (c Cubic) Transformed(m AT) Cubic {
	return C3(m.Transform(c.P0), m.Transform(c.P1), m.Transform(c.P2), m.Transform(c.P3))
}

// Controls returns the four points of c.
func (c Cubic) Controls() [4]Pair {
	return [4]Pair{c.P0, c.P1, c.P2, c.P3}
}

// Flatten approximates c by a polyline. The number of line pieces is derived
// from the second differences of the control polygon, which bound the
// deviation of the chords from the curve by tolerance.
// The result includes both anchors.
func (c Cubic) Flatten(tolerance float64) []Pair {
	dd := math.Max((c.P0 - c.P1.Scaled(2) + c.P2).Length(), (c.P1 - c.P2.Scaled(2) + c.P3).Length())
	n := 1
	if tolerance > 0 {
		n = int(math.Ceil(math.Sqrt(0.75 * dd / tolerance)))
	} else {
		tracer().Errorf("flattening with tolerance %g, using a single chord", tolerance)
	}
	if n < 1 {
		n = 1
	}
	pts := make([]Pair, 0, n+1)
	pts = append(pts, c.P0)
	for i := 1; i < n; i++ {
		pts = append(pts, c.Interpolate(float64(i)/float64(n)))
	}
	return append(pts, c.P3)
}
