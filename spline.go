package curves

import (
	"fmt"
	"math"
	"strings"
)

// Spline is a sequence of cubic segments, where each segment starts at the
// end of its predecessor.
type Spline []Cubic

// N returns the number of segments.
func (s Spline) N() int {
	return len(s)
}

// Start is the first anchor of the spline. Panics for an empty spline.
func (s Spline) Start() Pair {
	return s[0].P0
}

// End is the last anchor of the spline. Panics for an empty spline.
func (s Spline) End() Pair {
	return s[len(s)-1].P3
}

// Knots returns the anchors of the spline, i.e. N()+1 points for
// a non-empty spline.
func (s Spline) Knots() []Pair {
	if len(s) == 0 {
		return nil
	}
	knots := make([]Pair, 0, len(s)+1)
	for _, c := range s {
		knots = append(knots, c.P0)
	}
	return append(knots, s.End())
}

// Transformed applies an affine transform to every segment.
func (s Spline) Transformed(m AT) Spline {
	t := make(Spline, len(s))
	for i, c := range s {
		t[i] = c.Transformed(m)
	}
	return t
}

// Flatten approximates the spline by a polyline, see Cubic.Flatten.
// Shared anchors are included once.
func (s Spline) Flatten(tolerance float64) []Pair {
	var pts []Pair
	for i, c := range s {
		seg := c.Flatten(tolerance)
		if i > 0 {
			seg = seg[1:]
		}
		pts = append(pts, seg...)
	}
	return pts
}

// BoundingBox returns the lower left and upper right corner of the box
// enclosing all control points. Béziers lie within the convex hull of
// their control points, so the box encloses the spline, too.
func (s Spline) BoundingBox() (Pair, Pair) {
	if len(s) == 0 {
		return Origin, Origin
	}
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	for _, c := range s {
		for _, p := range c.Controls() {
			minx, maxx = math.Min(minx, p.X()), math.Max(maxx, p.X())
			miny, maxy = math.Min(miny, p.Y()), math.Max(maxy, p.Y())
		}
	}
	return P(minx, miny), P(maxx, maxy)
}

// AsString returns a spline as a (debugging) string in MetaPost-like
// path notation, one segment per line:
//
//	(0,0) .. controls (1.0000,0.0000) and (2.0000,0.0000)
//	  .. (3,0)
//
// An empty spline is printed as "<empty>".
func AsString(s Spline) string {
	if len(s) == 0 {
		return "<empty>"
	}
	var b strings.Builder
	b.WriteString(ptstring(s.Start(), false))
	for _, c := range s {
		fmt.Fprintf(&b, " .. controls %s and %s\n  .. %s",
			ptstring(c.P1, true), ptstring(c.P2, true), ptstring(c.P3, false))
	}
	return b.String()
}

func (s Spline) String() string {
	return AsString(s)
}

func ptstring(p Pair, iscontrol bool) string {
	if !p.IsValid() {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	return math.Round(x*10000.0) / 10000.0
}
