package curvefit

import (
	"fmt"

	"github.com/npillmayer/curves"
)

// RemoveDuplicates returns pts without points which are equal (within
// curves.Epsilon) to their predecessor. Of a run of equal points at the end,
// the last one is kept.
func RemoveDuplicates(pts []curves.Pair) []curves.Pair {
	if len(pts) < 2 {
		return append([]curves.Pair(nil), pts...)
	}
	dst := make([]curves.Pair, 0, len(pts))
	dst = append(dst, pts[0])
	for _, p := range pts[1:] {
		if !p.Equal(dst[len(dst)-1]) {
			dst = append(dst, p)
		}
	}
	if len(dst) > 1 {
		dst[len(dst)-1] = pts[len(pts)-1]
	}
	return dst
}

// Linearize resamples a polyline at an even distance md along its length.
// The first and the last point of pts are kept; the last piece may be shorter
// than md.
func Linearize(pts []curves.Pair, md float64) ([]curves.Pair, error) {
	if !(md > 0) {
		return nil, fmt.Errorf("%w: linearization distance %g", ErrInvalidDistance, md)
	}
	if len(pts) == 0 {
		return nil, nil
	}
	dst := []curves.Pair{pts[0]}
	cd := 0.0 // distance covered since the last emitted point
	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		td := p0.Distance(p1)
		if td == 0 {
			continue
		}
		pos := md - cd // position of the next point on this piece
		for pos <= td {
			dst = append(dst, p0.Lerp(p1, pos/td))
			pos += md
		}
		cd = td - (pos - md)
	}
	last := pts[len(pts)-1]
	if lp := dst[len(dst)-1]; lp.Equal(last) {
		dst[len(dst)-1] = last
	} else {
		dst = append(dst, last)
	}
	tracer().Debugf("linearized %d points into %d", len(pts), len(dst))
	return dst, nil
}

// SimplifyRDP thins out a polyline with the Ramer-Douglas-Peucker algorithm:
// every removed point is within tolerance of the resulting polyline.
// The first and the last point are kept.
func SimplifyRDP(pts []curves.Pair, tolerance float64) ([]curves.Pair, error) {
	if !(tolerance > 0) {
		return nil, fmt.Errorf("%w: reduction tolerance %g", ErrInvalidDistance, tolerance)
	}
	if len(pts) < 3 {
		return append([]curves.Pair(nil), pts...), nil
	}
	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true
	rdp(pts, 0, len(pts)-1, tolerance, keep)
	dst := make([]curves.Pair, 0, len(pts))
	for i, p := range pts {
		if keep[i] {
			dst = append(dst, p)
		}
	}
	tracer().Debugf("RDP reduced %d points to %d", len(pts), len(dst))
	return dst, nil
}

func rdp(pts []curves.Pair, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}
	worst, worstD := 0, 0.0
	for i := first + 1; i < last; i++ {
		if d := segmentDistance(pts[i], pts[first], pts[last]); d > worstD {
			worst, worstD = i, d
		}
	}
	if worstD <= tolerance {
		return
	}
	keep[worst] = true
	rdp(pts, first, worst, tolerance, keep)
	rdp(pts, worst, last, tolerance, keep)
}

// segmentDistance is the distance of p from the line segment [a,b].
func segmentDistance(p, a, b curves.Pair) float64 {
	ab := b - a
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return p.Distance(a)
	}
	t := (p - a).Dot(ab) / l2
	t = max(0, min(1, t))
	return p.Distance(a + ab.Scaled(t))
}
