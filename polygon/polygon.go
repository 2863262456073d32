/*
Package polygon implements simple polygons and regions composed of them.

Polygons are built much like paths:

   pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()

Regions are sets of polygonal contours and support boolean operations
(union, intersection, difference). These are delegated to
github.com/akavel/polyclip-go, an implementation of the
Martinez-Rueda-Feito clipping algorithm.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the polygon tracer.
func L() tracing.Trace {
	return tracing.Select("polygon")
}

// Polygon is a closed or open sequence of knots connected by straight lines.
type Polygon struct {
	points []curves.Pair
	cycle  bool
}

// NullPolygon creates an empty polygon, to be extended by Knot.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a point. Part of builder functionality.
func (pg *Polygon) Knot(p curves.Pair) *Polygon {
	pg.points = append(pg.points, p)
	return pg
}

// Cycle closes a polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// End leaves a polygon open. Part of builder functionality.
func (pg *Polygon) End() *Polygon {
	return pg
}

// IsCycle is a predicate: is this polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.points)
}

// Pt returns knot i (mod N).
func (pg *Polygon) Pt(i int) curves.Pair {
	n := pg.N()
	return pg.points[((i%n)+n)%n]
}

// Box creates a closed, rectangular polygon from two opposite corners.
// Knots run counter-clockwise, starting at the lower left corner.
func Box(c1, c2 curves.Pair) *Polygon {
	minx, maxx := min(c1.X(), c2.X()), max(c1.X(), c2.X())
	miny, maxy := min(c1.Y(), c2.Y()), max(c1.Y(), c2.Y())
	return NullPolygon().
		Knot(curves.P(minx, miny)).Knot(curves.P(maxx, miny)).
		Knot(curves.P(maxx, maxy)).Knot(curves.P(minx, maxy)).Cycle()
}

// ConvexHull returns the closed, counter-clockwise convex hull of a set of
// points (Andrew's monotone chain). Collinear points are dropped.
// For less than 3 distinct points, the result is degenerate but not nil.
func ConvexHull(pts ...curves.Pair) *Polygon {
	ps := append([]curves.Pair(nil), pts...)
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X() != ps[j].X() {
			return ps[i].X() < ps[j].X()
		}
		return ps[i].Y() < ps[j].Y()
	})
	if len(ps) < 3 {
		pg := NullPolygon()
		for i, p := range ps {
			if i == 0 || p != ps[i-1] {
				pg.Knot(p)
			}
		}
		return pg.Cycle()
	}
	cross := func(o, a, b curves.Pair) float64 {
		return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
	}
	hull := make([]curves.Pair, 0, 2*len(ps))
	for _, p := range ps { // lower hull
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- { // upper hull
		p := ps[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return &Polygon{points: hull[:len(hull)-1], cycle: true}
}

// Area returns the signed area of a closed polygon, positive for
// counter-clockwise orientation.
func (pg *Polygon) Area() float64 {
	a := 0.0
	for i := 0; i < pg.N(); i++ {
		p, q := pg.Pt(i), pg.Pt(i+1)
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a / 2
}

// AsString returns a polygon in MetaPost-like notation, e.g.
//
//	(0,0) -- (1,3) -- (3,0) -- cycle
func AsString(pg *Polygon) string {
	if pg == nil {
		return "<nil>"
	}
	parts := make([]string, 0, pg.N()+1)
	for _, p := range pg.points {
		parts = append(parts, fmt.Sprintf("(%.4g,%.4g)", p.X(), p.Y()))
	}
	if pg.cycle {
		parts = append(parts, "cycle")
	}
	return strings.Join(parts, " -- ")
}
