package polygon

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/curves"
)

// Region is an area bounded by one or more closed contours. Contours may be
// nested, e.g. as holes; a point is inside if it is inside an odd number of
// contours.
type Region struct {
	poly polyclip.Polygon
}

// RegionOf creates the union of a set of closed polygons.
// Polygons with less than 3 knots do not contribute.
func RegionOf(pgs ...*Polygon) *Region {
	r := &Region{}
	for _, pg := range pgs {
		if pg == nil || pg.N() < 3 {
			continue
		}
		r = r.Union(&Region{poly: polyclip.Polygon{contour(pg)}})
	}
	return r
}

func contour(pg *Polygon) polyclip.Contour {
	c := make(polyclip.Contour, 0, pg.N())
	for _, p := range pg.points {
		c = append(c, polyclip.Point{X: p.X(), Y: p.Y()})
	}
	return c
}

func (r *Region) construct(op polyclip.Op, other *Region) *Region {
	if r.IsEmpty() {
		if op == polyclip.UNION && other != nil {
			return &Region{poly: other.poly.Clone()}
		}
		return &Region{}
	}
	if other == nil || other.IsEmpty() {
		if op == polyclip.INTERSECTION {
			return &Region{}
		}
		return &Region{poly: r.poly.Clone()}
	}
	return &Region{poly: r.poly.Construct(op, other.poly)}
}

// Union returns a new region covering r and other.
func (r *Region) Union(other *Region) *Region {
	return r.construct(polyclip.UNION, other)
}

// Intersection returns a new region covering the area common to r and other.
func (r *Region) Intersection(other *Region) *Region {
	return r.construct(polyclip.INTERSECTION, other)
}

// Difference returns a new region covering r, but not other.
func (r *Region) Difference(other *Region) *Region {
	return r.construct(polyclip.DIFFERENCE, other)
}

// IsEmpty is true for a region without contours.
func (r *Region) IsEmpty() bool {
	return r == nil || len(r.poly) == 0
}

// Contains is a point-in-region test.
func (r *Region) Contains(p curves.Pair) bool {
	if r.IsEmpty() {
		return false
	}
	pt := polyclip.Point{X: p.X(), Y: p.Y()}
	inside := false
	for _, c := range r.poly {
		if c.Contains(pt) {
			inside = !inside
		}
	}
	return inside
}

// BoundingBox returns the lower left and upper right corner of the region.
// For an empty region both are the origin.
func (r *Region) BoundingBox() (curves.Pair, curves.Pair) {
	if r.IsEmpty() {
		return curves.Origin, curves.Origin
	}
	bb := r.poly.BoundingBox()
	return curves.P(bb.Min.X, bb.Min.Y), curves.P(bb.Max.X, bb.Max.Y)
}

// Contours returns the closed polygons bounding the region.
func (r *Region) Contours() []*Polygon {
	if r.IsEmpty() {
		return nil
	}
	pgs := make([]*Polygon, 0, len(r.poly))
	for _, c := range r.poly {
		pg := NullPolygon()
		for _, p := range c {
			pg.Knot(curves.P(p.X, p.Y))
		}
		pgs = append(pgs, pg.Cycle())
	}
	return pgs
}
