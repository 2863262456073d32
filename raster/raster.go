/*
Package raster renders splines to alpha masks, e.g. for previewing the
result of a curve fit.

Coordinates follow the usual mathematical orientation: the origin is at the
lower left corner of a canvas and y grows upwards. Paths are handed to the
anti-aliasing rasterizer of golang.org/x/image/vector.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package raster

import (
	"image"
	"math"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/vector"
)

// tracer writes to trace with key 'raster'
func tracer() tracing.Trace {
	return tracing.Select("raster")
}

// Flatness is the tolerance in pixels when approximating splines by
// polylines for stroking.
const Flatness = 0.1

// Canvas is an alpha mask to paint splines onto.
type Canvas struct {
	img *image.Alpha
	ras *vector.Rasterizer
	m   curves.AT // user space to canvas space
}

// NewCanvas creates an empty canvas of w × h pixels.
func NewCanvas(w, h int) *Canvas {
	if w <= 0 || h <= 0 {
		panic("canvas must have positive size")
	}
	return &Canvas{
		img: image.NewAlpha(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(w, h),
		m:   curves.Identity(),
	}
}

// CanvasFor creates a canvas enclosing a spline with a margin of pixels on
// every side. The spline is shifted onto the canvas.
func CanvasFor(s curves.Spline, margin int) *Canvas {
	ll, ur := s.BoundingBox()
	w := int(math.Ceil(ur.X()-ll.X())) + 2*margin
	h := int(math.Ceil(ur.Y()-ll.Y())) + 2*margin
	c := NewCanvas(max(w, 1), max(h, 1))
	c.m = curves.Translation(curves.P(float64(margin), float64(margin)) - ll)
	tracer().Debugf("canvas of %d×%d for spline in [%v,%v]", w, h, ll, ur)
	return c
}

// Image returns the mask painted so far.
func (c *Canvas) Image() *image.Alpha {
	return c.img
}

// Transform returns the mapping of user coordinates onto the canvas.
func (c *Canvas) Transform() curves.AT {
	return c.m
}

// pixel maps a point in user space to rasterizer coordinates.
func (c *Canvas) pixel(p curves.Pair) (float32, float32) {
	p = c.m.Transform(p)
	return float32(p.X()), float32(float64(c.img.Rect.Dy()) - p.Y())
}

func (c *Canvas) draw() {
	c.ras.Draw(c.img, c.img.Bounds(), image.Opaque, image.Point{})
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
}

// Fill paints the area enclosed by a spline. The spline is closed by a
// straight line if its end differs from its start.
func (c *Canvas) Fill(s curves.Spline) {
	if len(s) == 0 {
		return
	}
	c.ras.MoveTo(c.pixel(s.Start()))
	for _, seg := range s {
		x1, y1 := c.pixel(seg.P1)
		x2, y2 := c.pixel(seg.P2)
		x3, y3 := c.pixel(seg.P3)
		c.ras.CubeTo(x1, y1, x2, y2, x3, y3)
	}
	c.ras.ClosePath()
	c.draw()
}

// Stroke paints the outline of a spline with a pen of a given width.
// Joins and ends are rounded.
func (c *Canvas) Stroke(s curves.Spline, width float64) {
	if len(s) == 0 || !(width > 0) {
		return
	}
	pts := s.Transformed(c.m).Flatten(Flatness)
	hw := width / 2
	for i, p := range pts {
		c.disc(p, hw)
		if i > 0 {
			c.quad(pts[i-1], p, hw)
		}
	}
	c.draw()
}

// Dot paints a filled circle in user coordinates.
func (c *Canvas) Dot(p curves.Pair, radius float64) {
	if !(radius > 0) {
		return
	}
	c.disc(c.m.Transform(p), radius)
	c.draw()
}

// Shapes overlap while stroking. The rasterizer saturates coverage of
// overlapping paths with equal orientation, so all shapes are added clockwise.

// quad adds the rectangle of half-width hw around [a,b], in canvas space.
func (c *Canvas) quad(a, b curves.Pair, hw float64) {
	d := (b - a).Normalized()
	if d == 0 {
		return
	}
	n := curves.P(-d.Y(), d.X()).Scaled(hw)
	c.polygon(a+n, b+n, b-n, a-n)
}

// disc adds a polygonal circle around p, in canvas space.
func (c *Canvas) disc(p curves.Pair, r float64) {
	n := max(8, int(math.Ceil(2*math.Pi*r/2)))
	pts := make([]curves.Pair, n)
	for i := range pts {
		a := -2 * math.Pi * float64(i) / float64(n)
		pts[i] = p + curves.P(math.Cos(a), math.Sin(a)).Scaled(r)
	}
	c.polygon(pts...)
}

func (c *Canvas) polygon(pts ...curves.Pair) {
	h := float64(c.img.Rect.Dy())
	for i, p := range pts {
		x, y := float32(p.X()), float32(h-p.Y())
		if i == 0 {
			c.ras.MoveTo(x, y)
		} else {
			c.ras.LineTo(x, y)
		}
	}
	c.ras.ClosePath()
}
