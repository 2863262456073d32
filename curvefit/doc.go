// Package curvefit approximates sampled polylines by piecewise cubic Bézier
// splines.
/*

The fitter is a least-squares fitter in the tradition of

   An Algorithm for Automatically Fitting Digitized Curves
   Philip J. Schneider, in: Graphics Gems, Academic Press, 1990

Each segment is fitted to a range of sample points with fixed tangent
directions at both ends. The two handle lengths are found by solving the
normal equations of the least-squares problem; the parameter values of the
samples are refined by Newton iterations. If a segment does not meet the
error tolerance after a few iterations, the range is split at the point of
maximum error and both halves are fitted separately. Tangents at split
points are shared, making the resulting spline C1-continuous.

Usage

Batch fitting of a complete point set:

   spline, err := curvefit.Fit(points, curvefit.DefaultOptions())

Interactive drawing, fitting points as they arrive:

   b := curvefit.MustNewBuilder(opts)
   for p := range input {
       change := b.AddPoint(p)
       if change.Changed() {
           redraw(b.Curves()[change.FirstChanged:])
       }
   }

A Builder resamples its input at a fixed distance (Options.LinDist) and
only ever refits the last segment of the spline. Segments before it are sealed
and will not change any more.

Fit may be called concurrently; a Builder must not be shared between
goroutines.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curvefit

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curvefit'
func tracer() tracing.Trace {
	return tracing.Select("curvefit")
}
