package curvefit

import (
	"fmt"

	"github.com/npillmayer/curves"
)

// FitOutcome tells whether a fit met the error tolerance.
type FitOutcome int

// Outcomes of FitCurve.
const (
	FitSuccess    FitOutcome = iota // curve is within tolerance
	FitNeedsSplit                   // range has to be split at Split
)

func (o FitOutcome) String() string {
	if o == FitSuccess {
		return "success"
	}
	return "needs-split"
}

// FitResult is the result of fitting a single cubic to a range of samples.
// For FitNeedsSplit, Curve is the best attempt and Split lies strictly within
// the range.
type FitResult struct {
	Outcome FitOutcome
	Curve   curves.Cubic
	Split   int
}

// OK is true for a successful fit.
func (r FitResult) OK() bool {
	return r.Outcome == FitSuccess
}

// FitCurve fits a single cubic to the samples [first,last], with tangents
// tanL at pts[first] and tanR at pts[last] (pointing inwards).
// Ranges of two samples are always fitted successfully. Otherwise the fit is
// retried with Newton-refined parameters for at most MaxIterations times.
//
// Panics for ranges with less than 2 samples.
func (ctx *FittingContext) FitCurve(first, last int, tanL, tanR curves.Pair) FitResult {
	n := last - first + 1
	if n < 2 {
		panic(fmt.Sprintf("cannot fit curve to %d point(s) [%d,%d]", n, first, last))
	}
	if n == 2 {
		return FitResult{
			Outcome: FitSuccess,
			Curve:   wuBarsky(ctx.pts[first], ctx.pts[last], tanL, tanR),
		}
	}
	ctx.ArcLengthParameterize(first, last)
	var c curves.Cubic
	var split int
	for i := 0; i < MaxIterations+1; i++ {
		if i > 0 {
			ctx.Reparameterize(first, last, c)
		}
		c = ctx.GenerateCubic(first, last, tanL, tanR)
		var err float64
		err, split = ctx.MaxSquaredError(first, last, c)
		if err < ctx.squaredError {
			tracer().Debugf("fit [%d,%d] after %d iteration(s), error² = %g", first, last, i+1, err)
			return FitResult{Outcome: FitSuccess, Curve: c}
		}
	}
	tracer().Debugf("fit [%d,%d] failed, splitting at %d", first, last, split)
	return FitResult{Outcome: FitNeedsSplit, Curve: c, Split: split}
}

// --- Batch fitting ---------------------------------------------------------

// ValidatePoints checks if a sequence of points is fittable: at least
// 2 points, no invalid coordinates, and no consecutive duplicates.
func ValidatePoints(pts []curves.Pair) error {
	if len(pts) < 2 {
		return fmt.Errorf("%w: need at least 2, got %d", ErrTooFewPoints, len(pts))
	}
	for i, p := range pts {
		if !p.IsValid() {
			return fmt.Errorf("%w at point %d", ErrInvalidPoint, i)
		}
		if i > 0 && p == pts[i-1] {
			return fmt.Errorf("%w: points %d and %d", ErrDuplicatePoint, i-1, i)
		}
	}
	return nil
}

// Fit approximates a polyline by a spline of cubic Bézier segments, each
// deviating from the input points by less than opts.MaxError.
// The spline starts at the first point and ends at the last one.
//
// If opts call for a reduction, consecutive duplicates are removed and the
// reduction applied before fitting.
func Fit(points []curves.Pair, opts Options) (curves.Spline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pts, err := reduce(points, opts)
	if err != nil {
		return nil, err
	}
	if err := ValidatePoints(pts); err != nil {
		tracer().Errorf("cannot fit curve: %v", err)
		return nil, err
	}
	ctx := NewFittingContext(pts, opts)
	ctx.InitializeArcLengths()
	last := len(pts) - 1
	f := &batchFit{ctx: ctx}
	f.fitRecursive(0, last, ctx.LeftTangent(last), ctx.RightTangent(0))
	tracer().Infof("fitted %d points with %d segment(s)", len(pts), len(f.spline))
	return f.spline, nil
}

// MustFit is like Fit, but panics on errors.
func MustFit(points []curves.Pair, opts Options) curves.Spline {
	s, err := Fit(points, opts)
	if err != nil {
		panic(err)
	}
	return s
}

type batchFit struct {
	ctx    *FittingContext
	spline curves.Spline
}

func (f *batchFit) fitRecursive(first, last int, tanL, tanR curves.Pair) {
	ctx := f.ctx
	r := ctx.FitCurve(first, last, tanL, tanR)
	if r.OK() {
		f.spline = append(f.spline, r.Curve)
		return
	}
	split := r.Split
	tanM1 := ctx.CenterTangent(first, last, split)
	tanM2 := -tanM1
	// end tangents may be based on points beyond the split; mid tangents
	// are fixed for C1 continuity
	n := len(ctx.pts)
	if first == 0 && split < EndTangentNPoints {
		tanL = ctx.LeftTangent(split)
	}
	if last == n-1 && split > n-(EndTangentNPoints+1) {
		tanR = ctx.RightTangent(split)
	}
	f.fitRecursive(first, split, tanL, tanM1)
	f.fitRecursive(split, last, tanM2, tanR)
}

func reduce(points []curves.Pair, opts Options) ([]curves.Pair, error) {
	switch opts.Reduction {
	case ReduceLinear:
		return Linearize(RemoveDuplicates(points), opts.ReductionDistance)
	case ReduceRDP:
		return SimplifyRDP(RemoveDuplicates(points), opts.ReductionDistance)
	}
	return points, nil
}
