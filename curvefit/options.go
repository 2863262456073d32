package curvefit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
)

var (
	// ErrInvalidOptions indicates fitting options out of range.
	ErrInvalidOptions = errors.New("invalid curve fitting options")
	// ErrTooFewPoints indicates an input with less than 2 distinct points.
	ErrTooFewPoints = errors.New("too few points to fit a curve")
	// ErrInvalidPoint indicates a point coordinate which is NaN or infinite.
	ErrInvalidPoint = errors.New("invalid point coordinate")
	// ErrDuplicatePoint indicates two consecutive points collapsing to one.
	ErrDuplicatePoint = errors.New("consecutive points must be distinct")
	// ErrInvalidDistance indicates a non-positive resampling or reduction distance.
	ErrInvalidDistance = errors.New("distance must be positive")
)

// Reduction selects an optional thinning of the input of Fit.
type Reduction int

// Input reductions.
const (
	ReduceNone   Reduction = iota // fit all points
	ReduceLinear                  // resample at even distance, see Linearize
	ReduceRDP                     // Ramer-Douglas-Peucker, see SimplifyRDP
)

func (r Reduction) String() string {
	switch r {
	case ReduceNone:
		return "none"
	case ReduceLinear:
		return "linear"
	case ReduceRDP:
		return "rdp"
	}
	return "<unknown>"
}

// ReductionFromString recognizes "none", "linear" and "rdp", case-insensitive.
func ReductionFromString(s string) (Reduction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReduceNone, nil
	case "linear":
		return ReduceLinear, nil
	case "rdp":
		return ReduceRDP, nil
	}
	return ReduceNone, fmt.Errorf("%w: unknown reduction %q", ErrInvalidOptions, s)
}

// Options configure batch fitting and builders.
type Options struct {
	MaxError          float64   // maximum distance of a sample point from its curve
	LinDist           float64   // resampling distance of a Builder
	Epsilon           float64   // values below are treated as numerically zero
	Reduction         Reduction // thinning of the input of Fit
	ReductionDistance float64   // parameter of the reduction
}

// Default option values. LinDist and MaxError are suitable for input in
// screen pixels. Smaller LinDist values give more samples per segment and
// slower fits, larger ones may miss sharp features of the input.
const (
	DefaultMaxError = 1.0
	DefaultLinDist  = 4.0
)

// DefaultOptions returns options with the default values.
// Epsilon defaults to the smallest positive float64.
func DefaultOptions() Options {
	return Options{
		MaxError: DefaultMaxError,
		LinDist:  DefaultLinDist,
		Epsilon:  math.SmallestNonzeroFloat64,
	}
}

// Validate checks all values for sanity.
func (o Options) Validate() error {
	if !(o.MaxError > 0) || math.IsInf(o.MaxError, 0) {
		return fmt.Errorf("%w: max error must be positive, is %g", ErrInvalidOptions, o.MaxError)
	}
	if !(o.LinDist > 0) || math.IsInf(o.LinDist, 0) {
		return fmt.Errorf("%w: linear distance must be positive, is %g", ErrInvalidOptions, o.LinDist)
	}
	if !(o.Epsilon > 0) || o.Epsilon >= 1 {
		return fmt.Errorf("%w: epsilon must be in (0,1), is %g", ErrInvalidOptions, o.Epsilon)
	}
	switch o.Reduction {
	case ReduceNone:
	case ReduceLinear, ReduceRDP:
		if !(o.ReductionDistance > 0) {
			return fmt.Errorf("%w: reduction %s needs a positive distance, is %g",
				ErrInvalidOptions, o.Reduction, o.ReductionDistance)
		}
	default:
		return fmt.Errorf("%w: unknown reduction %d", ErrInvalidOptions, o.Reduction)
	}
	return nil
}

// Configuration keys read by OptionsFromConfig.
const (
	ConfigMaxError      = "curvefit.error"
	ConfigLinDist       = "curvefit.lindist"
	ConfigEpsilon       = "curvefit.epsilon"
	ConfigReduction     = "curvefit.reduce"
	ConfigReductionDist = "curvefit.reduce-dist"
)

// OptionsFromConfig reads fitting options from an application configuration.
// Keys which are not set keep their default value. The resulting options
// are validated.
func OptionsFromConfig(conf schuko.Configuration) (Options, error) {
	opts := DefaultOptions()
	if conf == nil {
		return opts, nil
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{ConfigMaxError, &opts.MaxError},
		{ConfigLinDist, &opts.LinDist},
		{ConfigEpsilon, &opts.Epsilon},
		{ConfigReductionDist, &opts.ReductionDistance},
	}
	for _, f := range floats {
		if !conf.IsSet(f.key) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(conf.GetString(f.key)), 64)
		if err != nil {
			return opts, fmt.Errorf("%w: key %s: %v", ErrInvalidOptions, f.key, err)
		}
		*f.dst = v
	}
	if conf.IsSet(ConfigReduction) {
		r, err := ReductionFromString(conf.GetString(ConfigReduction))
		if err != nil {
			return opts, err
		}
		opts.Reduction = r
	}
	tracer().Debugf("options from configuration: %+v", opts)
	return opts, opts.Validate()
}
