// Command fitcurve approximates a sequence of points by cubic Bézier curves.
//
// Usage:
//
//	fitcurve [flags] points.yaml
//
// The input file holds the points to fit and, optionally, fitting options:
//
//	points: [[0,0], [1,0.5], [2,0.8], [3,1]]
//	curvefit.error: 0.5
//	curvefit.reduce: rdp
//	curvefit.reduce-dist: 0.25
//
// Flags override options from the file. The resulting spline is printed to
// stdout in path notation; with -png it is rendered to an image, too.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/curvefit"
	"github.com/npillmayer/curves/raster"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.Printf("fitcurve: %v", err)
		}
		os.Exit(1)
	}
}

// flag name → configuration key
var optionFlags = map[string]string{
	"error":       curvefit.ConfigMaxError,
	"lindist":     curvefit.ConfigLinDist,
	"epsilon":     curvefit.ConfigEpsilon,
	"reduce":      curvefit.ConfigReduction,
	"reduce-dist": curvefit.ConfigReductionDist,
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fitcurve", flag.ContinueOnError)
	mode := fs.String("mode", "batch", "fitting mode: batch or stream")
	fs.Float64("error", curvefit.DefaultMaxError, "maximum distance of points from the curves")
	fs.Float64("lindist", curvefit.DefaultLinDist, "resampling distance in stream mode")
	fs.Float64("epsilon", 0, "numerical zero (default smallest float64)")
	fs.String("reduce", "none", "input reduction: none, linear or rdp")
	fs.Float64("reduce-dist", 0, "distance for input reduction")
	pngOut := fs.String("png", "", "render the curves to a PNG file")
	stroke := fs.Float64("stroke", 2, "pen width for -png")
	level := fs.String("trace", "Error", "trace level: Error, Info or Debug")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupTracing(*level)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expecting exactly one input file")
	}
	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()
	pts, conf, err := readInput(in)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := optionFlags[f.Name]; ok {
			conf.Set(key, f.Value.String())
		}
	})
	opts, err := curvefit.OptionsFromConfig(conf)
	if err != nil {
		return err
	}
	var s curves.Spline
	switch *mode {
	case "batch":
		s, err = curvefit.Fit(pts, opts)
	case "stream":
		s, err = stream(pts, opts)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}
	tracing.Select("curvefit").Infof("%d points, %d curve(s)", len(pts), s.N())
	fmt.Fprintln(stdout, curves.AsString(s))
	if *pngOut != "" {
		return render(*pngOut, s, pts, *stroke)
	}
	return nil
}

func setupTracing(level string) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	// all keys share one tracer
	tracing.Select("curvefit").SetTraceLevel(tracing.TraceLevelFromString(level))
}

func stream(pts []curves.Pair, opts curvefit.Options) (curves.Spline, error) {
	b, err := curvefit.NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	for _, p := range pts {
		if c := b.AddPoint(p); c.Changed() {
			tracing.Select("curvefit").Debugf("%v: %s", p, c)
		}
	}
	if b.State() != curvefit.Fitting {
		return nil, fmt.Errorf("%w: input shorter than resampling distance", curvefit.ErrTooFewPoints)
	}
	return b.Curves(), nil
}

func render(filename string, s curves.Spline, pts []curves.Pair, width float64) error {
	canvas := raster.CanvasFor(s, 10+int(width))
	canvas.Stroke(s, width)
	for _, p := range pts {
		canvas.Dot(p, width)
	}
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(out, canvas.Image()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
