package curvefit

import (
	"math"
	"testing"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderOptions(maxErr, linDist float64) Options {
	opts := testOptions(maxErr)
	opts.LinDist = linDist
	return opts
}

func TestBuilderStates(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.5, 1))
	assert.Equal(t, Empty, b.State())
	assert.Empty(t, b.Curves())
	c := b.AddPoint(curves.P(0, 0))
	assert.Equal(t, NoChange, c)
	assert.Equal(t, Single, b.State())
	c = b.AddPoint(curves.P(0.5, 0))
	assert.False(t, c.Changed(), "point closer than linear distance must be ignored")
	assert.Equal(t, Single, b.State())
	c = b.AddPoint(curves.P(1, 0))
	assert.Equal(t, Change{FirstChanged: 0, Added: true}, c)
	assert.Equal(t, Fitting, b.State())
	require.Len(t, b.Curves(), 1)
	assert.Equal(t, curves.P(0, 0), b.Curves().Start())
	assert.Equal(t, curves.P(1, 0), b.Curves().End())
	c = b.AddPoint(curves.P(2, 0))
	assert.Equal(t, Change{FirstChanged: 0, Added: false}, c)
	assert.Len(t, b.Curves(), 1)
	assert.Equal(t, "fitting", b.State().String())
}

func TestBuilderResampling(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.5, 1))
	b.AddPoint(curves.P(0, 0))
	c := b.AddPoint(curves.P(3.5, 0))
	assert.True(t, c.Changed())
	pts := b.Points()
	require.Len(t, pts, 4)
	for i, p := range pts {
		assert.True(t, p.Equal(curves.P(float64(i), 0)), "sample %d is %v", i, p)
	}
	// the remainder of 0.5 carries over
	b.AddPoint(curves.P(4.2, 0))
	assert.Len(t, b.Points(), 5)
	assert.True(t, b.Points()[4].Equal(curves.P(4, 0)))
}

func TestBuilderClear(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := corner()
	fresh := MustNewBuilder(builderOptions(0.1, 1))
	for _, p := range pts {
		fresh.AddPoint(p)
	}
	b := MustNewBuilder(builderOptions(0.1, 1))
	for _, p := range arc(10, 1, math.Pi) {
		b.AddPoint(p)
	}
	b.Clear()
	assert.Equal(t, Empty, b.State())
	assert.Empty(t, b.Curves())
	for _, p := range pts {
		b.AddPoint(p)
	}
	assert.Equal(t, fresh.Curves(), b.Curves())
	assert.Equal(t, fresh.Points(), b.Points())
}

func TestBuilderCorner(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := corner()
	b := MustNewBuilder(builderOptions(0.1, 1))
	added := 0
	for _, p := range pts {
		if c := b.AddPoint(p); c.Added {
			added++
		}
	}
	s := b.Curves()
	assert.GreaterOrEqual(t, s.N(), 2)
	assert.Equal(t, s.N(), added)
	assert.Equal(t, pts[0], s.Start())
	assert.Equal(t, pts[len(pts)-1], s.End())
	for i := 1; i < s.N(); i++ {
		assert.Equal(t, s[i-1].P3, s[i].P0, "segments %d and %d disconnected", i-1, i)
	}
}

func TestStreamingVersusBatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const maxErr = 0.5
	pts := arc(20, 1, 1.5*math.Pi)
	batch, err := Fit(pts, testOptions(maxErr))
	require.NoError(t, err)
	b := MustNewBuilder(builderOptions(maxErr, 1))
	for _, p := range pts {
		b.AddPoint(p)
	}
	stream := b.Curves()
	require.Len(t, b.Points(), len(pts), "input spaced by linear distance must be kept")
	t.Logf("batch: %d segment(s), streaming: %d segment(s)", batch.N(), stream.N())
	assert.Equal(t, batch.Start(), stream.Start())
	assert.Equal(t, batch.End(), stream.End())
	assert.LessOrEqual(t, maxDeviation(batch, pts), maxErr+1e-2)
	assert.LessOrEqual(t, maxDeviation(stream, b.Points()), maxErr+1e-2)
}

func TestStreamingWave(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const maxErr = 0.5
	var pts []curves.Pair
	for x := 0.0; x <= 120; x += 0.25 {
		pts = append(pts, curves.P(x, 5*math.Sin(x/10)))
	}
	b := MustNewBuilder(builderOptions(maxErr, 1))
	for _, p := range pts {
		b.AddPoint(p)
	}
	s := b.Curves()
	require.Equal(t, Fitting, b.State())
	t.Logf("wave: %d samples, %d segment(s)", len(b.Points()), s.N())
	assert.GreaterOrEqual(t, s.N(), 2, "inflections need more than one segment")
	assert.Equal(t, pts[0], s.Start())
	assert.Equal(t, b.Points()[len(b.Points())-1], s.End())
	for i := 1; i < s.N(); i++ {
		assert.Equal(t, s[i-1].P3, s[i].P0, "segments %d and %d disconnected", i-1, i)
	}
	// the tail after the last resampled point is not fitted
	assert.LessOrEqual(t, maxDeviation(s, b.Points()), maxErr+1e-2)
}

func TestBuilderIgnoresInvalidPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.5, 1))
	assert.Equal(t, NoChange, b.AddPoint(curves.P(math.NaN(), 0)))
	assert.Equal(t, Empty, b.State())
	assert.Equal(t, NoChange, b.AddPoint(curves.P(0, 0)))
	assert.Equal(t, Single, b.State())
	assert.Equal(t, NoChange, b.AddPoint(curves.P(math.Inf(1), 0)))
	assert.Equal(t, NoChange, b.AddPoint(curves.P(0, math.NaN())))
	assert.Equal(t, Single, b.State())
	assert.Equal(t, []curves.Pair{curves.P(0, 0)}, b.Points())
	c := b.AddPoint(curves.P(2, 0))
	assert.Equal(t, Change{FirstChanged: 0, Added: true}, c)
	assert.Equal(t, Fitting, b.State())
	assert.Len(t, b.Points(), 3)
	assert.Equal(t, curves.P(2, 0), b.Curves().End())
}

func TestSealedSegmentsStay(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.2, 1))
	var sealed curves.Spline
	for _, p := range arc(15, 1, 2*math.Pi) {
		c := b.AddPoint(p)
		s := b.Curves()
		if c.Changed() {
			assert.GreaterOrEqual(t, c.FirstChanged, len(sealed), "sealed segment changed")
		}
		for i := range sealed {
			assert.Equal(t, sealed[i], s[i])
		}
		if len(s) > 0 {
			sealed = append(curves.Spline(nil), s[:len(s)-1]...)
		}
	}
}

func TestChangedRegionStraight(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.1, 1))
	b.AddPoint(curves.P(0, 0))
	c := b.AddPoint(curves.P(3, 0))
	r := b.ChangedRegion(c)
	require.False(t, r.IsEmpty(), "straight segment must have a region")
	assert.True(t, r.Contains(curves.P(1.5, 0)))
	assert.True(t, r.Contains(curves.P(1.5, 0.4)))
	assert.False(t, r.Contains(curves.P(1.5, 1)))
}

func TestChangeMerge(t *testing.T) {
	assert.Equal(t, NoChange, NoChange.Merge(NoChange))
	c := Change{FirstChanged: 3}
	assert.Equal(t, c, NoChange.Merge(c))
	assert.Equal(t, c, c.Merge(NoChange))
	assert.Equal(t, Change{FirstChanged: 2, Added: true}, c.Merge(Change{FirstChanged: 2, Added: true}))
	assert.Equal(t, "no change", NoChange.String())
}

func TestChangedRegion(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := MustNewBuilder(builderOptions(0.1, 1))
	assert.Nil(t, b.ChangedRegion(NoChange))
	var last Change
	for _, p := range corner() {
		if c := b.AddPoint(p); c.Changed() {
			last = c
		}
	}
	r := b.ChangedRegion(last)
	require.NotNil(t, r)
	require.False(t, r.IsEmpty())
	ll, ur := r.BoundingBox()
	end := b.Curves().End()
	assert.True(t, ll.X() <= end.X()+1e-9 && end.X() <= ur.X()+1e-9, "end %v outside %v-%v", end, ll, ur)
	assert.True(t, ll.Y() <= end.Y()+1e-9 && end.Y() <= ur.Y()+1e-9, "end %v outside %v-%v", end, ll, ur)
	all := b.ChangedRegion(Change{FirstChanged: 0})
	all0, all1 := all.BoundingBox()
	assert.True(t, all0.X() <= 1e-9 && all0.Y() <= 1e-9, "lower left is %v", all0)
	assert.True(t, all1.X() >= 10-1e-9 && all1.Y() >= 10-1e-9)
}
