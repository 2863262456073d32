package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/curvefit"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
points: [[0,0], [1,0], [2,0], [3,0]]
curvefit.error: 0.01
curvefit.reduce: none
`

func TestReadInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts, conf, err := readInput(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []curves.Pair{curves.P(0, 0), curves.P(1, 0), curves.P(2, 0), curves.P(3, 0)}, pts)
	var _ schuko.Configuration = conf
	assert.True(t, conf.IsSet(curvefit.ConfigMaxError))
	assert.False(t, conf.IsSet("points"))
	opts, err := curvefit.OptionsFromConfig(conf)
	require.NoError(t, err)
	assert.Equal(t, 0.01, opts.MaxError)
	//
	_, _, err = readInput(strings.NewReader("points: [[1,2,3]]"))
	assert.Error(t, err)
	_, _, err = readInput(strings.NewReader(""))
	assert.Error(t, err)
	_, _, err = readInput(strings.NewReader("points: {x: 1}"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dir := t.TempDir()
	input := filepath.Join(dir, "points.yaml")
	require.NoError(t, os.WriteFile(input, []byte(sample), 0o644))
	var out bytes.Buffer
	require.NoError(t, run([]string{input}, &out))
	assert.Equal(t, "(0,0) .. controls (1.0000,0.0000) and (2.0000,0.0000)\n  .. (3,0)\n", out.String())
	//
	out.Reset()
	img := filepath.Join(dir, "curve.png")
	err := run([]string{"-mode", "stream", "-lindist", "0.5", "-png", img, input}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "controls")
	_, err = os.Stat(img)
	assert.NoError(t, err)
	//
	assert.Error(t, run([]string{"-mode", "spiral", input}, &out))
	assert.Error(t, run([]string{"-error", "-1", input}, &out))
	assert.Error(t, run([]string{"-mode", "stream", "-lindist", "10", input}, &out))
	assert.Error(t, run(nil, &out))
}
