package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/curves"
	"gopkg.in/yaml.v3"
)

type inputFile struct {
	Points  [][]float64    `yaml:"points"`
	Options map[string]any `yaml:",inline"`
}

// readInput decodes a YAML input file. Every key besides "points" is kept
// as a configuration value.
func readInput(r io.Reader) ([]curves.Pair, fileConfig, error) {
	var in inputFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty input")
		}
		return nil, nil, err
	}
	pts := make([]curves.Pair, 0, len(in.Points))
	for i, xy := range in.Points {
		if len(xy) != 2 {
			return nil, nil, fmt.Errorf("point %d: expected [x,y], got %d coordinate(s)", i, len(xy))
		}
		pts = append(pts, curves.P(xy[0], xy[1]))
	}
	conf := fileConfig{}
	for k, v := range in.Options {
		conf[k] = fmt.Sprint(v)
	}
	return pts, conf, nil
}

// fileConfig adapts the options of an input file to schuko.Configuration.
type fileConfig map[string]string

func (c fileConfig) InitDefaults() {}

func (c fileConfig) IsSet(key string) bool {
	_, ok := c[key]
	return ok
}

func (c fileConfig) GetString(key string) string {
	return c[key]
}

func (c fileConfig) GetInt(key string) int {
	n, _ := strconv.Atoi(c[key])
	return n
}

func (c fileConfig) GetBool(key string) bool {
	b, _ := strconv.ParseBool(c[key])
	return b
}

func (c fileConfig) IsInteractive() bool { return false }

// Set overrides a value, e.g. from a command line flag.
func (c fileConfig) Set(key, value string) {
	c[key] = value
}
