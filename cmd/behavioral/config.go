package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/behavioral"
)

// config is the contents of a -config file.
type config struct {
	// Tolerances replace the defaults field by field.
	Tolerances *tolerances `yaml:"tolerances"`
	// Given are variable values.
	Given map[string]float64 `yaml:"given"`
	// Wrt lists the independent variables, in order.
	Wrt []string `yaml:"wrt"`
	// Properties are the values of properties by name, e.g. "V(out)".
	Properties map[string]float64 `yaml:"properties"`
	// PWL defines piecewise-linear functions as lists of [x, y] points.
	PWL map[string][][]float64 `yaml:"pwl"`
}

type tolerances struct {
	Fudge  *float64 `yaml:"fudge"`
	RelTol *float64 `yaml:"reltol"`
	AbsTol *float64 `yaml:"abstol"`
}

func loadConfig(name string) (*config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var c config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return &c, nil
}

// apply sets the configured tolerances over t.
func (c *tolerances) apply(t behavioral.Tolerances) behavioral.Tolerances {
	if c == nil {
		return t
	}
	if c.Fudge != nil {
		t.Fudge = *c.Fudge
	}
	if c.RelTol != nil {
		t.RelTol = *c.RelTol
	}
	if c.AbsTol != nil {
		t.AbsTol = *c.AbsTol
	}
	return t
}

// tables converts the PWL definitions to point tables.
func (c *config) tables() (map[string][]behavioral.Point, error) {
	r := make(map[string][]behavioral.Point, len(c.PWL))
	for name, pts := range c.PWL {
		t := make([]behavioral.Point, len(pts))
		for i, p := range pts {
			if len(p) != 2 {
				return nil, fmt.Errorf("pwl %s: point %d has %d coordinates, want 2", name, i, len(p))
			}
			if i > 0 && p[0] <= t[i-1].X {
				return nil, fmt.Errorf("pwl %s: x values must increase (point %d)", name, i)
			}
			t[i] = behavioral.Point{X: p[0], Y: p[1]}
		}
		r[name] = t
	}
	return r, nil
}
