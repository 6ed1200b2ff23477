package main

import (
	"fmt"

	"github.com/pthm-cable/botz/components"
	"github.com/pthm-cable/botz/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // e.g. "l3_timing"
	Link    int     // link id in the scene
	Timing  bool    // true = push_timing, false = push_strength
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Value in the loaded scene
}

// ParamVector holds the muscle parameters of one scene.
type ParamVector struct {
	Specs []ParamSpec
}

// Bounds on push strength. The sign picks extension or contraction.
const (
	minStrength = -8.0
	maxStrength = 8.0
)

// NewParamVector builds a timing and a strength parameter for every muscle
// link. Links that are not muscles are left alone.
func NewParamVector(links []components.Link) *ParamVector {
	pv := &ParamVector{}
	for i := range links {
		l := &links[i]
		if !l.IsMuscle() {
			continue
		}
		pv.Specs = append(pv.Specs,
			ParamSpec{
				Name:    fmt.Sprintf("l%d_timing", i+1),
				Link:    i,
				Timing:  true,
				Min:     0,
				Max:     config.CyclePeriod - 1,
				Default: float64(l.PushTiming),
			},
			ParamSpec{
				Name:    fmt.Sprintf("l%d_strength", i+1),
				Link:    i,
				Min:     minStrength,
				Max:     maxStrength,
				Default: l.PushStrength,
			},
		)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the scene's own values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToLinks writes clamped values into links. Timings are rounded to whole ticks.
func (pv *ParamVector) ApplyToLinks(links []components.Link, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		l := &links[spec.Link]
		if spec.Timing {
			l.PushTiming = int32(clamped[i] + 0.5)
		} else {
			l.PushStrength = clamped[i]
		}
	}
}
