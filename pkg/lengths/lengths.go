// Package lengths turns heterogeneous segment inputs (numbers, unit strings,
// curve handles) into metres.
package lengths

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Measurer measures curve geometry. A handle may resolve to several
// disjoint curves.
type Measurer interface {
	CurveLength(handle string) ([]float64, error)
}

// GeometryResolutionError reports an input that could not become a length.
type GeometryResolutionError struct {
	Index int
	Input any
	Err   error
}

func (e *GeometryResolutionError) Error() string {
	return fmt.Sprintf("segment %d (%v): cannot resolve a length: %v", e.Index, e.Input, e.Err)
}

func (e *GeometryResolutionError) Unwrap() error { return e.Err }

var (
	errNoMeasurer = errors.New("no geometry available")
	errNotFinite  = errors.New("not a finite number")
)

// Length is one resolved input. Index points back into the raw list so
// later findings can name the element the user wrote.
type Length struct {
	Index  int
	Meters float64
}

// Resolve returns one length per resolvable input, in input order. Inputs
// that cannot be resolved are skipped and reported as warnings under path.
func Resolve(raw []any, m Measurer, path string, r *validation.Report) []float64 {
	resolved := ResolveIndexed(raw, m, path, r)
	out := make([]float64, len(resolved))
	for i, l := range resolved {
		out[i] = l.Meters
	}
	return out
}

// ResolveIndexed is Resolve keeping each length's raw input index.
func ResolveIndexed(raw []any, m Measurer, path string, r *validation.Report) []Length {
	out := make([]Length, 0, len(raw))
	for i, in := range raw {
		l, err := resolveOne(i, in, m)
		if err != nil {
			if r != nil {
				r.AddWarning(validation.Result{
					Level:       validation.LevelGeometry,
					Kind:        validation.KindGeometryResolution,
					Path:        fmt.Sprintf("%s[%d]", path, i),
					Message:     err.Error(),
					ActualValue: in,
				})
			}
			continue
		}
		out = append(out, Length{Index: i, Meters: l})
	}
	return out
}

func resolveOne(i int, in any, m Measurer) (float64, error) {
	if v, ok := units.Numeric(in); ok {
		return v, nil
	}

	if _, isFloat := in.(float64); isFloat {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: errNotFinite}
	}
	handle, ok := in.(string)
	if !ok {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: fmt.Errorf("unsupported input type %T", in)}
	}

	if v, err := units.Convert(handle, units.Meter); err == nil {
		return v, nil
	}

	if m == nil {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: errNoMeasurer}
	}
	parts, err := m.CurveLength(handle)
	if err != nil {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: err}
	}
	if len(parts) == 0 {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: errors.New("handle has no curves")}
	}
	total := 0.0
	for _, p := range parts {
		total += p
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &GeometryResolutionError{Index: i, Input: in, Err: errNotFinite}
	}
	return total, nil
}
