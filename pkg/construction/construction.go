// Package construction resolves material layers and the U-value of an
// assembly built from them.
package construction

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Surface film resistances for a wall, m²K/W.
const (
	DefaultRsi = 0.13
	DefaultRse = 0.04
)

// Layer is one material of an assembly. Of the three thermal properties
// only one needs to be known.
type Layer struct {
	Name         string   `json:"name"`
	Thickness    float64  `json:"thickness"`
	Conductivity *float64 `json:"conductivity,omitempty"`
	Resistivity  *float64 `json:"resistivity,omitempty"`
	UValue       *float64 `json:"u_value,omitempty"`
}

// ResolveConductivity derives λ from whichever property is present:
// conductivity directly, else 1/resistivity, else U·thickness. With none
// usable it reports an undefined attribute and returns ok=false.
func (l Layer) ResolveConductivity(path string, r *validation.Report) (float64, bool) {
	switch {
	case l.Conductivity != nil && *l.Conductivity > 0:
		return *l.Conductivity, true
	case l.Resistivity != nil && *l.Resistivity > 0:
		return 1 / *l.Resistivity, true
	case l.UValue != nil && *l.UValue > 0 && l.Thickness > 0:
		return *l.UValue * l.Thickness, true
	}
	if r != nil {
		r.AddWarning(validation.Result{
			Level:       validation.LevelInput,
			Kind:        validation.KindUndefinedAttribute,
			Path:        path,
			Message:     fmt.Sprintf("layer %q: conductivity cannot be derived (no conductivity, resistivity or U-value)", l.Name),
			Suggestions: []string{"Set conductivity in W/mK, resistivity in mK/W, or a U-value with the layer thickness"},
		})
	}
	return 0, false
}

// Assembly is an ordered build-up of layers, outside to inside.
type Assembly struct {
	Name   string  `json:"name"`
	Layers []Layer `json:"layers"`
	Rsi    float64 `json:"rsi"`
	Rse    float64 `json:"rse"`
}

// Resistance sums the surface films and every layer whose conductivity
// resolves. Zero-thickness layers add nothing.
func (a Assembly) Resistance(path string, r *validation.Report) float64 {
	total := a.Rsi + a.Rse
	for i, l := range a.Layers {
		if l.Thickness <= 0 {
			continue
		}
		lambda, ok := l.ResolveConductivity(fmt.Sprintf("%s.layers[%d]", path, i), r)
		if !ok {
			continue
		}
		total += l.Thickness / lambda
	}
	return total
}

// UValue is 1/R in W/m²K, or 0 when the assembly has no resistance.
func (a Assembly) UValue(path string, r *validation.Report) float64 {
	res := a.Resistance(path, r)
	if res <= 0 {
		return 0
	}
	return 1 / res
}

// Build converts the project's construction definitions.
func Build(defs []spec.AssemblyDef, r *validation.Report) []Assembly {
	out := make([]Assembly, 0, len(defs))
	for i, d := range defs {
		path := fmt.Sprintf("constructions[%d]", i)
		a := Assembly{Name: d.Name, Rsi: DefaultRsi, Rse: DefaultRse, Layers: make([]Layer, 0, len(d.Layers))}
		if a.Name == "" {
			a.Name = fmt.Sprintf("Assembly_%d", i+1)
		}
		for j, ld := range d.Layers {
			a.Layers = append(a.Layers, buildLayer(ld, fmt.Sprintf("%s.layers[%d]", path, j), r))
		}
		out = append(out, a)
	}
	return out
}

func buildLayer(d spec.LayerDef, path string, r *validation.Report) Layer {
	l := Layer{Name: d.Name}
	if v, ok := optional(d.Thickness, units.Meter, path+".thickness", r); ok {
		l.Thickness = *v
	}
	l.Conductivity, _ = optional(d.Conductivity, units.Conductivity, path+".conductivity", r)
	l.UValue, _ = optional(d.UValue, units.UValue, path+".u_value", r)
	if d.Resistivity != nil {
		// Resistivity has no unit table entry; only bare numbers in m·K/W.
		if v, ok := units.Numeric(d.Resistivity); ok {
			l.Resistivity = &v
		} else if r != nil {
			r.Warnf(validation.LevelInput, validation.KindUnitConversion, path+".resistivity",
				"resistivity %v is not a number in mK/W", d.Resistivity)
		}
	}
	return l
}

func optional(raw any, tag, path string, r *validation.Report) (*float64, bool) {
	if raw == nil {
		return nil, false
	}
	v, err := units.Convert(raw, tag)
	if err != nil {
		if r != nil {
			r.AddWarning(validation.Result{
				Level:       validation.LevelInput,
				Kind:        validation.KindUnitConversion,
				Path:        path,
				Message:     err.Error(),
				ActualValue: raw,
			})
		}
		return nil, false
	}
	return &v, true
}
