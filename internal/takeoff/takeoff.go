// Package takeoff runs the full pipeline for one project: geometry, hot
// water piping, ventilation, constructions and workbook cell writes.
package takeoff

import (
	"context"
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/construction"
	"github.com/ChicagoDave/phppkit/pkg/dhw"
	"github.com/ChicagoDave/phppkit/pkg/geo"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
	"github.com/ChicagoDave/phppkit/pkg/ventilation"
	"github.com/ChicagoDave/phppkit/pkg/workbook"
)

// Spline sampling for curves marked smooth.
const (
	DefaultSplineSamples = 8
	SplineTension        = 0.5
)

// Options tunes a run. Zero values use defaults.
type Options struct {
	IDs    metadata.IDSource
	Layout *workbook.Layout
}

// SystemTotals is the per-system duct summary.
type SystemTotals struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Duct01      ventilation.DuctTotals `json:"duct_01"`
	Duct02      ventilation.DuctTotals `json:"duct_02"`
	ExhaustFlow float64                `json:"exhaust_flow"`
}

// AssemblyTotals is the resolved U-value of one assembly.
type AssemblyTotals struct {
	Name   string  `json:"name"`
	UValue float64 `json:"u_value"`
}

// Result is everything one run produces.
type Result struct {
	Project     string                           `json:"project"`
	Curves      []string                         `json:"curves"`
	DHW         *dhw.PipingNetwork               `json:"dhw"`
	DHWTotals   dhw.NetworkTotals                `json:"dhw_totals"`
	Systems     []*ventilation.VentilationSystem `json:"systems"`
	Ventilation []SystemTotals                   `json:"ventilation_totals"`
	Assemblies  []AssemblyTotals                 `json:"assemblies"`
	Cells       []workbook.CellWrite             `json:"cells"`
	Validation  *validation.Report               `json:"validation"`
}

// Run executes the pipeline. Schema findings are part of the report; the
// run still proceeds so every recoverable problem is reported at once.
func Run(p *spec.Project, opts Options) *Result {
	r := validation.ValidateSchema(p)

	ids := opts.IDs
	if ids == nil {
		ids = metadata.RandomIDs{}
	}
	layout := workbook.DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}

	lib := Library(p, r)
	res := &Result{Project: p.Name, Curves: lib.Handles(), Validation: r}

	res.DHW = dhw.Build(p.DHW, lib, ids, r)
	res.DHWTotals = res.DHW.Totals()

	asm := ventilation.Assembler{IDs: ids, Measurer: lib}
	res.Systems = asm.BuildAll(p.Ventilation, r)
	for _, s := range res.Systems {
		d1, d2 := s.Totals()
		res.Ventilation = append(res.Ventilation, SystemTotals{
			ID: s.ID, Name: s.Name, Duct01: d1, Duct02: d2, ExhaustFlow: s.ExhaustFlow(),
		})
	}

	assemblies := construction.Build(p.Constructions, r)
	for i, a := range assemblies {
		res.Assemblies = append(res.Assemblies, AssemblyTotals{
			Name:   a.Name,
			UValue: a.UValue(fmt.Sprintf("constructions[%d]", i), r),
		})
	}

	res.Cells = workbook.All(res.DHW, res.Systems, assemblies, layout, r)
	return res
}

// Library builds the curve library from the project's curves and offsets.
// Offsets are applied in order, so an offset may build on an earlier one.
func Library(p *spec.Project, r *validation.Report) *geo.Library {
	lib := geo.NewLibrary()
	for handle, runs := range p.Curves {
		for _, c := range runs {
			pts := make([]geo.Point, 0, len(c.Points))
			for _, xyz := range c.Points {
				if len(xyz) < 2 {
					continue
				}
				pt := geo.Pt(xyz[0], xyz[1], 0)
				if len(xyz) > 2 {
					pt.Z = xyz[2]
				}
				pts = append(pts, pt)
			}
			pl := geo.NewPolyline(pts...)
			if c.Smooth {
				samples := c.Samples
				if samples == 0 {
					samples = DefaultSplineSamples
				}
				pl = geo.CatmullRomSpline(pts, samples, SplineTension)
			}
			pl.Closed = c.Closed
			lib.Add(handle, pl)
		}
	}

	for i, o := range p.Offsets {
		path := fmt.Sprintf("offsets[%d]", i)
		d, err := units.Convert(o.Distance, units.Meter)
		if err != nil {
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeometry,
				Kind:        validation.KindUnitConversion,
				Path:        path + ".distance",
				Message:     err.Error(),
				ActualValue: o.Distance,
			})
			continue
		}
		if err := lib.Offset(o.Handle, o.Base, d, o.BothSides); err != nil {
			r.Warnf(validation.LevelGeometry, validation.KindGeometryResolution, path, "%v", err)
		}
	}
	return lib
}

// Store keys used by Save.
const (
	DHWKey               = "dhw"
	VentilationKeyPrefix = "ventilation/"
)

// Save writes the network and every system to the store, one key each.
// Each key is replaced whole.
func Save(ctx context.Context, store metadata.Store, res *Result) ([]string, error) {
	var keys []string
	if res.DHW != nil {
		if err := store.Put(ctx, DHWKey, res.DHW.ToMap()); err != nil {
			return keys, fmt.Errorf("saving dhw: %w", err)
		}
		keys = append(keys, DHWKey)
	}
	for _, s := range res.Systems {
		key := fmt.Sprintf("%s%d", VentilationKeyPrefix, s.ID)
		if err := store.Put(ctx, key, s.ToMap()); err != nil {
			return keys, fmt.Errorf("saving %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// LoadSystem reads a stored system back for re-use.
func LoadSystem(ctx context.Context, store metadata.Store, id int) (*ventilation.VentilationSystem, error) {
	m, err := store.Get(ctx, fmt.Sprintf("%s%d", VentilationKeyPrefix, id))
	if err != nil {
		return nil, err
	}
	return ventilation.SystemFromMap(m)
}
