package validation

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/spec"
)

// ValidateSchema performs schema-level checks on a parsed project before
// any geometry or unit resolution.
func ValidateSchema(p *spec.Project) *Report {
	r := NewReport()

	validateProject(p, r)
	validateCurves(p, r)
	validateOffsets(p, r)
	validateDHW(p, r)
	validateVentilation(p, r)
	validateConstructions(p, r)

	return r
}

func validateProject(p *spec.Project, r *Report) {
	if p.SpecVersion == "" {
		r.AddInfo(Result{
			Level:   LevelSchema,
			Message: "spec_version not set",
			Path:    "spec_version",
		})
	}
	if p.Name == "" {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Kind:        KindUndefinedAttribute,
			Message:     "project has no name",
			Path:        "name",
			Suggestions: []string{"Set name so exports and stored metadata can be told apart"},
		})
	}
}

func validateCurves(p *spec.Project, r *Report) {
	for handle, runs := range p.Curves {
		if len(runs) == 0 {
			r.AddError(Result{
				Level:   LevelSchema,
				Kind:    KindInvalidValue,
				Message: fmt.Sprintf("curve %q has no runs", handle),
				Path:    fmt.Sprintf("curves.%s", handle),
			})
			continue
		}
		for i, run := range runs {
			path := fmt.Sprintf("curves.%s[%d]", handle, i)
			if len(run.Points) < 2 {
				r.AddError(Result{
					Level:       LevelSchema,
					Kind:        KindInvalidValue,
					Message:     fmt.Sprintf("curve %q needs at least 2 points (got %d)", handle, len(run.Points)),
					Path:        path,
					ActualValue: len(run.Points),
					Expected:    ">= 2",
				})
			}
			for j, pt := range run.Points {
				if len(pt) != 2 && len(pt) != 3 {
					r.AddError(Result{
						Level:       LevelSchema,
						Kind:        KindInvalidValue,
						Message:     fmt.Sprintf("point has %d coordinates", len(pt)),
						Path:        fmt.Sprintf("%s.points[%d]", path, j),
						ActualValue: pt,
						Expected:    "[x, y] or [x, y, z]",
					})
				}
			}
			if run.Samples < 0 {
				r.AddError(Result{
					Level:       LevelSchema,
					Kind:        KindInvalidValue,
					Message:     "samples must not be negative",
					Path:        path + ".samples",
					ActualValue: run.Samples,
					Expected:    ">= 0",
				})
			}
		}
	}
}

func validateOffsets(p *spec.Project, r *Report) {
	known := make(map[string]bool, len(p.Curves)+len(p.Offsets))
	for h := range p.Curves {
		known[h] = true
	}
	for i, o := range p.Offsets {
		path := fmt.Sprintf("offsets[%d]", i)
		switch {
		case o.Handle == "":
			r.AddError(Result{Level: LevelSchema, Kind: KindInvalidValue, Message: "offset has no handle", Path: path + ".handle"})
		case known[o.Handle]:
			r.AddError(Result{
				Level:   LevelSchema,
				Kind:    KindInvalidValue,
				Message: fmt.Sprintf("offset handle %q is already defined", o.Handle),
				Path:    path + ".handle",
			})
		}
		if !known[o.Base] {
			r.AddError(Result{
				Level:       LevelSchema,
				Kind:        KindGeometryResolution,
				Message:     fmt.Sprintf("offset base %q is not a curve or an earlier offset", o.Base),
				Path:        path + ".base",
				Suggestions: []string{"Define the base under curves, or list its offset first"},
			})
		}
		if o.Handle != "" {
			known[o.Handle] = true
		}
	}
}

func validateDHW(p *spec.Project, r *Report) {
	d := p.DHW
	if d.TapOpeningsPerDay != nil && *d.TapOpeningsPerDay < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Kind:        KindInvalidValue,
			Message:     "tap openings per day must not be negative",
			Path:        "dhw.tap_openings_per_day",
			ActualValue: *d.TapOpeningsPerDay,
			Expected:    ">= 0",
		})
	}
	checkRunIDs(d.Branches, "dhw.branches", r)
	checkRunIDs(d.Recirculation, "dhw.recirculation", r)
}

func checkRunIDs(runs []spec.PipeRunDef, path string, r *Report) {
	seen := make(map[string]int, len(runs))
	for i, run := range runs {
		if run.ID == "" {
			continue
		}
		if first, dup := seen[run.ID]; dup {
			r.AddError(Result{
				Level:   LevelSchema,
				Kind:    KindInvalidValue,
				Message: fmt.Sprintf("id %q already used by %s[%d]", run.ID, path, first),
				Path:    fmt.Sprintf("%s[%d].id", path, i),
			})
			continue
		}
		seen[run.ID] = i
	}
}

func validateVentilation(p *spec.Project, r *Report) {
	ids := map[int]int{}
	for i, s := range p.Ventilation.Systems {
		path := fmt.Sprintf("ventilation.systems[%d]", i)
		if s.ID != nil {
			if first, dup := ids[*s.ID]; dup {
				r.AddWarning(Result{
					Level:   LevelSchema,
					Kind:    KindInvalidValue,
					Message: fmt.Sprintf("system id %d also used by ventilation.systems[%d]", *s.ID, first),
					Path:    path + ".id",
				})
			} else {
				ids[*s.ID] = i
			}
		}
		sched := map[string]*float64{
			"speed_high": s.Schedule.SpeedHigh,
			"speed_med":  s.Schedule.SpeedMed,
			"speed_low":  s.Schedule.SpeedLow,
			"time_high":  s.Schedule.TimeHigh,
			"time_med":   s.Schedule.TimeMed,
			"time_low":   s.Schedule.TimeLow,
		}
		for name, v := range sched {
			if v != nil && (*v < 0 || *v > 100) {
				r.AddError(Result{
					Level:       LevelSchema,
					Kind:        KindInvalidValue,
					Message:     fmt.Sprintf("schedule %s must be a fraction or a percentage", name),
					Path:        fmt.Sprintf("%s.schedule.%s", path, name),
					ActualValue: *v,
					Expected:    "0..1 or 0..100",
				})
			}
		}
	}
}

func validateConstructions(p *spec.Project, r *Report) {
	for i, a := range p.Constructions {
		if len(a.Layers) == 0 {
			r.AddWarning(Result{
				Level:   LevelSchema,
				Kind:    KindUndefinedAttribute,
				Message: fmt.Sprintf("assembly %q has no layers", a.Name),
				Path:    fmt.Sprintf("constructions[%d].layers", i),
			})
		}
		for j, l := range a.Layers {
			if l.Thickness == nil {
				r.AddError(Result{
					Level:   LevelSchema,
					Kind:    KindUndefinedAttribute,
					Message: fmt.Sprintf("layer %q has no thickness", l.Name),
					Path:    fmt.Sprintf("constructions[%d].layers[%d].thickness", i, j),
				})
			}
		}
	}
}
