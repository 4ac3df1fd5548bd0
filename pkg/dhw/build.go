package dhw

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/broadcast"
	"github.com/ChicagoDave/phppkit/pkg/lengths"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// BuildSegments resolves a raw pipe run into segments. Lengths come from
// numbers, unit strings or curve handles; each attribute list is broadcast
// on its own against the lengths that resolved. ids may be nil.
func BuildSegments(def spec.PipeRunDef, m lengths.Measurer, ids metadata.IDSource, path string, r *validation.Report) []PipeSegment {
	if r == nil {
		r = validation.NewReport()
	}
	resolved := lengths.ResolveIndexed(def.PipeSegments, m, path+".pipe_segments", r)

	lens := make([]float64, 0, len(resolved))
	for _, l := range resolved {
		if l.Meters <= 0 {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, fmt.Sprintf("%s.pipe_segments[%d]", path, l.Index),
				"pipe length %g m is not positive, segment skipped", l.Meters)
			continue
		}
		lens = append(lens, l.Meters)
	}
	n := len(lens)

	diameters := broadcast.Floats(n, def.Diameters, units.Meter, DefaultDiameter, path+".diameters", r)
	thickness := broadcast.Floats(n, def.InsulationThickness, units.Meter, DefaultInsulationThickness, path+".insulation_thickness", r)
	conductivity := broadcast.Floats(n, def.InsulationConductivity, units.Conductivity, DefaultInsulationConductivity, path+".insulation_conductivity", r)
	periods := broadcast.Floats(n, def.DailyPeriod, units.Hours, DefaultDailyPeriodHours, path+".daily_period", r)
	reflective := broadcast.Values(n, def.InsulationReflective, false, path+".insulation_reflective", r)
	qualities := broadcast.Resolve(n, def.InsulationQuality, path+".insulation_quality", r)

	segs := make([]PipeSegment, 0, n)
	for i, l := range lens {
		seg := NewPipeSegment(l)
		seg.Diameter = diameters[i]
		seg.InsulationThickness = thickness[i]
		seg.InsulationConductivity = conductivity[i]
		seg.InsulationReflective = reflective[i]
		seg.DailyPeriodHours = periods[i]

		if q := qualities[i]; q.Valid {
			parsed, err := ParseQuality(q.Value)
			if err != nil {
				r.Warnf(validation.LevelInput, validation.KindInvalidValue, fmt.Sprintf("%s.insulation_quality[%d]", path, i),
					"%v, using %s", err, QualityNone)
			}
			seg.InsulationQuality = parsed
		}

		if err := seg.Validate(); err != nil {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, fmt.Sprintf("%s[%d]", path, i),
				"%v, defaults applied", err)
			seg = clampSegment(seg)
		}
		if ids != nil {
			seg.ID = ids.Next()
		}
		segs = append(segs, seg)
	}
	return segs
}

// clampSegment replaces out-of-range attributes with defaults. Length is
// already known to be positive.
func clampSegment(s PipeSegment) PipeSegment {
	if s.Diameter <= 0 {
		s.Diameter = DefaultDiameter
	}
	if s.InsulationThickness < 0 {
		s.InsulationThickness = DefaultInsulationThickness
	}
	if s.InsulationConductivity <= 0 {
		s.InsulationConductivity = DefaultInsulationConductivity
	}
	if s.DailyPeriodHours < 0 || s.DailyPeriodHours > 24 {
		s.DailyPeriodHours = DefaultDailyPeriodHours
	}
	return s
}
