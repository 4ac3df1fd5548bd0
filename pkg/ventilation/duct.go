// Package ventilation assembles ventilation systems from a unit, its supply
// and extract ducts, extra exhaust devices and an operating schedule.
package ventilation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChicagoDave/phppkit/pkg/broadcast"
	"github.com/ChicagoDave/phppkit/pkg/lengths"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Duct segment defaults. Width and insulation thickness are in millimetres.
const (
	DefaultDuctWidth              = 101.0
	DefaultInsulationThickness    = 52.0
	DefaultInsulationConductivity = 0.04
)

// DuctSegment is one run of duct between the unit and the envelope.
type DuctSegment struct {
	ID                     int     `json:"id"`
	Length                 float64 `json:"length"`
	Width                  float64 `json:"width"`
	InsulationThickness    float64 `json:"insulation_thickness"`
	InsulationConductivity float64 `json:"insulation_conductivity"`
}

// NewDuctSegment returns a segment with default attributes.
func NewDuctSegment(length float64) DuctSegment {
	return DuctSegment{
		Length:                 length,
		Width:                  DefaultDuctWidth,
		InsulationThickness:    DefaultInsulationThickness,
		InsulationConductivity: DefaultInsulationConductivity,
	}
}

// Duct is an ordered run of segments; order is physical run order.
type Duct struct {
	ID       int           `json:"id"`
	Segments []DuctSegment `json:"segments"`
}

// Length is the summed segment length in metres.
func (d Duct) Length() float64 {
	total := 0.0
	for _, s := range d.Segments {
		total += s.Length
	}
	return total
}

// DuctInput is either raw project input or an already built duct.
type DuctInput interface {
	ductInput()
}

// RawDuct is a duct still to be resolved from raw lists.
type RawDuct struct {
	Def  spec.DuctDef
	Path string
}

// BuiltDuct is a duct that was built earlier, for example one read back
// from the metadata store. It is used as is.
type BuiltDuct struct {
	Duct Duct
}

func (RawDuct) ductInput()   {}
func (BuiltDuct) ductInput() {}

// ResolveDuct turns a duct input into a Duct. A nil input is an empty duct.
func ResolveDuct(in DuctInput, m lengths.Measurer, ids metadata.IDSource, r *validation.Report) Duct {
	var d Duct
	switch v := in.(type) {
	case BuiltDuct:
		return v.Duct
	case *BuiltDuct:
		return v.Duct
	case RawDuct:
		d = buildDuct(v, m, ids, r)
	case *RawDuct:
		d = buildDuct(*v, m, ids, r)
	default:
		d = Duct{Segments: []DuctSegment{}}
	}
	if ids != nil {
		d.ID = ids.Next()
	}
	return d
}

func buildDuct(raw RawDuct, m lengths.Measurer, ids metadata.IDSource, r *validation.Report) Duct {
	path := raw.Path
	if path == "" {
		path = "duct"
	}
	if r == nil {
		r = validation.NewReport()
	}
	resolved := lengths.ResolveIndexed(raw.Def.Lengths, m, path+".duct_length", r)

	lens := make([]float64, 0, len(resolved))
	for _, l := range resolved {
		if l.Meters <= 0 {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, fmt.Sprintf("%s.duct_length[%d]", path, l.Index),
				"duct length %g m is not positive, segment skipped", l.Meters)
			continue
		}
		lens = append(lens, l.Meters)
	}
	n := len(lens)

	widths := broadcast.Floats(n, raw.Def.Widths, units.Millimeter, DefaultDuctWidth, path+".duct_width", r)
	thickness := broadcast.Floats(n, raw.Def.InsulationThickness, units.Millimeter, DefaultInsulationThickness, path+".insulation_thickness", r)
	conductivity := broadcast.Floats(n, raw.Def.InsulationConductivity, units.Conductivity, DefaultInsulationConductivity, path+".insulation_conductivity", r)

	d := Duct{Segments: make([]DuctSegment, 0, n)}
	for i, l := range lens {
		seg := NewDuctSegment(l)
		seg.Width = widths[i]
		seg.InsulationThickness = thickness[i]
		seg.InsulationConductivity = conductivity[i]
		if ids != nil {
			seg.ID = ids.Next()
		}
		d.Segments = append(d.Segments, seg)
	}
	return d
}

// DuctTotals summarises a duct. Segments keeps run order.
type DuctTotals struct {
	Count                  int           `json:"count"`
	TotalLength            float64       `json:"total_length"`
	AvgWidth               float64       `json:"avg_width"`
	AvgInsulationThickness float64       `json:"avg_insulation_thickness"`
	AvgConductivity        float64       `json:"avg_conductivity"`
	Segments               []DuctSegment `json:"segments"`
}

// AggregateDuct totals a duct with length-weighted averages. An empty duct
// yields zeros.
func AggregateDuct(d Duct) DuctTotals {
	t := DuctTotals{Count: len(d.Segments), Segments: append([]DuctSegment{}, d.Segments...)}
	if len(d.Segments) == 0 {
		return t
	}

	n := len(d.Segments)
	weights := make([]float64, n)
	width := make([]float64, n)
	thick := make([]float64, n)
	cond := make([]float64, n)
	for i, s := range d.Segments {
		weights[i] = s.Length
		width[i] = s.Width
		thick[i] = s.InsulationThickness
		cond[i] = s.InsulationConductivity
	}

	t.TotalLength = floats.Sum(weights)
	if t.TotalLength <= 0 {
		return t
	}
	t.AvgWidth = stat.Mean(width, weights)
	t.AvgInsulationThickness = stat.Mean(thick, weights)
	t.AvgConductivity = stat.Mean(cond, weights)
	return t
}
