package dhw

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Totals summarises a set of pipe segments. Averages are weighted by
// segment length; an empty set yields all zeros.
type Totals struct {
	Count                  int     `json:"count"`
	TotalLength            float64 `json:"total_length"`
	AvgDiameter            float64 `json:"avg_diameter"`
	AvgInsulationThickness float64 `json:"avg_insulation_thickness"`
	AvgConductivity        float64 `json:"avg_conductivity"`
	AvgDailyPeriod         float64 `json:"avg_daily_period"`
}

// Aggregate totals segments without reordering them.
func Aggregate(segs []PipeSegment) Totals {
	t := Totals{Count: len(segs)}
	if len(segs) == 0 {
		return t
	}

	weights := make([]float64, len(segs))
	diam := make([]float64, len(segs))
	thick := make([]float64, len(segs))
	cond := make([]float64, len(segs))
	period := make([]float64, len(segs))
	for i, s := range segs {
		weights[i] = s.Length
		diam[i] = s.Diameter
		thick[i] = s.InsulationThickness
		cond[i] = s.InsulationConductivity
		period[i] = s.DailyPeriodHours
	}

	t.TotalLength = floats.Sum(weights)
	if t.TotalLength <= 0 {
		return t
	}
	t.AvgDiameter = stat.Mean(diam, weights)
	t.AvgInsulationThickness = stat.Mean(thick, weights)
	t.AvgConductivity = stat.Mean(cond, weights)
	t.AvgDailyPeriod = stat.Mean(period, weights)
	return t
}

// RunTotals is the aggregate of one branch or loop.
type RunTotals struct {
	ID string `json:"id"`
	Totals
}

// NetworkTotals aggregates each branch and loop and both groups overall.
type NetworkTotals struct {
	Branches      []RunTotals `json:"branches"`
	Recirculation []RunTotals `json:"recirculation"`
	BranchTotal   Totals      `json:"branch_total"`
	RecircTotal   Totals      `json:"recirculation_total"`
}

// Totals aggregates the network in declaration order.
func (n *PipingNetwork) Totals() NetworkTotals {
	out := NetworkTotals{
		Branches:      make([]RunTotals, 0, len(n.Branches)),
		Recirculation: make([]RunTotals, 0, len(n.Recirculation)),
	}
	var all []PipeSegment
	for _, b := range n.Branches {
		out.Branches = append(out.Branches, RunTotals{ID: b.ID, Totals: Aggregate(b.Segments)})
		all = append(all, b.Segments...)
	}
	out.BranchTotal = Aggregate(all)

	all = nil
	for _, l := range n.Recirculation {
		out.Recirculation = append(out.Recirculation, RunTotals{ID: l.ID, Totals: Aggregate(l.Segments)})
		all = append(all, l.Segments...)
	}
	out.RecircTotal = Aggregate(all)
	return out
}
