package workbook

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/construction"
	"github.com/ChicagoDave/phppkit/pkg/dhw"
	"github.com/ChicagoDave/phppkit/pkg/validation"
	"github.com/ChicagoDave/phppkit/pkg/ventilation"
)

// writer collects cell writes for one sheet and records the first bad
// cell reference.
type writer struct {
	sheet string
	out   []CellWrite
	err   error
}

func (w *writer) put(t Table, i, dCol, dRow int, v any) {
	if w.err != nil {
		return
	}
	cell, err := t.Cell(i, dCol, dRow)
	if err != nil {
		w.err = err
		return
	}
	w.out = append(w.out, CellWrite{Sheet: w.sheet, Range: cell, Value: v})
}

func (w *writer) at(cell string, v any) {
	if w.err != nil || cell == "" {
		return
	}
	w.out = append(w.out, CellWrite{Sheet: w.sheet, Range: cell, Value: v})
}

func (w *writer) done(r *validation.Report, what string) []CellWrite {
	if w.err != nil {
		r.AddError(validation.Result{
			Level:   validation.LevelExport,
			Kind:    validation.KindInvalidValue,
			Path:    w.sheet,
			Message: fmt.Sprintf("%s: bad layout cell: %v", what, w.err),
		})
		return nil
	}
	return w.out
}

func capacityWarning(r *validation.Report, sheet, what string, have, capacity int) {
	r.AddWarning(validation.Result{
		Level:       validation.LevelExport,
		Kind:        validation.KindCapacity,
		Path:        sheet,
		Message:     fmt.Sprintf("%d %s but the worksheet holds %d; extra entries not written", have, what, capacity),
		ActualValue: have,
		Expected:    fmt.Sprintf("<= %d", capacity),
	})
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}

// DHWCells writes the usage figures, then one column per recirculation
// loop and per branch. Each column holds length (m), diameter (mm),
// insulation thickness (mm), reflective mark, conductivity, insulation
// quality and daily period (h), top to bottom.
func DHWCells(net *dhw.PipingNetwork, l DHWLayout, r *validation.Report) []CellWrite {
	if r == nil {
		r = validation.NewReport()
	}
	if net == nil {
		return nil
	}
	w := &writer{sheet: l.Sheet}
	w.at(l.TapOpeningsPerDay, net.TapOpeningsPerDay)
	w.at(l.UtilisationDays, net.UtilisationDaysPerYear)

	pipeColumns(w, l.Recirculation, net.Recirculation, "recirculation loops", r)
	pipeColumns(w, l.Branches, net.Branches, "branch pipes", r)
	return w.done(r, "dhw")
}

func pipeColumns(w *writer, t Table, runs []dhw.Branch, what string, r *validation.Report) {
	if len(runs) > t.Capacity {
		capacityWarning(r, w.sheet, what, len(runs), t.Capacity)
		runs = runs[:t.Capacity]
	}
	for i, b := range runs {
		tot := dhw.Aggregate(b.Segments)
		lead := longest(b.Segments)
		w.put(t, i, 0, 0, tot.TotalLength)
		w.put(t, i, 0, 1, tot.AvgDiameter*1000)
		w.put(t, i, 0, 2, tot.AvgInsulationThickness*1000)
		w.put(t, i, 0, 3, mark(lead.InsulationReflective))
		w.put(t, i, 0, 4, tot.AvgConductivity)
		w.put(t, i, 0, 5, lead.InsulationQuality.Code())
		w.put(t, i, 0, 6, tot.AvgDailyPeriod)
	}
}

// longest returns the segment that sets the branch's categorical values.
func longest(segs []dhw.PipeSegment) dhw.PipeSegment {
	if len(segs) == 0 {
		return dhw.NewPipeSegment(0)
	}
	best := segs[0]
	for _, s := range segs[1:] {
		if s.Length > best.Length {
			best = s
		}
	}
	return best
}

// VentilationCells writes one row per unit, one row per non-empty duct and
// one row per exhaust device, in system order, then the first system's
// schedule.
func VentilationCells(systems []*ventilation.VentilationSystem, l VentilationLayout, r *validation.Report) []CellWrite {
	if r == nil {
		r = validation.NewReport()
	}
	w := &writer{sheet: l.Sheet}

	units := systems
	if len(units) > l.Units.Capacity {
		capacityWarning(r, l.Sheet, "ventilation units", len(units), l.Units.Capacity)
		units = units[:l.Units.Capacity]
	}
	for i, s := range units {
		w.put(l.Units, i, 0, 0, s.Unit.Name)
		w.put(l.Units, i, 1, 0, s.Type.Code())
		w.put(l.Units, i, 2, 0, s.Unit.HeatRecovery)
		w.put(l.Units, i, 3, 0, s.Unit.MoistureRecovery)
		w.put(l.Units, i, 4, 0, s.Unit.ElectricalEfficiency)
		w.put(l.Units, i, 5, 0, s.Unit.FrostProtectionTemp)
		w.put(l.Units, i, 6, 0, s.ID)
	}

	type ductRow struct {
		systemID int
		label    string
		totals   ventilation.DuctTotals
	}
	var ducts []ductRow
	var exhaust []ventilation.ExhaustVentUnit
	for _, s := range systems {
		d1, d2 := s.Totals()
		if d1.Count > 0 {
			ducts = append(ducts, ductRow{s.ID, "Supply/outdoor", d1})
		}
		if d2.Count > 0 {
			ducts = append(ducts, ductRow{s.ID, "Extract/exhaust", d2})
		}
		exhaust = append(exhaust, s.ExhaustDevices...)
	}

	if len(ducts) > l.Ducts.Capacity {
		capacityWarning(r, l.Sheet, "ducts", len(ducts), l.Ducts.Capacity)
		ducts = ducts[:l.Ducts.Capacity]
	}
	for i, d := range ducts {
		w.put(l.Ducts, i, 0, 0, d.systemID)
		w.put(l.Ducts, i, 1, 0, d.label)
		w.put(l.Ducts, i, 2, 0, d.totals.TotalLength)
		w.put(l.Ducts, i, 3, 0, d.totals.AvgWidth)
		w.put(l.Ducts, i, 4, 0, d.totals.AvgInsulationThickness)
		w.put(l.Ducts, i, 5, 0, d.totals.AvgConductivity)
	}

	if len(exhaust) > l.Exhaust.Capacity {
		capacityWarning(r, l.Sheet, "exhaust devices", len(exhaust), l.Exhaust.Capacity)
		exhaust = exhaust[:l.Exhaust.Capacity]
	}
	for i, e := range exhaust {
		w.put(l.Exhaust, i, 0, 0, e.Name)
		w.put(l.Exhaust, i, 1, 0, e.DeviceType.String())
		w.put(l.Exhaust, i, 2, 0, e.FlowRateOn)
		w.put(l.Exhaust, i, 3, 0, e.FlowRateOff)
		w.put(l.Exhaust, i, 4, 0, e.HoursPerDay)
		w.put(l.Exhaust, i, 5, 0, e.DaysPerWeek)
	}
	out := w.done(r, "ventilation")

	if len(systems) == 0 || l.ScheduleSheet == "" {
		return out
	}
	if len(systems) > 1 {
		r.AddInfo(validation.Result{
			Level:   validation.LevelExport,
			Kind:    validation.KindCapacity,
			Path:    l.ScheduleSheet,
			Message: fmt.Sprintf("the workbook takes one schedule; using %q's", systems[0].Name),
		})
	}
	sw := &writer{sheet: l.ScheduleSheet}
	sched := Table{Anchor: l.ScheduleAnchor, Capacity: 3, Step: 1}
	s := systems[0].Schedule
	for i, pair := range [][2]float64{{s.SpeedHigh, s.TimeHigh}, {s.SpeedMed, s.TimeMed}, {s.SpeedLow, s.TimeLow}} {
		sw.put(sched, i, 0, 0, pair[0])
		sw.put(sched, i, 1, 0, pair[1])
	}
	return append(out, sw.done(r, "schedule")...)
}

// AssemblyCells writes one block per assembly: name, then Rsi and Rse,
// then one row per layer with name, conductivity and thickness in mm.
// Layers whose conductivity cannot be resolved are written without it.
func AssemblyCells(assemblies []construction.Assembly, l AssemblyLayout, r *validation.Report) []CellWrite {
	if r == nil {
		r = validation.NewReport()
	}
	w := &writer{sheet: l.Sheet}
	if len(assemblies) > l.Blocks.Capacity {
		capacityWarning(r, l.Sheet, "assemblies", len(assemblies), l.Blocks.Capacity)
		assemblies = assemblies[:l.Blocks.Capacity]
	}
	for i, a := range assemblies {
		w.put(l.Blocks, i, 0, 0, a.Name)
		w.put(l.Blocks, i, 1, 1, a.Rsi)
		w.put(l.Blocks, i, 1, 2, a.Rse)

		layers := a.Layers
		if len(layers) > l.MaxLayers {
			capacityWarning(r, l.Sheet, fmt.Sprintf("layers in %q", a.Name), len(layers), l.MaxLayers)
			layers = layers[:l.MaxLayers]
		}
		for j, layer := range layers {
			row := 4 + j
			w.put(l.Blocks, i, 0, row, layer.Name)
			if lambda, ok := layer.ResolveConductivity(fmt.Sprintf("constructions[%d].layers[%d]", i, j), nil); ok {
				w.put(l.Blocks, i, 1, row, lambda)
			}
			w.put(l.Blocks, i, 2, row, layer.Thickness*1000)
		}
	}
	return w.done(r, "assemblies")
}

// All builds every write for one takeoff in sheet order.
func All(net *dhw.PipingNetwork, systems []*ventilation.VentilationSystem, assemblies []construction.Assembly, l Layout, r *validation.Report) []CellWrite {
	var out []CellWrite
	out = append(out, DHWCells(net, l.DHW, r)...)
	out = append(out, VentilationCells(systems, l.Ventilation, r)...)
	out = append(out, AssemblyCells(assemblies, l.Assemblies, r)...)
	return out
}
