package ventilation

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/phppkit/pkg/lengths"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/schedule"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// SystemType is the ventilation strategy.
type SystemType int

const (
	BalancedHR SystemType = iota + 1
	ExtractOnly
	WindowOnly
)

var systemTypeNames = map[SystemType]string{
	BalancedHR:  "Balanced PH ventilation with HR",
	ExtractOnly: "Extract air unit",
	WindowOnly:  "Only window ventilation",
}

func (t SystemType) String() string {
	if s, ok := systemTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("SystemType(%d)", int(t))
}

// Code is the workbook's drop-down label, e.g. "1-Balanced PH ventilation with HR".
func (t SystemType) Code() string {
	return fmt.Sprintf("%d-%s", int(t), t)
}

// ParseSystemType accepts short names ("balanced_hr"), full labels and
// workbook codes.
func ParseSystemType(s string) (SystemType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(key, '-'); i > 0 {
		key = key[:i]
	}
	key = strings.NewReplacer("_", "", " ", "").Replace(key)
	switch key {
	case "", "1", "balancedhr", "balanced", "balancedphventilationwithhr":
		return BalancedHR, nil
	case "2", "extractonly", "extract", "extractairunit":
		return ExtractOnly, nil
	case "3", "windowonly", "window", "onlywindowventilation":
		return WindowOnly, nil
	}
	return BalancedHR, fmt.Errorf("unknown ventilation system type %q", s)
}

// VentilationSystem is one ventilator with its ducts, extra exhaust devices
// and schedule. ID is assigned once at assembly.
type VentilationSystem struct {
	ID             int                   `json:"id"`
	Name           string                `json:"name"`
	Type           SystemType            `json:"type"`
	Unit           VentUnit              `json:"unit"`
	Duct01         Duct                  `json:"duct_01"`
	Duct02         Duct                  `json:"duct_02"`
	ExhaustDevices []ExhaustVentUnit     `json:"exhaust_devices"`
	Schedule       schedule.VentSchedule `json:"schedule"`
}

// AssembleInput carries already-converted parts. Ducts may be raw or
// built; a nil duct becomes an empty one. A zero ID means "assign one".
type AssembleInput struct {
	ID             int
	Name           string
	Type           SystemType
	Unit           VentUnit
	Duct01         DuctInput
	Duct02         DuctInput
	ExhaustDevices []ExhaustVentUnit
	Schedule       *schedule.VentSchedule
}

// Assembler builds systems. IDs defaults to RandomIDs; Measurer resolves
// curve handles in raw duct lengths and may be nil.
type Assembler struct {
	IDs      metadata.IDSource
	Measurer lengths.Measurer
}

func (a Assembler) ids() metadata.IDSource {
	if a.IDs == nil {
		return metadata.RandomIDs{}
	}
	return a.IDs
}

// Assemble composes a system. The schedule is checked and an imbalance is
// reported without changing it.
func (a Assembler) Assemble(in AssembleInput, path string, r *validation.Report) *VentilationSystem {
	if r == nil {
		r = validation.NewReport()
	}
	ids := a.ids()

	sys := &VentilationSystem{
		ID:             in.ID,
		Name:           in.Name,
		Type:           in.Type,
		Unit:           in.Unit,
		ExhaustDevices: append([]ExhaustVentUnit{}, in.ExhaustDevices...),
		Schedule:       schedule.Default(),
	}
	if sys.ID == 0 {
		sys.ID = ids.Next()
	}
	if sys.Type == 0 {
		sys.Type = BalancedHR
	}
	if sys.Name == "" {
		sys.Name = fmt.Sprintf("Vent_System_%d", sys.ID)
	}
	if in.Schedule != nil {
		sys.Schedule = *in.Schedule
	}
	sys.Duct01 = ResolveDuct(in.Duct01, a.Measurer, ids, r)
	sys.Duct02 = ResolveDuct(in.Duct02, a.Measurer, ids, r)

	if res := schedule.Validate(sys.Schedule); res != nil {
		res.Path = path + ".schedule"
		r.AddWarning(*res)
	}
	return sys
}

// Build converts one project system definition and assembles it.
func (a Assembler) Build(def spec.VentSystemDef, path string, r *validation.Report) *VentilationSystem {
	if r == nil {
		r = validation.NewReport()
	}
	ids := a.ids()

	typ, err := ParseSystemType(def.Type)
	if err != nil {
		r.Warnf(validation.LevelInput, validation.KindInvalidValue, path+".type", "%v, using %s", err, typ)
	}

	in := AssembleInput{Name: def.Name, Type: typ, Schedule: scheduleFrom(def.Schedule)}
	if def.ID != nil {
		in.ID = *def.ID
	} else {
		in.ID = ids.Next()
	}
	in.Unit = BuildUnit(def.Unit, ids, path+".unit", r)
	if def.Duct01 != nil {
		in.Duct01 = RawDuct{Def: *def.Duct01, Path: path + ".duct_01"}
	}
	if def.Duct02 != nil {
		in.Duct02 = RawDuct{Def: *def.Duct02, Path: path + ".duct_02"}
	}
	for i, e := range def.ExhaustDevices {
		in.ExhaustDevices = append(in.ExhaustDevices, BuildExhaust(e, ids, fmt.Sprintf("%s.exhaust_devices[%d]", path, i), r))
	}
	return a.Assemble(in, path, r)
}

// BuildAll assembles every system of the project in order.
func (a Assembler) BuildAll(def spec.VentilationDef, r *validation.Report) []*VentilationSystem {
	out := make([]*VentilationSystem, 0, len(def.Systems))
	for i, s := range def.Systems {
		out = append(out, a.Build(s, fmt.Sprintf("ventilation.systems[%d]", i), r))
	}
	return out
}

func scheduleFrom(d spec.ScheduleDef) *schedule.VentSchedule {
	s := schedule.New(schedule.Input{
		SpeedHigh: d.SpeedHigh,
		SpeedMed:  d.SpeedMed,
		SpeedLow:  d.SpeedLow,
		TimeHigh:  d.TimeHigh,
		TimeMed:   d.TimeMed,
		TimeLow:   d.TimeLow,
	})
	return &s
}

// Totals aggregates both ducts of the system.
func (s *VentilationSystem) Totals() (duct01, duct02 DuctTotals) {
	return AggregateDuct(s.Duct01), AggregateDuct(s.Duct02)
}

// ExhaustFlow is the summed on-mode flow of all exhaust devices in m³/h.
func (s *VentilationSystem) ExhaustFlow() float64 {
	total := 0.0
	for _, e := range s.ExhaustDevices {
		total += e.FlowRateOn
	}
	return total
}
