package ventilation

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/schedule"
)

func (s DuctSegment) ToMap() metadata.Mapping {
	return metadata.Mapping{
		"id":                      s.ID,
		"length":                  s.Length,
		"width":                   s.Width,
		"insulation_thickness":    s.InsulationThickness,
		"insulation_conductivity": s.InsulationConductivity,
	}
}

// DuctSegmentFromMap rebuilds a duct segment. The id is required.
func DuctSegmentFromMap(m metadata.Mapping) (DuctSegment, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return DuctSegment{}, fmt.Errorf("duct segment: %w", err)
	}
	f := metadata.Read(m)
	s := DuctSegment{
		ID:                     id,
		Length:                 f.Float("length"),
		Width:                  f.Float("width"),
		InsulationThickness:    f.Float("insulation_thickness"),
		InsulationConductivity: f.Float("insulation_conductivity"),
	}
	if err := f.Err(); err != nil {
		return DuctSegment{}, fmt.Errorf("duct segment %d: %w", id, err)
	}
	return s, nil
}

func (d Duct) ToMap() metadata.Mapping {
	segs := make([]any, len(d.Segments))
	for i, s := range d.Segments {
		segs[i] = s.ToMap()
	}
	return metadata.Mapping{"id": d.ID, "segments": segs}
}

// DuctFromMap rebuilds a duct, keeping segment order.
func DuctFromMap(m metadata.Mapping) (Duct, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return Duct{}, fmt.Errorf("duct: %w", err)
	}
	f := metadata.Read(m)
	raw := f.List("segments")
	if err := f.Err(); err != nil {
		return Duct{}, fmt.Errorf("duct %d: %w", id, err)
	}
	d := Duct{ID: id, Segments: make([]DuctSegment, 0, len(raw))}
	for _, sm := range raw {
		s, err := DuctSegmentFromMap(sm)
		if err != nil {
			return Duct{}, fmt.Errorf("duct %d: %w", id, err)
		}
		d.Segments = append(d.Segments, s)
	}
	return d, nil
}

func (u VentUnit) ToMap() metadata.Mapping {
	return metadata.Mapping{
		"id":                    u.ID,
		"name":                  u.Name,
		"heat_recovery":         u.HeatRecovery,
		"moisture_recovery":     u.MoistureRecovery,
		"electrical_efficiency": u.ElectricalEfficiency,
		"frost_protection_temp": u.FrostProtectionTemp,
	}
}

func UnitFromMap(m metadata.Mapping) (VentUnit, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return VentUnit{}, fmt.Errorf("vent unit: %w", err)
	}
	f := metadata.Read(m)
	u := VentUnit{
		ID:                   id,
		Name:                 f.String("name"),
		HeatRecovery:         f.Float("heat_recovery"),
		MoistureRecovery:     f.Float("moisture_recovery"),
		ElectricalEfficiency: f.Float("electrical_efficiency"),
		FrostProtectionTemp:  f.Float("frost_protection_temp"),
	}
	if err := f.Err(); err != nil {
		return VentUnit{}, fmt.Errorf("vent unit %d: %w", id, err)
	}
	return u, nil
}

func (e ExhaustVentUnit) ToMap() metadata.Mapping {
	return metadata.Mapping{
		"id":            e.ID,
		"name":          e.Name,
		"device_type":   int(e.DeviceType),
		"flow_rate_on":  e.FlowRateOn,
		"flow_rate_off": e.FlowRateOff,
		"hours_per_day": e.HoursPerDay,
		"days_per_week": e.DaysPerWeek,
	}
}

func ExhaustFromMap(m metadata.Mapping) (ExhaustVentUnit, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return ExhaustVentUnit{}, fmt.Errorf("exhaust device: %w", err)
	}
	f := metadata.Read(m)
	e := ExhaustVentUnit{
		ID:          id,
		Name:        f.String("name"),
		DeviceType:  DeviceType(f.Int("device_type")),
		FlowRateOn:  f.Float("flow_rate_on"),
		FlowRateOff: f.Float("flow_rate_off"),
		HoursPerDay: f.Float("hours_per_day"),
		DaysPerWeek: f.Float("days_per_week"),
	}
	if err := f.Err(); err != nil {
		return ExhaustVentUnit{}, fmt.Errorf("exhaust device %d: %w", id, err)
	}
	if _, ok := deviceNames[e.DeviceType]; !ok {
		return ExhaustVentUnit{}, fmt.Errorf("exhaust device %d: %w: device type %d", id, metadata.ErrMalformed, e.DeviceType)
	}
	return e, nil
}

// ToMap returns the nested serialized form of the system.
func (s *VentilationSystem) ToMap() metadata.Mapping {
	devices := make([]any, len(s.ExhaustDevices))
	for i, e := range s.ExhaustDevices {
		devices[i] = e.ToMap()
	}
	return metadata.Mapping{
		"id":              s.ID,
		"name":            s.Name,
		"type":            int(s.Type),
		"unit":            s.Unit.ToMap(),
		"duct_01":         s.Duct01.ToMap(),
		"duct_02":         s.Duct02.ToMap(),
		"exhaust_devices": devices,
		"schedule":        s.Schedule.ToMap(),
	}
}

// SystemFromMap rebuilds a system. A missing id or a malformed nested
// value fails this system only.
func SystemFromMap(m metadata.Mapping) (*VentilationSystem, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return nil, fmt.Errorf("ventilation system: %w", err)
	}
	f := metadata.Read(m)
	s := &VentilationSystem{
		ID:   id,
		Name: f.String("name"),
		Type: SystemType(f.Int("type")),
	}
	unit := f.Map("unit")
	d1 := f.Map("duct_01")
	d2 := f.Map("duct_02")
	devices := f.List("exhaust_devices")
	sched := f.Map("schedule")
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("ventilation system %d: %w", id, err)
	}
	if _, ok := systemTypeNames[s.Type]; !ok {
		return nil, fmt.Errorf("ventilation system %d: %w: type %d", id, metadata.ErrMalformed, s.Type)
	}

	wrap := func(err error) error { return fmt.Errorf("ventilation system %d: %w", id, err) }
	if s.Unit, err = UnitFromMap(unit); err != nil {
		return nil, wrap(err)
	}
	if s.Duct01, err = DuctFromMap(d1); err != nil {
		return nil, wrap(err)
	}
	if s.Duct02, err = DuctFromMap(d2); err != nil {
		return nil, wrap(err)
	}
	s.ExhaustDevices = make([]ExhaustVentUnit, 0, len(devices))
	for _, dm := range devices {
		e, err := ExhaustFromMap(dm)
		if err != nil {
			return nil, wrap(err)
		}
		s.ExhaustDevices = append(s.ExhaustDevices, e)
	}
	if s.Schedule, err = schedule.FromMap(sched); err != nil {
		return nil, wrap(fmt.Errorf("%w: %v", metadata.ErrMalformed, err))
	}
	return s, nil
}
