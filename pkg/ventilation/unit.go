package ventilation

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/schedule"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Ventilator defaults.
const (
	DefaultHeatRecovery         = 0.75
	DefaultMoistureRecovery     = 0.0
	DefaultElectricalEfficiency = 0.45
	DefaultFrostProtectionTemp  = -5.0
)

// VentUnit is a heat or energy recovery ventilator.
type VentUnit struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	HeatRecovery         float64 `json:"heat_recovery"`
	MoistureRecovery     float64 `json:"moisture_recovery"`
	ElectricalEfficiency float64 `json:"electrical_efficiency"`
	FrostProtectionTemp  float64 `json:"frost_protection_temp"`
}

// DefaultUnit returns a unit with default performance values.
func DefaultUnit() VentUnit {
	return VentUnit{
		Name:                 "Unnamed_Vent_Unit",
		HeatRecovery:         DefaultHeatRecovery,
		MoistureRecovery:     DefaultMoistureRecovery,
		ElectricalEfficiency: DefaultElectricalEfficiency,
		FrostProtectionTemp:  DefaultFrostProtectionTemp,
	}
}

// BuildUnit converts raw unit values. Efficiencies given as percentages are
// brought onto 0..1.
func BuildUnit(def spec.VentUnitDef, ids metadata.IDSource, path string, r *validation.Report) VentUnit {
	if r == nil {
		r = validation.NewReport()
	}
	u := DefaultUnit()
	if def.Name != "" {
		u.Name = def.Name
	}
	u.HeatRecovery = fraction(def.HeatRecovery, u.HeatRecovery, path+".heat_recovery", r)
	u.MoistureRecovery = fraction(def.MoistureRecovery, u.MoistureRecovery, path+".moisture_recovery", r)
	u.ElectricalEfficiency = convert(def.ElectricalEfficiency, units.FanPower, u.ElectricalEfficiency, path+".electrical_efficiency", r)
	u.FrostProtectionTemp = convert(def.FrostProtectionTemp, units.Celsius, u.FrostProtectionTemp, path+".frost_protection_temp", r)
	if ids != nil {
		u.ID = ids.Next()
	}
	return u
}

func fraction(raw any, def float64, path string, r *validation.Report) float64 {
	v := convert(raw, units.Fraction, def, path, r)
	return *schedule.NormalizeFraction(&v)
}

// convert returns def for a missing value and reports values that fail.
func convert(raw any, tag string, def float64, path string, r *validation.Report) float64 {
	if raw == nil {
		return def
	}
	v, err := units.Convert(raw, tag)
	if err != nil {
		r.AddWarning(validation.Result{
			Level:       validation.LevelInput,
			Kind:        validation.KindUnitConversion,
			Path:        path,
			Message:     fmt.Sprintf("%v, using default %g", err, def),
			ActualValue: raw,
		})
		return def
	}
	return v
}
