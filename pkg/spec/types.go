package spec

// Project is the top-level input for one PHPP takeoff run.
type Project struct {
	SpecVersion   string                `yaml:"spec_version" json:"spec_version"`
	Name          string                `yaml:"name" json:"name"`
	Curves        map[string][]CurveDef `yaml:"curves" json:"curves,omitempty"`
	Offsets       []OffsetDef           `yaml:"offsets" json:"offsets,omitempty"`
	DHW           DHWDef                `yaml:"dhw" json:"dhw"`
	Ventilation   VentilationDef        `yaml:"ventilation" json:"ventilation"`
	Constructions []AssemblyDef         `yaml:"constructions" json:"constructions,omitempty"`
}

// CurveDef is one run of points under a curve handle. Points carry two or
// three coordinates; a missing elevation is 0.
type CurveDef struct {
	Points  [][]float64 `yaml:"points" json:"points"`
	Closed  bool        `yaml:"closed" json:"closed,omitempty"`
	Smooth  bool        `yaml:"smooth" json:"smooth,omitempty"`
	Samples int         `yaml:"samples" json:"samples,omitempty"`
}

// OffsetDef derives a new curve handle by offsetting an existing one.
type OffsetDef struct {
	Handle    string `yaml:"handle" json:"handle"`
	Base      string `yaml:"base" json:"base"`
	Distance  any    `yaml:"distance" json:"distance"`
	BothSides bool   `yaml:"both_sides" json:"both_sides,omitempty"`
}

// DHWDef describes the domestic hot water distribution network.
type DHWDef struct {
	Name              string       `yaml:"name" json:"name"`
	TapOpeningsPerDay *float64     `yaml:"tap_openings_per_day" json:"tap_openings_per_day,omitempty"`
	UtilisationDays   *float64     `yaml:"utilisation_days_per_year" json:"utilisation_days_per_year,omitempty"`
	Branches          []PipeRunDef `yaml:"branches" json:"branches,omitempty"`
	Recirculation     []PipeRunDef `yaml:"recirculation" json:"recirculation,omitempty"`
}

// PipeRunDef is a branch or recirculation loop. PipeSegments mixes lengths,
// unit strings and curve handles; every attribute list is broadcast against
// the resolved segments.
type PipeRunDef struct {
	ID                     string   `yaml:"id" json:"id"`
	PipeSegments           []any    `yaml:"pipe_segments" json:"pipe_segments"`
	Diameters              []any    `yaml:"diameters" json:"diameters,omitempty"`
	InsulationThickness    []any    `yaml:"insulation_thickness" json:"insulation_thickness,omitempty"`
	InsulationConductivity []any    `yaml:"insulation_conductivity" json:"insulation_conductivity,omitempty"`
	InsulationReflective   []bool   `yaml:"insulation_reflective" json:"insulation_reflective,omitempty"`
	InsulationQuality      []string `yaml:"insulation_quality" json:"insulation_quality,omitempty"`
	DailyPeriod            []any    `yaml:"daily_period" json:"daily_period,omitempty"`
}

// VentilationDef lists the ventilation systems of the building.
type VentilationDef struct {
	Systems []VentSystemDef `yaml:"systems" json:"systems"`
}

// VentSystemDef is one ventilation system. ID is set when the system was
// created by an earlier run and must keep its identifier.
type VentSystemDef struct {
	ID             *int         `yaml:"id" json:"id,omitempty"`
	Name           string       `yaml:"name" json:"name"`
	Type           string       `yaml:"type" json:"type"`
	Unit           VentUnitDef  `yaml:"unit" json:"unit"`
	Duct01         *DuctDef     `yaml:"duct_01" json:"duct_01,omitempty"`
	Duct02         *DuctDef     `yaml:"duct_02" json:"duct_02,omitempty"`
	ExhaustDevices []ExhaustDef `yaml:"exhaust_devices" json:"exhaust_devices,omitempty"`
	Schedule       ScheduleDef  `yaml:"schedule" json:"schedule"`
}

// VentUnitDef holds the ventilator's performance values; each may be a
// number or a string with a unit suffix.
type VentUnitDef struct {
	Name                 string `yaml:"name" json:"name"`
	HeatRecovery         any    `yaml:"heat_recovery" json:"heat_recovery,omitempty"`
	MoistureRecovery     any    `yaml:"moisture_recovery" json:"moisture_recovery,omitempty"`
	ElectricalEfficiency any    `yaml:"electrical_efficiency" json:"electrical_efficiency,omitempty"`
	FrostProtectionTemp  any    `yaml:"frost_protection_temp" json:"frost_protection_temp,omitempty"`
}

// DuctDef is a duct run between the unit and the thermal envelope.
type DuctDef struct {
	Lengths                []any `yaml:"duct_length" json:"duct_length"`
	Widths                 []any `yaml:"duct_width" json:"duct_width,omitempty"`
	InsulationThickness    []any `yaml:"insulation_thickness" json:"insulation_thickness,omitempty"`
	InsulationConductivity []any `yaml:"insulation_conductivity" json:"insulation_conductivity,omitempty"`
}

// ExhaustDef is an extract-only device such as a kitchen hood or dryer.
type ExhaustDef struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	FlowRateOn  any    `yaml:"flow_rate_on" json:"flow_rate_on,omitempty"`
	FlowRateOff any    `yaml:"flow_rate_off" json:"flow_rate_off,omitempty"`
	HoursPerDay any    `yaml:"hours_per_day" json:"hours_per_day,omitempty"`
	DaysPerWeek any    `yaml:"days_per_week" json:"days_per_week,omitempty"`
}

// ScheduleDef holds fan speeds and operating-time shares, each given as a
// fraction or a percentage.
type ScheduleDef struct {
	SpeedHigh *float64 `yaml:"speed_high" json:"speed_high,omitempty"`
	SpeedMed  *float64 `yaml:"speed_med" json:"speed_med,omitempty"`
	SpeedLow  *float64 `yaml:"speed_low" json:"speed_low,omitempty"`
	TimeHigh  *float64 `yaml:"time_high" json:"time_high,omitempty"`
	TimeMed   *float64 `yaml:"time_med" json:"time_med,omitempty"`
	TimeLow   *float64 `yaml:"time_low" json:"time_low,omitempty"`
}

// AssemblyDef is a construction build-up, outside to inside.
type AssemblyDef struct {
	Name   string     `yaml:"name" json:"name"`
	Layers []LayerDef `yaml:"layers" json:"layers"`
}

// LayerDef is one material layer. Any of conductivity, resistivity or
// u_value may be given.
type LayerDef struct {
	Name         string `yaml:"name" json:"name"`
	Thickness    any    `yaml:"thickness" json:"thickness"`
	Conductivity any    `yaml:"conductivity" json:"conductivity,omitempty"`
	Resistivity  any    `yaml:"resistivity" json:"resistivity,omitempty"`
	UValue       any    `yaml:"u_value" json:"u_value,omitempty"`
}
