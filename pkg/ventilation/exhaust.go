package ventilation

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// DeviceType is the kind of extract-only device.
type DeviceType int

const (
	KitchenHood DeviceType = iota + 1
	Dryer
	UserDefined
)

var deviceNames = map[DeviceType]string{
	KitchenHood: "Kitchen hood",
	Dryer:       "Dryer",
	UserDefined: "User defined",
}

func (d DeviceType) String() string {
	if s, ok := deviceNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DeviceType(%d)", int(d))
}

// ParseDeviceType accepts "kitchen_hood", "Kitchen hood", "dryer", "user"
// and coded labels such as "1-Kitchen hood".
func ParseDeviceType(s string) (DeviceType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(key, '-'); i > 0 && isDigits(key[:i]) {
		key = key[:i]
	}
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "kitchenhood", "hood", "1":
		return KitchenHood, nil
	case "dryer", "2":
		return Dryer, nil
	case "userdefined", "user", "3":
		return UserDefined, nil
	}
	return 0, fmt.Errorf("unknown exhaust device type %q", s)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// Exhaust device defaults.
const (
	DefaultFlowRateOn  = 450.0
	DefaultFlowRateOff = 0.0
	DefaultHoursPerDay = 0.5
	DefaultDaysPerWeek = 7.0
)

// ExhaustVentUnit is an extract device that runs outside the balanced
// system, such as a kitchen hood.
type ExhaustVentUnit struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	DeviceType  DeviceType `json:"device_type"`
	FlowRateOn  float64    `json:"flow_rate_on"`
	FlowRateOff float64    `json:"flow_rate_off"`
	HoursPerDay float64    `json:"hours_per_day"`
	DaysPerWeek float64    `json:"days_per_week"`
}

// BuildExhaust converts a raw exhaust device.
func BuildExhaust(def spec.ExhaustDef, ids metadata.IDSource, path string, r *validation.Report) ExhaustVentUnit {
	if r == nil {
		r = validation.NewReport()
	}
	e := ExhaustVentUnit{
		Name:       def.Name,
		DeviceType: UserDefined,
	}
	if def.Type != "" {
		t, err := ParseDeviceType(def.Type)
		if err != nil {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, path+".type", "%v, using %s", err, UserDefined)
		} else {
			e.DeviceType = t
		}
	}
	if e.Name == "" {
		e.Name = e.DeviceType.String()
	}
	e.FlowRateOn = convert(def.FlowRateOn, units.CubicMPerH, DefaultFlowRateOn, path+".flow_rate_on", r)
	e.FlowRateOff = convert(def.FlowRateOff, units.CubicMPerH, DefaultFlowRateOff, path+".flow_rate_off", r)
	e.HoursPerDay = convert(def.HoursPerDay, units.Hours, DefaultHoursPerDay, path+".hours_per_day", r)
	e.DaysPerWeek = number(def.DaysPerWeek, DefaultDaysPerWeek, path+".days_per_week", r)

	if e.HoursPerDay < 0 || e.HoursPerDay > 24 {
		r.Warnf(validation.LevelInput, validation.KindInvalidValue, path+".hours_per_day",
			"%g hours/day outside 0..24, using %g", e.HoursPerDay, DefaultHoursPerDay)
		e.HoursPerDay = DefaultHoursPerDay
	}
	if e.DaysPerWeek < 0 || e.DaysPerWeek > 7 {
		r.Warnf(validation.LevelInput, validation.KindInvalidValue, path+".days_per_week",
			"%g days/week outside 0..7, using %g", e.DaysPerWeek, DefaultDaysPerWeek)
		e.DaysPerWeek = DefaultDaysPerWeek
	}
	if ids != nil {
		e.ID = ids.Next()
	}
	return e
}

// AnnualHours is the device's yearly run time.
func (e ExhaustVentUnit) AnnualHours() float64 {
	return e.HoursPerDay * e.DaysPerWeek * 52
}

func number(raw any, def float64, path string, r *validation.Report) float64 {
	if raw == nil {
		return def
	}
	v, ok := units.Numeric(raw)
	if !ok {
		r.Warnf(validation.LevelInput, validation.KindInvalidValue, path, "%v is not a number, using %g", raw, def)
		return def
	}
	return v
}
