// Package units converts user-entered scalars into the metric units the
// PHPP workbook expects. A bare number is taken to already be in the target
// unit; a string carrying a unit suffix ("40 cfm", "78F", "R-10") is
// converted from that unit.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Family groups units that convert into one another.
type Family string

const (
	FamilyLength       Family = "length"
	FamilyTemperature  Family = "temperature"
	FamilyPower        Family = "power"
	FamilyFlow         Family = "flow"
	FamilyFraction     Family = "fraction"
	FamilyConductivity Family = "conductivity"
	FamilyFanPower     Family = "fan_power"
	FamilyResistance   Family = "resistance"
	FamilyUValue       Family = "u_value"
	FamilyTime         Family = "time"
)

// Common target tags.
const (
	Meter        = "M"
	Millimeter   = "MM"
	Celsius      = "C"
	Watt         = "W"
	CubicMPerH   = "M3/H"
	Fraction     = "W/W"
	Percent      = "%"
	Conductivity = "W/MK"
	FanPower     = "WH/M3"
	RSI          = "M2K/W"
	UValue       = "W/M2K"
	Hours        = "HOURS"
)

// unit converts to the family base as base = v*scale + offset.
type unit struct {
	family Family
	scale  float64
	offset float64
}

var table = map[string]unit{}

func register(u unit, names ...string) {
	for _, n := range names {
		table[normalize(n)] = u
	}
}

func init() {
	// Length, base metre.
	register(unit{FamilyLength, 1, 0}, "m", "meter", "meters", "metre", "metres")
	register(unit{FamilyLength, 0.001, 0}, "mm", "millimeter", "millimeters")
	register(unit{FamilyLength, 0.01, 0}, "cm")
	register(unit{FamilyLength, 0.0254, 0}, "in", "inch", "inches", `"`)
	register(unit{FamilyLength, 0.3048, 0}, "ft", "foot", "feet", "'")
	register(unit{FamilyLength, 0.9144, 0}, "yd", "yard", "yards")

	// Temperature, base degree Celsius.
	register(unit{FamilyTemperature, 1, 0}, "c", "degc", "celsius")
	register(unit{FamilyTemperature, 5.0 / 9.0, -160.0 / 9.0}, "f", "degf", "fahrenheit")
	register(unit{FamilyTemperature, 1, -273.15}, "k", "kelvin")

	// Power, base watt.
	register(unit{FamilyPower, 1, 0}, "w", "watt", "watts")
	register(unit{FamilyPower, 1000, 0}, "kw")
	register(unit{FamilyPower, 0.29307107, 0}, "btu/h", "btuh", "btu/hr")
	register(unit{FamilyPower, 293.07107, 0}, "mbh", "kbtu/h")

	// Volume flow, base m³/h.
	register(unit{FamilyFlow, 1, 0}, "m3/h", "m3/hr", "cmh", "m³/h")
	register(unit{FamilyFlow, 1.6990108, 0}, "cfm", "ft3/min")
	register(unit{FamilyFlow, 3.6, 0}, "l/s")

	// Dimensionless fraction, base 0..1.
	register(unit{FamilyFraction, 1, 0}, "w/w", "-", "fraction")
	register(unit{FamilyFraction, 0.01, 0}, "%", "percent")

	// Thermal conductivity, base W/(m·K).
	register(unit{FamilyConductivity, 1, 0}, "w/mk", "w/m-k", "w/m.k")
	register(unit{FamilyConductivity, 1.7307347, 0}, "btu/hftf", "btu/h-ft-f")
	register(unit{FamilyConductivity, 0.14422789, 0}, "btuin/hft2f", "btu-in/h-ft2-f")

	// Specific fan power, base Wh/m³.
	register(unit{FamilyFanPower, 1, 0}, "wh/m3", "wh/m³")
	register(unit{FamilyFanPower, 1 / 1.6990108, 0}, "w/cfm")

	// Thermal resistance, base m²K/W.
	register(unit{FamilyResistance, 1, 0}, "m2k/w", "rsi")
	register(unit{FamilyResistance, 0.17611018, 0}, "h-ft2-f/btu", "hft2f/btu", "r-ip", "r")

	// U-value, base W/(m²K).
	register(unit{FamilyUValue, 1, 0}, "w/m2k", "w/m2-k")
	register(unit{FamilyUValue, 5.6782633, 0}, "btu/h-ft2-f", "btu/hft2f")

	// Time, base hour.
	register(unit{FamilyTime, 1, 0}, "h", "hour", "hours", "hrs")
	register(unit{FamilyTime, 1.0 / 60.0, 0}, "min", "minutes")
}

// ConversionError reports a value or tag that could not be converted.
type ConversionError struct {
	Value  any
	Tag    string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v to %s: %s", e.Value, e.Tag, e.Reason)
}

var (
	replacer = strings.NewReplacer(" ", "", "°", "", "·", "", "²", "2", "³", "3", "hr", "h")
	suffixed = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)\s*(.+)$`)
	rPrefix  = regexp.MustCompile(`^(?i)(rsi|r)\s*-?\s*(\d+\.?\d*|\.\d+)$`)
)

// Convert returns value expressed in the unit named by tag.
func Convert(value any, tag string) (float64, error) {
	target, ok := table[normalize(tag)]
	if !ok {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: "unknown unit tag"}
	}

	if v, ok := Numeric(value); ok {
		return v, nil
	}
	if isFloat(value) {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: "not a finite number"}
	}

	s, ok := value.(string)
	if !ok {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: fmt.Sprintf("unsupported type %T", value)}
	}
	s = strings.TrimSpace(s)

	var (
		digits string
		suffix string
	)
	if m := rPrefix.FindStringSubmatch(s); m != nil {
		digits, suffix = m[2], m[1]
	} else if m := suffixed.FindStringSubmatch(s); m != nil {
		digits, suffix = m[1], m[2]
	} else {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: "not a number"}
	}
	num, err := strconv.ParseFloat(digits, 64)
	if err != nil || !finite(num) {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: "not a finite number"}
	}

	source, ok := table[normalize(suffix)]
	if !ok {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: fmt.Sprintf("unknown unit %q", suffix)}
	}
	if source.family != target.family {
		return 0, &ConversionError{
			Value:  value,
			Tag:    tag,
			Reason: fmt.Sprintf("%s is a %s unit, want %s", suffix, source.family, target.family),
		}
	}

	base := num*source.scale + source.offset
	out := (base - target.offset) / target.scale
	if !finite(out) {
		return 0, &ConversionError{Value: value, Tag: tag, Reason: "result is not a finite number"}
	}
	return out, nil
}

// Numeric reports whether value is a plain finite number (or a string
// holding one) and returns it. NaN and infinities are not numbers here.
func Numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, finite(v)
	case float32:
		return float64(v), finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isFloat(value any) bool {
	switch value.(type) {
	case float64, float32:
		return true
	}
	return false
}

// FamilyOf returns the family of a unit tag.
func FamilyOf(tag string) (Family, bool) {
	u, ok := table[normalize(tag)]
	return u.family, ok
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return replacer.Replace(s)
}
