// Package schedule normalises ventilation operating fractions.
package schedule

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Default fan speeds and operating times for a unit with no schedule input.
const (
	DefaultSpeedHigh = 1.0
	DefaultSpeedMed  = 0.77
	DefaultSpeedLow  = 0.4
	DefaultTimeHigh  = 0.0
	DefaultTimeMed   = 1.0
	DefaultTimeLow   = 0.0
)

// NormalizeFraction maps a value entered as a percentage (anything above 1)
// onto 0..1. Nil means "not provided" and is returned as nil; zero is kept.
// Values above 1 that are not percentages cannot be told apart.
func NormalizeFraction(x *float64) *float64 {
	if x == nil {
		return nil
	}
	v := *x
	if v > 1 {
		v /= 100
	}
	return &v
}

// VentSchedule is the share of operating time and relative fan speed at each
// of a unit's three speed settings.
type VentSchedule struct {
	SpeedHigh float64 `json:"speed_high" yaml:"speed_high"`
	SpeedMed  float64 `json:"speed_med" yaml:"speed_med"`
	SpeedLow  float64 `json:"speed_low" yaml:"speed_low"`
	TimeHigh  float64 `json:"time_high" yaml:"time_high"`
	TimeMed   float64 `json:"time_med" yaml:"time_med"`
	TimeLow   float64 `json:"time_low" yaml:"time_low"`
}

// Input holds optional raw schedule values; nil fields take defaults.
type Input struct {
	SpeedHigh *float64 `yaml:"speed_high"`
	SpeedMed  *float64 `yaml:"speed_med"`
	SpeedLow  *float64 `yaml:"speed_low"`
	TimeHigh  *float64 `yaml:"time_high"`
	TimeMed   *float64 `yaml:"time_med"`
	TimeLow   *float64 `yaml:"time_low"`
}

// Default returns the schedule used when none is given.
func Default() VentSchedule {
	return VentSchedule{
		SpeedHigh: DefaultSpeedHigh,
		SpeedMed:  DefaultSpeedMed,
		SpeedLow:  DefaultSpeedLow,
		TimeHigh:  DefaultTimeHigh,
		TimeMed:   DefaultTimeMed,
		TimeLow:   DefaultTimeLow,
	}
}

// New normalises the provided values over the defaults.
func New(in Input) VentSchedule {
	s := Default()
	set := func(dst *float64, src *float64) {
		if v := NormalizeFraction(src); v != nil {
			*dst = *v
		}
	}
	set(&s.SpeedHigh, in.SpeedHigh)
	set(&s.SpeedMed, in.SpeedMed)
	set(&s.SpeedLow, in.SpeedLow)
	set(&s.TimeHigh, in.TimeHigh)
	set(&s.TimeMed, in.TimeMed)
	set(&s.TimeLow, in.TimeLow)
	return s
}

// TimeTotal is the sum of the three operating-time fractions.
func (s VentSchedule) TimeTotal() float64 {
	return s.TimeHigh + s.TimeMed + s.TimeLow
}

// AverageSpeed is the time-weighted fan speed.
func (s VentSchedule) AverageSpeed() float64 {
	return s.SpeedHigh*s.TimeHigh + s.SpeedMed*s.TimeMed + s.SpeedLow*s.TimeLow
}

// Validate checks that the operating-time fractions sum to 1 after rounding
// to three places. It returns nil when they do and never modifies s.
func Validate(s VentSchedule) *validation.Result {
	total := math.Round(s.TimeTotal()*1000) / 1000
	if total == 1 {
		return nil
	}
	return &validation.Result{
		Level:       validation.LevelSchedule,
		Severity:    validation.SeverityWarning,
		Kind:        validation.KindScheduleImbalance,
		Message:     fmt.Sprintf("operating time fractions sum to %.3f, not 1.0 (high %.2f, med %.2f, low %.2f)", total, s.TimeHigh, s.TimeMed, s.TimeLow),
		ActualValue: total,
		Expected:    "1.0",
		Suggestions: []string{"Adjust time_high, time_med and time_low so they add up to 100%"},
	}
}

// ToMap returns the flat mapping form of s.
func (s VentSchedule) ToMap() map[string]any {
	return map[string]any{
		"speed_high": s.SpeedHigh,
		"speed_med":  s.SpeedMed,
		"speed_low":  s.SpeedLow,
		"time_high":  s.TimeHigh,
		"time_med":   s.TimeMed,
		"time_low":   s.TimeLow,
	}
}

// FromMap rebuilds a schedule from its mapping form. Every key is required.
func FromMap(m map[string]any) (VentSchedule, error) {
	var s VentSchedule
	fields := []struct {
		key string
		dst *float64
	}{
		{"speed_high", &s.SpeedHigh},
		{"speed_med", &s.SpeedMed},
		{"speed_low", &s.SpeedLow},
		{"time_high", &s.TimeHigh},
		{"time_med", &s.TimeMed},
		{"time_low", &s.TimeLow},
	}
	for _, f := range fields {
		raw, ok := m[f.key]
		if !ok {
			return VentSchedule{}, fmt.Errorf("schedule: missing %q", f.key)
		}
		v, ok := toFloat(raw)
		if !ok {
			return VentSchedule{}, fmt.Errorf("schedule: %q is %T, want number", f.key, raw)
		}
		*f.dst = v
	}
	return s, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
