// Package dhw builds domestic hot water piping quantities: segments, the
// branches and recirculation loops that own them, and network totals.
package dhw

import (
	"fmt"
	"strings"
)

// Segment defaults, in metres and W/(m·K).
const (
	DefaultDiameter               = 0.0127
	DefaultInsulationThickness    = 0.0
	DefaultInsulationConductivity = 0.04
	DefaultDailyPeriodHours       = 24.0
)

// InsulationQuality grades how well pipe insulation is installed.
type InsulationQuality int

const (
	QualityNone InsulationQuality = iota
	QualityModerate
	QualityGood
)

var qualityNames = [...]string{"None", "Moderate", "Good"}

func (q InsulationQuality) String() string {
	if q < QualityNone || q > QualityGood {
		return fmt.Sprintf("InsulationQuality(%d)", int(q))
	}
	return qualityNames[q]
}

// Code is the workbook's drop-down label, e.g. "3-Good".
func (q InsulationQuality) Code() string {
	return fmt.Sprintf("%d-%s", int(q)+1, q)
}

func (q InsulationQuality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *InsulationQuality) UnmarshalText(b []byte) error {
	v, err := ParseQuality(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// ParseQuality accepts a name ("good"), a code ("3-Good") or a bare code
// number ("3").
func ParseQuality(s string) (InsulationQuality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '-'); i > 0 {
		s = s[i+1:]
	}
	switch s {
	case "none", "1":
		return QualityNone, nil
	case "moderate", "2":
		return QualityModerate, nil
	case "good", "3":
		return QualityGood, nil
	}
	return QualityNone, fmt.Errorf("unknown insulation quality %q", s)
}

// PipeSegment is one straight run of hot water pipe with its insulation.
type PipeSegment struct {
	ID                     int               `json:"id"`
	Length                 float64           `json:"length"`
	Diameter               float64           `json:"diameter"`
	InsulationThickness    float64           `json:"insulation_thickness"`
	InsulationConductivity float64           `json:"insulation_conductivity"`
	InsulationReflective   bool              `json:"insulation_reflective"`
	InsulationQuality      InsulationQuality `json:"insulation_quality"`
	DailyPeriodHours       float64           `json:"daily_period_hours"`
}

// NewPipeSegment returns a segment of the given length with default
// attributes.
func NewPipeSegment(length float64) PipeSegment {
	return PipeSegment{
		Length:                 length,
		Diameter:               DefaultDiameter,
		InsulationThickness:    DefaultInsulationThickness,
		InsulationConductivity: DefaultInsulationConductivity,
		InsulationQuality:      QualityNone,
		DailyPeriodHours:       DefaultDailyPeriodHours,
	}
}

// Validate checks the physical ranges of a segment.
func (s PipeSegment) Validate() error {
	switch {
	case s.Length <= 0:
		return fmt.Errorf("pipe length %g must be positive", s.Length)
	case s.Diameter <= 0:
		return fmt.Errorf("pipe diameter %g must be positive", s.Diameter)
	case s.InsulationThickness < 0:
		return fmt.Errorf("insulation thickness %g must not be negative", s.InsulationThickness)
	case s.InsulationConductivity <= 0:
		return fmt.Errorf("insulation conductivity %g must be positive", s.InsulationConductivity)
	case s.DailyPeriodHours < 0 || s.DailyPeriodHours > 24:
		return fmt.Errorf("daily period %g h outside 0..24", s.DailyPeriodHours)
	}
	return nil
}
