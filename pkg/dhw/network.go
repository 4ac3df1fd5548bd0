package dhw

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/lengths"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Network defaults.
const (
	DefaultTapOpeningsPerDay      = 6.0
	DefaultUtilisationDaysPerYear = 365.0
)

// ErrDuplicateBranch is returned when a branch or loop id is reused.
var ErrDuplicateBranch = errors.New("duplicate branch id")

// Branch is a named group of pipe segments. Recirculation loops share the
// same shape. A branch with no segments contributes nothing.
type Branch struct {
	ID       string        `json:"id"`
	Segments []PipeSegment `json:"segments"`
}

// Length is the summed segment length.
func (b Branch) Length() float64 {
	total := 0.0
	for _, s := range b.Segments {
		total += s.Length
	}
	return total
}

// PipingNetwork is the hot water distribution of one building.
type PipingNetwork struct {
	ID                     int      `json:"id"`
	Name                   string   `json:"name"`
	TapOpeningsPerDay      float64  `json:"tap_openings_per_day"`
	UtilisationDaysPerYear float64  `json:"utilisation_days_per_year"`
	Branches               []Branch `json:"branches"`
	Recirculation          []Branch `json:"recirculation"`
}

// NewPipingNetwork returns an empty network with default usage figures.
func NewPipingNetwork(name string) *PipingNetwork {
	return &PipingNetwork{
		Name:                   name,
		TapOpeningsPerDay:      DefaultTapOpeningsPerDay,
		UtilisationDaysPerYear: DefaultUtilisationDaysPerYear,
		Branches:               []Branch{},
		Recirculation:          []Branch{},
	}
}

// AddBranch appends a branch; ids must be unique among branches.
func (n *PipingNetwork) AddBranch(b Branch) error {
	if hasID(n.Branches, b.ID) {
		return fmt.Errorf("branch %q: %w", b.ID, ErrDuplicateBranch)
	}
	n.Branches = append(n.Branches, b)
	return nil
}

// AddLoop appends a recirculation loop; ids must be unique among loops.
func (n *PipingNetwork) AddLoop(b Branch) error {
	if hasID(n.Recirculation, b.ID) {
		return fmt.Errorf("loop %q: %w", b.ID, ErrDuplicateBranch)
	}
	n.Recirculation = append(n.Recirculation, b)
	return nil
}

func hasID(bs []Branch, id string) bool {
	for _, b := range bs {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Build resolves the project's DHW section into a network.
func Build(def spec.DHWDef, m lengths.Measurer, ids metadata.IDSource, r *validation.Report) *PipingNetwork {
	if r == nil {
		r = validation.NewReport()
	}
	net := NewPipingNetwork(def.Name)
	if net.Name == "" {
		net.Name = "DHW"
	}
	if ids != nil {
		net.ID = ids.Next()
	}
	if def.TapOpeningsPerDay != nil {
		net.TapOpeningsPerDay = *def.TapOpeningsPerDay
	}
	if def.UtilisationDays != nil {
		net.UtilisationDaysPerYear = *def.UtilisationDays
	}
	if net.UtilisationDaysPerYear < 0 || net.UtilisationDaysPerYear > 366 {
		r.Warnf(validation.LevelInput, validation.KindInvalidValue, "dhw.utilisation_days_per_year",
			"utilisation %g days/year outside 0..366, using %g", net.UtilisationDaysPerYear, DefaultUtilisationDaysPerYear)
		net.UtilisationDaysPerYear = DefaultUtilisationDaysPerYear
	}

	for i, b := range def.Branches {
		path := fmt.Sprintf("dhw.branches[%d]", i)
		branch := Branch{ID: runID(b.ID, "branch", i), Segments: BuildSegments(b, m, ids, path, r)}
		if err := net.AddBranch(branch); err != nil {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, path, "%v, branch skipped", err)
		}
	}
	for i, b := range def.Recirculation {
		path := fmt.Sprintf("dhw.recirculation[%d]", i)
		loop := Branch{ID: runID(b.ID, "loop", i), Segments: BuildSegments(b, m, ids, path, r)}
		if err := net.AddLoop(loop); err != nil {
			r.Warnf(validation.LevelInput, validation.KindInvalidValue, path, "%v, loop skipped", err)
		}
	}
	return net
}

func runID(id, prefix string, i int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, i+1)
}
