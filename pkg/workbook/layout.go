// Package workbook turns takeoff results into (sheet, range, value) cell
// writes for a PHPP workbook and writes them through a Session.
package workbook

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// CellWrite is one value destined for a worksheet range in A1 notation.
// Value is a string or a number.
type CellWrite struct {
	Sheet string `json:"sheet"`
	Range string `json:"range"`
	Value any    `json:"value"`
}

// Table is a block of repeated entries. Entry i starts at Anchor moved by
// i*Step along the table's direction; Capacity bounds the entry count.
type Table struct {
	Anchor   string `yaml:"anchor" json:"anchor"`
	Capacity int    `yaml:"capacity" json:"capacity"`
	Step     int    `yaml:"step" json:"step"`
	// Columns lays entries out left to right; otherwise top to bottom.
	Columns bool `yaml:"columns" json:"columns"`
}

// Cell returns the cell for entry i at offset (dCol, dRow) from the entry's
// origin.
func (t Table) Cell(i, dCol, dRow int) (string, error) {
	step := t.Step
	if step == 0 {
		step = 1
	}
	if t.Columns {
		return Offset(t.Anchor, i*step+dCol, dRow)
	}
	return Offset(t.Anchor, dCol, i*step+dRow)
}

// DHWLayout places the hot water distribution inputs.
type DHWLayout struct {
	Sheet             string `yaml:"sheet" json:"sheet"`
	TapOpeningsPerDay string `yaml:"tap_openings_per_day" json:"tap_openings_per_day"`
	UtilisationDays   string `yaml:"utilisation_days" json:"utilisation_days"`
	Recirculation     Table  `yaml:"recirculation" json:"recirculation"`
	Branches          Table  `yaml:"branches" json:"branches"`
}

// VentilationLayout places units, ducts, exhaust devices and the schedule.
type VentilationLayout struct {
	Sheet          string `yaml:"sheet" json:"sheet"`
	Units          Table  `yaml:"units" json:"units"`
	Ducts          Table  `yaml:"ducts" json:"ducts"`
	Exhaust        Table  `yaml:"exhaust" json:"exhaust"`
	ScheduleSheet  string `yaml:"schedule_sheet" json:"schedule_sheet"`
	ScheduleAnchor string `yaml:"schedule_anchor" json:"schedule_anchor"`
}

// AssemblyLayout places construction build-ups; each assembly is a block
// of rows with up to MaxLayers layers.
type AssemblyLayout struct {
	Sheet     string `yaml:"sheet" json:"sheet"`
	Blocks    Table  `yaml:"blocks" json:"blocks"`
	MaxLayers int    `yaml:"max_layers" json:"max_layers"`
}

// Layout maps results onto workbook cells.
type Layout struct {
	DHW         DHWLayout         `yaml:"dhw" json:"dhw"`
	Ventilation VentilationLayout `yaml:"ventilation" json:"ventilation"`
	Assemblies  AssemblyLayout    `yaml:"assemblies" json:"assemblies"`
}

// DefaultLayout matches the PHPP 10 worksheets.
func DefaultLayout() Layout {
	return Layout{
		DHW: DHWLayout{
			Sheet:             "DHW+Distribution",
			TapOpeningsPerDay: "J20",
			UtilisationDays:   "J21",
			Recirculation:     Table{Anchor: "J149", Capacity: 5, Step: 1, Columns: true},
			Branches:          Table{Anchor: "J167", Capacity: 5, Step: 1, Columns: true},
		},
		Ventilation: VentilationLayout{
			Sheet:          "Additional Vent",
			Units:          Table{Anchor: "D97", Capacity: 10, Step: 1},
			Ducts:          Table{Anchor: "D127", Capacity: 20, Step: 1},
			Exhaust:        Table{Anchor: "D170", Capacity: 8, Step: 1},
			ScheduleSheet:  "Ventilation",
			ScheduleAnchor: "J29",
		},
		Assemblies: AssemblyLayout{
			Sheet:     "U-Values",
			Blocks:    Table{Anchor: "L10", Capacity: 100, Step: 21},
			MaxLayers: 8,
		},
	}
}

// LoadLayout reads a layout override from YAML. Sections left out of the
// file keep their DefaultLayout placement.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	data, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("reading layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parsing layout: %w", err)
	}
	return l, nil
}

// Offset moves a cell name by dCol columns and dRow rows.
func Offset(cell string, dCol, dRow int) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return "", fmt.Errorf("offset %s: %w", cell, err)
	}
	return excelize.CoordinatesToCellName(col+dCol, row+dRow)
}

// TopLeft returns the first cell of a range such as "J149:J151".
func TopLeft(rng string) string {
	first, _, _ := strings.Cut(rng, ":")
	return strings.TrimSpace(first)
}
