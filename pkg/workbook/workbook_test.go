package workbook

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/phppkit/pkg/construction"
	"github.com/ChicagoDave/phppkit/pkg/dhw"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/validation"
	"github.com/ChicagoDave/phppkit/pkg/ventilation"
)

func ptr(v float64) *float64 { return &v }

func defaultNetwork() *dhw.PipingNetwork {
	return dhw.Build(spec.DHWDef{
		Branches: []spec.PipeRunDef{{ID: "kitchen", PipeSegments: []any{10, 15}, Diameters: []any{0.02}}},
		Recirculation: []spec.PipeRunDef{{
			ID:                "loop",
			PipeSegments:      []any{4, 20},
			InsulationQuality: []string{"moderate", "good"},
		}},
	}, nil, nil, nil)
}

func defaultSystems() []*ventilation.VentilationSystem {
	a := ventilation.Assembler{IDs: &metadata.SequentialIDs{Start: 1000}}
	return a.BuildAll(spec.VentilationDef{Systems: []spec.VentSystemDef{{
		Name:           "ERV-1",
		Unit:           spec.VentUnitDef{Name: "Q350", HeatRecovery: 0.84},
		Duct01:         &spec.DuctDef{Lengths: []any{5, 8}, Widths: []any{125}},
		ExhaustDevices: []spec.ExhaustDef{{Type: "dryer"}},
		Schedule:       spec.ScheduleDef{TimeHigh: ptr(0.6), TimeMed: ptr(0.3), TimeLow: ptr(0.1)},
	}}}, nil)
}

func find(writes []CellWrite, sheet, cell string) (any, bool) {
	for _, w := range writes {
		if w.Sheet == sheet && w.Range == cell {
			return w.Value, true
		}
	}
	return nil, false
}

func TestOffset(t *testing.T) {
	cases := []struct {
		cell       string
		dCol, dRow int
		want       string
	}{
		{"J149", 0, 0, "J149"},
		{"J149", 1, 2, "K151"},
		{"Z1", 1, 0, "AA1"},
	}
	for _, c := range cases {
		got, err := Offset(c.cell, c.dCol, c.dRow)
		if err != nil || got != c.want {
			t.Errorf("Offset(%s, %d, %d) = %s, %v, want %s", c.cell, c.dCol, c.dRow, got, err, c.want)
		}
	}
	if _, err := Offset("not a cell", 0, 0); err == nil {
		t.Error("expected error for bad cell name")
	}
}

func TestTopLeft(t *testing.T) {
	if got := TopLeft("J149:K151"); got != "J149" {
		t.Errorf("TopLeft = %q", got)
	}
	if got := TopLeft("D5"); got != "D5" {
		t.Errorf("TopLeft = %q", got)
	}
}

func TestDHWCells(t *testing.T) {
	r := validation.NewReport()
	l := DefaultLayout().DHW
	writes := DHWCells(defaultNetwork(), l, r)

	if v, _ := find(writes, l.Sheet, "J20"); v != 6.0 {
		t.Errorf("tap openings = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "J149"); v != 24.0 {
		t.Errorf("loop length = %v, want 24", v)
	}
	if v, _ := find(writes, l.Sheet, "J154"); v != "3-Good" {
		t.Errorf("loop quality = %v, want longest segment's", v)
	}
	if v, _ := find(writes, l.Sheet, "J167"); v != 25.0 {
		t.Errorf("branch length = %v, want 25", v)
	}
	if v, _ := find(writes, l.Sheet, "J168"); math.Abs(v.(float64)-20) > 1e-9 {
		t.Errorf("branch diameter = %v mm, want 20", v)
	}
	if len(r.Warnings) != 0 || len(r.Errors) != 0 {
		t.Errorf("unexpected findings: %s", r.Summary)
	}
}

func TestDHWCellsOverflow(t *testing.T) {
	net := dhw.NewPipingNetwork("DHW")
	for _, id := range []string{"a", "b", "c"} {
		if err := net.AddBranch(dhw.Branch{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	l := DefaultLayout().DHW
	l.Branches.Capacity = 2
	r := validation.NewReport()
	writes := DHWCells(net, l, r)

	if r.CountKind(validation.KindCapacity) != 1 {
		t.Errorf("expected a capacity warning, got %s", r.Summary)
	}
	if _, ok := find(writes, l.Sheet, "L167"); ok {
		t.Error("third branch should not be written")
	}
	if _, ok := find(writes, l.Sheet, "K167"); !ok {
		t.Error("second branch should be written")
	}
}

func TestVentilationCells(t *testing.T) {
	r := validation.NewReport()
	l := DefaultLayout().Ventilation
	writes := VentilationCells(defaultSystems(), l, r)

	if v, _ := find(writes, l.Sheet, "D97"); v != "Q350" {
		t.Errorf("unit name = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "E97"); v != "1-Balanced PH ventilation with HR" {
		t.Errorf("system type = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "J97"); v != 1000 {
		t.Errorf("system id = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "F127"); v != 13.0 {
		t.Errorf("duct length = %v, want 13", v)
	}
	if v, _ := find(writes, l.Sheet, "G127"); v != 125.0 {
		t.Errorf("duct width = %v, want 125", v)
	}
	if _, ok := find(writes, l.Sheet, "D128"); ok {
		t.Error("empty duct_02 should not get a row")
	}
	if v, _ := find(writes, l.Sheet, "E170"); v != "Dryer" {
		t.Errorf("exhaust type = %v", v)
	}
	if v, _ := find(writes, l.ScheduleSheet, "K29"); v != 0.6 {
		t.Errorf("time high = %v", v)
	}
	if v, _ := find(writes, l.ScheduleSheet, "J31"); v != 0.4 {
		t.Errorf("speed low = %v", v)
	}
}

func TestVentilationCellsOrderIsDeterministic(t *testing.T) {
	l := DefaultLayout().Ventilation
	a := VentilationCells(defaultSystems(), l, nil)
	b := VentilationCells(defaultSystems(), l, nil)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("write %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAssemblyCells(t *testing.T) {
	r := validation.NewReport()
	lambda := 0.04
	as := []construction.Assembly{{
		Name: "wall", Rsi: 0.13, Rse: 0.04,
		Layers: []construction.Layer{
			{Name: "wool", Thickness: 0.2, Conductivity: &lambda},
			{Name: "unknown", Thickness: 0.05},
		},
	}}
	l := DefaultLayout().Assemblies
	writes := AssemblyCells(as, l, r)

	if v, _ := find(writes, l.Sheet, "L10"); v != "wall" {
		t.Errorf("name = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "M14"); v != 0.04 {
		t.Errorf("wool conductivity = %v", v)
	}
	if v, _ := find(writes, l.Sheet, "N14"); v != 200.0 {
		t.Errorf("wool thickness = %v mm", v)
	}
	if _, ok := find(writes, l.Sheet, "M15"); ok {
		t.Error("unresolved conductivity should be left blank")
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestBadLayoutIsAnError(t *testing.T) {
	l := DefaultLayout().Assemblies
	l.Blocks.Anchor = "??"
	r := validation.NewReport()
	writes := AssemblyCells([]construction.Assembly{{Name: "x"}}, l, r)
	if writes != nil || r.Valid {
		t.Errorf("expected no writes and an error, got %d writes, %s", len(writes), r.Summary)
	}
}

func TestXLSXSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phpp.xlsx")
	s := NewXLSXSession(path, nil)

	if err := s.Write(nil); !errors.Is(err, ErrNotOpen) {
		t.Errorf("write before open: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	err := s.Write([]CellWrite{
		{Sheet: "DHW+Distribution", Range: "J149:J155", Value: 24.5},
		{Sheet: "Additional Vent", Range: "D97", Value: "Q350"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	again := NewXLSXSession(path, nil)
	if err := again.Open(); err != nil {
		t.Fatal(err)
	}
	defer again.Close()

	if v, err := again.Read("DHW+Distribution", "J149"); err != nil || v != "24.5" {
		t.Errorf("J149 = %q, %v", v, err)
	}
	if v, err := again.Read("Additional Vent", "D97"); err != nil || v != "Q350" {
		t.Errorf("D97 = %q, %v", v, err)
	}
	if v, _ := again.Read("DHW+Distribution", "J150"); v != "" {
		t.Errorf("range should only write its top-left cell, J150 = %q", v)
	}
}

func TestMemorySession(t *testing.T) {
	var m MemorySession
	if err := m.Write([]CellWrite{{Sheet: "S", Range: "A1", Value: 1}}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	_ = m.Open()
	_ = m.Write([]CellWrite{{Sheet: "S", Range: "A1:B2", Value: 1.5}})
	if v, _ := m.Read("S", "A1"); v != "1.5" {
		t.Errorf("A1 = %q", v)
	}
	if len(m.Writes) != 1 {
		t.Errorf("recorded %d writes", len(m.Writes))
	}
}

func TestLoadLayoutOverridesOneSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	data := "dhw:\n  branches:\n    anchor: K200\n    capacity: 3\n    columns: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	if l.DHW.Branches.Anchor != "K200" || l.DHW.Branches.Capacity != 3 {
		t.Errorf("branches = %+v", l.DHW.Branches)
	}
	def := DefaultLayout()
	if l.DHW.Recirculation != def.DHW.Recirculation {
		t.Errorf("recirculation = %+v, want default", l.DHW.Recirculation)
	}
	if l.Ventilation.Units.Anchor != "D97" {
		t.Errorf("units anchor = %q", l.Ventilation.Units.Anchor)
	}
}

func TestLoadLayoutMissingFile(t *testing.T) {
	if _, err := LoadLayout(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing layout")
	}
}
