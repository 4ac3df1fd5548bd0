package spec

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
spec_version: "0.1.0"
name: Row House
curves:
  riser:
    - points: [[0, 0, 0], [0, 0, 7.2]]
offsets:
  - handle: riser_pair
    base: riser
    distance: 100 mm
    both_sides: true
dhw:
  tap_openings_per_day: 6
  branches:
    - id: kitchen
      pipe_segments: [10, 15]
      diameters: [0.02]
  recirculation:
    - id: loop-1
      pipe_segments: [riser, "12 ft"]
      insulation_reflective: [true]
      insulation_quality: [good]
ventilation:
  systems:
    - name: ERV-1
      type: balanced_hr
      unit:
        name: Zehnder ComfoAir Q350
        heat_recovery: 84%
        frost_protection_temp: 23F
      duct_01:
        duct_length: [5, 8]
        duct_width: [125]
      schedule:
        time_high: 0.6
        time_med: 0.3
        time_low: 0.1
constructions:
  - name: wall
    layers:
      - name: mineral wool
        thickness: 200 mm
        conductivity: 0.035
`

func TestParseSample(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Row House" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Curves["riser"]) != 1 || len(p.Curves["riser"][0].Points) != 2 {
		t.Errorf("curves = %+v", p.Curves)
	}
	if p.Offsets[0].Distance != "100 mm" || !p.Offsets[0].BothSides {
		t.Errorf("offset = %+v", p.Offsets[0])
	}
	if p.DHW.TapOpeningsPerDay == nil || *p.DHW.TapOpeningsPerDay != 6 {
		t.Errorf("tap openings = %v", p.DHW.TapOpeningsPerDay)
	}
	if p.DHW.UtilisationDays != nil {
		t.Error("utilisation days should be absent")
	}

	kitchen := p.DHW.Branches[0]
	if len(kitchen.PipeSegments) != 2 || kitchen.PipeSegments[0] != 10 {
		t.Errorf("pipe segments = %#v", kitchen.PipeSegments)
	}
	loop := p.DHW.Recirculation[0]
	if loop.PipeSegments[0] != "riser" || loop.PipeSegments[1] != "12 ft" {
		t.Errorf("loop segments = %#v", loop.PipeSegments)
	}

	sys := p.Ventilation.Systems[0]
	if sys.Duct01 == nil || len(sys.Duct01.Lengths) != 2 {
		t.Fatalf("duct_01 = %+v", sys.Duct01)
	}
	if sys.Duct02 != nil {
		t.Error("duct_02 should be absent")
	}
	if sys.Unit.HeatRecovery != "84%" {
		t.Errorf("heat recovery = %#v", sys.Unit.HeatRecovery)
	}
	if sys.Schedule.TimeHigh == nil || *sys.Schedule.TimeHigh != 0.6 {
		t.Errorf("schedule = %+v", sys.Schedule)
	}
	if sys.ID != nil {
		t.Error("id should be absent")
	}
	if p.Constructions[0].Layers[0].Resistivity != nil {
		t.Error("resistivity should be absent")
	}
}

func TestLoadProjectDirAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFile)
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{dir, path} {
		p, err := LoadProject(in)
		if err != nil {
			t.Fatalf("LoadProject(%s): %v", in, err)
		}
		if p.SpecVersion != "0.1.0" {
			t.Errorf("spec_version = %q", p.SpecVersion)
		}
	}
}

func TestLoadProjectMissing(t *testing.T) {
	if _, err := LoadProject(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing project")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("dhw: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}
