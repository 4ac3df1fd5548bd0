package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ChicagoDave/phppkit/internal/takeoff"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/validation"
	"github.com/ChicagoDave/phppkit/pkg/workbook"
)

func TestPrintValidationReport(t *testing.T) {
	r := validation.NewReport()
	r.AddError(validation.Result{
		Level:       validation.LevelSchema,
		Message:     "offset base \"x\" is not a curve",
		Path:        "offsets[0].base",
		Suggestions: []string{"Define the base under curves"},
	})
	r.AddWarning(validation.Result{
		Level:       validation.LevelInput,
		Message:     "bad width",
		Path:        "ventilation.systems[0].duct_01.duct_width[0]",
		ActualValue: "wide",
	})

	var buf bytes.Buffer
	printValidationReport(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"ERRORS (1):",
		"    -> offsets[0].base\n",
		"    * Define the base under curves",
		"WARNINGS (1):",
		"    -> ventilation.systems[0].duct_01.duct_width[0] = wide",
		"Result: INVALID (1 errors, 1 warnings, 0 info)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTakeoff(t *testing.T) {
	p := &spec.Project{
		Name: "Row House",
		DHW: spec.DHWDef{
			Branches: []spec.PipeRunDef{{ID: "kitchen", PipeSegments: []any{10, 15}, Diameters: []any{0.02}}},
		},
		Ventilation: spec.VentilationDef{Systems: []spec.VentSystemDef{{
			Name:   "ERV-1",
			Duct01: &spec.DuctDef{Lengths: []any{5, 8}},
		}}},
	}
	res := takeoff.Run(p, takeoff.Options{IDs: &metadata.SequentialIDs{Start: 1000}})

	var buf bytes.Buffer
	printTakeoff(&buf, res)
	out := buf.String()

	for _, want := range []string{"Takeoff: Row House", "kitchen", "25.00", "20.0", "ERV-1", "13.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

type failingSession struct {
	workbook.MemorySession
	closed bool
}

func (f *failingSession) Write([]workbook.CellWrite) error { return errors.New("disk full") }

func (f *failingSession) Close() error {
	f.closed = true
	return nil
}

func TestExportClosesOnWriteFailure(t *testing.T) {
	s := &failingSession{}
	if err := export(s, []workbook.CellWrite{{Sheet: "S", Range: "A1", Value: 1}}); err == nil {
		t.Fatal("expected write error")
	}
	if !s.closed {
		t.Error("session should be closed after a failed write")
	}
}

func TestExportMemorySession(t *testing.T) {
	s := &workbook.MemorySession{}
	cells := []workbook.CellWrite{{Sheet: "DHW+Distribution", Range: "J20", Value: 6}}
	if err := export(s, cells); err != nil {
		t.Fatal(err)
	}
	if len(s.Writes) != 1 {
		t.Errorf("writes = %v", s.Writes)
	}
}
