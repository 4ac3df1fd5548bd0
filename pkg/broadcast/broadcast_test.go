package broadcast

import (
	"testing"

	"github.com/ChicagoDave/phppkit/pkg/validation"
)

func TestResolveAlwaysReturnsPrimaryLength(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for _, auxLen := range []int{0, 1, n} {
			aux := make([]float64, auxLen)
			for i := range aux {
				aux[i] = float64(i + 1)
			}
			got := Resolve(n, aux, "diameter", validation.NewReport())
			if len(got) != n {
				t.Errorf("n=%d aux=%d: got %d options", n, auxLen, len(got))
			}
		}
	}
}

func TestResolvePositional(t *testing.T) {
	r := validation.NewReport()
	got := Resolve(3, []string{"a", "b", "c"}, "quality", r)
	for i, want := range []string{"a", "b", "c"} {
		if !got[i].Valid || got[i].Value != want {
			t.Errorf("position %d = %+v, want %s", i, got[i], want)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestResolveBroadcastSingle(t *testing.T) {
	got := Resolve(4, []float64{0.02}, "diameter", nil)
	for i, o := range got {
		if !o.Valid || o.Value != 0.02 {
			t.Errorf("position %d = %+v, want 0.02", i, o)
		}
	}
}

func TestResolveEmptyIsAbsent(t *testing.T) {
	got := Resolve[float64](2, nil, "thickness", nil)
	for i, o := range got {
		if o.Valid {
			t.Errorf("position %d should be absent", i)
		}
		if o.Or(52) != 52 {
			t.Errorf("Or default not applied at %d", i)
		}
	}
}

func TestResolveMismatchWarnsAndUsesFirst(t *testing.T) {
	r := validation.NewReport()
	got := Resolve(3, []float64{1, 2}, "conductivity", r)
	if len(got) != 3 {
		t.Fatalf("got %d options, want 3", len(got))
	}
	for i, o := range got {
		if o.Value != 1 {
			t.Errorf("position %d = %v, want first value 1", i, o.Value)
		}
	}
	if r.CountKind(validation.KindLengthMismatch) != 1 {
		t.Errorf("expected one length mismatch warning, got %s", r.Summary)
	}
	if !r.Valid {
		t.Error("length mismatch must not invalidate the report")
	}
}

func TestResolveMismatchLongerThanPrimary(t *testing.T) {
	r := validation.NewReport()
	got := Values(1, []bool{true, false, false}, false, "reflective", r)
	if len(got) != 1 || !got[0] {
		t.Errorf("got %v, want [true]", got)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(r.Warnings))
	}
}

func TestValuesAppliesDefault(t *testing.T) {
	got := Values[float64](2, nil, 0.04, "conductivity", nil)
	if got[0] != 0.04 || got[1] != 0.04 {
		t.Errorf("got %v, want defaults", got)
	}
}

func TestFloatsConvertsBeforeBroadcast(t *testing.T) {
	r := validation.NewReport()
	got := Floats(3, []any{"0.5in"}, "M", 0.0127, "diameters", r)
	for i, v := range got {
		if v < 0.01269 || v > 0.01271 {
			t.Errorf("position %d = %v, want 0.0127", i, v)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestFloatsBadEntryFallsBackToDefault(t *testing.T) {
	r := validation.NewReport()
	got := Floats(2, []any{"12 parsecs", 0.03}, "M", 0.0127, "diameters", r)
	if got[0] != 0.0127 || got[1] != 0.03 {
		t.Errorf("got %v, want [0.0127 0.03]", got)
	}
	if r.CountKind(validation.KindUnitConversion) != 1 {
		t.Errorf("expected one conversion warning, got %s", r.Summary)
	}
	if r.Warnings[0].Path != "diameters[0]" {
		t.Errorf("path = %q", r.Warnings[0].Path)
	}
}

func TestFloatsNilEntryIsDefault(t *testing.T) {
	got := Floats(1, []any{nil}, "M", 0.04, "conductivity", nil)
	if got[0] != 0.04 {
		t.Errorf("got %v, want 0.04", got)
	}
}
