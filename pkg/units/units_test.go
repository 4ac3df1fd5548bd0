package units

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestConvertBareNumberIsAlreadyMetric(t *testing.T) {
	for _, v := range []any{3.5, 3, "3.5", " 3.5 ", int64(3)} {
		got, err := Convert(v, Meter)
		if err != nil {
			t.Fatalf("Convert(%v): %v", v, err)
		}
		want, _ := Numeric(v)
		if got != want {
			t.Errorf("Convert(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestConvertImperialSuffixes(t *testing.T) {
	cases := []struct {
		value any
		tag   string
		want  float64
	}{
		{"40 cfm", CubicMPerH, 67.960432},
		{"78F", Celsius, 25.555556},
		{"32 °F", Celsius, 0},
		{"12 ft", Meter, 3.6576},
		{"0.5in", Meter, 0.0127},
		{"0.5in", Millimeter, 12.7},
		{"125 mm", Meter, 0.125},
		{"2 in", Millimeter, 50.8},
		{"84%", Fraction, 0.84},
		{"1000 Btu/h", Watt, 293.07107},
		{"R-10", RSI, 1.7611018},
		{"RSI-3", RSI, 3},
		{"0.25 Btu/h-ft2-F", UValue, 1.4195658},
		{"1 W/cfm", FanPower, 0.588578},
		{"30 min", Hours, 0.5},
		{"273.15 K", Celsius, 0},
	}
	for _, c := range cases {
		got, err := Convert(c.value, c.tag)
		if err != nil {
			t.Errorf("Convert(%v, %s): unexpected error %v", c.value, c.tag, err)
			continue
		}
		if !approxEqual(got, c.want, 1e-5) {
			t.Errorf("Convert(%v, %s) = %.6f, want %.6f", c.value, c.tag, got, c.want)
		}
	}
}

func TestConvertUnknownTag(t *testing.T) {
	_, err := Convert(3.0, "FURLONG")
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if ce.Tag != "FURLONG" {
		t.Errorf("error tag = %q", ce.Tag)
	}
}

func TestConvertRejectsWithoutGuessing(t *testing.T) {
	cases := []struct {
		value any
		tag   string
	}{
		{"12 parsecs", Meter},
		{"78F", Meter},
		{"bad-input", Meter},
		{true, Meter},
		{"", Meter},
	}
	for _, c := range cases {
		if _, err := Convert(c.value, c.tag); err == nil {
			t.Errorf("Convert(%v, %s) should fail", c.value, c.tag)
		}
	}
}

func TestNumericRejectsNonFinite(t *testing.T) {
	for _, s := range []string{"NaN", "Inf", "-inf", "abc"} {
		if _, ok := Numeric(s); ok {
			t.Errorf("Numeric(%q) should be false", s)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	f, ok := FamilyOf("m3/h")
	if !ok || f != FamilyFlow {
		t.Errorf("FamilyOf(m3/h) = %v, %v", f, ok)
	}
	if _, ok := FamilyOf("nope"); ok {
		t.Error("FamilyOf(nope) should be false")
	}
}

func TestConvertRejectsNonFinite(t *testing.T) {
	cases := []struct {
		value any
		tag   string
	}{
		{math.NaN(), Meter},
		{math.Inf(1), Meter},
		{math.Inf(-1), Celsius},
		{float32(math.Inf(1)), Meter},
		{"1e999 m", Meter},
		{"1e999", Meter},
		{"R-1e999", RSI},
		{"1e308 yd", Millimeter},
	}
	for _, c := range cases {
		got, err := Convert(c.value, c.tag)
		if err == nil {
			t.Errorf("Convert(%v, %s) = %v, want error", c.value, c.tag, got)
			continue
		}
		var ce *ConversionError
		if !errors.As(err, &ce) {
			t.Errorf("Convert(%v, %s): error %v is not a ConversionError", c.value, c.tag, err)
		}
	}
}

func TestNumericRejectsNonFiniteFloats(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.NaN())} {
		if _, ok := Numeric(v); ok {
			t.Errorf("Numeric(%v) should be false", v)
		}
	}
}
