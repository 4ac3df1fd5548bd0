package geo

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPointDistance(t *testing.T) {
	d := Pt(0, 0, 0).Distance(Pt(2, 3, 6))
	if !approxEqual(d, 7, 1e-9) {
		t.Errorf("distance = %f, want 7", d)
	}
}

func TestPointNormalizeZero(t *testing.T) {
	if n := (Point{}).Normalize(); n != (Point{}) {
		t.Errorf("normalize zero = %v", n)
	}
}

func TestPolylineLengthWithRiser(t *testing.T) {
	pl := NewPolyline(Pt(0, 0, 0), Pt(4, 0, 0), Pt(4, 0, 3))
	if got := pl.Length(); !approxEqual(got, 7, 1e-9) {
		t.Errorf("length = %f, want 7", got)
	}
}

func TestPolylineClosedLength(t *testing.T) {
	pl := Polyline{Points: []Point{Pt(0, 0, 0), Pt(10, 0, 0), Pt(10, 5, 0), Pt(0, 5, 0)}, Closed: true}
	if got := pl.Length(); !approxEqual(got, 30, 1e-9) {
		t.Errorf("closed length = %f, want 30", got)
	}
}

func TestPolylineOffsetStraight(t *testing.T) {
	pl := NewPolyline(Pt(0, 0, 2), Pt(10, 0, 2))
	off := pl.Offset(0.5)
	if !approxEqual(off.Points[0].Y, 0.5, 1e-9) || !approxEqual(off.Points[1].Y, 0.5, 1e-9) {
		t.Errorf("offset points = %v", off.Points)
	}
	if off.Points[0].Z != 2 {
		t.Errorf("offset should keep elevation, got %v", off.Points[0].Z)
	}
	if !approxEqual(off.Length(), 10, 1e-9) {
		t.Errorf("offset length = %f, want 10", off.Length())
	}
}

func TestCatmullRomPassesThroughEnds(t *testing.T) {
	pts := []Point{Pt(0, 0, 0), Pt(10, 0, 0), Pt(20, 10, 0), Pt(30, 10, 0)}
	s := CatmullRomSpline(pts, 8, 0.5)
	if s.Points[0].Distance(pts[0]) > 1e-9 {
		t.Errorf("spline start = %v", s.Points[0])
	}
	if s.Points[len(s.Points)-1].Distance(pts[3]) > 1e-9 {
		t.Errorf("spline end = %v", s.Points[len(s.Points)-1])
	}
	if len(s.Points) != 3*8+1 {
		t.Errorf("expected %d samples, got %d", 3*8+1, len(s.Points))
	}
	if s.Length() < NewPolyline(pts...).Length()-1e-6 {
		t.Error("spline should not be shorter than its control polygon chord sum")
	}
}

func TestLibraryCurveLength(t *testing.T) {
	lib := NewLibrary()
	lib.Add("riser", NewPolyline(Pt(0, 0, 0), Pt(0, 0, 7.2)))
	got, err := lib.CurveLength("riser")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !approxEqual(got[0], 7.2, 1e-9) {
		t.Errorf("lengths = %v, want [7.2]", got)
	}
}

func TestLibraryUnknownHandle(t *testing.T) {
	_, err := NewLibrary().CurveLength("nope")
	if !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestLibraryOffsetBothSides(t *testing.T) {
	lib := NewLibrary()
	lib.Add("center", NewPolyline(Pt(0, 0, 0), Pt(12, 0, 0)))
	if err := lib.Offset("pair", "center", 0.1, true); err != nil {
		t.Fatal(err)
	}
	got, _ := lib.CurveLength("pair")
	if len(got) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(got))
	}
	if !approxEqual(got[0]+got[1], 24, 1e-9) {
		t.Errorf("pair total = %f, want 24", got[0]+got[1])
	}
	if err := lib.Offset("x", "missing", 1, false); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
	if h := lib.Handles(); len(h) != 2 || h[0] != "center" || h[1] != "pair" {
		t.Errorf("handles = %v", h)
	}
}
