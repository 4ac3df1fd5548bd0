package geo

// Polyline is an ordered run of points. A closed polyline returns from its
// last point to its first.
type Polyline struct {
	Points []Point
	Closed bool
}

// NewPolyline creates an open polyline from a list of points.
func NewPolyline(pts ...Point) Polyline {
	return Polyline{Points: pts}
}

// Length returns the total arc length, including the closing edge.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	if pl.Closed && len(pl.Points) > 2 {
		total += pl.Points[len(pl.Points)-1].Distance(pl.Points[0])
	}
	return total
}

// Offset returns a copy shifted horizontally by distance (positive = left
// when walking along the run). Vertical risers keep their plan position.
func (pl Polyline) Offset(distance float64) Polyline {
	n := len(pl.Points)
	if n < 2 {
		return pl
	}

	dirAt := func(a, b int) Point {
		d := pl.Points[b].Sub(pl.Points[a])
		d.Z = 0
		return d.Normalize()
	}

	result := make([]Point, n)
	for i := 0; i < n; i++ {
		var dir Point
		switch {
		case i == 0 && pl.Closed:
			dir = dirAt(n-1, 0).Add(dirAt(0, 1)).Normalize()
		case i == 0:
			dir = dirAt(0, 1)
		case i == n-1 && pl.Closed:
			dir = dirAt(n-2, n-1).Add(dirAt(n-1, 0)).Normalize()
		case i == n-1:
			dir = dirAt(n-2, n-1)
		default:
			dir = dirAt(i-1, i).Add(dirAt(i, i+1)).Normalize()
		}
		result[i] = pl.Points[i].Add(dir.PlanPerp().Scale(distance))
	}
	return Polyline{Points: result, Closed: pl.Closed}
}

// CatmullRomSpline samples a Catmull-Rom spline through the control points,
// samplesPerSegment points per span. Tension 0.5 gives the standard curve.
func CatmullRomSpline(controlPoints []Point, samplesPerSegment int, tension float64) Polyline {
	n := len(controlPoints)
	if n < 3 {
		return NewPolyline(controlPoints...)
	}
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}

	// Phantom endpoints reflect the first and last spans.
	extended := make([]Point, n+2)
	extended[0] = controlPoints[0].Add(controlPoints[0].Sub(controlPoints[1]))
	copy(extended[1:], controlPoints)
	extended[n+1] = controlPoints[n-1].Add(controlPoints[n-1].Sub(controlPoints[n-2]))

	var pts []Point
	for i := 1; i < n; i++ {
		for j := 0; j < samplesPerSegment; j++ {
			t := float64(j) / float64(samplesPerSegment)
			pts = append(pts, catmullRomPoint(extended[i-1], extended[i], extended[i+1], extended[i+2], t, tension))
		}
	}
	pts = append(pts, controlPoints[n-1])
	return Polyline{Points: pts}
}

func catmullRomPoint(p0, p1, p2, p3 Point, t, s float64) Point {
	t2 := t * t
	t3 := t2 * t
	axis := func(a, b, c, d float64) float64 {
		return 0.5 * ((-s*a+(2-s)*b+(s-2)*c+s*d)*t3 +
			(2*s*a+(s-3)*b+(3-2*s)*c-s*d)*t2 +
			(-s*a+s*c)*t +
			2*b)
	}
	return Point{
		X: axis(p0.X, p1.X, p2.X, p3.X),
		Y: axis(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: axis(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}
