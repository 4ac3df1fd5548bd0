package dhw

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/metadata"
)

// ToMap returns the serialized form of the segment.
func (s PipeSegment) ToMap() metadata.Mapping {
	return metadata.Mapping{
		"id":                      s.ID,
		"length":                  s.Length,
		"diameter":                s.Diameter,
		"insulation_thickness":    s.InsulationThickness,
		"insulation_conductivity": s.InsulationConductivity,
		"insulation_reflective":   s.InsulationReflective,
		"insulation_quality":      s.InsulationQuality.String(),
		"daily_period_hours":      s.DailyPeriodHours,
	}
}

// SegmentFromMap rebuilds a segment. The id is required.
func SegmentFromMap(m metadata.Mapping) (PipeSegment, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return PipeSegment{}, fmt.Errorf("pipe segment: %w", err)
	}
	f := metadata.Read(m)
	s := PipeSegment{
		ID:                     id,
		Length:                 f.Float("length"),
		Diameter:               f.Float("diameter"),
		InsulationThickness:    f.Float("insulation_thickness"),
		InsulationConductivity: f.Float("insulation_conductivity"),
		InsulationReflective:   f.Bool("insulation_reflective"),
		DailyPeriodHours:       f.Float("daily_period_hours"),
	}
	quality := f.String("insulation_quality")
	if err := f.Err(); err != nil {
		return PipeSegment{}, fmt.Errorf("pipe segment %d: %w", id, err)
	}
	if s.InsulationQuality, err = ParseQuality(quality); err != nil {
		return PipeSegment{}, fmt.Errorf("pipe segment %d: %w: %v", id, metadata.ErrMalformed, err)
	}
	return s, nil
}

func (b Branch) ToMap() metadata.Mapping {
	segs := make([]any, len(b.Segments))
	for i, s := range b.Segments {
		segs[i] = s.ToMap()
	}
	return metadata.Mapping{"branch_id": b.ID, "segments": segs}
}

func branchFromMap(m metadata.Mapping) (Branch, error) {
	f := metadata.Read(m)
	b := Branch{ID: f.String("branch_id")}
	raw := f.List("segments")
	if err := f.Err(); err != nil {
		return Branch{}, err
	}
	b.Segments = make([]PipeSegment, 0, len(raw))
	for _, sm := range raw {
		s, err := SegmentFromMap(sm)
		if err != nil {
			return Branch{}, fmt.Errorf("branch %q: %w", b.ID, err)
		}
		b.Segments = append(b.Segments, s)
	}
	return b, nil
}

// ToMap returns the serialized form of the network.
func (n *PipingNetwork) ToMap() metadata.Mapping {
	branches := make([]any, len(n.Branches))
	for i, b := range n.Branches {
		branches[i] = b.ToMap()
	}
	loops := make([]any, len(n.Recirculation))
	for i, l := range n.Recirculation {
		loops[i] = l.ToMap()
	}
	return metadata.Mapping{
		"id":                        n.ID,
		"name":                      n.Name,
		"tap_openings_per_day":      n.TapOpeningsPerDay,
		"utilisation_days_per_year": n.UtilisationDaysPerYear,
		"branches":                  branches,
		"recirculation":             loops,
	}
}

// NetworkFromMap rebuilds a network from its serialized form.
func NetworkFromMap(m metadata.Mapping) (*PipingNetwork, error) {
	id, err := metadata.ID(m)
	if err != nil {
		return nil, fmt.Errorf("piping network: %w", err)
	}
	f := metadata.Read(m)
	n := &PipingNetwork{
		ID:                     id,
		Name:                   f.String("name"),
		TapOpeningsPerDay:      f.Float("tap_openings_per_day"),
		UtilisationDaysPerYear: f.Float("utilisation_days_per_year"),
		Branches:               []Branch{},
		Recirculation:          []Branch{},
	}
	branches := f.List("branches")
	loops := f.List("recirculation")
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("piping network %d: %w", id, err)
	}
	for _, bm := range branches {
		b, err := branchFromMap(bm)
		if err != nil {
			return nil, fmt.Errorf("piping network %d: %w", id, err)
		}
		if err := n.AddBranch(b); err != nil {
			return nil, fmt.Errorf("piping network %d: %w: %v", id, metadata.ErrMalformed, err)
		}
	}
	for _, lm := range loops {
		l, err := branchFromMap(lm)
		if err != nil {
			return nil, fmt.Errorf("piping network %d: %w", id, err)
		}
		if err := n.AddLoop(l); err != nil {
			return nil, fmt.Errorf("piping network %d: %w: %v", id, metadata.ErrMalformed, err)
		}
	}
	return n, nil
}
