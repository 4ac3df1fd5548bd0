package metadata

import "math/rand"

// Identifier range for generated object ids.
const (
	MinID = 1000
	MaxID = 9999
)

// IDSource hands out integer object ids. Ids are drawn once when an object
// is constructed and never re-derived.
type IDSource interface {
	Next() int
}

// RandomIDs draws ids uniformly from [MinID, MaxID]. Collisions are not
// checked; two objects in one model can share an id.
type RandomIDs struct{}

func (RandomIDs) Next() int {
	return MinID + rand.Intn(MaxID-MinID+1)
}

// SequentialIDs counts up from Start. Useful where ids must be predictable.
type SequentialIDs struct {
	Start int
	n     int
}

func (s *SequentialIDs) Next() int {
	id := s.Start + s.n
	s.n++
	return id
}
