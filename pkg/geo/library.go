package geo

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownHandle is returned when a curve handle is not in the library.
var ErrUnknownHandle = errors.New("unknown curve handle")

// Library holds named curve geometry. One handle may carry several disjoint
// curves (an offset pair, a run split by a shaft).
type Library struct {
	curves map[string][]Polyline
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{curves: make(map[string][]Polyline)}
}

// Add appends curves under handle.
func (l *Library) Add(handle string, curves ...Polyline) {
	l.curves[handle] = append(l.curves[handle], curves...)
}

// Has reports whether handle is known.
func (l *Library) Has(handle string) bool {
	_, ok := l.curves[handle]
	return ok
}

// Handles returns all handles in sorted order.
func (l *Library) Handles() []string {
	out := make([]string, 0, len(l.curves))
	for h := range l.curves {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Offset derives handle from base by offsetting every base curve. With
// bothSides the result holds a left and a right copy of each curve.
func (l *Library) Offset(handle, base string, distance float64, bothSides bool) error {
	src, ok := l.curves[base]
	if !ok {
		return fmt.Errorf("offset %q: %w: %s", handle, ErrUnknownHandle, base)
	}
	var out []Polyline
	for _, c := range src {
		out = append(out, c.Offset(distance))
		if bothSides {
			out = append(out, c.Offset(-distance))
		}
	}
	l.curves[handle] = out
	return nil
}

// CurveLength returns the length of every curve stored under handle.
func (l *Library) CurveLength(handle string) ([]float64, error) {
	curves, ok := l.curves[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	lengths := make([]float64, len(curves))
	for i, c := range curves {
		lengths[i] = c.Length()
	}
	return lengths, nil
}
