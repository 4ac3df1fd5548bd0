// Package broadcast aligns auxiliary attribute lists with a primary list.
package broadcast

import (
	"fmt"

	"github.com/ChicagoDave/phppkit/pkg/units"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// Option is a value that may be absent. The zero Option is absent.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Valid: true}
}

// Or returns the value, or def when absent.
func (o Option[T]) Or(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// Resolve returns exactly n options for one attribute list.
//
//	len(aux) == n  -> positional
//	len(aux) == 1  -> aux[0] broadcast to every position
//	len(aux) == 0  -> every option absent
//	otherwise      -> warning, then aux[0] broadcast
//
// Each attribute is resolved on its own; callers must not assume two lists
// share the same outcome.
func Resolve[T any](n int, aux []T, attr string, r *validation.Report) []Option[T] {
	if n <= 0 {
		return []Option[T]{}
	}
	out := make([]Option[T], n)

	switch {
	case len(aux) == n:
		for i, v := range aux {
			out[i] = Some(v)
		}
		return out
	case len(aux) == 0:
		return out
	case len(aux) != 1 && r != nil:
		r.Warnf(validation.LevelInput, validation.KindLengthMismatch, attr,
			"%s: length mismatch (%d values for %d segments), using first value", attr, len(aux), n)
	}

	for i := range out {
		out[i] = Some(aux[0])
	}
	return out
}

// Values resolves aux and substitutes def for absent positions.
func Values[T any](n int, aux []T, def T, attr string, r *validation.Report) []T {
	opts := Resolve(n, aux, attr, r)
	out := make([]T, len(opts))
	for i, o := range opts {
		out[i] = o.Or(def)
	}
	return out
}

// Floats converts each raw entry of aux to the unit named by tag, then
// broadcasts the result across n positions. Entries that are nil or fail
// conversion become def; failures are reported once per entry.
func Floats(n int, aux []any, tag string, def float64, attr string, r *validation.Report) []float64 {
	conv := make([]float64, len(aux))
	for i, raw := range aux {
		if raw == nil {
			conv[i] = def
			continue
		}
		v, err := units.Convert(raw, tag)
		if err != nil {
			if r != nil {
				r.AddWarning(validation.Result{
					Level:       validation.LevelInput,
					Kind:        validation.KindUnitConversion,
					Path:        fmt.Sprintf("%s[%d]", attr, i),
					Message:     fmt.Sprintf("%v, using default %g", err, def),
					ActualValue: raw,
				})
			}
			conv[i] = def
			continue
		}
		conv[i] = v
	}
	return Values(n, conv, def, attr, r)
}
