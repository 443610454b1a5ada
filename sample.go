package glimpse

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyField is returned when sampling a field with zero rows or
	// columns.
	ErrEmptyField = errors.New("glimpse: field has no rows or columns")

	// ErrLengthMismatch is returned when the xs and ys batches of a sampling
	// call have different lengths.
	ErrLengthMismatch = errors.New("glimpse: xs and ys lengths differ")
)

// BilinearAt returns the bilinearly interpolated value of the field at the
// fractional coordinate (x, y), where x runs along columns and y along rows.
//
// The four neighbor indices are clamped independently into the grid, so
// coordinates outside the field resolve to the nearest edge cell. The
// interpolation weights, however, are computed from the unclamped floor
// indices: a point far outside the grid still returns the border value
// (every corner collapses onto the same cell and the weights sum to one),
// and near the border the weights keep reflecting the point's nominal
// distance from its true neighbors rather than the clamped ones. Clamping
// applies to lookups only, never to the weight offsets.
//
// NaN or Inf coordinates propagate through the arithmetic unchanged.
// Panics if the field is empty; batch callers should use Bilinear, which
// reports ErrEmptyField instead.
func (f *Field) BilinearAt(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	x1 := x0 + 1
	y1 := y0 + 1

	// Lookup indices only: the weights below stay unclamped.
	cx0 := clampIndex(int(x0), f.w-1)
	cx1 := clampIndex(int(x1), f.w-1)
	cy0 := clampIndex(int(y0), f.h-1)
	cy1 := clampIndex(int(y1), f.h-1)

	ia := f.data[cy0*f.w+cx0]
	ib := f.data[cy1*f.w+cx0]
	ic := f.data[cy0*f.w+cx1]
	id := f.data[cy1*f.w+cx1]

	wa := (x1 - x) * (y1 - y)
	wb := (x1 - x) * (y - y0)
	wc := (x - x0) * (y1 - y)
	wd := (x - x0) * (y - y0)

	return ia*wa + ib*wb + ic*wc + id*wd
}

// Bilinear interpolates the field at each coordinate pair (xs[i], ys[i]) and
// returns one value per input point, in input order. Coordinates may be
// fractional, negative, or beyond the grid; see BilinearAt for the clamping
// contract. A zero-length batch returns an empty result.
//
// Returns ErrEmptyField if the field has no rows or columns, and
// ErrLengthMismatch if len(xs) != len(ys).
func (f *Field) Bilinear(xs, ys []float64) ([]float64, error) {
	if f.h < 1 || f.w < 1 {
		return nil, ErrEmptyField
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = f.BilinearAt(xs[i], ys[i])
	}
	return out, nil
}

// Bilinear interpolates every channel of the stack at each coordinate pair.
// result[i][c] is the value of channel c at point i, so each point yields a
// vector of scalars. The same argument and clamping contract as
// Field.Bilinear applies.
func (s *FieldStack) Bilinear(xs, ys []float64) ([][]float64, error) {
	f0 := s.channels[0]
	if f0.h < 1 || f0.w < 1 {
		return nil, ErrEmptyField
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	out := make([][]float64, len(xs))
	for i := range xs {
		vec := make([]float64, len(s.channels))
		for c, f := range s.channels {
			vec[c] = f.BilinearAt(xs[i], ys[i])
		}
		out[i] = vec
	}
	return out, nil
}

// clampIndex restricts i to [0, max]. max may be 0 for single-row or
// single-column fields, collapsing every lookup onto the edge cell.
func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
