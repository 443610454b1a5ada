package glimpse

import (
	"errors"
	"math"
	"testing"
)

// gridField builds an h×w field with f[r][c] = 10*r + c, which makes corner
// lookups easy to decode in failure messages.
func gridField(h, w int) *Field {
	f := NewField(h, w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			f.Set(r, c, float64(10*r+c))
		}
	}
	return f
}

func TestBilinearExactAtGridPoints(t *testing.T) {
	f := gridField(3, 4)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			got, err := f.Bilinear([]float64{float64(c)}, []float64{float64(r)})
			if err != nil {
				t.Fatalf("Bilinear(%d, %d): %v", c, r, err)
			}
			// Exact, not approximate: one weight is 1 and the rest are 0.
			if got[0] != f.At(r, c) {
				t.Errorf("at grid point (%d,%d): got %v, want %v", c, r, got[0], f.At(r, c))
			}
		}
	}
}

func TestBilinearInteriorLinearity(t *testing.T) {
	// On a planar field a*row + b*col + c, bilinear interpolation must
	// reproduce the plane exactly at any interior point.
	const a, b, c = 3.0, -1.5, 7.0
	f := NewField(5, 6)
	for r := 0; r < 5; r++ {
		for col := 0; col < 6; col++ {
			f.Set(r, col, a*float64(r)+b*float64(col)+c)
		}
	}

	points := []struct{ x, y float64 }{
		{0.5, 0.5}, {1.25, 2.75}, {4.999, 3.001}, {2.0, 1.5}, {0.1, 3.9},
	}
	for _, pt := range points {
		got := f.BilinearAt(pt.x, pt.y)
		want := a*pt.y + b*pt.x + c
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("plane at (%v,%v): got %v, want %v", pt.x, pt.y, got, want)
		}
	}
}

func TestBilinearConcrete2x2(t *testing.T) {
	f := FieldFromValues(2, 2, []float64{0, 1, 2, 3})

	tests := []struct {
		x, y, want float64
	}{
		{0.5, 0.5, 1.5}, // average of all four corners
		{0, 0, 0},
		{1, 1, 3},
		{1, 0, 1},
		{0, 1, 2},
	}
	for _, tt := range tests {
		got, err := f.Bilinear([]float64{tt.x}, []float64{tt.y})
		if err != nil {
			t.Fatalf("Bilinear(%v, %v): %v", tt.x, tt.y, err)
		}
		if math.Abs(got[0]-tt.want) > 1e-12 {
			t.Errorf("sample(%v, %v) = %v, want %v", tt.x, tt.y, got[0], tt.want)
		}
	}
}

func TestBilinearBorderClamp(t *testing.T) {
	f := gridField(3, 3)

	// x = -5 is integral, so (y1-y)=1 and (y-y0)=0 pick out a single row,
	// and both column lookups clamp to column 0: the result is exactly
	// f[1][0] despite the far-out coordinate.
	got := f.BilinearAt(-5, 1)
	if got != f.At(1, 0) {
		t.Errorf("sample(-5, 1) = %v, want edge value %v", got, f.At(1, 0))
	}

	// Same on the high side: beyond the last column clamps to column 2.
	got = f.BilinearAt(7, 1)
	if got != f.At(1, 2) {
		t.Errorf("sample(7, 1) = %v, want edge value %v", got, f.At(1, 2))
	}

	// Fractional y with x clamped low: both column corners collapse onto
	// column 0, so the result is the column-0 values interpolated in y.
	got = f.BilinearAt(-5, 0.25)
	want := 0.75*f.At(0, 0) + 0.25*f.At(1, 0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("sample(-5, 0.25) = %v, want %v", got, want)
	}

	// And beyond the last row.
	got = f.BilinearAt(1, 9)
	if got != f.At(2, 1) {
		t.Errorf("sample(1, 9) = %v, want edge value %v", got, f.At(2, 1))
	}
}

func TestBilinearFarOutOfRangeSingleCell(t *testing.T) {
	f := FieldFromValues(1, 1, []float64{5})

	// All four corners collapse onto the single cell. At integral offsets
	// the weights pick out one corner; at half offsets they spread evenly.
	// Either way the result is the cell value.
	for _, pt := range []struct{ x, y float64 }{
		{10, 10}, {10.5, 10.5}, {-3.5, -3.5}, {0, 0}, {-100, 42.25},
	} {
		if got := f.BilinearAt(pt.x, pt.y); got != 5 {
			t.Errorf("1×1 sample(%v, %v) = %v, want 5", pt.x, pt.y, got)
		}
	}
}

func TestBilinearBatchOrderPreserved(t *testing.T) {
	f := gridField(4, 4)
	xs := []float64{0.5, 2.25, 3.0, -1.0, 1.75}
	ys := []float64{1.5, 0.75, 3.0, 2.5, 0.0}

	batch, err := f.Bilinear(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != len(xs) {
		t.Fatalf("batch length = %d, want %d", len(batch), len(xs))
	}
	for i := range xs {
		single, err := f.Bilinear(xs[i:i+1], ys[i:i+1])
		if err != nil {
			t.Fatal(err)
		}
		if batch[i] != single[0] {
			t.Errorf("point %d: batch %v != single %v", i, batch[i], single[0])
		}
	}
}

func TestBilinearSingleRowAndColumn(t *testing.T) {
	// W=1: both x corners collapse; interpolation runs purely in y.
	col := FieldFromValues(3, 1, []float64{0, 10, 20})
	if got := col.BilinearAt(0.7, 0.5); math.Abs(got-5) > 1e-12 {
		t.Errorf("1-column sample = %v, want 5", got)
	}

	// H=1: both y corners collapse; interpolation runs purely in x.
	row := FieldFromValues(1, 3, []float64{0, 10, 20})
	if got := row.BilinearAt(1.5, -2.3); math.Abs(got-15) > 1e-12 {
		t.Errorf("1-row sample = %v, want 15", got)
	}
}

func TestBilinearNaNPropagates(t *testing.T) {
	f := gridField(3, 3)

	if got := f.BilinearAt(math.NaN(), 1); !math.IsNaN(got) {
		t.Errorf("NaN x: got %v, want NaN", got)
	}
	if got := f.BilinearAt(1, math.NaN()); !math.IsNaN(got) {
		t.Errorf("NaN y: got %v, want NaN", got)
	}

	// A NaN sample with nonzero weight poisons the result.
	f.Set(1, 1, math.NaN())
	if got := f.BilinearAt(0.5, 0.5); !math.IsNaN(got) {
		t.Errorf("NaN corner: got %v, want NaN", got)
	}
}

func TestBilinearZeroLengthBatch(t *testing.T) {
	f := gridField(2, 2)
	got, err := f.Bilinear(nil, nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty batch returned %d values", len(got))
	}
}

func TestBilinearLengthMismatch(t *testing.T) {
	f := gridField(2, 2)
	_, err := f.Bilinear([]float64{1, 2}, []float64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestBilinearEmptyField(t *testing.T) {
	for _, f := range []*Field{NewField(0, 0), NewField(0, 3), NewField(3, 0)} {
		_, err := f.Bilinear([]float64{0}, []float64{0})
		if !errors.Is(err, ErrEmptyField) {
			t.Errorf("%d×%d field: got %v, want ErrEmptyField", f.Rows(), f.Cols(), err)
		}
	}
}

func TestBilinearAtZeroAlloc(t *testing.T) {
	f := gridField(16, 16)
	result := testing.AllocsPerRun(100, func() {
		f.BilinearAt(7.3, 2.8)
	})
	if result > 0 {
		t.Errorf("BilinearAt allocated %f times per run, want 0", result)
	}
}

func TestFieldStackBilinear(t *testing.T) {
	r := FieldFromValues(2, 2, []float64{0, 1, 2, 3})
	g := FieldFromValues(2, 2, []float64{10, 11, 12, 13})
	b := FieldFromValues(2, 2, []float64{20, 21, 22, 23})
	s, err := NewFieldStack(r, g, b)
	if err != nil {
		t.Fatal(err)
	}

	vals, err := s.Bilinear([]float64{0.5, 0}, []float64{0.5, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || len(vals[0]) != 3 {
		t.Fatalf("shape = %d points × %d channels, want 2×3", len(vals), len(vals[0]))
	}
	want := [][]float64{{1.5, 11.5, 21.5}, {0, 10, 20}}
	for i := range want {
		for c := range want[i] {
			if math.Abs(vals[i][c]-want[i][c]) > 1e-12 {
				t.Errorf("point %d channel %d = %v, want %v", i, c, vals[i][c], want[i][c])
			}
		}
	}
}

func TestFieldStackBilinearLengthMismatch(t *testing.T) {
	f := gridField(2, 2)
	s, err := NewFieldStack(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Bilinear([]float64{0}, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestResampleUpscale(t *testing.T) {
	f := FieldFromValues(2, 2, []float64{0, 1, 2, 3})
	out := f.Resample(3, 3)

	if out.Rows() != 3 || out.Cols() != 3 {
		t.Fatalf("resampled dims %d×%d, want 3×3", out.Rows(), out.Cols())
	}
	// Corners preserved.
	corners := []struct {
		r, c int
		want float64
	}{
		{0, 0, 0}, {0, 2, 1}, {2, 0, 2}, {2, 2, 3},
	}
	for _, tt := range corners {
		if got := out.At(tt.r, tt.c); got != tt.want {
			t.Errorf("corner (%d,%d) = %v, want %v", tt.r, tt.c, got, tt.want)
		}
	}
	// Center is the four-corner average.
	if got := out.At(1, 1); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("center = %v, want 1.5", got)
	}
}

func TestResampleDegenerateAxis(t *testing.T) {
	f := gridField(3, 3)
	out := f.Resample(1, 1)
	if got := out.At(0, 0); got != f.At(0, 0) {
		t.Errorf("1×1 resample = %v, want %v", got, f.At(0, 0))
	}
}
