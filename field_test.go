package glimpse

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

func TestNewFieldDims(t *testing.T) {
	f := NewField(3, 5)
	if f.Rows() != 3 || f.Cols() != 5 {
		t.Errorf("dims = %d×%d, want 3×5", f.Rows(), f.Cols())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			if f.At(r, c) != 0 {
				t.Errorf("new field not zero at (%d,%d)", r, c)
			}
		}
	}
}

func TestFieldSetAt(t *testing.T) {
	f := NewField(2, 2)
	f.Set(1, 0, 42.5)
	if got := f.At(1, 0); got != 42.5 {
		t.Errorf("At(1,0) = %v, want 42.5", got)
	}
	if got := f.At(0, 1); got != 0 {
		t.Errorf("At(0,1) = %v, want 0", got)
	}
}

func TestFieldAtOutOfRangePanics(t *testing.T) {
	f := NewField(2, 2)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on out-of-range At")
		}
		if !strings.Contains(r.(string), "glimpse:") {
			t.Errorf("panic message %q missing package prefix", r)
		}
	}()
	f.At(2, 0)
}

func TestFieldFromValuesLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched values length")
		}
	}()
	FieldFromValues(2, 2, []float64{1, 2, 3})
}

func TestFieldFromValuesCopies(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	f := FieldFromValues(2, 2, vals)
	vals[0] = 99
	if f.At(0, 0) != 1 {
		t.Error("field should copy its input values")
	}
}

func TestFieldFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 128})
	img.SetGray(0, 1, color.Gray{Y: 200})
	img.SetGray(1, 1, color.Gray{Y: 255})

	f := FieldFromImage(img)
	// Gray pixels have r=g=b, so the luma weights sum back to the pixel value.
	tests := []struct {
		r, c int
		want float64
	}{
		{0, 0, 0}, {0, 1, 128}, {1, 0, 200}, {1, 1, 255},
	}
	for _, tt := range tests {
		if got := f.At(tt.r, tt.c); math.Abs(got-tt.want) > 0.01 {
			t.Errorf("At(%d,%d) = %v, want %v", tt.r, tt.c, got, tt.want)
		}
	}
}

func TestFieldFromImageLuma(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	f := FieldFromImage(img)
	// Pure red: 0.299 * 255.
	if got := f.At(0, 0); math.Abs(got-0.299*255) > 0.5 {
		t.Errorf("red luma = %v, want ~%v", got, 0.299*255)
	}
}

func TestFieldFromImageOffsetBounds(t *testing.T) {
	// Sub-images have non-zero Min; the field must still index from (0,0).
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(2, 2, color.Gray{Y: 100})
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.Gray)

	f := FieldFromImage(sub)
	if f.Rows() != 2 || f.Cols() != 2 {
		t.Fatalf("dims = %d×%d, want 2×2", f.Rows(), f.Cols())
	}
	if got := f.At(0, 0); math.Abs(got-100) > 0.01 {
		t.Errorf("At(0,0) = %v, want 100", got)
	}
}

func TestFieldToGrayClamps(t *testing.T) {
	f := FieldFromValues(1, 3, []float64{-10, 127.6, 300})
	img := f.ToGray()

	want := []uint8{0, 128, 255}
	for c, w := range want {
		if got := img.GrayAt(c, 0).Y; got != w {
			t.Errorf("pixel %d = %d, want %d", c, got, w)
		}
	}
}

func TestFieldGrayRoundTrip(t *testing.T) {
	f := FieldFromValues(2, 2, []float64{0, 50, 150, 255})
	back := FieldFromImage(f.ToGray())
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if math.Abs(back.At(r, c)-f.At(r, c)) > 0.01 {
				t.Errorf("round trip (%d,%d): %v != %v", r, c, back.At(r, c), f.At(r, c))
			}
		}
	}
}

func TestNewFieldStackDimsMismatch(t *testing.T) {
	a := NewField(2, 2)
	b := NewField(2, 3)
	if _, err := NewFieldStack(a, b); err == nil {
		t.Error("expected error for mismatched channel dims")
	}
}

func TestNewFieldStackEmpty(t *testing.T) {
	if _, err := NewFieldStack(); err == nil {
		t.Error("expected error for empty stack")
	}
}

func TestFieldStackFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	s := FieldStackFromImage(img)
	if s.Channels() != 3 {
		t.Fatalf("channels = %d, want 3", s.Channels())
	}
	want := []float64{10, 20, 30}
	for c, w := range want {
		if got := s.Channel(c).At(0, 0); math.Abs(got-w) > 0.01 {
			t.Errorf("channel %d = %v, want %v", c, got, w)
		}
	}
}
