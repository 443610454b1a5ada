package glimpse

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Field is a rectangular grid of scalar samples: H rows by W columns, stored
// row-major. Integer coordinates align so that the continuous point (x, y)
// sits exactly on grid cell (row=y, col=x). Sampling operations never mutate
// a Field, so a Field may be read concurrently once constructed.
type Field struct {
	h, w int
	data []float64
}

// NewField creates an h×w field with all samples zero.
// Panics if either dimension is negative. Zero dimensions are allowed; a
// degenerate field rejects sampling with ErrEmptyField.
func NewField(h, w int) *Field {
	if h < 0 || w < 0 {
		panic("glimpse: field dimensions must be non-negative")
	}
	return &Field{h: h, w: w, data: make([]float64, h*w)}
}

// FieldFromValues creates an h×w field backed by a copy of vals, which must
// hold exactly h*w samples in row-major order.
func FieldFromValues(h, w int, vals []float64) *Field {
	if h < 0 || w < 0 {
		panic("glimpse: field dimensions must be non-negative")
	}
	if len(vals) != h*w {
		panic(fmt.Sprintf("glimpse: field values length %d does not match %d×%d", len(vals), h, w))
	}
	f := NewField(h, w)
	copy(f.data, vals)
	return f
}

// FieldFromImage converts an image to a grayscale field with sample values
// in [0, 255], using the Rec. 601 luma weights.
func FieldFromImage(img image.Image) *Field {
	b := img.Bounds()
	f := NewField(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
			f.data[(y-b.Min.Y)*f.w+(x-b.Min.X)] = luma / 257.0
		}
	}
	return f
}

// Rows returns the number of rows (H).
func (f *Field) Rows() int { return f.h }

// Cols returns the number of columns (W).
func (f *Field) Cols() int { return f.w }

// At returns the sample at (row, col). Panics if out of range.
func (f *Field) At(row, col int) float64 {
	if row < 0 || row >= f.h || col < 0 || col >= f.w {
		panic(fmt.Sprintf("glimpse: field index (%d,%d) out of range %d×%d", row, col, f.h, f.w))
	}
	return f.data[row*f.w+col]
}

// Set stores a sample at (row, col). Panics if out of range.
func (f *Field) Set(row, col int, v float64) {
	if row < 0 || row >= f.h || col < 0 || col >= f.w {
		panic(fmt.Sprintf("glimpse: field index (%d,%d) out of range %d×%d", row, col, f.h, f.w))
	}
	f.data[row*f.w+col] = v
}

// ToGray renders the field as an 8-bit grayscale image. Sample values are
// rounded and clamped into [0, 255].
func (f *Field) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.w, f.h))
	for i, v := range f.data {
		g := int(v + 0.5)
		if g < 0 {
			g = 0
		} else if g > 255 {
			g = 255
		}
		img.Pix[i] = uint8(g)
	}
	return img
}

// Image renders the field as a displayable grayscale ebiten image.
func (f *Field) Image() *ebiten.Image {
	return ebiten.NewImageFromImage(f.ToGray())
}

// Resample returns a new h×w field resampled from f through the bilinear
// sampler. Corners map to corners: source coordinates are spaced so index 0
// and the last index of each output axis land on the first and last source
// cell. A degenerate output axis (length 1) is pinned to source index 0.
func (f *Field) Resample(h, w int) *Field {
	if f.h < 1 || f.w < 1 {
		panic("glimpse: cannot resample an empty field")
	}
	out := NewField(h, w)
	sx := axisScale(f.w, w)
	sy := axisScale(f.h, h)
	for row := 0; row < h; row++ {
		y := float64(row) * sy
		for col := 0; col < w; col++ {
			out.data[row*w+col] = f.BilinearAt(float64(col)*sx, y)
		}
	}
	return out
}

// axisScale maps output index space [0, dst-1] onto source index space
// [0, src-1].
func axisScale(src, dst int) float64 {
	if dst <= 1 {
		return 0
	}
	return float64(src-1) / float64(dst-1)
}

// FieldStack is a multi-channel field: one Field per channel, all with
// identical dimensions. It extends the bilinear sampling contract to data
// that carries a vector of scalars per cell, such as the R, G, B planes of
// an image.
type FieldStack struct {
	channels []*Field
}

// NewFieldStack builds a stack from the given channels. All channels must
// share the same dimensions.
func NewFieldStack(channels ...*Field) (*FieldStack, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("glimpse: field stack needs at least one channel")
	}
	h, w := channels[0].h, channels[0].w
	for i, c := range channels[1:] {
		if c.h != h || c.w != w {
			return nil, fmt.Errorf("glimpse: channel %d is %d×%d, want %d×%d", i+1, c.h, c.w, h, w)
		}
	}
	return &FieldStack{channels: channels}, nil
}

// FieldStackFromImage splits an image into R, G, B channel fields with
// sample values in [0, 255].
func FieldStackFromImage(img image.Image) *FieldStack {
	b := img.Bounds()
	r := NewField(b.Dy(), b.Dx())
	g := NewField(b.Dy(), b.Dx())
	bl := NewField(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			i := (y-b.Min.Y)*r.w + (x - b.Min.X)
			r.data[i] = float64(cr) / 257.0
			g.data[i] = float64(cg) / 257.0
			bl.data[i] = float64(cb) / 257.0
		}
	}
	s, _ := NewFieldStack(r, g, bl)
	return s
}

// Channels returns the number of channels in the stack.
func (s *FieldStack) Channels() int { return len(s.channels) }

// Channel returns the i-th channel field.
func (s *FieldStack) Channel(i int) *Field { return s.channels[i] }
