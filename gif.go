package glimpse

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// ExportGIF writes frames as an animated GIF at path, with delayCS
// hundredths of a second per frame. Frames are dithered onto the Plan 9
// palette. This is the persistable counterpart of on-screen playback: the
// same frame sequence a Player shows can be saved and embedded elsewhere.
func ExportGIF(path string, frames []image.Image, delayCS int) error {
	if len(frames) == 0 {
		return errors.New("glimpse: no frames to export")
	}
	if delayCS < 0 {
		return fmt.Errorf("glimpse: negative frame delay %d", delayCS)
	}

	out := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, frame := range frames {
		b := frame.Bounds()
		p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), frame, b.Min)
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, delayCS)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// GrayFrames renders a field sequence to grayscale images, ready for
// ExportGIF.
func GrayFrames(fields []*Field) []image.Image {
	frames := make([]image.Image, len(fields))
	for i, f := range fields {
		frames[i] = f.ToGray()
	}
	return frames
}
