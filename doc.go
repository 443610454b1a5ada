// Package glimpse is an interactive image and field inspection toolkit for
// [Ebitengine].
//
// Glimpse is the desktop counterpart of a notebook analysis session: load a
// 2D scalar field or an image sequence, look at it, scrub through it, and
// click out numbered reference points to use elsewhere in a pipeline. The
// numeric core is a batch bilinear sampler over [Field] grids; everything
// else is display and input plumbing on top of Ebitengine.
//
// # Quick start
//
// The simplest way to get a window on screen is [Run]:
//
//	v := glimpse.NewViewer()
//	v.SetField(field)
//
//	picker := glimpse.NewPointPicker(v, v.ContentRect(), 4)
//	glimpse.Run(v, glimpse.RunConfig{
//		Title: "pick 4 points", Width: 640, Height: 480,
//	})
//	xs, ys := picker.Points()
//
// For full control, implement [ebiten.Game] yourself and call
// [Viewer.Update] and [Viewer.Draw] directly.
//
// # Sampling
//
// A [Field] is an H×W grid of float64 samples. [Field.Bilinear] interpolates
// a batch of fractional (x, y) coordinates, clamping out-of-range lookups to
// the nearest edge cell:
//
//	vals, err := field.Bilinear([]float64{0.5, 3.2}, []float64{0.5, 1.7})
//
// [FieldStack] extends the same contract to multi-channel data (for example
// the R, G, B planes of an image).
//
// # Playback
//
// A [Player] steps through a frame sequence at a fixed rate. It does not own
// a loop: call [Player.Update] each tick, typically by attaching the player
// to a [Viewer]. [Player.SeekSmooth] scrubs between frames with an eased
// tween (via [gween]).
//
// # Point picking
//
// [PointPicker] collects up to N clicks inside a screen-space rectangle,
// recording image-space coordinates and drawing a numbered marker for each.
// Clicks outside the rectangle are dropped. Once N points are collected the
// picker unregisters its click handler and further input is ignored.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package glimpse
