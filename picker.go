package glimpse

import (
	"log"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	markerSize     = 8.0  // marker quad edge in pixels at full pop
	markerPopTime  = 0.18 // seconds for the pop-in tween
	labelOffsetPct = 0.05 // label x offset as a fraction of the pick bounds width
)

// marker is one placed point with its pop-in animation state.
type marker struct {
	x, y float64 // image-space coordinates
	size float64
	pop  *gween.Tween
}

// PointPicker collects up to a target number of numbered click points on a
// viewer. Each accepted click records the image-space coordinates and draws
// a marker with a 1-based sequence label next to it. Clicks outside the
// screen-space bounds are silently dropped. Once the target count is
// reached the picker removes its click handler, so further input cannot
// add points.
type PointPicker struct {
	// MarkerColor tints the point markers. Defaults to ColorMarker.
	MarkerColor Color

	viewer  *Viewer
	bounds  Rect
	target  int
	xs, ys  []float64
	markers []marker
	handle  CallbackHandle
	active  bool
}

// NewPointPicker registers a picker on the viewer that accepts clicks inside
// the given screen-space bounds until n points are collected. The viewer
// draws the picker's markers until Dispose is called.
// Panics if n is not positive.
func NewPointPicker(v *Viewer, bounds Rect, n int) *PointPicker {
	if n <= 0 {
		panic("glimpse: point picker target must be positive")
	}
	p := &PointPicker{
		MarkerColor: ColorMarker,
		viewer:      v,
		bounds:      bounds,
		target:      n,
		xs:          make([]float64, 0, n),
		ys:          make([]float64, 0, n),
		markers:     make([]marker, 0, n),
		active:      true,
	}
	p.handle = v.OnClick(p.handleClick)
	v.addPicker(p)
	return p
}

// handleClick accepts or drops a single click.
func (p *PointPicker) handleClick(ctx ClickContext) {
	if !p.active {
		return
	}
	if !p.bounds.Contains(ctx.ScreenX, ctx.ScreenY) {
		if globalDebug {
			log.Printf("glimpse: picker dropped click at (%.1f, %.1f) outside bounds", ctx.ScreenX, ctx.ScreenY)
		}
		return
	}

	p.xs = append(p.xs, ctx.ImageX)
	p.ys = append(p.ys, ctx.ImageY)
	p.markers = append(p.markers, marker{
		x:   ctx.ImageX,
		y:   ctx.ImageY,
		pop: gween.New(0, markerSize, markerPopTime, ease.OutCubic),
	})

	// Explicit counter, explicit unsubscribe: at the target count the
	// handler is removed so stray clicks cannot add points.
	if len(p.xs) >= p.target {
		p.stopListening()
	}
}

// stopListening removes the click handler and marks the picker inactive.
func (p *PointPicker) stopListening() {
	if !p.active {
		return
	}
	p.handle.Remove()
	p.active = false
}

// Cancel stops listening before the target count is reached. Points already
// collected remain accessible.
func (p *PointPicker) Cancel() {
	p.stopListening()
}

// Dispose stops listening and detaches the picker from the viewer so its
// markers are no longer drawn.
func (p *PointPicker) Dispose() {
	p.stopListening()
	p.viewer.removePicker(p)
}

// Active reports whether the picker is still accepting clicks.
func (p *PointPicker) Active() bool { return p.active }

// Done reports whether the target number of points has been collected.
func (p *PointPicker) Done() bool { return len(p.xs) >= p.target }

// Count returns the number of points collected so far.
func (p *PointPicker) Count() int { return len(p.xs) }

// Points returns the collected image-space coordinates in click order.
// The returned slices MUST NOT be mutated.
func (p *PointPicker) Points() (xs, ys []float64) {
	return p.xs, p.ys
}

// update advances the marker pop-in tweens by dt seconds.
func (p *PointPicker) update(dt float64) {
	for i := range p.markers {
		m := &p.markers[i]
		if m.pop == nil {
			continue
		}
		v, finished := m.pop.Update(float32(dt))
		m.size = float64(v)
		if finished {
			m.pop = nil
		}
	}
}

// draw renders each marker as a tinted quad centered on its point, with its
// 1-based sequence number printed beside it.
func (p *PointPicker) draw(screen *ebiten.Image) {
	labelOffset := labelOffsetPct * p.bounds.Width
	for i := range p.markers {
		m := &p.markers[i]
		sx, sy := p.viewer.ImageToScreen(m.x, m.y)

		if m.size > 0 {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(m.size, m.size)
			op.GeoM.Translate(sx-m.size/2, sy-m.size/2)
			op.ColorScale.Scale(
				float32(p.MarkerColor.R*p.MarkerColor.A),
				float32(p.MarkerColor.G*p.MarkerColor.A),
				float32(p.MarkerColor.B*p.MarkerColor.A),
				float32(p.MarkerColor.A),
			)
			screen.DrawImage(WhitePixel, op)
		}

		ebitenutil.DebugPrintAt(screen, strconv.Itoa(i+1), int(sx+labelOffset), int(sy))
	}
}
