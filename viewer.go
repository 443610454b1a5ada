package glimpse

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// ClickContext carries the data for one accepted click.
type ClickContext struct {
	// ScreenX, ScreenY are the click position in screen coordinates.
	ScreenX, ScreenY float64
	// ImageX, ImageY are the same position mapped through the viewer's view
	// transform into the displayed content's coordinate space.
	ImageX, ImageY float64
	Button         MouseButton
	Modifiers      KeyModifiers
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type clickRegistry struct {
	handlers    []clickHandler
	dispatchBuf []clickHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered click callback.
type CallbackHandle struct {
	id  uint32
	reg *clickRegistry
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = clickHandler{}
			h.reg.handlers = s[:len(s)-1]
			return
		}
	}
}

// dispatch calls every registered handler with ctx. Handlers may remove
// themselves (or others) during dispatch, so iteration runs over a reused
// snapshot of the registration list.
func (r *clickRegistry) dispatch(ctx ClickContext) {
	r.dispatchBuf = append(r.dispatchBuf[:0], r.handlers...)
	for _, h := range r.dispatchBuf {
		h.fn(ctx)
	}
}

// Viewer owns the displayed content (a static image or a Player), the view
// transform mapping content pixels to the screen, pickers, and mouse input
// state. It is the ebiten-facing surface of the package: call Update once
// per tick and Draw once per frame, or hand it to Run.
type Viewer struct {
	// ClearColor fills the screen before the content is drawn.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG captures.
	ScreenshotDir string

	image  *ebiten.Image
	player *Player

	offsetX, offsetY float64
	scale            float64

	handlers clickRegistry
	pickers  []*PointPicker

	// Pointer state machine. A click is a press and release that never
	// leaves the drag dead zone; moving beyond it suppresses the click.
	down           bool
	dragging       bool
	startX, startY float64
	lastX, lastY   float64
	button         MouseButton
	dragDeadZone   float64

	injectQueue []syntheticPointerEvent

	updateFunc func() error
	script     *Script

	screenshotQueue []string
	debug           bool
}

// NewViewer creates an empty viewer with an identity view transform.
func NewViewer() *Viewer {
	return &Viewer{
		ClearColor:    Color{R: 0.118, G: 0.118, B: 0.157, A: 1},
		ScreenshotDir: "screenshots",
		scale:         1,
		dragDeadZone:  defaultDragDeadZone,
	}
}

// SetImage displays a static image. Clears any attached player.
func (v *Viewer) SetImage(img *ebiten.Image) {
	v.image = img
	v.player = nil
}

// SetField displays a field rendered as a grayscale image.
func (v *Viewer) SetField(f *Field) {
	v.SetImage(f.Image())
}

// SetPlayer displays an animated frame sequence. The viewer drives the
// player's Update from its own.
func (v *Viewer) SetPlayer(p *Player) {
	v.player = p
	v.image = nil
}

// Player returns the attached player, or nil.
func (v *Viewer) Player() *Player { return v.player }

// SetView positions the content at the given screen offset with a uniform
// scale factor. Panics if scale is not positive.
func (v *Viewer) SetView(offsetX, offsetY, scale float64) {
	if scale <= 0 {
		panic("glimpse: view scale must be positive")
	}
	v.offsetX = offsetX
	v.offsetY = offsetY
	v.scale = scale
}

// View returns the current view offset and scale.
func (v *Viewer) View() (offsetX, offsetY, scale float64) {
	return v.offsetX, v.offsetY, v.scale
}

// ScreenToImage maps a screen coordinate into the displayed content's
// coordinate space.
func (v *Viewer) ScreenToImage(sx, sy float64) (float64, float64) {
	return (sx - v.offsetX) / v.scale, (sy - v.offsetY) / v.scale
}

// ImageToScreen maps a content coordinate onto the screen.
func (v *Viewer) ImageToScreen(x, y float64) (float64, float64) {
	return x*v.scale + v.offsetX, y*v.scale + v.offsetY
}

// ContentRect returns the screen-space rectangle the displayed content
// occupies under the current view transform. A viewer with no content
// returns the zero Rect.
func (v *Viewer) ContentRect() Rect {
	img := v.currentImage()
	if img == nil {
		return Rect{}
	}
	b := img.Bounds()
	return Rect{
		X:      v.offsetX,
		Y:      v.offsetY,
		Width:  float64(b.Dx()) * v.scale,
		Height: float64(b.Dy()) * v.scale,
	}
}

// currentImage resolves the image to draw this frame.
func (v *Viewer) currentImage() *ebiten.Image {
	if v.player != nil {
		return v.player.CurrentFrame()
	}
	return v.image
}

// OnClick registers a callback invoked once per accepted click, until the
// returned handle's Remove is called.
func (v *Viewer) OnClick(fn func(ClickContext)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.handlers = append(v.handlers.handlers, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers}
}

// SetDragDeadZone sets the movement in pixels beyond which a press stops
// counting as a click.
func (v *Viewer) SetDragDeadZone(pixels float64) {
	v.dragDeadZone = pixels
}

// SetUpdateFunc installs a per-tick callback run at the end of Update.
// Returning a non-nil error stops the game loop (ebiten.Termination ends it
// cleanly).
func (v *Viewer) SetUpdateFunc(fn func() error) {
	v.updateFunc = fn
}

// SetScript attaches a Script to the viewer. The script is stepped from
// Update before input processing each tick; pass nil to detach.
func (v *Viewer) SetScript(s *Script) {
	v.script = s
}

// SetDebugMode enables or disables debug logging to stderr.
func (v *Viewer) SetDebugMode(enabled bool) {
	v.debug = enabled
	globalDebug = enabled
}

// Update processes input and advances playback and marker animations by one
// tick.
func (v *Viewer) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if v.script != nil {
		v.script.step(v)
	}
	v.processInput()

	if v.player != nil {
		v.player.Update(dt)
	}
	for _, p := range v.pickers {
		p.update(dt)
	}

	if v.updateFunc != nil {
		return v.updateFunc()
	}
	return nil
}

// Draw fills the screen, draws the content under the view transform, then
// each picker's markers, and finally flushes any queued screenshots.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.ClearColor.toRGBA())

	if img := v.currentImage(); img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(v.scale, v.scale)
		op.GeoM.Translate(v.offsetX, v.offsetY)
		screen.DrawImage(img, op)
	}

	for _, p := range v.pickers {
		p.draw(screen)
	}

	v.flushScreenshots(screen)
}

// addPicker attaches a picker so the viewer updates and draws it.
func (v *Viewer) addPicker(p *PointPicker) {
	v.pickers = append(v.pickers, p)
}

// removePicker detaches a picker from drawing. Its collected points remain
// accessible.
func (v *Viewer) removePicker(p *PointPicker) {
	for i, q := range v.pickers {
		if q == p {
			copy(v.pickers[i:], v.pickers[i+1:])
			v.pickers[len(v.pickers)-1] = nil
			v.pickers = v.pickers[:len(v.pickers)-1]
			return
		}
	}
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// processInput handles one tick of pointer input. Injected synthetic events
// take priority over the real mouse; at most one injected event is consumed
// per tick so a queued click spans a press frame and a release frame, as
// real input would.
func (v *Viewer) processInput() {
	mods := readModifiers()
	if v.processInjectedInput(mods) {
		return
	}
	v.processMousePointer(mods)
}

// processMousePointer feeds the real mouse state through the pointer state
// machine.
func (v *Viewer) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	// If the pointer is already down, keep the button captured at press
	// time rather than re-deriving it mid-interaction.
	var pressed bool
	button := v.button
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if !v.down {
			if left {
				button = MouseButtonLeft
			} else if right {
				button = MouseButtonRight
			} else {
				button = MouseButtonMiddle
			}
		}
	}

	v.processPointer(sx, sy, pressed, button, mods)
}

// processPointer runs the click state machine for the single mouse pointer.
func (v *Viewer) processPointer(sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	switch {
	case pressed && !v.down:
		// Just pressed.
		v.down = true
		v.dragging = false
		v.button = button
		v.startX, v.startY = sx, sy
		v.lastX, v.lastY = sx, sy

	case !pressed && v.down:
		// Just released: a click only if the pointer never left the dead zone.
		if !v.dragging {
			v.fireClick(sx, sy, v.button, mods)
		}
		v.down = false
		v.dragging = false

	case pressed && v.down:
		// Held, possibly moved.
		if sx != v.lastX || sy != v.lastY {
			dx := sx - v.startX
			dy := sy - v.startY
			if math.Sqrt(dx*dx+dy*dy) > v.dragDeadZone {
				v.dragging = true
			}
			v.lastX, v.lastY = sx, sy
		}
	}
}

// fireClick maps the click into content space and dispatches it to every
// registered handler in registration order.
func (v *Viewer) fireClick(sx, sy float64, button MouseButton, mods KeyModifiers) {
	ix, iy := v.ScreenToImage(sx, sy)
	v.handlers.dispatch(ClickContext{
		ScreenX: sx, ScreenY: sy,
		ImageX: ix, ImageY: iy,
		Button: button, Modifiers: mods,
	})
}
