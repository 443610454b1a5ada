package glimpse

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, converted through the view transform identically to real
// mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
}

// InjectPress queues a pointer press event at the given screen coordinates
// (left button). The event is consumed on the next tick's processInput call.
func (v *Viewer) InjectPress(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move event at the given screen coordinates
// with the button held down. Use this between InjectPress and InjectRelease
// to simulate a drag (which suppresses the click).
func (v *Viewer) InjectMove(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release event at the given screen
// coordinates.
func (v *Viewer) InjectRelease(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick is a convenience that queues a press followed by a release at
// the same screen coordinates. Consumes two ticks.
func (v *Viewer) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), interpolated moves, and a
// release at (toX, toY), spread across the given number of events (minimum 2).
func (v *Viewer) InjectDrag(fromX, fromY, toX, toY float64, events int) {
	if events < 2 {
		events = 2
	}
	v.InjectPress(fromX, fromY)
	for i := 1; i < events-1; i++ {
		t := float64(i) / float64(events-1)
		v.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.InjectRelease(toX, toY)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed (real mouse
// input should be skipped this tick).
func (v *Viewer) processInjectedInput(mods KeyModifiers) bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	v.processPointer(evt.screenX, evt.screenY, evt.pressed, evt.button, mods)
	return true
}
