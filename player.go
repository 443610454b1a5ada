package glimpse

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Player steps through a fixed sequence of frames at a configurable rate.
// Playback is lazy and restartable: the player only tracks a frame index,
// and the current frame is fetched on demand. Call Update(dt) once per tick
// and draw CurrentFrame() wherever it should appear, typically by attaching
// the player to a Viewer. There is no global playback manager.
type Player struct {
	frames  []*ebiten.Image
	fps     float64
	elapsed float64
	frame   int
	playing bool
	loop    bool
	done    bool
	scrub   *gween.Tween

	// OnFrame, if non-nil, is invoked whenever the current frame index
	// changes (including Seek and Rewind).
	OnFrame func(frame int)
}

// NewPlayer creates a paused player positioned on frame 0.
// Panics if frames is empty or fps is not positive.
func NewPlayer(frames []*ebiten.Image, fps float64) *Player {
	if len(frames) == 0 {
		panic("glimpse: player needs at least one frame")
	}
	if fps <= 0 {
		panic("glimpse: player fps must be positive")
	}
	return &Player{frames: frames, fps: fps}
}

// Len returns the number of frames in the sequence.
func (p *Player) Len() int { return len(p.frames) }

// Frame returns the current frame index.
func (p *Player) Frame() int { return p.frame }

// CurrentFrame returns the image for the current frame index.
func (p *Player) CurrentFrame() *ebiten.Image { return p.frames[p.frame] }

// Playing reports whether playback is advancing.
func (p *Player) Playing() bool { return p.playing }

// Done reports whether a non-looping playback has run past its last frame.
// Looping players are never done.
func (p *Player) Done() bool { return p.done }

// SetLoop selects whether playback wraps from the last frame to the first.
func (p *Player) SetLoop(loop bool) { p.loop = loop }

// Loop reports whether playback wraps.
func (p *Player) Loop() bool { return p.loop }

// Play starts or resumes playback. Playing a done, non-looping player
// restarts it from frame 0.
func (p *Player) Play() {
	if p.done {
		p.Rewind()
	}
	p.playing = true
}

// Pause halts playback without moving the frame index.
func (p *Player) Pause() { p.playing = false }

// Rewind moves to frame 0 and clears the done state. Playback state is
// otherwise unchanged, so a playing player keeps playing from the start.
func (p *Player) Rewind() { p.setFrame(0) }

// Seek jumps to the given frame index, clamped into the valid range, and
// cancels any smooth scrub in progress.
func (p *Player) Seek(frame int) { p.setFrame(frame) }

// SeekSmooth scrubs from the current frame to the target index over the
// given duration in seconds, easing out. Playback pauses for the duration
// of the scrub; the caller keeps driving Update as usual.
func (p *Player) SeekSmooth(frame int, duration float32) {
	target := clampIndex(frame, len(p.frames)-1)
	if duration <= 0 {
		p.setFrame(target)
		return
	}
	p.playing = false
	p.done = false
	p.scrub = gween.New(float32(p.frame), float32(target), duration, ease.OutCubic)
}

// setFrame clamps, assigns, resets accumulated time, and fires OnFrame on
// change.
func (p *Player) setFrame(frame int) {
	p.scrub = nil
	p.elapsed = 0
	p.done = false
	frame = clampIndex(frame, len(p.frames)-1)
	if frame == p.frame {
		return
	}
	p.frame = frame
	if p.OnFrame != nil {
		p.OnFrame(p.frame)
	}
}

// Update advances playback by dt seconds. A smooth scrub takes priority
// over normal playback while it is in flight.
func (p *Player) Update(dt float64) {
	if p.scrub != nil {
		v, finished := p.scrub.Update(float32(dt))
		frame := clampIndex(int(math.Round(float64(v))), len(p.frames)-1)
		if frame != p.frame {
			p.frame = frame
			if p.OnFrame != nil {
				p.OnFrame(p.frame)
			}
		}
		if finished {
			p.scrub = nil
		}
		return
	}

	if !p.playing {
		return
	}

	p.elapsed += dt
	frameDur := 1.0 / p.fps
	for p.elapsed >= frameDur {
		p.elapsed -= frameDur
		p.advance()
		if !p.playing {
			p.elapsed = 0
			break
		}
	}
}

// advance steps one frame forward, wrapping or stopping at the end.
func (p *Player) advance() {
	if p.frame+1 < len(p.frames) {
		p.frame++
		if p.OnFrame != nil {
			p.OnFrame(p.frame)
		}
		return
	}
	if p.loop {
		p.frame = 0
		if p.OnFrame != nil {
			p.OnFrame(p.frame)
		}
		return
	}
	// Ran past the last frame of a non-looping sequence.
	p.playing = false
	p.done = true
}
