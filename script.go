package glimpse

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for an interaction script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences injected clicks, drags and screenshots across ticks,
// replaying a recorded interaction against a Viewer without a human at the
// mouse. Attach to a Viewer via SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script. Supported actions are
// "click" (x, y), "drag" (fromX/fromY/toX/toY, frames), "wait" (frames)
// and "screenshot" (label).
func LoadScript(jsonData []byte) (*Script, error) {
	var file scriptFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &Script{steps: file.Steps}, nil
}

// Done reports whether every step has executed and the inject queue drained.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one tick. Called from Viewer.Update.
func (r *Script) step(v *Viewer) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(v.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		v.Screenshot(st.Label)
	case "click":
		v.InjectClick(st.X, st.Y)
	case "drag":
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(v.injectQueue) == 0 {
		r.done = true
	}
}
