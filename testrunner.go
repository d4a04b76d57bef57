package scrub

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a scroll script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScrollScript sequences injected scrolling, waits and screenshots across
// ticks, for tours of a page and automated visual checks. Attach to a Scene
// via SetScrollScript. Scripts are YAML (or JSON):
//
//	steps:
//	  - {action: scrollTo, y: 1440, frames: 60}
//	  - {action: wait, frames: 30}
//	  - {action: screenshot, label: pinned}
type ScrollScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScrollScript parses a scroll script.
func LoadScrollScript(data []byte) (*ScrollScript, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scroll script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse scroll script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "scrollTo", "scrollBy", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse scroll script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScrollScript{steps: f.Steps}, nil
}

// SetScrollScript attaches a script to the scene. Its step method runs at
// the start of every Update.
func (s *Scene) SetScrollScript(script *ScrollScript) {
	s.script = script
}

// Done reports whether all steps in the script have been executed.
func (r *ScrollScript) Done() bool {
	return r.done
}

// step advances the script by one tick.
func (r *ScrollScript) step(s *Scene) {
	if r.done {
		return
	}
	// Let queued scrolling drain before advancing.
	if s.Injecting() {
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
		s.Screenshot(st.Label)
	case "scrollTo":
		s.InjectScrollTo(st.Y, st.Frames)
	case "scrollBy":
		s.InjectScrollTo(s.scrollY+st.DY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !s.Injecting() {
		r.done = true
	}
}
