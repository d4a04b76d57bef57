package scrub

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Direction is the way a stepped transition moves.
type Direction int8

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// TransitionConfig tunes a StepTransition.
type TransitionConfig struct {
	// Duration of each half (exit and entrance) in seconds.
	Duration float32
	// Slide is the horizontal travel in pixels.
	Slide float64
	// ExitEase and EnterEase shape the two halves.
	ExitEase  ease.TweenFunc
	EnterEase ease.TweenFunc
}

// DefaultTransitionConfig returns 0.25 s halves sliding 40 px.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		Duration:  0.25,
		Slide:     40,
		ExitEase:  ease.InCubic,
		EnterEase: ease.OutCubic,
	}
}

type transitionStage uint8

const (
	stageIdle transitionStage = iota
	stageExit
	stageEnter
)

// StepTransition plays the swap between two steps of a form: the current
// content fades and slides out, the caller swaps content at the midpoint,
// then the new content fades and slides in from the other side. It is
// driven by Update(dt), not by scroll.
//
// Calling Transition while one is in flight cancels it immediately (its
// midpoint never fires) and starts the new exit from the current opacity
// and offset, so there is no visual jump.
type StepTransition struct {
	target Target
	cfg    TransitionConfig

	alpha  float64
	offset float64

	stage    transitionStage
	dir      Direction
	tweenA   *gween.Tween
	tweenX   *gween.Tween
	doneA    bool
	doneX    bool
	midpoint func()
}

// NewStepTransition returns an idle transition writing opacity and
// translation to target. Zero config fields take their defaults.
func NewStepTransition(target Target, cfg TransitionConfig) *StepTransition {
	def := DefaultTransitionConfig()
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Slide == 0 {
		cfg.Slide = def.Slide
	}
	if cfg.ExitEase == nil {
		cfg.ExitEase = def.ExitEase
	}
	if cfg.EnterEase == nil {
		cfg.EnterEase = def.EnterEase
	}
	return &StepTransition{target: target, cfg: cfg, alpha: 1}
}

// Transition starts the exit tween. onMidpoint runs exactly once, when the
// exit completes, unless another Transition call cancels this one first.
func (s *StepTransition) Transition(dir Direction, onMidpoint func()) {
	s.stage = stageExit
	s.dir = dir
	s.midpoint = onMidpoint
	s.start(0, -float64(dir)*s.cfg.Slide, s.cfg.ExitEase)
}

func (s *StepTransition) start(toAlpha, toOffset float64, fn ease.TweenFunc) {
	d := s.cfg.Duration
	s.tweenA = gween.New(float32(s.alpha), float32(toAlpha), d, fn)
	s.tweenX = gween.New(float32(s.offset), float32(toOffset), d, fn)
	s.doneA, s.doneX = false, false
}

// Update advances the active tween by dt seconds and writes the target.
func (s *StepTransition) Update(dt float32) {
	if s.stage == stageIdle {
		return
	}
	if !s.doneA {
		v, done := s.tweenA.Update(dt)
		s.alpha, s.doneA = float64(v), done
	}
	if !s.doneX {
		v, done := s.tweenX.Update(dt)
		s.offset, s.doneX = float64(v), done
	}
	s.apply()
	if !s.doneA || !s.doneX {
		return
	}

	switch s.stage {
	case stageExit:
		// Entrance is set up before the callback so a Transition call from
		// inside onMidpoint takes precedence.
		mid := s.midpoint
		s.midpoint = nil
		s.stage = stageEnter
		s.offset = float64(s.dir) * s.cfg.Slide
		s.start(1, 0, s.cfg.EnterEase)
		s.apply()
		if mid != nil {
			mid()
		}
	case stageEnter:
		s.stage = stageIdle
		s.tweenA, s.tweenX = nil, nil
	}
}

func (s *StepTransition) apply() {
	s.target.SetProperty(PropOpacity, Scalar(s.alpha))
	s.target.SetProperty(PropTranslate, Vec(s.offset, 0))
}

// Active reports whether a transition is in flight.
func (s *StepTransition) Active() bool {
	return s.stage != stageIdle
}

// Exiting reports whether the exit half is playing.
func (s *StepTransition) Exiting() bool {
	return s.stage == stageExit
}

// State returns the current interpolated opacity and horizontal offset.
func (s *StepTransition) State() (alpha, offset float64) {
	return s.alpha, s.offset
}
