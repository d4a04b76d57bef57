package scrub

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Answer is the value entered for one step. Text carries text and select
// answers; Yes carries boolean and consent answers.
type Answer struct {
	Text string
	Yes  bool
	set  bool
}

// TextAnswer returns an answer for a TextStep or SelectStep.
func TextAnswer(s string) Answer { return Answer{Text: s, set: true} }

// BoolAnswer returns an answer for a BooleanStep or ConsentStep.
func BoolAnswer(yes bool) Answer { return Answer{Yes: yes, set: true} }

// IsSet reports whether the answer was entered at all.
func (a Answer) IsSet() bool { return a.set }

// Step is one page of a Wizard. The set of step kinds is closed: TextStep,
// SelectStep, BooleanStep and ConsentStep.
type Step interface {
	// StepID is the field the step fills.
	StepID() string
	// Prompt is the question shown to the user.
	Prompt() string
	check(Answer) error
}

// TextStep asks for free text. Validate, when set, runs after the
// non-empty check.
type TextStep struct {
	ID          string
	Question    string
	Placeholder string
	Validate    func(string) error
}

func (s TextStep) StepID() string { return s.ID }
func (s TextStep) Prompt() string { return s.Question }

func (s TextStep) check(a Answer) error {
	v := strings.TrimSpace(a.Text)
	if v == "" {
		return errors.New("required")
	}
	if s.Validate != nil {
		return s.Validate(v)
	}
	return nil
}

// SelectStep asks the user to pick one of Options.
type SelectStep struct {
	ID       string
	Question string
	Options  []string
}

func (s SelectStep) StepID() string { return s.ID }
func (s SelectStep) Prompt() string { return s.Question }

func (s SelectStep) check(a Answer) error {
	if a.Text == "" {
		return errors.New("choose an option")
	}
	if !slices.Contains(s.Options, a.Text) {
		return fmt.Errorf("unknown option %q", a.Text)
	}
	return nil
}

// BooleanStep asks a yes/no question; either answer is valid once given.
type BooleanStep struct {
	ID       string
	Question string
}

func (s BooleanStep) StepID() string { return s.ID }
func (s BooleanStep) Prompt() string { return s.Question }

func (s BooleanStep) check(a Answer) error {
	if !a.set {
		return errors.New("choose yes or no")
	}
	return nil
}

// ConsentStep requires an explicit yes.
type ConsentStep struct {
	ID       string
	Question string
}

func (s ConsentStep) StepID() string { return s.ID }
func (s ConsentStep) Prompt() string { return s.Question }

func (s ConsentStep) check(a Answer) error {
	if !a.Yes {
		return errors.New("consent is required")
	}
	return nil
}

// Wizard is a stepped form. The step index only moves through Advance and
// Retreat, and Advance is guarded by the current step's check. When a
// StepTransition is attached the displayed step changes at the transition's
// midpoint; otherwise it follows the index immediately.
type Wizard struct {
	steps      []Step
	index      int
	displayed  int
	values     map[string]Answer
	errors     map[string]string
	transition *StepTransition
	submitted  bool
}

// NewWizard returns a wizard over steps. Step IDs must be unique and
// non-empty. tr may be nil.
func NewWizard(steps []Step, tr *StepTransition) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard: no steps")
	}
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		id := s.StepID()
		if id == "" {
			return nil, fmt.Errorf("wizard: step %d has no id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("wizard: duplicate step id %q", id)
		}
		seen[id] = true
	}
	return &Wizard{
		steps:      steps,
		values:     make(map[string]Answer, len(steps)),
		errors:     make(map[string]string),
		transition: tr,
	}, nil
}

// Set records the answer for step id and clears its error.
func (w *Wizard) Set(id string, a Answer) {
	w.values[id] = a
	delete(w.errors, id)
}

// Value returns the answer recorded for id.
func (w *Wizard) Value(id string) (Answer, bool) {
	a, ok := w.values[id]
	return a, ok
}

// Advance checks the current step and moves to the next one. A failed check
// records the message under the step's ID and returns an error wrapping
// ErrStepIncomplete. On the last step a passing check leaves the index where
// it is; use Submit to finish.
func (w *Wizard) Advance() error {
	step := w.steps[w.index]
	if err := step.check(w.values[step.StepID()]); err != nil {
		w.errors[step.StepID()] = err.Error()
		return fmt.Errorf("%w: %s: %v", ErrStepIncomplete, step.StepID(), err)
	}
	delete(w.errors, step.StepID())
	if w.index == len(w.steps)-1 {
		return nil
	}
	w.index++
	w.swap(Forward)
	return nil
}

// Retreat moves to the previous step without checking the current one. It
// reports whether the index moved.
func (w *Wizard) Retreat() bool {
	if w.index == 0 {
		return false
	}
	w.index--
	w.swap(Backward)
	return true
}

func (w *Wizard) swap(dir Direction) {
	if w.transition == nil {
		w.displayed = w.index
		return
	}
	w.transition.Transition(dir, func() {
		w.displayed = w.index
	})
}

// Submit checks every step and, when all pass, hands a copy of the answers
// to send. The first failing step becomes current.
func (w *Wizard) Submit(send func(map[string]Answer) error) error {
	for i, s := range w.steps {
		if err := s.check(w.values[s.StepID()]); err != nil {
			w.errors[s.StepID()] = err.Error()
			if i != w.index {
				dir := Forward
				if i < w.index {
					dir = Backward
				}
				w.index = i
				w.swap(dir)
			}
			return fmt.Errorf("%w: %s: %v", ErrStepIncomplete, s.StepID(), err)
		}
	}
	if err := send(maps.Clone(w.values)); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	w.submitted = true
	return nil
}

// Index returns the current step index.
func (w *Wizard) Index() int { return w.index }

// Displayed returns the index of the step whose content is on screen.
func (w *Wizard) Displayed() int { return w.displayed }

// Step returns the current step.
func (w *Wizard) Step() Step { return w.steps[w.index] }

// DisplayedStep returns the step whose content is on screen.
func (w *Wizard) DisplayedStep() Step { return w.steps[w.displayed] }

// Len returns the number of steps.
func (w *Wizard) Len() int { return len(w.steps) }

// Error returns the recorded error message for step id.
func (w *Wizard) Error(id string) string { return w.errors[id] }

// Submitted reports whether Submit succeeded.
func (w *Wizard) Submitted() bool { return w.submitted }

// Progress returns the completed fraction, counting the current step.
func (w *Wizard) Progress() float64 {
	return float64(w.index+1) / float64(len(w.steps))
}
