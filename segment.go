package scrub

import (
	"fmt"
	"math"
	"reflect"

	"github.com/tanema/gween/ease"
)

// Segment is one property tween with its own window inside a Timeline.
// Start is a progress offset in [0, 1]; Start+Duration may run past 1, in
// which case the tail is clipped. A zero Duration is a step at Start.
type Segment struct {
	Target   Target
	Property PropertyKind
	Start    float64
	Duration float64
	// From is optional. When nil the segment continues from the previous
	// segment's To on the same target and property, or from the target's
	// value when the timeline is built.
	From *Value
	To   Value
	// Ease shapes local time. Nil is linear.
	Ease ease.TweenFunc
}

// To returns a segment that animates target's property to v, starting from
// wherever the previous segment on that property left it.
func To(target Target, kind PropertyKind, start, duration float64, v Value) Segment {
	return Segment{Target: target, Property: kind, Start: start, Duration: duration, To: v}
}

// FromTo returns a segment with an explicit starting value.
func FromTo(target Target, kind PropertyKind, start, duration float64, from, to Value) Segment {
	return Segment{Target: target, Property: kind, Start: start, Duration: duration, From: &from, To: to}
}

// Set returns a step segment that switches the property to v at start.
func Set(target Target, kind PropertyKind, start float64, v Value) Segment {
	return Segment{Target: target, Property: kind, Start: start, To: v}
}

// Eased returns a copy of s using fn.
func (s Segment) Eased(fn ease.TweenFunc) Segment {
	s.Ease = fn
	return s
}

// Validate reports why s cannot be part of a timeline. The returned error
// wraps ErrInvalidSegment.
func (s Segment) Validate() error {
	switch {
	case s.Target == nil:
		return fmt.Errorf("%w: nil target", ErrInvalidSegment)
	case !reflect.TypeOf(s.Target).Comparable():
		// Channels key targets by interface equality.
		return fmt.Errorf("%w: target type %T is not comparable", ErrInvalidSegment, s.Target)
	case s.Property >= numPropertyKinds:
		return fmt.Errorf("%w: unknown property %d", ErrInvalidSegment, s.Property)
	case !s.Target.Accepts(s.Property):
		return fmt.Errorf("%w: target does not accept %s", ErrInvalidSegment, s.Property)
	case math.IsNaN(s.Start) || s.Start < 0 || s.Start > 1:
		return fmt.Errorf("%w: start %v outside [0, 1]", ErrInvalidSegment, s.Start)
	case math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) || s.Duration < 0:
		return fmt.Errorf("%w: duration %v", ErrInvalidSegment, s.Duration)
	case !s.To.finite(s.Property):
		return fmt.Errorf("%w: non-finite to value", ErrInvalidSegment)
	case s.From != nil && !s.From.finite(s.Property):
		return fmt.Errorf("%w: non-finite from value", ErrInvalidSegment)
	}
	return nil
}

// End returns the progress at which the segment's window closes.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}
