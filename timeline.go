package scrub

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// phase is where a progress value falls relative to a segment's window.
type phase uint8

const (
	phasePending phase = iota // window not reached
	phaseActive               // strictly inside the window
	phaseDone                 // window fully elapsed
)

// segment is a validated Segment with its From resolved.
type segment struct {
	start, duration float64
	from, to        Value
	ease            ease.TweenFunc
}

// localTime returns the segment's local time for p and where p falls.
func (s *segment) localTime(p float64) (float64, phase) {
	if s.duration == 0 {
		if p >= s.start {
			return 1, phaseDone
		}
		return 0, phasePending
	}
	t := (p - s.start) / s.duration
	switch {
	case t <= 0:
		return 0, phasePending
	case t >= 1:
		return 1, phaseDone
	}
	return t, phaseActive
}

// channel is every segment writing one (target, property) pair, in
// declaration order.
type channel struct {
	target Target
	kind   PropertyKind
	segs   []segment
	rest   int // index of the earliest-starting segment
}

// resolve picks the channel's value at p. The last segment mid-flight wins;
// otherwise the last segment that has fully elapsed; otherwise the channel is
// at rest before its first window.
func (c *channel) resolve(p float64) Value {
	active, done := -1, -1
	activeT := 0.0
	for i := range c.segs {
		t, ph := c.segs[i].localTime(p)
		switch ph {
		case phaseActive:
			active, activeT = i, t
		case phaseDone:
			done = i
		}
	}
	switch {
	case active >= 0:
		s := &c.segs[active]
		return interpolate(c.kind, s.from, s.to, Ease(s.ease, activeT))
	case done >= 0:
		return c.segs[done].to
	}
	return c.segs[c.rest].from
}

// Timeline maps a progress value in [0, 1] to a value for every segment's
// target property. It holds no playback state: evaluating the same progress
// always writes the same values, whatever was evaluated before.
type Timeline struct {
	channels []channel
	count    int
}

// NewTimeline validates segments and groups them by target and property.
// Invalid segments are rejected with an error wrapping ErrInvalidSegment.
func NewTimeline(segments ...Segment) (*Timeline, error) {
	tl := &Timeline{count: len(segments)}
	for i, s := range segments {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		ch := tl.channel(s.Target, s.Property)
		var from Value
		switch {
		case s.From != nil:
			from = *s.From
		case len(ch.segs) > 0:
			from = ch.segs[len(ch.segs)-1].to
		default:
			v, ok := s.Target.Property(s.Property)
			if !ok {
				return nil, fmt.Errorf("segment %d: %w: target has no current %s", i, ErrInvalidSegment, s.Property)
			}
			from = v
		}
		ch.segs = append(ch.segs, segment{
			start:    s.Start,
			duration: s.Duration,
			from:     from,
			to:       s.To,
			ease:     s.Ease,
		})
		if s.Start < ch.segs[ch.rest].start {
			ch.rest = len(ch.segs) - 1
		}
	}
	return tl, nil
}

// channel returns the channel for (target, kind), creating it in first-seen
// order.
func (tl *Timeline) channel(target Target, kind PropertyKind) *channel {
	for i := range tl.channels {
		if tl.channels[i].target == target && tl.channels[i].kind == kind {
			return &tl.channels[i]
		}
	}
	tl.channels = append(tl.channels, channel{target: target, kind: kind})
	return &tl.channels[len(tl.channels)-1]
}

// Evaluate writes every channel's value at progress. Progress outside [0, 1]
// (or NaN) is clamped first. Writes to targets that are gone are ignored.
// Evaluate does not allocate.
func (tl *Timeline) Evaluate(progress float64) {
	p := clampUnit(progress)
	for i := range tl.channels {
		c := &tl.channels[i]
		c.target.SetProperty(c.kind, c.resolve(p))
	}
}

// ValueAt returns the value the timeline would write to target's property
// at progress, without writing it.
func (tl *Timeline) ValueAt(target Target, kind PropertyKind, progress float64) (Value, bool) {
	for i := range tl.channels {
		c := &tl.channels[i]
		if c.target == target && c.kind == kind {
			return c.resolve(clampUnit(progress)), true
		}
	}
	return Value{}, false
}

// Len returns the number of segments in the timeline.
func (tl *Timeline) Len() int {
	return tl.count
}

// Channels returns the number of distinct (target, property) pairs.
func (tl *Timeline) Channels() int {
	return len(tl.channels)
}
