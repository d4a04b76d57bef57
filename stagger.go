package scrub

import "github.com/tanema/gween/ease"

// StaggerReveal returns one segment per target, evenly spaced across
// [0, totalSpan]. Each segment occupies 1/N of the span and animates kind
// from from to to.
func StaggerReveal(targets []Target, kind PropertyKind, from, to Value, totalSpan float64) []Segment {
	return Stagger{Span: totalSpan}.Build(targets, kind, from, to)
}

// Stagger builds a cascading reveal: the same tween applied to several
// targets, each offset by a fixed slice of progress.
type Stagger struct {
	// Start is the progress offset of the first target.
	Start float64
	// Span is the progress range shared by all targets.
	Span float64
	// Duration of each target's tween. Zero uses Span/N so the windows tile
	// the span exactly.
	Duration float64
	Ease     ease.TweenFunc
	// BlurFrom, when positive, also animates each target's blur from
	// BlurFrom down to zero over the same window.
	BlurFrom float64
}

// Build returns the segments for targets in order.
func (st Stagger) Build(targets []Target, kind PropertyKind, from, to Value) []Segment {
	n := len(targets)
	if n == 0 {
		return nil
	}
	slot := st.Span / float64(n)
	dur := st.Duration
	if dur == 0 {
		dur = slot
	}
	size := n
	if st.BlurFrom > 0 {
		size *= 2
	}
	segs := make([]Segment, 0, size)
	for i, tg := range targets {
		start := st.Start + float64(i)*slot
		segs = append(segs, FromTo(tg, kind, start, dur, from, to).Eased(st.Ease))
		if st.BlurFrom > 0 {
			segs = append(segs, FromTo(tg, PropBlur, start, dur, Scalar(st.BlurFrom), Scalar(0)).Eased(st.Ease))
		}
	}
	return segs
}

// Crossfade hands the viewport from one panel to the next across equal
// progress slots. Within slot i the outgoing panel holds until Hold of the
// slot has passed, then fades and blurs out over Fade while the next panel
// fades in InDelay later. The constants are authoring choices; DefaultCrossfade
// returns the values the statistics panels use.
type Crossfade struct {
	Hold    float64 // fraction of a slot before the handoff starts
	Fade    float64 // progress duration of each fade
	InDelay float64 // delay of the incoming fade after the outgoing one starts
	Blur    float64 // blur radius of a hidden panel; zero disables blur
	Ease    ease.TweenFunc
}

// DefaultCrossfade returns Hold 0.8, Fade 0.15, InDelay 0.05 and Blur 30.
func DefaultCrossfade() Crossfade {
	return Crossfade{Hold: 0.8, Fade: 0.15, InDelay: 0.05, Blur: 30}
}

// Build returns the segments for panels. The first panel rests visible and
// every other panel rests hidden.
func (c Crossfade) Build(panels []Target) []Segment {
	n := len(panels)
	if n < 2 {
		return nil
	}
	var segs []Segment
	for i := 0; i < n-1; i++ {
		out, in := panels[i], panels[i+1]
		at := (float64(i) + c.Hold) / float64(n)
		segs = append(segs,
			FromTo(out, PropOpacity, at, c.Fade, Scalar(1), Scalar(0)).Eased(c.Ease),
			FromTo(in, PropOpacity, at+c.InDelay, c.Fade, Scalar(0), Scalar(1)).Eased(c.Ease),
		)
		if c.Blur > 0 {
			segs = append(segs,
				FromTo(out, PropBlur, at, c.Fade, Scalar(0), Scalar(c.Blur)).Eased(c.Ease),
				FromTo(in, PropBlur, at+c.InDelay, c.Fade, Scalar(c.Blur), Scalar(0)).Eased(c.Ease),
			)
		}
	}
	return segs
}
