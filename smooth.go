package scrub

import "math"

// settleEpsilon is the distance below which smoothed progress snaps to its
// target.
const settleEpsilon = 1e-4

// Smoother trails a subscriber's progress behind the sampled progress by a
// wall-clock lag, so large scroll jumps play out as motion instead of a cut.
// Feed it with Set (usually as a ProgressFunc) and advance it with Update
// each frame. The wrapped timeline stays pure; only the progress fed to it is
// smoothed.
type Smoother struct {
	// Lag is roughly the time in seconds to catch up with a jump.
	Lag float64

	fn      ProgressFunc
	current float64
	target  float64
	active  bool
	primed  bool
}

// NewSmoother returns a smoother delivering to fn. A lag of zero passes
// every value straight through.
func NewSmoother(lag float64, fn ProgressFunc) *Smoother {
	return &Smoother{Lag: lag, fn: fn}
}

// Set records the latest sampled progress. The first value, and every value
// when Lag is zero, is delivered immediately.
func (m *Smoother) Set(progress float64, active bool) {
	m.target = progress
	m.active = active
	if !m.primed || m.Lag <= 0 {
		m.primed = true
		m.current = progress
		m.fn(progress, active)
	}
}

// Update moves the delivered progress toward the target by dt seconds.
func (m *Smoother) Update(dt float32) {
	if !m.primed || m.current == m.target {
		return
	}
	// Closes ~98% of the gap after Lag seconds.
	k := 1 - math.Exp(-4*float64(dt)/m.Lag)
	m.current += (m.target - m.current) * k
	if math.Abs(m.target-m.current) < settleEpsilon {
		m.current = m.target
	}
	m.fn(m.current, m.active)
}

// Settled reports whether the delivered progress has reached the target.
func (m *Smoother) Settled() bool {
	return m.current == m.target
}

// Current returns the last delivered progress.
func (m *Smoother) Current() float64 {
	return m.current
}
