package scrub

import "testing"

func TestSmootherFirstValueImmediate(t *testing.T) {
	var got []float64
	m := NewSmoother(0.5, func(p float64, _ bool) { got = append(got, p) })

	m.Set(0.4, true)
	if len(got) != 1 || got[0] != 0.4 {
		t.Fatalf("got %v, want the first value delivered immediately", got)
	}
	if !m.Settled() {
		t.Error("not settled after the first value")
	}
}

func TestSmootherTrailsAndSettles(t *testing.T) {
	var last float64
	var lastActive bool
	m := NewSmoother(0.5, func(p float64, active bool) { last, lastActive = p, active })
	m.Set(0, false)
	m.Set(1, true)

	if last != 0 {
		t.Fatalf("jump delivered before Update: %v", last)
	}
	prev := 0.0
	for i := 0; i < 20; i++ {
		m.Update(1.0 / 60)
		if last <= prev || last >= 1 {
			t.Fatalf("step %d: %v not strictly between %v and 1", i, last, prev)
		}
		prev = last
	}
	if !lastActive {
		t.Error("active flag not forwarded")
	}
	for i := 0; i < 300 && !m.Settled(); i++ {
		m.Update(1.0 / 60)
	}
	if !m.Settled() || m.Current() != 1 {
		t.Errorf("Current = %v, Settled = %v; want 1, true", m.Current(), m.Settled())
	}
}

func TestSmootherZeroLagPassesThrough(t *testing.T) {
	calls := 0
	var last float64
	m := NewSmoother(0, func(p float64, _ bool) { calls++; last = p })
	m.Set(0.1, false)
	m.Set(0.9, true)
	if calls != 2 || last != 0.9 {
		t.Errorf("calls, last = %d, %v; want 2, 0.9", calls, last)
	}
	m.Update(1.0 / 60)
	if calls != 2 {
		t.Error("Update delivered with nothing to smooth")
	}
}

func TestSmootherUpdateBeforeSet(t *testing.T) {
	calls := 0
	m := NewSmoother(1, func(float64, bool) { calls++ })
	m.Update(1.0 / 60)
	if calls != 0 {
		t.Errorf("calls = %d, want 0 before the first Set", calls)
	}
}
