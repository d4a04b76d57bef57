package scrub

// InjectScroll queues a scroll of dy pixels for the next tick. Injected
// scrolling replaces real input on the ticks it is consumed, one delta per
// tick.
func (s *Scene) InjectScroll(dy float64) {
	s.injectQueue = append(s.injectQueue, dy)
}

// InjectScrollTo queues a linear scroll from the current offset, or from
// the end of already queued scrolling, to y over the given number of ticks.
// Minimum frames is 1.
func (s *Scene) InjectScrollTo(y float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	from := s.scrollY
	for _, dy := range s.injectQueue {
		from += dy
	}
	from = min(max(from, 0), s.MaxScroll())
	y = min(max(y, 0), s.MaxScroll())
	prev := from
	for i := 1; i <= frames; i++ {
		next := from + (y-from)*float64(i)/float64(frames)
		s.InjectScroll(next - prev)
		prev = next
	}
}

// Injecting reports whether injected scroll deltas are still queued.
func (s *Scene) Injecting() bool {
	return len(s.injectQueue) > 0
}

// processInjected pops one delta from the inject queue and scrolls by it.
// Returns true if a delta was consumed (real input should be skipped).
func (s *Scene) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	dy := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.ScrollBy(dy)
	return true
}
