package scrub

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-tick timing. Only populated when the scene is in
// debug mode.
type debugStats struct {
	flushTime  time.Duration
	updateTime time.Duration
	callbacks  int
	delivered  int
}

// recordFrame is the ProgressSource frame hook.
func (s *Scene) recordFrame(delivered int) {
	s.stats.delivered += delivered
}

// debugLog logs the tick's timings. Ticks that did no work are skipped.
func (s *Scene) debugLog() {
	if s.stats.callbacks == 0 && len(s.updaters) == 0 {
		return
	}
	s.log.Debug("tick",
		zap.Duration("flush", s.stats.flushTime),
		zap.Duration("update", s.stats.updateTime),
		zap.Int("frameCallbacks", s.stats.callbacks),
		zap.Int("delivered", s.stats.delivered),
		zap.Float64("scrollY", s.scrollY),
		zap.Int("sections", len(s.sections)))
}
