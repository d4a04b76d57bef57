package scrub

const minPlayerDuration = 1.0 / 60

// Player drives a Timeline from a clock instead of scroll. It is used for
// intro sequences and for one-shot reveals that play when a region is
// entered. Call Update each frame; there is no global animation manager.
type Player struct {
	timeline *Timeline
	// Duration is the wall-clock length of the timeline in seconds.
	Duration float32
	// Delay holds playback at the start for this many seconds.
	Delay float32

	elapsed float32
	dir     int8
	// Done is true when playback reached the end in its current direction.
	Done bool
}

// NewPlayer returns a paused player positioned at the start of tl.
func NewPlayer(tl *Timeline, duration float32) *Player {
	return &Player{timeline: tl, Duration: duration}
}

// Play runs the timeline forward from its current position.
func (p *Player) Play() {
	p.dir = 1
	p.Done = false
}

// Reverse runs the timeline backward from its current position.
func (p *Player) Reverse() {
	p.dir = -1
	p.Done = false
}

// Pause stops playback where it is.
func (p *Player) Pause() {
	p.dir = 0
}

// duration returns Duration, treating non-positive values as one frame.
func (p *Player) duration() float32 {
	if p.Duration <= 0 {
		return minPlayerDuration
	}
	return p.Duration
}

// Seek jumps to progress and evaluates the timeline there.
func (p *Player) Seek(progress float64) {
	p.elapsed = p.Delay + float32(clampUnit(progress))*p.duration()
	p.timeline.Evaluate(p.Progress())
}

// Progress returns the playback position in [0, 1].
func (p *Player) Progress() float64 {
	return clampUnit(float64((p.elapsed - p.Delay) / p.duration()))
}

// Update advances playback by dt seconds and evaluates the timeline.
func (p *Player) Update(dt float32) {
	if p.dir == 0 || p.Done {
		return
	}
	total := p.Delay + p.duration()
	p.elapsed += float32(p.dir) * dt
	switch {
	case p.elapsed >= total && p.dir > 0:
		p.elapsed = total
		p.Done = true
	case p.elapsed <= 0 && p.dir < 0:
		p.elapsed = 0
		p.Done = true
	}
	p.timeline.Evaluate(p.Progress())
}

// PlayOnEnter subscribes p to region so it plays forward when the region is
// entered from above and reverses when the user scrolls back above the
// region's start. Leaving past the end and re-entering from below leave it
// untouched. A region that is already past when registered shows its end
// state.
func PlayOnEnter(src *ProgressSource, region *PinnedRegion, p *Player) (Subscription, error) {
	var wasActive, primed bool
	var last float64
	return src.Register(region, func(progress float64, active bool) {
		switch {
		case !primed && progress >= 1:
			p.Seek(1)
			p.Done = true
		case (active && !wasActive && last < 1) || (last == 0 && progress >= 1):
			p.Play()
		case !active && progress == 0 && (wasActive || last > 0):
			p.Reverse()
		}
		wasActive, last, primed = active, progress, true
	})
}
