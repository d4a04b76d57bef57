package scrub

import (
	"fmt"
)

// Section is one block of the document: a root node, its layout and an
// optional scroll-driven timeline. Sections are plain data until mounted;
// the scene builds the timeline and registers the pinned region on Mount.
type Section struct {
	Name string
	Root *Node

	// Height is the layout height in pixels. Zero is one viewport.
	Height float64
	// Pinned holds the section fixed in the viewport while Extent viewport
	// heights of scroll are consumed. The document grows by that distance.
	Pinned bool
	// Start and Extent define the region whose progress drives Segments.
	Start  StartCondition
	Extent float64
	// ActivationSlack widens the active window before Start, in pixels.
	ActivationSlack float64
	// Scrub is the lag in seconds between scrolling and the timeline
	// catching up. Zero follows scroll exactly.
	Scrub float64
	// Play, when positive, drives the timeline from a clock instead of
	// scroll: it plays over Play seconds when the region is entered and
	// reverses when scrolled back above it. Autoplay starts it on mount.
	Play      float32
	PlayDelay float32
	Autoplay  bool

	// Segments are read once, on the first Mount.
	Segments []Segment
	// OnProgress observes the progress delivered to the timeline.
	OnProgress ProgressFunc

	scene    *Scene
	region   *PinnedRegion
	timeline *Timeline
	smoother *Smoother
	player   *Player
	sub      Subscription
	update   UpdateHandle
	top      float64
	progress float64
	active   bool
}

// NewSection returns a section with an empty root container.
func NewSection(name string) *Section {
	return &Section{Name: name, Root: NewContainer(name)}
}

// Add appends nodes to the section root.
func (sec *Section) Add(nodes ...*Node) *Section {
	for _, n := range nodes {
		sec.Root.AddChild(n)
	}
	return sec
}

// Timeline returns the timeline built on first mount, or nil. Segments
// changed after the first mount are ignored.
func (sec *Section) Timeline() *Timeline { return sec.timeline }

// Region returns the pinned region registered on mount, or nil.
func (sec *Section) Region() *PinnedRegion { return sec.region }

// Progress returns the last progress delivered to the timeline.
func (sec *Section) Progress() (progress float64, active bool) {
	return sec.progress, sec.active
}

// Player returns the clock driving a Play section, or nil.
func (sec *Section) Player() *Player { return sec.player }

// Top returns the section's document offset.
func (sec *Section) Top() float64 { return sec.top }

// Mounted reports whether the section belongs to a scene.
func (sec *Section) Mounted() bool { return sec.scene != nil }

func (sec *Section) animated() bool {
	return len(sec.Segments) > 0 || sec.OnProgress != nil
}

// regionExtent returns the extent used for the section's region. Unpinned
// sections without an extent track one viewport height of scroll.
func (sec *Section) regionExtent() float64 {
	if sec.Extent <= 0 && !sec.Pinned {
		return 1
	}
	return sec.Extent
}

// Mount appends sec to the bottom of the document, builds its timeline and
// registers its region. On error the scene is left unchanged.
func (s *Scene) Mount(sec *Section) error {
	if sec.scene != nil {
		return fmt.Errorf("mount section %q: %w", sec.Name, ErrAlreadyMounted)
	}
	if sec.Root == nil {
		sec.Root = NewContainer(sec.Name)
	}
	if sec.Pinned && !(sec.Extent > 0) {
		return fmt.Errorf("mount section %q: %w: pinned with extent %v", sec.Name, ErrInvalidRegion, sec.Extent)
	}
	// The timeline is built once. Implicit From values read the targets,
	// which a previous mount may have left mid-animation.
	if sec.timeline == nil {
		tl, err := NewTimeline(sec.Segments...)
		if err != nil {
			return fmt.Errorf("mount section %q: %w", sec.Name, err)
		}
		sec.timeline = tl
	}

	sec.scene = s
	s.sections = append(s.sections, sec)
	s.root.AddChild(sec.Root)
	s.layout()

	if sec.animated() || sec.Pinned {
		if err := s.register(sec); err != nil {
			s.detach(sec)
			return fmt.Errorf("mount section %q: %w", sec.Name, err)
		}
	}
	// Sections below moved down; let their regions resample.
	s.listeners.Emit(EventResize)
	return nil
}

func (s *Scene) register(sec *Section) error {
	sec.region = NewPinnedRegion(sec.Root, sec.Start, sec.regionExtent())
	sec.region.ActivationSlack = sec.ActivationSlack

	if sec.Play > 0 {
		return s.registerPlayer(sec)
	}

	deliver := func(p float64, active bool) {
		sec.progress, sec.active = p, active
		sec.timeline.Evaluate(p)
		if sec.OnProgress != nil {
			sec.OnProgress(p, active)
		}
	}
	cb := ProgressFunc(deliver)
	if sec.Scrub > 0 {
		sec.smoother = NewSmoother(sec.Scrub, deliver)
		cb = sec.smoother.Set
		sec.update = s.OnUpdate(sec.smoother.Update)
	}
	sub, err := s.source.Register(sec.region, cb)
	if err != nil {
		return err
	}
	sec.sub = sub
	return nil
}

func (s *Scene) registerPlayer(sec *Section) error {
	sec.player = NewPlayer(sec.timeline, sec.Play)
	sec.player.Delay = sec.PlayDelay
	sec.update = s.OnUpdate(func(dt float32) {
		sec.player.Update(dt)
		sec.progress = sec.player.Progress()
	})
	if sec.Autoplay {
		sec.player.Seek(0)
		sec.player.Play()
		return nil
	}
	sub, err := PlayOnEnter(s.source, sec.region, sec.player)
	if err != nil {
		return err
	}
	sec.sub = sub
	return nil
}

// Unmount removes sec from the document and stops its timeline. The
// section's nodes are detached, not disposed, so it can be mounted again.
func (s *Scene) Unmount(sec *Section) {
	if sec.scene != s {
		return
	}
	s.detach(sec)
	s.listeners.Emit(EventResize)
}

func (s *Scene) detach(sec *Section) {
	s.source.Unregister(sec.sub)
	sec.update.Remove()
	sec.sub = Subscription{}
	sec.update = UpdateHandle{}
	sec.smoother = nil
	sec.player = nil
	sec.region = nil
	sec.Root.RemoveFromParent()
	for i, e := range s.sections {
		if e == sec {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			break
		}
	}
	sec.scene = nil
	s.layout()
}

// Sections returns the mounted sections in document order. The returned
// slice MUST NOT be mutated.
func (s *Scene) Sections() []*Section {
	return s.sections
}

// layout stacks sections top to bottom. A pinned section reserves its own
// height plus its extent so the content after it starts once the pin
// releases.
func (s *Scene) layout() {
	y := 0.0
	for _, sec := range s.sections {
		h := sec.Height
		if h <= 0 {
			h = s.height
		}
		sec.top = y
		sec.Root.X, sec.Root.Y = 0, y
		sec.Root.Width, sec.Root.Height = s.width, h
		y += h
		if sec.Pinned {
			y += sec.Extent * s.height
		}
	}
	s.docHeight = y
	if s.scrollY > s.MaxScroll() {
		s.scrollY = s.MaxScroll()
	}
}

// sectionOffset returns the screen Y of the section's top edge. While
// pinned the section stays where it was when the pin started.
func (s *Scene) sectionOffset(sec *Section) float64 {
	y := sec.top - s.scrollY
	if !sec.Pinned || sec.region == nil {
		return y
	}
	start, extentPx, err := sec.region.Span(s.height)
	if err != nil {
		return y
	}
	return y + min(max(s.scrollY-start, 0), extentPx)
}
