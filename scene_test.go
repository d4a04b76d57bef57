package scrub

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const tickDT = float32(1.0 / 60)

// pinnedScene returns an 800x600 scene with a 300px intro, a pinned
// section consuming two viewports of scroll and a 400px outro.
func pinnedScene(t *testing.T) (*Scene, *Section, *Node) {
	t.Helper()
	s := NewScene(SceneConfig{Width: 800, Height: 600})

	fade := NewBox("fade", 100, 100, ColorWhite)
	pinned := NewSection("pinned").Add(fade)
	pinned.Pinned = true
	pinned.Extent = 2
	pinned.Segments = []Segment{FromTo(fade, PropOpacity, 0, 1, Scalar(0), Scalar(1))}

	intro := NewSection("intro")
	intro.Height = 300
	outro := NewSection("outro")
	outro.Height = 400

	for _, sec := range []*Section{intro, pinned, outro} {
		if err := s.Mount(sec); err != nil {
			t.Fatalf("mount %s: %v", sec.Name, err)
		}
	}
	return s, pinned, fade
}

func settle(s *Scene, ticks int) {
	for i := 0; i < ticks; i++ {
		s.tick(tickDT)
	}
}

func TestSceneLayoutReservesPinSpacing(t *testing.T) {
	s, pinned, _ := pinnedScene(t)
	secs := s.Sections()
	if len(secs) != 3 {
		t.Fatalf("sections = %d, want 3", len(secs))
	}
	wantTops := []float64{0, 300, 2100}
	for i, sec := range secs {
		if sec.Top() != wantTops[i] {
			t.Errorf("%s top = %v, want %v", sec.Name, sec.Top(), wantTops[i])
		}
	}
	if s.DocumentHeight() != 2500 {
		t.Errorf("DocumentHeight = %v, want 2500", s.DocumentHeight())
	}
	if s.MaxScroll() != 1900 {
		t.Errorf("MaxScroll = %v, want 1900", s.MaxScroll())
	}
	if pinned.Root.Height != 600 {
		t.Errorf("pinned height = %v, want one viewport", pinned.Root.Height)
	}
}

func TestScenePinnedOffset(t *testing.T) {
	s, pinned, _ := pinnedScene(t)
	tests := []struct {
		scrollY float64
		want    float64
	}{
		{0, 300},
		{150, 150},
		{300, 0},
		{900, 0},
		{1500, 0},
		{1900, -400},
	}
	for _, tt := range tests {
		s.ScrollTo(tt.scrollY)
		if got := s.sectionOffset(pinned); got != tt.want {
			t.Errorf("scrollY=%v: offset = %v, want %v", tt.scrollY, got, tt.want)
		}
	}
}

func TestSceneScrollDrivesTimeline(t *testing.T) {
	s, pinned, fade := pinnedScene(t)
	settle(s, 1)
	if fade.Alpha != 0 {
		t.Fatalf("alpha at rest = %v, want 0", fade.Alpha)
	}

	s.ScrollTo(900)
	if fade.Alpha != 0 {
		t.Error("timeline evaluated before the frame flushed")
	}
	settle(s, 1)
	if !near(fade.Alpha, 0.5) {
		t.Errorf("alpha = %v, want 0.5", fade.Alpha)
	}
	if p, active := pinned.Progress(); !near(p, 0.5) || !active {
		t.Errorf("Progress = (%v, %v), want (0.5, true)", p, active)
	}

	// Back up: scrubbing is symmetric.
	s.ScrollTo(600)
	settle(s, 1)
	if !near(fade.Alpha, 0.25) {
		t.Errorf("alpha after scrolling back = %v, want 0.25", fade.Alpha)
	}
}

func TestSceneScrollClamps(t *testing.T) {
	s, _, _ := pinnedScene(t)
	s.ScrollTo(-50)
	if s.ScrollY() != 0 {
		t.Errorf("ScrollY = %v, want 0", s.ScrollY())
	}
	s.ScrollBy(1e6)
	if s.ScrollY() != s.MaxScroll() {
		t.Errorf("ScrollY = %v, want %v", s.ScrollY(), s.MaxScroll())
	}
}

func TestSceneScrubLag(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600})
	box := NewBox("b", 10, 10, ColorWhite)
	sec := NewSection("scrubbed").Add(box)
	sec.Pinned, sec.Extent, sec.Scrub = true, 1, 0.5
	sec.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}

	s.ScrollTo(300)
	settle(s, 1)
	if box.Alpha <= 0 || box.Alpha >= 0.5 {
		t.Errorf("alpha after one tick = %v, want strictly between 0 and 0.5", box.Alpha)
	}
	settle(s, 120)
	if box.Alpha != 0.5 {
		t.Errorf("alpha after settling = %v, want 0.5", box.Alpha)
	}
}

func TestSceneMountErrors(t *testing.T) {
	s, pinned, _ := pinnedScene(t)

	if err := s.Mount(pinned); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("remount: err = %v, want ErrAlreadyMounted", err)
	}

	bad := NewSection("bad")
	bad.Pinned = true
	if err := s.Mount(bad); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("zero extent pin: err = %v, want ErrInvalidRegion", err)
	}

	box := NewBox("b", 1, 1, ColorWhite)
	seg := NewSection("seg").Add(box)
	seg.Segments = []Segment{FromTo(box, PropOpacity, 2, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(seg); !errors.Is(err, ErrInvalidSegment) {
		t.Errorf("bad segment: err = %v, want ErrInvalidSegment", err)
	}

	if len(s.Sections()) != 3 || s.DocumentHeight() != 2500 {
		t.Errorf("failed mounts changed the scene: %d sections, height %v",
			len(s.Sections()), s.DocumentHeight())
	}
	if bad.Mounted() || seg.Mounted() {
		t.Error("failed section reports mounted")
	}
}

func TestSceneUnmount(t *testing.T) {
	s, pinned, fade := pinnedScene(t)
	subs := s.Source().Len()

	s.Unmount(pinned)
	if pinned.Mounted() || pinned.Region() != nil {
		t.Error("section still mounted")
	}
	if s.Source().Len() != subs-1 {
		t.Errorf("subscribers = %d, want %d", s.Source().Len(), subs-1)
	}
	if s.DocumentHeight() != 700 {
		t.Errorf("DocumentHeight = %v, want 700", s.DocumentHeight())
	}
	if fade.IsDisposed() {
		t.Error("unmount disposed the section's nodes")
	}
	s.Unmount(pinned) // no-op

	// Mounting again appends it at the bottom.
	if err := s.Mount(pinned); err != nil {
		t.Fatal(err)
	}
	if pinned.Top() != 700 {
		t.Errorf("remounted top = %v, want 700", pinned.Top())
	}
}

func TestSceneRemountKeepsRestState(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600})
	box := NewBox("b", 10, 10, ColorWhite)
	sec := NewSection("fade").Add(box)
	sec.Pinned, sec.Extent = true, 1
	// No From: the rest value is the box's alpha when first mounted.
	sec.Segments = []Segment{To(box, PropOpacity, 0, 1, Scalar(0))}
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}
	settle(s, 1)
	if box.Alpha != 1 {
		t.Fatalf("alpha at p=0 on first mount = %v, want 1", box.Alpha)
	}
	tl := sec.Timeline()

	s.ScrollTo(300)
	settle(s, 1)
	if !near(box.Alpha, 0.5) {
		t.Fatalf("alpha halfway = %v, want 0.5", box.Alpha)
	}

	s.Unmount(sec)
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}
	settle(s, 1)
	if sec.Timeline() != tl {
		t.Error("remount rebuilt the timeline")
	}
	if s.ScrollY() != 0 {
		t.Fatalf("ScrollY after remount = %v, want 0", s.ScrollY())
	}
	if box.Alpha != 1 {
		t.Errorf("alpha at p=0 after remount = %v, want 1 as on first mount", box.Alpha)
	}
}

func TestSceneListenerRemovingItselfKeepsProgress(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600})
	var h ListenerHandle
	seen := 0
	h = s.Listen(func(EventKind) {
		seen++
		h.Remove()
	})

	box := NewBox("b", 10, 10, ColorWhite)
	sec := NewSection("fade").Add(box)
	sec.Pinned, sec.Extent = true, 1
	sec.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}
	settle(s, 1)

	s.ScrollTo(300)
	settle(s, 1)
	if seen != 1 {
		t.Errorf("self-removing listener called %d times, want 1", seen)
	}
	if !near(box.Alpha, 0.5) {
		t.Errorf("alpha = %v, want 0.5 from the latest scroll", box.Alpha)
	}
}

func TestSceneOnUpdate(t *testing.T) {
	s := NewScene(SceneConfig{})
	var a, b int
	ha := s.OnUpdate(func(float32) { a++ })
	s.OnUpdate(func(float32) { b++ })

	settle(s, 2)
	ha.Remove()
	ha.Remove()
	settle(s, 1)
	if a != 2 || b != 3 {
		t.Errorf("calls = (%d, %d), want (2, 3)", a, b)
	}
	UpdateHandle{}.Remove()
}

func TestScenePlaySectionOnEnter(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600})
	box := NewBox("b", 10, 10, ColorWhite)

	spacer := NewSection("spacer")
	reveal := NewSection("reveal").Add(box)
	reveal.Play = 0.5
	reveal.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	tail := NewSection("tail")
	tail.Height = 1200
	for _, sec := range []*Section{spacer, reveal, tail} {
		if err := s.Mount(sec); err != nil {
			t.Fatal(err)
		}
	}
	if reveal.Player() == nil {
		t.Fatal("Play section has no player")
	}

	settle(s, 60)
	if p, _ := reveal.Progress(); p != 0 {
		t.Errorf("progress before entering = %v, want 0", p)
	}

	s.ScrollTo(700)
	settle(s, 60)
	if p, _ := reveal.Progress(); p != 1 {
		t.Errorf("progress after entering = %v, want 1", p)
	}
	if box.Alpha != 1 {
		t.Errorf("alpha = %v, want 1", box.Alpha)
	}

	s.Unmount(reveal)
	if reveal.Player() != nil {
		t.Error("player kept after unmount")
	}
}

func TestSceneAutoplay(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600})
	box := NewBox("b", 10, 10, ColorWhite)
	hero := NewSection("hero").Add(box)
	hero.Play, hero.Autoplay = 1, true
	hero.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(hero); err != nil {
		t.Fatal(err)
	}
	if box.Alpha != 0 {
		t.Errorf("alpha on mount = %v, want 0", box.Alpha)
	}
	settle(s, 30)
	if box.Alpha <= 0 || box.Alpha >= 1 {
		t.Errorf("alpha mid-play = %v", box.Alpha)
	}
	settle(s, 60)
	if box.Alpha != 1 || !hero.Player().Done {
		t.Errorf("alpha = %v, done = %v after playing", box.Alpha, hero.Player().Done)
	}
}

func TestSceneViewportResize(t *testing.T) {
	s, pinned, fade := pinnedScene(t)
	s.ScrollTo(900)
	settle(s, 1)

	s.SetViewport(800, 300)
	if pinned.Root.Height != 300 {
		t.Errorf("pinned height = %v, want 300", pinned.Root.Height)
	}
	// Extent is in viewport heights: 2 * 300 of scroll from 300.
	settle(s, 1)
	if !near(fade.Alpha, 1) {
		t.Errorf("alpha after resize = %v, want 1", fade.Alpha)
	}
}

func TestSceneIndicator(t *testing.T) {
	s, _, _ := pinnedScene(t)
	in := NewIndicator(28)
	s.SetIndicator(in)
	if in.Root.Parent != s.Overlay() {
		t.Fatal("indicator not attached to the overlay")
	}

	s.ScrollTo(s.MaxScroll())
	settle(s, 1)
	if in.Percentage() != 100 || !in.Visible() {
		t.Errorf("indicator = (%d%%, visible %v), want (100%%, true)", in.Percentage(), in.Visible())
	}
	if in.Root.Alpha <= 0 || in.Root.Alpha >= 1 {
		t.Errorf("alpha after one tick = %v, want fading in", in.Root.Alpha)
	}

	s.SetIndicator(nil)
	if in.Root.Parent != nil {
		t.Error("indicator still attached")
	}
}

func TestSceneDebugLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := NewScene(SceneConfig{Width: 800, Height: 600, Logger: zap.New(core), Debug: true})
	box := NewBox("b", 10, 10, ColorWhite)
	sec := NewSection("s").Add(box)
	sec.Pinned, sec.Extent = true, 1
	sec.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}

	s.ScrollTo(300)
	settle(s, 1)
	entries := logs.FilterMessage("tick").All()
	if len(entries) != 1 {
		t.Fatalf("tick logs = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["delivered"]; got != int64(1) {
		t.Errorf("delivered = %v, want 1", got)
	}

	// Idle ticks are not logged.
	settle(s, 1)
	if n := logs.FilterMessage("tick").Len(); n != 1 {
		t.Errorf("tick logs after idle tick = %d, want 1", n)
	}
}

func TestSceneScrollScript(t *testing.T) {
	s, _, _ := pinnedScene(t)
	script, err := LoadScrollScript([]byte(`
steps:
  - {action: scrollTo, y: 600, frames: 3}
  - {action: wait, frames: 2}
  - {action: screenshot, label: pinned view}
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScrollScript(script)

	ticks := 0
	for !script.Done() && ticks < 20 {
		s.script.step(s)
		s.processInjected()
		s.tick(tickDT)
		ticks++
	}
	if !script.Done() {
		t.Fatal("script did not finish")
	}
	if ticks != 6 {
		t.Errorf("ticks = %d, want 6 (3 scroll, 2 wait, 1 screenshot)", ticks)
	}
	if s.ScrollY() != 600 {
		t.Errorf("ScrollY = %v, want 600", s.ScrollY())
	}
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0].Label != "pinned view" {
		t.Errorf("screenshot queue = %v", s.screenshotQueue)
	}
}

func TestSceneInjectScrollTo(t *testing.T) {
	s, _, _ := pinnedScene(t)
	s.InjectScrollTo(300, 3)
	s.InjectScrollTo(0, 2)
	if len(s.injectQueue) != 5 {
		t.Fatalf("queued = %d, want 5", len(s.injectQueue))
	}
	var path []float64
	for s.Injecting() {
		s.processInjected()
		path = append(path, s.ScrollY())
	}
	want := []float64{100, 200, 300, 150, 0}
	for i := range want {
		if !near(path[i], want[i]) {
			t.Errorf("path = %v, want %v", path, want)
			break
		}
	}
	if s.processInjected() {
		t.Error("processInjected consumed from an empty queue")
	}
}
