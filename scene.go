package scrub

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const (
	defaultScrollStep = 60
	defaultWidth      = 1280
	defaultHeight     = 720
)

// SceneConfig configures a Scene. Zero fields take defaults.
type SceneConfig struct {
	// Width and Height are the initial viewport size; Run replaces them
	// with the window size.
	Width, Height float64
	// ScrollStep is the scroll distance in pixels per wheel notch.
	ScrollStep float64
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNGs. Empty is "screenshots".
	ScreenshotDir string
	// Logger receives recovered subscriber panics and, in debug mode,
	// per-frame timings. Nil discards.
	Logger *zap.Logger
	Debug  bool
}

// Scene is a scrolling document of stacked sections. It owns the scroll
// offset and viewport, the viewport event listeners, the frame queue and
// the ProgressSource that drives every mounted section's timeline.
type Scene struct {
	root    *Node
	overlay *Node

	sections  []*Section
	scrollY   float64
	width     float64
	height    float64
	docHeight float64

	scrollStep float64
	ClearColor Color

	listeners Listeners
	frames    FrameQueue
	source    *ProgressSource

	updaters    []updater
	updateBuf   []updater
	nextUpdater uint32
	indicator   *Indicator

	log   *zap.Logger
	debug bool
	stats debugStats

	input  inputState
	render renderState

	script          *ScrollScript
	injectQueue     []float64
	screenshotQueue []shot
	screenshotDir   string
}

type updater struct {
	id uint32
	fn func(dt float32)
}

// UpdateHandle allows removing a per-frame callback.
type UpdateHandle struct {
	id    uint32
	scene *Scene
}

// NewScene creates an empty scene.
func NewScene(cfg SceneConfig) *Scene {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.ScrollStep <= 0 {
		cfg.ScrollStep = defaultScrollStep
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	root := NewContainer("document")
	root.root = true
	overlay := NewContainer("overlay")
	overlay.root = true

	s := &Scene{
		root:       root,
		overlay:    overlay,
		width:      cfg.Width,
		height:     cfg.Height,
		scrollStep: cfg.ScrollStep,
		ClearColor: cfg.ClearColor,
		log:        log,
		debug:      cfg.Debug,

		screenshotDir: cfg.ScreenshotDir,
	}
	s.source = NewProgressSource(s, &s.listeners, &s.frames, WithLogger(log.Named("progress")))
	s.source.OnFrame = s.recordFrame
	return s
}

// Root returns the document root. Section roots are its children.
func (s *Scene) Root() *Node { return s.root }

// Overlay returns the root of fixed-position nodes drawn above the document.
func (s *Scene) Overlay() *Node { return s.overlay }

// Source returns the scene's ProgressSource.
func (s *Scene) Source() *ProgressSource { return s.source }

// Frames returns the scene's frame queue.
func (s *Scene) Frames() *FrameQueue { return &s.frames }

// ScrollY returns the scroll offset in pixels.
func (s *Scene) ScrollY() float64 { return s.scrollY }

// Height returns the viewport height.
func (s *Scene) Height() float64 { return s.height }

// Width returns the viewport width.
func (s *Scene) Width() float64 { return s.width }

// DocumentHeight returns the total scrollable height, including pin spacing.
func (s *Scene) DocumentHeight() float64 { return s.docHeight }

// MaxScroll returns the largest valid scroll offset.
func (s *Scene) MaxScroll() float64 {
	return max(0, s.docHeight-s.height)
}

// Listen registers a viewport event listener.
func (s *Scene) Listen(fn func(EventKind)) ListenerHandle {
	return s.listeners.Listen(fn)
}

// ScrollTo sets the scroll offset, clamped to the document, and emits a
// scroll event when it changed.
func (s *Scene) ScrollTo(y float64) {
	y = min(max(y, 0), s.MaxScroll())
	if y == s.scrollY {
		return
	}
	s.scrollY = y
	s.listeners.Emit(EventScroll)
}

// ScrollBy scrolls by dy pixels.
func (s *Scene) ScrollBy(dy float64) {
	s.ScrollTo(s.scrollY + dy)
}

// SetViewport resizes the viewport. Sections are laid out again and a
// resize event is emitted when the size changed.
func (s *Scene) SetViewport(w, h float64) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.layout()
	s.listeners.Emit(EventResize)
}

// OnUpdate registers fn to run every tick with the frame's delta time. Use
// it for players, transitions and smoothers.
func (s *Scene) OnUpdate(fn func(dt float32)) UpdateHandle {
	s.nextUpdater++
	s.updaters = append(s.updaters, updater{id: s.nextUpdater, fn: fn})
	return UpdateHandle{id: s.nextUpdater, scene: s}
}

// Remove unregisters the callback. Removing twice is a no-op.
func (h UpdateHandle) Remove() {
	if h.scene == nil {
		return
	}
	u := h.scene.updaters
	for i := range u {
		if u[i].id == h.id {
			copy(u[i:], u[i+1:])
			u[len(u)-1] = updater{}
			h.scene.updaters = u[:len(u)-1]
			return
		}
	}
}

// SetIndicator attaches a page progress indicator to the overlay. Nil
// removes the current one.
func (s *Scene) SetIndicator(in *Indicator) {
	if s.indicator != nil {
		s.indicator.Root.RemoveFromParent()
	}
	s.indicator = in
	if in != nil {
		s.overlay.AddChild(in.Root)
		in.Sync(s.scrollY, s.docHeight, s.height, s.width)
	}
}

// Update processes input and advances the scene by one tick. While a
// scroll script or injected scrolling is running, real input is ignored.
func (s *Scene) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if s.script != nil {
		s.script.step(s)
	}
	if !s.processInjected() {
		s.processInput()
	}
	s.tick(dt)
}

// tick flushes the frame queue and runs per-frame callbacks.
func (s *Scene) tick(dt float32) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.stats.callbacks = s.frames.Flush()
	if s.debug {
		s.stats.flushTime = time.Since(t0)
		t0 = time.Now()
	}

	s.updateBuf = append(s.updateBuf[:0], s.updaters...)
	for _, u := range s.updateBuf {
		u.fn(dt)
	}
	clear(s.updateBuf)

	if s.indicator != nil {
		s.indicator.Sync(s.scrollY, s.docHeight, s.height, s.width)
		s.indicator.Update(dt)
	}

	if s.debug {
		s.stats.updateTime = time.Since(t0)
		s.debugLog()
	}
	s.stats = debugStats{}
}

// SetDebugMode enables or disables per-frame timing logs.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}
