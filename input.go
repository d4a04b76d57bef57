package scrub

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat timing in ticks for held arrow keys.
const (
	keyRepeatDelay    = 15
	keyRepeatInterval = 3
)

// inputState tracks the single touch used for drag scrolling.
type inputState struct {
	touching bool
	touchID  ebiten.TouchID
	lastY    int
	touchBuf []ebiten.TouchID
}

// processInput turns wheel, keyboard and touch input into one scroll delta
// per tick.
func (s *Scene) processInput() {
	var dy float64

	if _, wy := ebiten.Wheel(); wy != 0 {
		dy -= wy * s.scrollStep
	}

	if keyRepeat(ebiten.KeyArrowDown) {
		dy += s.scrollStep
	}
	if keyRepeat(ebiten.KeyArrowUp) {
		dy -= s.scrollStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		dy += s.height * 0.9
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		dy -= s.height * 0.9
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		s.ScrollTo(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		s.ScrollTo(s.MaxScroll())
	}

	dy += s.processTouch()

	if dy != 0 {
		s.ScrollBy(dy)
	}
}

// processTouch returns the vertical drag distance of the tracked touch since
// the last tick. Dragging up scrolls down.
func (s *Scene) processTouch() float64 {
	in := &s.input
	if !in.touching {
		in.touchBuf = inpututil.AppendJustPressedTouchIDs(in.touchBuf[:0])
		if len(in.touchBuf) == 0 {
			return 0
		}
		in.touching = true
		in.touchID = in.touchBuf[0]
		_, in.lastY = ebiten.TouchPosition(in.touchID)
		return 0
	}
	if inpututil.IsTouchJustReleased(in.touchID) {
		in.touching = false
		return 0
	}
	_, y := ebiten.TouchPosition(in.touchID)
	d := in.lastY - y
	in.lastY = y
	return float64(d)
}

// keyRepeat reports a press on the first tick and then at a fixed interval
// while held.
func keyRepeat(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0)
}
