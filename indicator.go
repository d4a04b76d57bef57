package scrub

import (
	"math"
	"strconv"
)

// IndicatorMessage is shown once page progress reaches Percent.
type IndicatorMessage struct {
	Percent int
	Text    string
}

// DefaultIndicatorMessages returns the sign-up nudges, highest threshold
// first.
func DefaultIndicatorMessages() []IndicatorMessage {
	return []IndicatorMessage{
		{Percent: 95, Text: "Sign up! ->"},
		{Percent: 75, Text: "Almost there..."},
		{Percent: 40, Text: "Keep going..."},
		{Percent: 0, Text: "Scroll to sign up ->"},
	}
}

// PageProgress returns how far through the whole document the viewport is,
// in [0, 1]. A document no taller than the viewport counts as complete.
func PageProgress(scrollY, documentHeight, viewportHeight float64) float64 {
	span := documentHeight - viewportHeight
	if span <= 0 {
		return 1
	}
	return clampUnit(scrollY / span)
}

// Indicator is a fixed bar across the top of the viewport showing page
// progress: a fill, a bright leading edge, the percentage and a message.
// It stays hidden until the page has scrolled past RevealAfter pixels and
// fades in and out over FadeTime seconds.
type Indicator struct {
	Root    *Node
	Track   *Node
	Fill    *Node
	Edge    *Node
	Percent *Node
	Message *Node

	Messages    []IndicatorMessage
	RevealAfter float64
	FadeTime    float64

	progress float64
	percent  int
	visible  bool
}

// NewIndicator builds an indicator bar of the given height.
func NewIndicator(height float64) *Indicator {
	teal := Color{R: 0.08, G: 0.72, B: 0.65, A: 1}
	in := &Indicator{
		Root:        NewContainer("indicator"),
		Track:       NewBox("indicator-track", 0, height, Color{R: 0.12, G: 0.16, B: 0.24, A: 1}),
		Fill:        NewBox("indicator-fill", 0, height, Color{R: teal.R, G: teal.G, B: teal.B, A: 0.2}),
		Edge:        NewBox("indicator-edge", 4, height, teal),
		Percent:     NewLabel("indicator-percent", "0%"),
		Message:     NewLabel("indicator-message", ""),
		Messages:    DefaultIndicatorMessages(),
		RevealAfter: 100,
		FadeTime:    0.5,
	}
	in.Percent.X, in.Percent.Y = 12, (height-debugGlyphH)/2
	in.Percent.Color = teal
	in.Message.PivotX = 1
	in.Message.Y = (height - debugGlyphH) / 2
	in.Root.Alpha = 0
	in.Root.AddChild(in.Track)
	in.Root.AddChild(in.Fill)
	in.Root.AddChild(in.Edge)
	in.Root.AddChild(in.Percent)
	in.Root.AddChild(in.Message)
	return in
}

// Sync updates the bar for the current scroll position and viewport width.
func (in *Indicator) Sync(scrollY, documentHeight, viewportHeight, width float64) {
	in.progress = PageProgress(scrollY, documentHeight, viewportHeight)
	in.percent = int(math.Round(in.progress * 100))
	in.visible = scrollY > in.RevealAfter

	in.Track.Width = width
	in.Fill.Width = in.progress * width
	in.Edge.X = in.progress * width
	in.Percent.SetText(strconv.Itoa(in.percent) + "%")
	in.Message.SetText(in.MessageText())
	in.Message.X = width - 12
}

// Update fades the bar toward its visibility by dt seconds.
func (in *Indicator) Update(dt float32) {
	target := 0.0
	if in.visible {
		target = 1
	}
	if in.FadeTime <= 0 {
		in.Root.Alpha = target
		return
	}
	step := float64(dt) / in.FadeTime
	switch {
	case in.Root.Alpha < target:
		in.Root.Alpha = min(target, in.Root.Alpha+step)
	case in.Root.Alpha > target:
		in.Root.Alpha = max(target, in.Root.Alpha-step)
	}
}

// MessageText returns the message for the current percentage.
func (in *Indicator) MessageText() string {
	for _, m := range in.Messages {
		if in.percent >= m.Percent {
			return m.Text
		}
	}
	return ""
}

// Progress returns the page progress from the last Sync.
func (in *Indicator) Progress() float64 { return in.progress }

// Percentage returns the rounded page progress from the last Sync.
func (in *Indicator) Percentage() int { return in.percent }

// Visible reports whether the page has scrolled far enough to show the bar.
func (in *Indicator) Visible() bool { return in.visible }
