package scrub

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StartCondition locates the scroll offset at which a region starts: the
// point ElementAnchor of the way down the element meets the point
// ViewportAnchor of the way down the viewport. Both are fractions; "top top"
// is {0, 0} and "top 80%" is {0, 0.8}.
type StartCondition struct {
	ElementAnchor  float64
	ViewportAnchor float64
}

// StartTopTop starts when the top of the element reaches the top of the
// viewport.
var StartTopTop = StartCondition{}

// ParseStart parses a start condition written as "<element> <viewport>",
// where each side is top, center, bottom or a percentage such as "80%".
func ParseStart(s string) (StartCondition, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return StartCondition{}, fmt.Errorf("parse start %q: want two anchors", s)
	}
	el, err := parseAnchor(fields[0])
	if err != nil {
		return StartCondition{}, fmt.Errorf("parse start %q: %w", s, err)
	}
	vp, err := parseAnchor(fields[1])
	if err != nil {
		return StartCondition{}, fmt.Errorf("parse start %q: %w", s, err)
	}
	return StartCondition{ElementAnchor: el, ViewportAnchor: vp}, nil
}

func parseAnchor(s string) (float64, error) {
	switch s {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}
	pct, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, fmt.Errorf("anchor %q", s)
	}
	v, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return 0, fmt.Errorf("anchor %q: %w", s, err)
	}
	return v / 100, nil
}

// ParseExtent parses a scroll distance written as a percentage of the
// viewport height, optionally prefixed with "+=": "+=500%" is 5.
func ParseExtent(s string) (float64, error) {
	pct, ok := strings.CutSuffix(strings.TrimPrefix(strings.TrimSpace(s), "+="), "%")
	if !ok {
		return 0, fmt.Errorf("parse extent %q: want a percentage", s)
	}
	v, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return 0, fmt.Errorf("parse extent %q: %w", s, err)
	}
	return v / 100, nil
}

// PinnedRegion is an element that consumes Extent viewport heights of
// scroll distance, starting when Start is met.
type PinnedRegion struct {
	Element Element
	Start   StartCondition
	// Extent is the scroll distance as a multiple of the viewport height.
	Extent float64
	// ActivationSlack widens the active window by this many pixels before
	// the start, so overlays can appear slightly ahead of the pin.
	ActivationSlack float64
}

// NewPinnedRegion returns a region for element.
func NewPinnedRegion(element Element, start StartCondition, extent float64) *PinnedRegion {
	return &PinnedRegion{Element: element, Start: start, Extent: extent}
}

// validate checks the parts of the region that do not depend on mounting.
func (r *PinnedRegion) validate() error {
	if r == nil || r.Element == nil {
		return fmt.Errorf("%w: no element", ErrInvalidRegion)
	}
	if !(r.Extent > 0) || math.IsInf(r.Extent, 0) {
		return fmt.Errorf("%w: extent %v", ErrInvalidRegion, r.Extent)
	}
	return nil
}

// Span returns the scroll offset at which the region starts and its extent
// in pixels for the given viewport height.
func (r *PinnedRegion) Span(viewportHeight float64) (start, extentPx float64, err error) {
	b, ok := r.Element.DocumentBounds()
	if !ok {
		return 0, 0, ErrNotMounted
	}
	start = b.Y + r.Start.ElementAnchor*b.Height - r.Start.ViewportAnchor*viewportHeight
	return start, r.Extent * viewportHeight, nil
}

// Sample is the region's progress and activity at one scroll position.
type Sample struct {
	Progress float64
	Active   bool
}

// Sample computes progress = clamp((scrollY - start) / extentPx, 0, 1) and
// whether scrollY lies within [start - slack, start + extentPx].
func (r *PinnedRegion) Sample(scrollY, viewportHeight float64) (Sample, error) {
	start, extentPx, err := r.Span(viewportHeight)
	if err != nil {
		return Sample{}, err
	}
	var p float64
	if extentPx > 0 {
		p = clampUnit((scrollY - start) / extentPx)
	} else if scrollY >= start {
		p = 1
	}
	active := scrollY >= start-r.ActivationSlack && scrollY <= start+extentPx
	return Sample{Progress: p, Active: active}, nil
}
