package scrub

import "errors"

var (
	// ErrNotMounted is returned when a region is registered before its
	// element is attached to a document. Callers register after mount; the
	// source does not retry.
	ErrNotMounted = errors.New("scrub: region element is not mounted")

	// ErrInvalidSegment reports an authoring mistake in a segment: a start
	// outside [0, 1], a negative duration, a non-finite value, a nil target or
	// a property the target does not accept. Segments are rejected, never
	// clamped.
	ErrInvalidSegment = errors.New("scrub: invalid segment")

	// ErrInvalidRegion reports a pinned region with a non-positive extent or
	// no element.
	ErrInvalidRegion = errors.New("scrub: invalid pinned region")

	// ErrStepIncomplete is returned by Wizard.Advance and Wizard.Submit when
	// the current step's answer does not pass its check.
	ErrStepIncomplete = errors.New("scrub: step incomplete")

	// ErrDocument wraps every error from loading a YAML document.
	ErrDocument = errors.New("scrub: invalid document")

	// ErrAlreadyMounted is returned when mounting a section twice.
	ErrAlreadyMounted = errors.New("scrub: section already mounted")
)
