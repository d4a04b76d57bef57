package scrub

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Viewport exposes the read-only metrics a ProgressSource samples.
type Viewport interface {
	ScrollY() float64
	Height() float64
}

// ProgressFunc receives a region's progress in [0, 1] and whether the scroll
// offset is inside the region's active window.
type ProgressFunc func(progress float64, active bool)

// Subscription identifies a registration with a ProgressSource. The zero
// value is not registered.
type Subscription struct {
	id uint32
}

type subscriber struct {
	id      uint32
	region  *PinnedRegion
	fn      ProgressFunc
	removed bool
}

// ProgressSource converts the viewport's scroll offset into progress for
// registered pinned regions. Scroll and resize events are coalesced so
// subscribers are recomputed at most once per frame, always from the latest
// scroll offset.
//
// The source listens to its EventSource only while it has subscribers: the
// first Register attaches the listener and the last Unregister detaches it
// and cancels any pending frame.
type ProgressSource struct {
	viewport Viewport
	events   EventSource
	frames   FrameScheduler
	log      *zap.Logger

	subs      []*subscriber
	deliver   []*subscriber // reused snapshot for delivery
	listener  ListenerHandle
	listening bool
	frame     FrameHandle
	nextID    uint32
	frameFn   func()

	// OnFrame, when set, is called after each coalesced recomputation with
	// the number of subscribers that received a value.
	OnFrame func(delivered int)
}

// SourceOption configures a ProgressSource.
type SourceOption func(*ProgressSource)

// WithLogger sets the logger used for recovered subscriber panics and
// dropped samples. The default discards everything.
func WithLogger(log *zap.Logger) SourceOption {
	return func(s *ProgressSource) {
		if log != nil {
			s.log = log
		}
	}
}

// NewProgressSource returns a source sampling vp, woken by events and
// scheduled on frames.
func NewProgressSource(vp Viewport, events EventSource, frames FrameScheduler, opts ...SourceOption) *ProgressSource {
	s := &ProgressSource{
		viewport: vp,
		events:   events,
		frames:   frames,
		log:      zap.NewNop(),
	}
	s.frameFn = s.onFrame
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register subscribes fn to region and delivers the current value
// synchronously before returning, so the visual state is correct before the
// first scroll. Registering the same region twice creates two independent
// subscriptions. It fails with ErrInvalidRegion for a non-positive extent
// and ErrNotMounted when the region's element is not attached yet.
func (s *ProgressSource) Register(region *PinnedRegion, fn ProgressFunc) (Subscription, error) {
	if err := region.validate(); err != nil {
		return Subscription{}, err
	}
	if fn == nil {
		return Subscription{}, fmt.Errorf("%w: nil callback", ErrInvalidRegion)
	}
	sample, err := region.Sample(s.viewport.ScrollY(), s.viewport.Height())
	if err != nil {
		return Subscription{}, fmt.Errorf("register region: %w", err)
	}

	s.nextID++
	sub := &subscriber{id: s.nextID, region: region, fn: fn}
	s.subs = append(s.subs, sub)
	if !s.listening {
		s.listener = s.events.Listen(s.onEvent)
		s.listening = true
	}
	s.call(sub, sample)
	return Subscription{id: sub.id}, nil
}

// Unregister stops callbacks for sub. It is safe to call more than once and
// from inside a callback. Removing the last subscription detaches the
// listener and cancels the pending frame.
func (s *ProgressSource) Unregister(sub Subscription) {
	if sub.id == 0 {
		return
	}
	for i, e := range s.subs {
		if e.id != sub.id {
			continue
		}
		e.removed = true
		copy(s.subs[i:], s.subs[i+1:])
		s.subs[len(s.subs)-1] = nil
		s.subs = s.subs[:len(s.subs)-1]
		break
	}
	if len(s.subs) == 0 {
		s.detach()
	}
}

// Len returns the number of live subscriptions.
func (s *ProgressSource) Len() int {
	return len(s.subs)
}

// Listening reports whether the source is attached to its EventSource.
func (s *ProgressSource) Listening() bool {
	return s.listening
}

func (s *ProgressSource) detach() {
	if s.frame != 0 {
		s.frames.CancelFrame(s.frame)
		s.frame = 0
	}
	if s.listening {
		s.listener.Remove()
		s.listener = ListenerHandle{}
		s.listening = false
	}
}

// onEvent replaces any pending recomputation with a fresh one so that at
// most one runs per frame.
func (s *ProgressSource) onEvent(EventKind) {
	if s.frame != 0 {
		s.frames.CancelFrame(s.frame)
	}
	s.frame = s.frames.RequestFrame(s.frameFn)
}

// onFrame samples the viewport once and delivers to every subscriber, so all
// subscribers observe the same scroll offset within a frame.
func (s *ProgressSource) onFrame() {
	s.frame = 0
	scrollY, vh := s.viewport.ScrollY(), s.viewport.Height()

	s.deliver = append(s.deliver[:0], s.subs...)
	delivered := 0
	for _, sub := range s.deliver {
		if sub.removed {
			continue
		}
		sample, err := sub.region.Sample(scrollY, vh)
		if err != nil {
			if errors.Is(err, ErrNotMounted) {
				s.log.Debug("skipping unmounted region", zap.Uint32("subscription", sub.id))
				continue
			}
			s.log.Warn("sample region", zap.Uint32("subscription", sub.id), zap.Error(err))
			continue
		}
		s.call(sub, sample)
		delivered++
	}
	clear(s.deliver)
	s.deliver = s.deliver[:0]

	if s.OnFrame != nil {
		s.OnFrame(delivered)
	}
}

// call delivers one sample. A panicking subscriber is logged and isolated
// from the others.
func (s *ProgressSource) call(sub *subscriber, sample Sample) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("progress subscriber panicked",
				zap.Uint32("subscription", sub.id),
				zap.Any("panic", r))
		}
	}()
	sub.fn(sample.Progress, sample.Active)
}
