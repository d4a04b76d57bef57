package scrub

// EventKind identifies a viewport event.
type EventKind uint8

const (
	EventScroll EventKind = iota // scroll offset changed
	EventResize                  // viewport size changed
)

// EventSource delivers scroll and resize events to listeners.
type EventSource interface {
	Listen(fn func(EventKind)) ListenerHandle
}

type listener struct {
	id      uint32
	fn      func(EventKind)
	removed bool
}

// Listeners is an explicit registry of viewport event listeners. The zero
// value is ready to use. A Scene owns one; tests can drive one directly.
type Listeners struct {
	entries []*listener
	emitBuf []*listener // reused snapshot for Emit
	nextID  uint32
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id  uint32
	reg *Listeners
}

// Listen registers fn and returns a handle that removes it.
func (l *Listeners) Listen(fn func(EventKind)) ListenerHandle {
	l.nextID++
	l.entries = append(l.entries, &listener{id: l.nextID, fn: fn})
	return ListenerHandle{id: l.nextID, reg: l}
}

// Emit calls every listener with kind, in registration order. Listeners
// may add or remove listeners, including themselves, from inside the call:
// removed listeners are skipped and added ones wait for the next Emit.
func (l *Listeners) Emit(kind EventKind) {
	if len(l.entries) == 0 {
		return
	}
	// A nested Emit must not clobber the outer snapshot.
	buf := append(l.emitBuf[:0], l.entries...)
	l.emitBuf = nil
	for _, e := range buf {
		if !e.removed {
			e.fn(kind)
		}
	}
	clear(buf)
	l.emitBuf = buf[:0]
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	return len(l.entries)
}

// Remove unregisters the listener. Removing twice, or removing the zero
// handle, is a no-op.
func (h ListenerHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.entries
	for i, e := range s {
		if e.id == h.id {
			e.removed = true
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			h.reg.entries = s[:len(s)-1]
			return
		}
	}
}
