package scrub

// FrameHandle identifies a pending frame request. The zero handle is never
// issued.
type FrameHandle uint64

// FrameScheduler runs callbacks on the next rendered frame.
type FrameScheduler interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn func()) FrameHandle
	// CancelFrame drops a pending request. Cancelling a handle that already
	// ran or was already cancelled is a no-op.
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle FrameHandle
	fn     func()
}

// FrameQueue is a FrameScheduler flushed once per tick by the Scene.
// Callbacks requested while a flush is running wait for the next flush.
type FrameQueue struct {
	pending []frameRequest
	running []frameRequest
	next    FrameHandle
}

// RequestFrame schedules fn for the next Flush.
func (q *FrameQueue) RequestFrame(fn func()) FrameHandle {
	q.next++
	q.pending = append(q.pending, frameRequest{handle: q.next, fn: fn})
	return q.next
}

// CancelFrame drops the request, including one queued behind the callback
// currently running in Flush.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	if h == 0 {
		return
	}
	for i := range q.running {
		if q.running[i].handle == h {
			q.running[i].fn = nil
			return
		}
	}
	for i := range q.pending {
		if q.pending[i].handle == h {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = frameRequest{}
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
}

// Flush runs every callback requested before the call and returns how many
// ran.
func (q *FrameQueue) Flush() int {
	if len(q.pending) == 0 {
		return 0
	}
	q.running, q.pending = q.pending, q.running[:0]
	ran := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn()
		ran++
	}
	clear(q.running)
	q.running = q.running[:0]
	return ran
}

// Pending returns the number of requests waiting for the next Flush.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}
