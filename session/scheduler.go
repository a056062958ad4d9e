package session

import (
	"sync"
	"time"
)

// FlushScheduler defers fn to a later moment and returns a cancel
// function. Cancel must be a no-op once fn has started.
type FlushScheduler func(fn func()) (cancel func())

// TimerScheduler returns a FlushScheduler that fires after d.
func TimerScheduler(d time.Duration) FlushScheduler {
	return func(fn func()) func() {
		t := time.AfterFunc(d, fn)
		return func() { t.Stop() }
	}
}

// SyncScheduler runs fn immediately. Tests use it to make flushing
// deterministic.
func SyncScheduler(fn func()) func() {
	fn()
	return func() {}
}

// renderScheduler coalesces streamed text before handing it to a sink.
// Appends within one scheduling window collapse into a single sink call,
// preserving arrival order. Flush delivers synchronously; Discard is the
// only way buffered text is ever dropped.
type renderScheduler struct {
	mu        sync.Mutex
	schedule  FlushScheduler
	sink      func(text string)
	buf       []byte
	cancel    func()
	scheduled bool
}

func newRenderScheduler(schedule FlushScheduler, sink func(text string)) *renderScheduler {
	return &renderScheduler{schedule: schedule, sink: sink}
}

// Append buffers text and arms the flush timer if one is not already
// pending. The scheduler is invoked outside the lock: a synchronous
// FlushScheduler runs the flush callback before returning, and that
// callback re-acquires the lock.
func (r *renderScheduler) Append(text string) {
	r.mu.Lock()
	r.buf = append(r.buf, text...)
	if r.scheduled {
		r.mu.Unlock()
		return
	}
	r.scheduled = true
	r.mu.Unlock()

	cancel := r.schedule(r.flushTimer)

	r.mu.Lock()
	// A synchronous scheduler (or a racing Flush) may have already
	// delivered; only keep the cancel func while the flush is pending.
	if r.scheduled {
		r.cancel = cancel
	}
	r.mu.Unlock()
}

func (r *renderScheduler) flushTimer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = false
	r.cancel = nil
	r.deliverLocked()
}

// Flush cancels any pending timer and delivers buffered text now. It is
// called on every terminal path so no buffered content outlives the
// exchange.
func (r *renderScheduler) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.scheduled = false
	r.deliverLocked()
}

// Discard cancels any pending timer and drops buffered text. Only a
// conversation reset uses it.
func (r *renderScheduler) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.scheduled = false
	r.buf = nil
}

func (r *renderScheduler) deliverLocked() {
	if len(r.buf) == 0 {
		return
	}
	text := string(r.buf)
	r.buf = nil
	r.sink(text)
}
