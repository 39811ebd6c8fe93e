// Package debounce delays rapidly changing text input until it settles.
//
// A Debouncer restarts its timer on every Input call and only emits the most
// recent value once the input has been quiet for the whole window. Stop
// releases the pending timer and closes the output channel; nothing is emitted
// afterwards.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence period used when New is given a
// non-positive duration.
const DefaultWindow = 500 * time.Millisecond

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

// Debouncer emits the latest input after a quiet window. It is safe for
// concurrent use.
type Debouncer struct {
	window time.Duration
	after  afterFunc

	mu      sync.Mutex
	pending timer
	seq     uint64
	latest  string
	stopped bool
	out     chan string
}

// New returns a Debouncer with the given quiescence window.
func New(window time.Duration) *Debouncer {
	return newDebouncer(window, func(d time.Duration, f func()) timer {
		return time.AfterFunc(d, f)
	})
}

func newDebouncer(window time.Duration, after afterFunc) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window: window,
		after:  after,
		out:    make(chan string, 1),
	}
}

// Window returns the configured quiescence period.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// C returns the channel settled values are delivered on. It is closed by Stop.
func (d *Debouncer) C() <-chan string {
	return d.out
}

// Input records text as the latest raw value and restarts the window,
// superseding any pending emission.
func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.latest = text
	d.pending = d.after(d.window, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A superseded timer may still run if Stop lost the race with expiry.
	if d.stopped || seq != d.seq {
		return
	}
	d.pending = nil

	// Only the latest value matters; replace an unread older one.
	select {
	case <-d.out:
	default:
	}
	d.out <- d.latest
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending emission and closes C. Further Input calls are
// ignored. Stop is idempotent.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	close(d.out)
}
