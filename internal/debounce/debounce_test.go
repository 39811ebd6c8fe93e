package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimers records scheduled callbacks so tests decide when time passes.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (ft *fakeTimers) after(d time.Duration, f func()) timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

// elapse fires every timer that has not been stopped.
func (ft *fakeTimers) elapse() {
	ft.mu.Lock()
	var due []*fakeTimer
	for _, t := range ft.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	ft.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (ft *fakeTimers) active() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	n := 0
	for _, t := range ft.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func receive(t *testing.T, d *Debouncer) (string, bool) {
	t.Helper()
	select {
	case v, ok := <-d.C():
		return v, ok
	default:
		return "", false
	}
}

func TestNew_DefaultsWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, New(0).Window())
	assert.Equal(t, 20*time.Millisecond, New(20*time.Millisecond).Window())
}

func TestInput_BurstEmitsOnlyLastValue(t *testing.T) {
	ft := &fakeTimers{}
	d := newDebouncer(500*time.Millisecond, ft.after)

	for _, s := range []string{"b", "ba", "bat", "batm", "batman"} {
		d.Input(s)
		require.Equal(t, 1, ft.active(), "only one timer may be pending")
	}
	_, got := receive(t, d)
	require.False(t, got, "nothing may be emitted before the window elapses")

	ft.elapse()

	v, ok := receive(t, d)
	require.True(t, ok)
	assert.Equal(t, "batman", v)

	_, ok = receive(t, d)
	assert.False(t, ok, "exactly one value per quiet period")
	for _, tm := range ft.timers {
		assert.Equal(t, 500*time.Millisecond, tm.d)
	}
}

func TestInput_SupersededTimerDoesNotEmit(t *testing.T) {
	ft := &fakeTimers{}
	d := newDebouncer(time.Second, ft.after)

	d.Input("bat")
	first := ft.timers[0]
	d.Input("batman")

	// Simulate the first timer firing after Stop lost the race.
	first.f()
	_, ok := receive(t, d)
	assert.False(t, ok, "stale timer must not emit")

	ft.elapse()
	v, ok := receive(t, d)
	require.True(t, ok)
	assert.Equal(t, "batman", v)
}

func TestInput_SeparateQuietPeriodsEmitEach(t *testing.T) {
	ft := &fakeTimers{}
	d := newDebouncer(time.Second, ft.after)

	d.Input("alien")
	ft.elapse()
	v, ok := receive(t, d)
	require.True(t, ok)
	assert.Equal(t, "alien", v)

	d.Input("")
	ft.elapse()
	v, ok = receive(t, d)
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestFire_ReplacesUnreadValue(t *testing.T) {
	ft := &fakeTimers{}
	d := newDebouncer(time.Second, ft.after)

	d.Input("old")
	ft.elapse()
	d.Input("new")
	ft.elapse()

	v, ok := receive(t, d)
	require.True(t, ok)
	assert.Equal(t, "new", v)
	_, ok = receive(t, d)
	assert.False(t, ok)
}

func TestStop_CancelsPendingAndCloses(t *testing.T) {
	ft := &fakeTimers{}
	d := newDebouncer(time.Second, ft.after)

	d.Input("batman")
	require.True(t, d.Pending())
	pending := ft.timers[0]

	d.Stop()
	assert.False(t, d.Pending())
	assert.True(t, pending.stopped, "pending timer must be released")

	// A callback racing with Stop must not panic or emit.
	pending.f()
	d.Input("ignored")
	assert.Len(t, ft.timers, 1)

	v, ok := <-d.C()
	assert.False(t, ok, "channel must be closed, got %q", v)

	d.Stop()
}

func TestDebouncer_RealTimer(t *testing.T) {
	d := New(20 * time.Millisecond)
	t.Cleanup(d.Stop)

	d.Input("bat")
	d.Input("batman")

	select {
	case v := <-d.C():
		assert.Equal(t, "batman", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never emitted")
	}
}
