package notify

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	at   time.Duration
	op   string
	id   string
	kind Kind
}

// fakeClock runs scheduled callbacks when Advance passes their deadline.
type fakeClock struct {
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	at time.Duration
	f  func()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.pending = append(c.pending, scheduled{at: c.now + d, f: f})
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.pending, func(i, j int) bool { return c.pending[i].at < c.pending[j].at })
		if len(c.pending) == 0 || c.pending[0].at > target {
			break
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.now = next.at
		next.f()
	}
	c.now = target
}

type recordingHost struct {
	mu     sync.Mutex
	clock  *fakeClock
	events []event
}

func (h *recordingHost) record(op, id string, kind Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event{at: h.clock.now, op: op, id: id, kind: kind})
}

func (h *recordingHost) Add(n Notification) { h.record("add", n.ID, n.Kind) }
func (h *recordingHost) Fade(id string)     { h.record("fade", id, "") }
func (h *recordingHost) Remove(id string)   { h.record("remove", id, "") }

func newTestQueue() (*Queue, *recordingHost, *fakeClock) {
	clock := &fakeClock{}
	host := &recordingHost{clock: clock}
	return New(host, WithAfterFunc(clock.AfterFunc)), host, clock
}

func TestShow_FadeAndRemovalTiming(t *testing.T) {
	q, host, clock := newTestQueue()

	n := q.Show("Status updated", Success, 2000*time.Millisecond)
	require.NotEmpty(t, n.ID)
	assert.Equal(t, 1, q.Active())

	clock.Advance(1699 * time.Millisecond)
	require.Len(t, host.events, 1)
	assert.Equal(t, event{at: 0, op: "add", id: n.ID, kind: Success}, host.events[0])

	clock.Advance(time.Millisecond)
	require.Len(t, host.events, 2)
	assert.Equal(t, event{at: 1700 * time.Millisecond, op: "fade", id: n.ID}, host.events[1])

	clock.Advance(300 * time.Millisecond)
	require.Len(t, host.events, 3)
	assert.Equal(t, event{at: 2000 * time.Millisecond, op: "remove", id: n.ID}, host.events[2])
	assert.Zero(t, q.Active())
}

func TestRemove_Idempotent(t *testing.T) {
	q, host, clock := newTestQueue()

	n := q.Show("Camera enabled", Success, 2*time.Second)
	q.Remove(n.ID)
	q.Remove(n.ID)
	clock.Advance(5 * time.Second)

	var removals int
	for _, e := range host.events {
		switch e.op {
		case "remove":
			removals++
		case "fade":
			t.Fatalf("fade after removal: %+v", e)
		}
	}
	assert.Equal(t, 1, removals)
	q.Remove("no-such-id")
}

func TestShow_IndependentTimers(t *testing.T) {
	q, host, clock := newTestQueue()

	a := q.Show("first", Success, 3*time.Second)
	clock.Advance(time.Second)
	b := q.Show("second", Error, time.Second)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, q.Active())

	clock.Advance(time.Second)
	assert.Equal(t, 1, q.Active())

	var removed []string
	for _, e := range host.events {
		if e.op == "remove" {
			removed = append(removed, e.id)
		}
	}
	assert.Equal(t, []string{b.ID}, removed)

	clock.Advance(time.Second)
	assert.Zero(t, q.Active())
}

func TestShow_ShortDurationFadesImmediately(t *testing.T) {
	q, host, clock := newTestQueue()

	q.Show("blink", Success, 100*time.Millisecond)
	clock.Advance(0)
	require.Len(t, host.events, 2)
	assert.Equal(t, "fade", host.events[1].op)
	assert.Equal(t, time.Duration(0), host.events[1].at)
}

func TestWithFade(t *testing.T) {
	clock := &fakeClock{}
	host := &recordingHost{clock: clock}
	q := New(host, WithAfterFunc(clock.AfterFunc), WithFade(time.Second))

	q.Show("slow", Success, 2*time.Second)
	clock.Advance(time.Second)
	require.Len(t, host.events, 2)
	assert.Equal(t, time.Second, host.events[1].at)
}

func TestDefaultTimerRemoves(t *testing.T) {
	clock := &fakeClock{}
	host := &recordingHost{clock: clock}
	q := New(host, WithFade(0))

	q.Show("real timer", Success, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return q.Active() == 0 }, time.Second, 5*time.Millisecond)
}
