// Package notify shows short-lived toast messages.
//
// Notifications are independent: each one is rendered immediately, fades
// out shortly before its lifetime ends and is then removed. There is no
// cap and no ordering between them.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind selects the styling of a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// DefaultFade is how long before removal a notification starts fading.
const DefaultFade = 300 * time.Millisecond

// Notification is one toast.
type Notification struct {
	ID      string
	Message string
	Kind    Kind
}

// Host renders notifications. Calls may arrive from any goroutine.
type Host interface {
	Add(n Notification)
	Fade(id string)
	Remove(id string)
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func())

// Option configures a Queue.
type Option func(*Queue)

// WithFade sets the fade lead time. Negative values are treated as zero.
func WithFade(d time.Duration) Option {
	return func(q *Queue) {
		if d < 0 {
			d = 0
		}
		q.fade = d
	}
}

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(after AfterFunc) Option {
	return func(q *Queue) {
		q.after = after
	}
}

// Queue creates notifications on a Host and schedules their removal.
type Queue struct {
	host  Host
	fade  time.Duration
	after AfterFunc

	mu     sync.Mutex
	active map[string]struct{}
}

// New creates a queue rendering onto host.
func New(host Host, opts ...Option) *Queue {
	q := &Queue{
		host:   host,
		fade:   DefaultFade,
		active: make(map[string]struct{}),
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Show renders a notification now and removes it after duration.
// If duration is shorter than the fade time, fading starts right away.
func (q *Queue) Show(message string, kind Kind, duration time.Duration) Notification {
	n := Notification{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
	}

	q.mu.Lock()
	q.active[n.ID] = struct{}{}
	q.mu.Unlock()

	q.host.Add(n)

	fadeAt := duration - q.fade
	if fadeAt < 0 {
		fadeAt = 0
	}
	q.after(fadeAt, func() { q.startFade(n.ID) })
	q.after(duration, func() { q.Remove(n.ID) })

	if kind == Error {
		log.Printf("[Notify] %s", message)
	}
	return n
}

// Remove takes a notification off the host. Removing an unknown or
// already removed notification does nothing.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	_, ok := q.active[id]
	delete(q.active, id)
	q.mu.Unlock()

	if ok {
		q.host.Remove(id)
	}
}

// Active returns the number of notifications still on the host.
func (q *Queue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active)
}

func (q *Queue) startFade(id string) {
	q.mu.Lock()
	_, ok := q.active[id]
	q.mu.Unlock()

	if ok {
		q.host.Fade(id)
	}
}
