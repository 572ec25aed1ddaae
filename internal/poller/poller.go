// Package poller drives the dashboard: it fetches status on a clock and on
// demand, and hands every snapshot to the reconciler.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"printer-dashboard-go/internal/notify"
	"printer-dashboard-go/internal/printer"
)

// Messages shown for a failed force refresh.
const (
	ConnectionErrorText = "Connection error"
	RefreshFailedText   = "Refresh failed"
)

// ErrRejected is returned when the backend refuses a refresh request.
var ErrRejected = errors.New("poller: refresh rejected")

// Source is the status backend.
type Source interface {
	FetchStatus(ctx context.Context) (*printer.StatusSnapshot, error)
	RequestRefresh(ctx context.Context) (printer.ActionResult, error)
}

// Sink receives every successfully fetched snapshot.
type Sink interface {
	Apply(snap *printer.StatusSnapshot)
}

// Notifier shows user-facing toasts.
type Notifier interface {
	Show(message string, kind notify.Kind, duration time.Duration) notify.Notification
}

// KeepAliver refreshes the camera snapshot in the background.
type KeepAliver interface {
	KeepAlive(ctx context.Context) error
}

// Config is the runtime config the poller needs.
type Config struct {
	StatusInterval time.Duration
	CameraInterval time.Duration
	// RefreshDelay is the wait between an accepted force refresh and the
	// status poll that picks up its result.
	RefreshDelay time.Duration
	// ActionDuration is how long force-refresh failure toasts stay up.
	ActionDuration time.Duration
}

// Poller is a clock-driven status reader.
type Poller struct {
	cfg      Config
	src      Source
	sink     Sink
	notifier Notifier

	mu     sync.RWMutex
	camera KeepAliver
	ctx    context.Context

	wg       sync.WaitGroup
	polls    atomic.Uint64
	failures atomic.Uint64
}

// New creates a poller with immutable config.
func New(cfg Config, src Source, sink Sink, n Notifier) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	if sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if cfg.StatusInterval <= 0 {
		return nil, errors.New("poller: status interval must be > 0")
	}
	if cfg.CameraInterval <= 0 {
		return nil, errors.New("poller: camera interval must be > 0")
	}
	if cfg.RefreshDelay < 0 {
		return nil, errors.New("poller: refresh delay must be >= 0")
	}
	if cfg.ActionDuration <= 0 {
		cfg.ActionDuration = 3 * time.Second
	}
	return &Poller{
		cfg:      cfg,
		src:      src,
		sink:     sink,
		notifier: n,
		ctx:      context.Background(),
	}, nil
}

// AttachCamera sets the camera controller refreshed by camera polling.
func (p *Poller) AttachCamera(k KeepAliver) {
	p.mu.Lock()
	p.camera = k
	p.mu.Unlock()
}

// PollStatus performs exactly one fetch and apply. A failed fetch leaves
// the display untouched.
func (p *Poller) PollStatus(ctx context.Context) error {
	_, err := p.fetchAndApply(ctx)
	return err
}

func (p *Poller) fetchAndApply(ctx context.Context) (*printer.StatusSnapshot, error) {
	p.polls.Add(1)

	snap, err := p.src.FetchStatus(ctx)
	if err != nil {
		p.failures.Add(1)
		log.Printf("[Poller] Status fetch failed: %v", err)
		return nil, fmt.Errorf("poll status: %w", err)
	}

	p.sink.Apply(snap)
	return snap, nil
}

// StartPeriodicStatusPolling polls once right away and then every
// interval until ctx is done. interval <= 0 uses the configured one.
func (p *Poller) StartPeriodicStatusPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.cfg.StatusInterval
	}
	p.bind(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		log.Printf("[Poller] Status polling every %v", interval)

		p.PollStatus(ctx)
		p.run(ctx, interval, func() { p.PollStatus(ctx) })
	}()
}

// StartPeriodicCameraPolling fetches status every interval and, while the
// camera is enabled, asks for a fresh snapshot. No snapshot is requested
// for a disabled camera.
func (p *Poller) StartPeriodicCameraPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.cfg.CameraInterval
	}
	p.bind(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		log.Printf("[Poller] Camera polling every %v", interval)

		p.run(ctx, interval, func() { p.pollCamera(ctx) })
	}()
}

func (p *Poller) pollCamera(ctx context.Context) {
	snap, err := p.fetchAndApply(ctx)
	if err != nil || !snap.CameraEnabled {
		return
	}

	p.mu.RLock()
	k := p.camera
	p.mu.RUnlock()

	if k != nil {
		k.KeepAlive(ctx)
	}
}

// run ticks until ctx is done. A failing tick never stops the loop.
func (p *Poller) run(ctx context.Context, interval time.Duration, tick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// ForceRefresh asks the backend to recompute status and polls again after
// the refresh delay.
func (p *Poller) ForceRefresh(ctx context.Context) error {
	res, err := p.src.RequestRefresh(ctx)
	if err != nil {
		log.Printf("[Poller] Refresh request failed: %v", err)
		p.notify(ConnectionErrorText)
		return fmt.Errorf("force refresh: %w", err)
	}

	if !res.OK() {
		msg := res.Message
		if msg == "" {
			msg = RefreshFailedText
		}
		log.Printf("[Poller] Refresh rejected: %s", msg)
		p.notify(msg)
		return fmt.Errorf("force refresh: %w: %s", ErrRejected, msg)
	}

	log.Println("[Poller] Refresh accepted")
	p.SchedulePoll(p.cfg.RefreshDelay)
	return nil
}

// SchedulePoll runs one status poll after delay. The poll uses the context
// of the running loops, so it is dropped once they are shut down.
func (p *Poller) SchedulePoll(delay time.Duration) {
	p.mu.RLock()
	ctx := p.ctx
	p.mu.RUnlock()

	time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		p.PollStatus(ctx)
	})
}

// Wait blocks until both polling loops have returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Stats returns the number of status fetches attempted and failed.
func (p *Poller) Stats() (polls, failures uint64) {
	return p.polls.Load(), p.failures.Load()
}

func (p *Poller) bind(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
}

func (p *Poller) notify(message string) {
	if p.notifier != nil {
		p.notifier.Show(message, notify.Error, p.cfg.ActionDuration)
	}
}
