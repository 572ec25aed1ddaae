// Package camera drives the printer camera feed on the dashboard: it
// renders the feed slots from each status snapshot and performs the
// enable, refresh and keep-alive actions against the backend.
package camera

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	// Snapshot decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"printer-dashboard-go/internal/display"
	"printer-dashboard-go/internal/notify"
	"printer-dashboard-go/internal/printer"
)

// ConnectionErrorText is shown when a camera action cannot reach the backend.
const ConnectionErrorText = "Connection error"

// ErrRejected is returned when the backend answers a camera action with a
// non-success status.
var ErrRejected = errors.New("camera: action rejected")

// errKnownBad marks a payload that already failed to decode.
var errKnownBad = errors.New("camera: payload already failed to decode")

// Client is the part of the backend API the controller uses.
type Client interface {
	EnableCamera(ctx context.Context) (printer.ActionResult, error)
	RefreshCamera(ctx context.Context) (printer.ActionResult, error)
	CameraDebug(ctx context.Context) (json.RawMessage, error)
}

// Notifier shows outcome toasts.
type Notifier interface {
	Show(message string, kind notify.Kind, duration time.Duration) notify.Notification
}

// Repoller schedules a one-shot status poll.
type Repoller interface {
	SchedulePoll(delay time.Duration)
}

// Controller owns the camera slots of the surface.
type Controller struct {
	cfg      Config
	surface  display.Surface
	client   Client
	notifier Notifier
	frames   *FrameBuffer

	// Guarded by renderMu.
	renderMu  sync.Mutex
	current   *Frame
	failedKey uint64
	hasFailed bool

	mu       sync.RWMutex
	repoller Repoller
}

// NewController creates a camera controller. Call Bind before any action
// so successful actions can schedule their follow-up polls.
func NewController(cfg Config, surface display.Surface, client Client, notifier Notifier) *Controller {
	return &Controller{
		cfg:      cfg.withDefaults(),
		surface:  surface,
		client:   client,
		notifier: notifier,
		frames:   NewFrameBuffer(),
	}
}

// Bind attaches the poller used for follow-up status polls.
func (c *Controller) Bind(r Repoller) {
	c.mu.Lock()
	c.repoller = r
	c.mu.Unlock()
}

// Frames exposes the decoded snapshot buffer.
func (c *Controller) Frames() *FrameBuffer {
	return c.frames
}

// =============================================================================
// RENDERING
// =============================================================================

// Render writes the camera slots for snap. The camera state is derived
// from snap alone on every call.
func (c *Controller) Render(snap *printer.StatusSnapshot) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	enabled := snap.CameraEnabled

	if slot, ok := c.surface.Text(display.SlotCameraStatus); ok {
		if enabled {
			slot.SetText(StatusOnText)
			slot.SetClass(display.ClassCameraOn)
		} else {
			slot.SetText(StatusOffText)
			slot.SetClass(display.ClassCameraOff)
		}
	}

	if ctl, ok := c.surface.Control(display.SlotEnableCamera); ok {
		ctl.SetVisible(!enabled)
	}
	if ctl, ok := c.surface.Control(display.SlotRefreshCamera); ok {
		ctl.SetVisible(enabled)
	}

	if slot, ok := c.surface.Text(display.SlotCameraInfo); ok {
		if snap.SnapshotLastUpdate != "" {
			slot.SetText("Snapshot: " + snap.SnapshotLastUpdate)
		} else {
			slot.SetText("")
		}
	}

	switch snap.CameraState() {
	case printer.CameraDisabled:
		c.showPlaceholder(c.cfg.OffText)

	case printer.CameraEnabledNoSnapshot:
		c.showPlaceholder(c.cfg.LoadingText)

	case printer.CameraEnabledWithSnapshot:
		frame, err := c.decode(snap)
		if err != nil {
			if !errors.Is(err, errKnownBad) {
				log.Printf("[Camera] Snapshot decode failed, keeping previous frame: %v", err)
			}
			if c.current != nil {
				c.showFrame(c.current)
			} else {
				c.showPlaceholder(c.cfg.LoadingText)
			}
			return
		}
		c.showFrame(frame)
	}
}

func (c *Controller) showPlaceholder(text string) {
	if slot, ok := c.surface.Text(display.SlotCameraPlaceholder); ok {
		slot.SetText(text)
		slot.SetVisible(true)
	}
	if img, ok := c.surface.Image(display.SlotCameraImage); ok {
		img.SetVisible(false)
	}
}

func (c *Controller) showFrame(frame *Frame) {
	img, ok := c.surface.Image(display.SlotCameraImage)
	if !ok {
		img = c.surface.CreateImage(display.SlotCameraImage)
		log.Println("[Camera] Created snapshot image slot")
	}
	img.SetImage(frame.Image)
	img.SetVisible(true)
	c.current = frame

	if slot, ok := c.surface.Text(display.SlotCameraPlaceholder); ok {
		slot.SetVisible(false)
	}
}

// decode returns the frame for the snapshot payload, decoding it only if
// it is not already buffered. A payload that failed last time is not
// decoded or counted again.
func (c *Controller) decode(snap *printer.StatusSnapshot) (*Frame, error) {
	key := PayloadKey(snap.CameraSnapshot)
	if frame, ok := c.frames.Lookup(key); ok {
		return frame, nil
	}
	if c.hasFailed && c.failedKey == key {
		return nil, errKnownBad
	}

	raw, err := snap.SnapshotBytes()
	if err != nil {
		c.markFailed(key)
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		c.markFailed(key)
		return nil, fmt.Errorf("decode snapshot (%d bytes): %w", len(raw), err)
	}

	frame := &Frame{Image: img, Key: key, Taken: snap.SnapshotLastUpdate}
	c.frames.Write(frame)
	log.Printf("[Camera] Decoded %s snapshot %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return frame, nil
}

func (c *Controller) markFailed(key uint64) {
	c.failedKey, c.hasFailed = key, true
	c.frames.MarkDropped()
}

// =============================================================================
// ACTIONS
// =============================================================================

// EnableCamera asks the backend to turn the camera on. On success a status
// poll follows after the enable delay.
func (c *Controller) EnableCamera(ctx context.Context) error {
	res, err := c.client.EnableCamera(ctx)
	if err != nil {
		log.Printf("[Camera] Enable request failed: %v", err)
		c.notifier.Show(ConnectionErrorText, notify.Error, c.cfg.ActionDuration)
		return fmt.Errorf("enable camera: %w", err)
	}

	if !res.OK() {
		reason := res.Message
		if reason == "" {
			reason = "unknown error"
		}
		c.notifier.Show("Failed to enable camera: "+reason, notify.Error, c.cfg.ActionDuration)
		c.logDebug(ctx)
		return fmt.Errorf("enable camera: %w: %s", ErrRejected, reason)
	}

	msg := res.Message
	if msg == "" {
		msg = "Camera enabled"
	}
	c.notifier.Show(msg, notify.Success, c.cfg.ActionDuration)
	c.schedule(c.cfg.EnableRepollDelay)
	return nil
}

// RefreshSnapshot asks the backend for a new snapshot.
func (c *Controller) RefreshSnapshot(ctx context.Context) error {
	res, err := c.client.RefreshCamera(ctx)
	if err != nil {
		log.Printf("[Camera] Snapshot request failed: %v", err)
		c.notifier.Show(ConnectionErrorText, notify.Error, c.cfg.ActionDuration)
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	if !res.OK() {
		reason := res.Message
		if reason == "" {
			reason = "unknown error"
		}
		c.notifier.Show("Failed to refresh snapshot: "+reason, notify.Error, c.cfg.ActionDuration)
		c.logDebug(ctx)
		return fmt.Errorf("refresh snapshot: %w: %s", ErrRejected, reason)
	}

	msg := res.Message
	if msg == "" {
		msg = "Snapshot requested"
	}
	c.notifier.Show(msg, notify.Success, c.cfg.ActionDuration)
	c.schedule(c.cfg.SnapshotRepollDelay)
	return nil
}

// KeepAlive is the background snapshot refresh issued while the camera is
// enabled. It never shows toasts.
func (c *Controller) KeepAlive(ctx context.Context) error {
	res, err := c.client.RefreshCamera(ctx)
	if err != nil {
		log.Printf("[Camera] Keep-alive request failed: %v", err)
		return fmt.Errorf("keep-alive: %w", err)
	}
	if !res.OK() {
		log.Printf("[Camera] Keep-alive rejected: %s", res.Message)
		c.logDebug(ctx)
		return fmt.Errorf("keep-alive: %w: %s", ErrRejected, res.Message)
	}

	c.schedule(c.cfg.SnapshotRepollDelay)
	return nil
}

func (c *Controller) schedule(delay time.Duration) {
	c.mu.RLock()
	r := c.repoller
	c.mu.RUnlock()

	if r == nil {
		log.Println("[Camera] No poller bound, skipping follow-up poll")
		return
	}
	r.SchedulePoll(delay)
}

// logDebug fetches the backend's camera diagnostics and logs them as is.
func (c *Controller) logDebug(ctx context.Context) {
	raw, err := c.client.CameraDebug(ctx)
	if err != nil {
		log.Printf("[Camera] Debug info unavailable: %v", err)
		return
	}
	log.Printf("[Camera] Debug info: %s", raw)
}
