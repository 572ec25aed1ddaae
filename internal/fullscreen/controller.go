// Package fullscreen toggles the dashboard between windowed and
// fullscreen presentation.
package fullscreen

import (
	"log"
	"sync"

	"printer-dashboard-go/internal/display"
)

// State is the current presentation.
type State int

const (
	Normal State = iota
	Fullscreen
)

func (s State) String() string {
	if s == Fullscreen {
		return "fullscreen"
	}
	return "normal"
}

// Platform is one way of entering and leaving fullscreen. Active reports
// the live presentation, which the window system may change on its own.
type Platform interface {
	Supported() bool
	Active() bool
	Enter() error
	Exit() error
}

type unsupported struct{}

func (unsupported) Supported() bool { return false }
func (unsupported) Active() bool    { return false }
func (unsupported) Enter() error    { return nil }
func (unsupported) Exit() error     { return nil }

// Negotiate returns the first supported candidate. When none is
// supported the result reports Supported() == false.
func Negotiate(candidates ...Platform) Platform {
	for _, p := range candidates {
		if p != nil && p.Supported() {
			return p
		}
	}
	return unsupported{}
}

// Controller owns the fullscreen state. The control keeps the same icon
// in both states.
type Controller struct {
	platform  Platform
	supported bool

	mu    sync.Mutex
	state State
}

// New binds a controller to a negotiated platform. If fullscreen is not
// available the control is hidden and every transition is a no-op.
// control may be nil.
func New(platform Platform, control display.ControlSlot) *Controller {
	if platform == nil {
		platform = unsupported{}
	}
	c := &Controller{
		platform:  platform,
		supported: platform.Supported(),
	}
	if control != nil {
		control.SetVisible(c.supported)
	}
	if !c.supported {
		log.Println("[UI] Fullscreen not supported, hiding toggle")
	}
	return c
}

// Supported reports whether fullscreen is available.
func (c *Controller) Supported() bool {
	return c.supported
}

// State returns the current presentation.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked()
	return c.state
}

// syncLocked picks up transitions made outside the controller.
func (c *Controller) syncLocked() {
	if !c.supported {
		return
	}
	live := Normal
	if c.platform.Active() {
		live = Fullscreen
	}
	if live != c.state {
		log.Printf("[UI] Fullscreen changed externally: %v -> %v", c.state, live)
		c.state = live
	}
}

// Toggle switches between normal and fullscreen.
func (c *Controller) Toggle() {
	if !c.supported {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.syncLocked()
	if c.state == Fullscreen {
		c.exitLocked()
		return
	}
	if err := c.platform.Enter(); err != nil {
		log.Printf("[UI] Enter fullscreen failed: %v", err)
		return
	}
	c.state = Fullscreen
}

// HandleEscape returns to normal presentation. Escape while already in
// normal presentation does nothing.
func (c *Controller) HandleEscape() {
	if !c.supported {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.syncLocked()
	if c.state == Fullscreen {
		c.exitLocked()
	}
}

func (c *Controller) exitLocked() {
	if err := c.platform.Exit(); err != nil {
		log.Printf("[UI] Exit fullscreen failed: %v", err)
	}
	c.state = Normal
}
