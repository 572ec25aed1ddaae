package ui

import (
	"fyne.io/fyne/v2"

	"printer-dashboard-go/internal/fullscreen"
)

// windowPlatform switches a desktop window in and out of fullscreen.
// Mobile windows are always fullscreen, so there is nothing to toggle.
type windowPlatform struct {
	win    fyne.Window
	mobile bool
}

func (p windowPlatform) Supported() bool {
	return p.win != nil && !p.mobile
}

func (p windowPlatform) Active() bool {
	return p.win.FullScreen()
}

func (p windowPlatform) Enter() error {
	p.win.SetFullScreen(true)
	return nil
}

func (p windowPlatform) Exit() error {
	p.win.SetFullScreen(false)
	return nil
}

func negotiateFullscreen(win fyne.Window, dev fyne.Device) fullscreen.Platform {
	mobile := dev != nil && dev.IsMobile()
	return fullscreen.Negotiate(windowPlatform{win: win, mobile: mobile})
}

// escapeHandler forwards Escape to the controller and everything else to
// the previous handler.
func escapeHandler(c *fullscreen.Controller, next func(*fyne.KeyEvent)) func(*fyne.KeyEvent) {
	return func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			c.HandleEscape()
			return
		}
		if next != nil {
			next(ev)
		}
	}
}
