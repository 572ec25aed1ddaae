package camera

import "time"

// =============================================================================
// CAMERA LIFECYCLE SETTINGS
// =============================================================================
// Delays between a camera action and the status re-poll that picks up its
// effect. Enabling the camera takes the backend longer than grabbing one
// more snapshot, so the enable delay is the longer one.
// =============================================================================

const (
	// DefaultEnableRepollDelay is the wait after a successful enable.
	DefaultEnableRepollDelay = 3 * time.Second

	// DefaultSnapshotRepollDelay is the wait after a successful snapshot refresh.
	DefaultSnapshotRepollDelay = 1 * time.Second

	// DefaultActionDuration is how long camera outcome toasts stay up.
	DefaultActionDuration = 3 * time.Second
)

// -----------------------------------------------------------------------------
// PLACEHOLDER AND STATUS TEXT
// -----------------------------------------------------------------------------

const (
	DefaultLoadingText = "Loading camera snapshot..."
	DefaultOffText     = "Camera off"

	StatusOnText  = "Camera on"
	StatusOffText = "Camera off"
)

// Config tunes a Controller. Zero fields fall back to the defaults above.
type Config struct {
	EnableRepollDelay   time.Duration
	SnapshotRepollDelay time.Duration
	ActionDuration      time.Duration
	LoadingText         string
	OffText             string
}

func (c Config) withDefaults() Config {
	if c.EnableRepollDelay <= 0 {
		c.EnableRepollDelay = DefaultEnableRepollDelay
	}
	if c.SnapshotRepollDelay <= 0 {
		c.SnapshotRepollDelay = DefaultSnapshotRepollDelay
	}
	if c.ActionDuration <= 0 {
		c.ActionDuration = DefaultActionDuration
	}
	if c.LoadingText == "" {
		c.LoadingText = DefaultLoadingText
	}
	if c.OffText == "" {
		c.OffText = DefaultOffText
	}
	return c
}
