package ui

import (
	"context"
	"log"
	"time"
)

// =============================================================================
// Health Logging
// =============================================================================

// startHealthLogging periodically logs poll, camera and toast counters.
// Disabled when the interval is <= 0.
func (a *App) startHealthLogging(ctx context.Context) {
	interval := a.cfg.Logging.HealthInterval
	if interval <= 0 {
		log.Println("[Health] Health logging disabled (interval <= 0)")
		return
	}

	log.Printf("[Health] Starting health logging (every %v)...", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.logHealthSummary()
		}
	}
}

// logHealthSummary logs one line of counters.
func (a *App) logHealthSummary() {
	polls, failures := a.poller.Stats()
	frames := a.camera.Frames()

	lastFrame := "never"
	if t := frames.LastFrameTime(); !t.IsZero() {
		lastFrame = time.Since(t).Round(time.Second).String() + " ago"
	}

	log.Printf("[Health] polls=%d failed=%d passes=%d frames=%d dropped=%d last_frame=%s toasts=%d",
		polls, failures, a.reconciler.Passes(), frames.FrameCount(), frames.DroppedCount(), lastFrame, a.queue.Active())

	if polls > 0 && failures == polls {
		log.Printf("[Health] WARNING: no status fetch has succeeded yet (%d attempts)", polls)
	}
}
