// Package reconcile maps status snapshots onto the dashboard slots.
package reconcile

import (
	"sync"
	"sync/atomic"
	"time"

	"printer-dashboard-go/internal/display"
	"printer-dashboard-go/internal/notify"
	"printer-dashboard-go/internal/printer"
)

// Defaults for the per-pass acknowledgement.
const (
	DefaultUpdatedText    = "✓ Updated"
	DefaultUpdateDuration = 2 * time.Second
)

// Notifier shows the acknowledgement toast.
type Notifier interface {
	Show(message string, kind notify.Kind, duration time.Duration) notify.Notification
}

// Renderer owns the camera slots.
type Renderer interface {
	Render(snap *printer.StatusSnapshot)
}

// Options tunes a Reconciler.
type Options struct {
	UpdatedText    string
	UpdateDuration time.Duration
}

// Reconciler applies snapshots to a surface. Passes are serialized.
type Reconciler struct {
	surface  display.Surface
	notifier Notifier
	camera   Renderer
	opts     Options

	mu     sync.Mutex
	passes atomic.Uint64
}

// New creates a reconciler. camera may be nil, in which case the camera
// slots are left alone.
func New(surface display.Surface, notifier Notifier, camera Renderer, opts Options) *Reconciler {
	if opts.UpdatedText == "" {
		opts.UpdatedText = DefaultUpdatedText
	}
	if opts.UpdateDuration <= 0 {
		opts.UpdateDuration = DefaultUpdateDuration
	}
	return &Reconciler{
		surface:  surface,
		notifier: notifier,
		camera:   camera,
		opts:     opts,
	}
}

// Apply overwrites every slot from snap and acknowledges the pass with
// one notification. Slots missing from the surface are skipped.
func (r *Reconciler) Apply(snap *printer.StatusSnapshot) {
	if snap == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slot, ok := r.surface.Text(display.SlotConnectionStatus); ok {
		slot.SetText(snap.ConnectionStatus)
		if snap.Connected() {
			slot.SetClass(display.ClassConnected)
		} else {
			slot.SetClass(display.ClassDisconnected)
		}
	}

	r.setText(display.SlotModelName, "Model: "+snap.ModelName)

	progress := printer.ClampProgress(snap.ProgressPercent)
	r.setText(display.SlotProgressText, printer.ProgressText(progress))
	if arc, ok := r.surface.Arc(display.SlotProgressArc); ok {
		arc.SetArc(printer.ProgressArc(progress))
	}

	r.setText(display.SlotTimeRemaining, snap.TimeRemaining)

	params := [len(display.ParameterSlots)]string{
		printer.FormatTemperature(snap.ExtruderTemp),
		printer.FormatTemperature(snap.BedTemp),
		snap.EnclosureStatus,
		snap.FilamentStatus,
	}
	for i, name := range display.ParameterSlots {
		r.setText(name, params[i])
	}

	r.setText(display.SlotLastUpdate, "Last update: "+snap.LastUpdate)

	r.setText(display.SlotPrinterName, snap.PrinterName)
	r.setText(display.SlotJobStatus, snap.JobStatus)
	r.setText(display.SlotFirmwareVersion, snap.FirmwareVersion)

	if r.camera != nil {
		r.camera.Render(snap)
	}

	r.passes.Add(1)
	if r.notifier != nil {
		r.notifier.Show(r.opts.UpdatedText, notify.Success, r.opts.UpdateDuration)
	}
}

// Passes returns how many snapshots have been applied.
func (r *Reconciler) Passes() uint64 {
	return r.passes.Load()
}

func (r *Reconciler) setText(name display.SlotName, text string) {
	if slot, ok := r.surface.Text(name); ok {
		slot.SetText(text)
	}
}
