// Package display defines the named slots the dashboard core writes into.
//
// Slots are owned by whoever builds the surface (the fyne window in
// production, Memory in tests). The core only looks slots up and mutates
// them; a slot that is not present is skipped. The one exception is the
// camera image slot, which the core may create once via CreateImage.
package display

import "image"

// SlotName identifies a slot on the surface.
type SlotName string

// Text slots.
const (
	SlotConnectionStatus  SlotName = "connection-status"
	SlotModelName         SlotName = "model-name"
	SlotProgressText      SlotName = "progress-text"
	SlotTimeRemaining     SlotName = "time-remaining"
	SlotLastUpdate        SlotName = "last-update"
	SlotCameraStatus      SlotName = "camera-status"
	SlotCameraInfo        SlotName = "camera-info"
	SlotCameraPlaceholder SlotName = "camera-placeholder"
	SlotPrinterName       SlotName = "printer-name"
	SlotJobStatus         SlotName = "job-status"
	SlotFirmwareVersion   SlotName = "firmware-version"
)

// ParameterSlots are the four parameter value slots in display order:
// extruder, bed, enclosure, filament.
var ParameterSlots = [4]SlotName{
	"param-extruder",
	"param-bed",
	"param-enclosure",
	"param-filament",
}

// Other slot kinds.
const (
	SlotProgressArc   SlotName = "progress-arc"
	SlotCameraImage   SlotName = "camera-image"
	SlotEnableCamera  SlotName = "enable-camera"
	SlotRefreshCamera SlotName = "refresh-camera"
	SlotFullscreen    SlotName = "fullscreen-toggle"
)

// Presentational classes.
const (
	ClassConnected    = "connected"
	ClassDisconnected = "disconnected"
	ClassCameraOn     = "camera-on"
	ClassCameraOff    = "camera-off"
)

// TextSlot holds a line of text and an optional presentational class.
type TextSlot interface {
	SetText(text string)
	SetClass(class string)
	SetVisible(visible bool)
}

// ArcSlot is the circular progress indicator.
type ArcSlot interface {
	SetArc(length, circumference float64)
}

// ImageSlot renders a decoded camera frame.
type ImageSlot interface {
	SetImage(img image.Image)
	SetVisible(visible bool)
}

// ControlSlot is an interactive affordance that can be shown or hidden.
type ControlSlot interface {
	SetVisible(visible bool)
}

// Surface resolves slots by name. Implementations must be safe for use
// from multiple goroutines.
type Surface interface {
	Text(name SlotName) (TextSlot, bool)
	Arc(name SlotName) (ArcSlot, bool)
	Image(name SlotName) (ImageSlot, bool)
	Control(name SlotName) (ControlSlot, bool)

	// CreateImage materializes the camera image slot in its place next to
	// the placeholder and returns it. Calling it again returns the
	// existing slot.
	CreateImage(name SlotName) ImageSlot
}
