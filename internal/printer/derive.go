package printer

import (
	"fmt"
	"math"
	"strconv"
)

// CameraState is derived from a snapshot on every reconciliation pass.
// It is never transmitted and never kept between passes.
type CameraState string

const (
	CameraDisabled            CameraState = "disabled"
	CameraEnabledNoSnapshot   CameraState = "enabled-no-snapshot"
	CameraEnabledWithSnapshot CameraState = "enabled-with-snapshot"
)

// DeriveCameraState maps (cameraEnabled, snapshot presence) onto a state.
func DeriveCameraState(enabled, hasSnapshot bool) CameraState {
	switch {
	case !enabled:
		return CameraDisabled
	case hasSnapshot:
		return CameraEnabledWithSnapshot
	default:
		return CameraEnabledNoSnapshot
	}
}

// ProgressRadius is the radius of the circular progress indicator.
const ProgressRadius = 45.0

// ClampProgress bounds a progress value to [0,100]. NaN maps to 0.
func ClampProgress(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ProgressArc returns the arc length drawn for p together with the full
// circumference of the indicator (2π·ProgressRadius).
func ProgressArc(p float64) (length, circumference float64) {
	circumference = 2 * math.Pi * ProgressRadius
	length = (ClampProgress(p) / 100) * circumference
	return length, circumference
}

// ProgressText renders p as "{p}%", e.g. "42.5%".
func ProgressText(p float64) string {
	return strconv.FormatFloat(ClampProgress(p), 'f', -1, 64) + "%"
}

// FormatTemperature renders "current°C / target°C".
func FormatTemperature(t Temperature) string {
	return fmt.Sprintf("%s°C / %s°C", formatNumber(t.Current), formatNumber(t.Target))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
