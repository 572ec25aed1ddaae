// Package printer holds the status data model received from the dashboard
// backend and the pure derivations the display logic is built on.
package printer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ConnectionConnected is the connection_status value that marks the
// printer as reachable. Anything else renders as disconnected.
const ConnectionConnected = "connected"

// ConnectionDisconnected is the value used when the payload omits it.
const ConnectionDisconnected = "disconnected"

// ActionSuccess is the status value of a successful action reply.
const ActionSuccess = "success"

// Temperature is a current/target pair in degrees Celsius.
type Temperature struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// StatusSnapshot is one immutable status payload. Values are only
// produced by ParseStatus, so every field has already been validated.
type StatusSnapshot struct {
	ConnectionStatus   string      `json:"connection_status"`
	ModelName          string      `json:"model_name"`
	ProgressPercent    float64     `json:"progress_percent"`
	TimeRemaining      string      `json:"time_remaining"`
	ExtruderTemp       Temperature `json:"extruder_temp"`
	BedTemp            Temperature `json:"bed_temp"`
	EnclosureStatus    string      `json:"enclosure_status"`
	FilamentStatus     string      `json:"filament_status"`
	LastUpdate         string      `json:"last_update"`
	CameraEnabled      bool        `json:"camera_enabled"`
	CameraSnapshot     string      `json:"camera_snapshot,omitempty"`
	SnapshotLastUpdate string      `json:"snapshot_last_update"`

	// Printer details forwarded by the backend, optional.
	PrinterName     string  `json:"printer_name,omitempty"`
	JobStatus       string  `json:"job_status,omitempty"`
	FirmwareVersion string  `json:"firmware_version,omitempty"`
	PrinterType     string  `json:"printer_type,omitempty"`
	Measure         string  `json:"measure,omitempty"`
	Duration        float64 `json:"duration,omitempty"`
}

// rawSnapshot mirrors the wire format with pointer fields so absent
// values can be told apart from zero values.
type rawSnapshot struct {
	ConnectionStatus   *string      `json:"connection_status"`
	ModelName          *string      `json:"model_name"`
	ProgressPercent    *float64     `json:"progress_percent"`
	TimeRemaining      *string      `json:"time_remaining"`
	ExtruderTemp       *Temperature `json:"extruder_temp"`
	BedTemp            *Temperature `json:"bed_temp"`
	EnclosureStatus    *string      `json:"enclosure_status"`
	FilamentStatus     *string      `json:"filament_status"`
	LastUpdate         *string      `json:"last_update"`
	CameraEnabled      *bool        `json:"camera_enabled"`
	CameraSnapshot     *string      `json:"camera_snapshot"`
	SnapshotLastUpdate *string      `json:"snapshot_last_update"`
	PrinterName        *string      `json:"printer_name"`
	JobStatus          *string      `json:"job_status"`
	FirmwareVersion    *string      `json:"firmware_version"`
	PrinterType        *string      `json:"printer_type"`
	Measure            *string      `json:"measure"`
	Duration           *float64     `json:"duration"`
}

// ParseStatus decodes and validates a status payload.
//
// Malformed JSON is rejected. Absent fields take their defaults,
// progress is clamped to [0,100] and a camera snapshot that is not valid
// base64 is dropped so it never reaches the display.
func ParseStatus(data []byte) (*StatusSnapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("printer: decode status: %w", err)
	}

	snap := &StatusSnapshot{
		ConnectionStatus:   str(raw.ConnectionStatus, ConnectionDisconnected),
		ModelName:          str(raw.ModelName, ""),
		TimeRemaining:      str(raw.TimeRemaining, ""),
		EnclosureStatus:    str(raw.EnclosureStatus, ""),
		FilamentStatus:     str(raw.FilamentStatus, ""),
		LastUpdate:         str(raw.LastUpdate, ""),
		SnapshotLastUpdate: str(raw.SnapshotLastUpdate, ""),
		PrinterName:        str(raw.PrinterName, ""),
		JobStatus:          str(raw.JobStatus, ""),
		FirmwareVersion:    str(raw.FirmwareVersion, ""),
		PrinterType:        str(raw.PrinterType, ""),
		Measure:            str(raw.Measure, ""),
	}

	if raw.ProgressPercent != nil {
		snap.ProgressPercent = ClampProgress(*raw.ProgressPercent)
	}
	if raw.ExtruderTemp != nil {
		snap.ExtruderTemp = sanitizeTemperature(*raw.ExtruderTemp)
	}
	if raw.BedTemp != nil {
		snap.BedTemp = sanitizeTemperature(*raw.BedTemp)
	}
	if raw.CameraEnabled != nil {
		snap.CameraEnabled = *raw.CameraEnabled
	}
	if raw.Duration != nil && isFinite(*raw.Duration) {
		snap.Duration = *raw.Duration
	}
	if raw.CameraSnapshot != nil {
		payload := strings.TrimSpace(*raw.CameraSnapshot)
		if payload != "" && validBase64(payload) {
			snap.CameraSnapshot = payload
		}
	}

	return snap, nil
}

// HasSnapshot reports whether the payload carries a camera image.
func (s *StatusSnapshot) HasSnapshot() bool {
	return s.CameraSnapshot != ""
}

// Connected reports whether the connection status equals the sentinel.
func (s *StatusSnapshot) Connected() bool {
	return s.ConnectionStatus == ConnectionConnected
}

// CameraState derives the camera lifecycle state of this snapshot.
func (s *StatusSnapshot) CameraState() CameraState {
	return DeriveCameraState(s.CameraEnabled, s.HasSnapshot())
}

// SnapshotBytes decodes the base64 camera payload.
func (s *StatusSnapshot) SnapshotBytes() ([]byte, error) {
	if !s.HasSnapshot() {
		return nil, ErrNoSnapshot
	}
	return decodeBase64(s.CameraSnapshot)
}

// ActionResult is the reply of the refresh and camera endpoints.
type ActionResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the backend accepted the action.
func (r ActionResult) OK() bool {
	return r.Status == ActionSuccess
}

// ErrNoSnapshot is returned when a snapshot is requested but absent.
var ErrNoSnapshot = fmt.Errorf("printer: no camera snapshot")

func str(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sanitizeTemperature(t Temperature) Temperature {
	if !isFinite(t.Current) {
		t.Current = 0
	}
	if !isFinite(t.Target) {
		t.Target = 0
	}
	return t
}

// decodeBase64 accepts standard and unpadded encodings, and tolerates a
// data URL prefix ("data:image/jpeg;base64,").
func decodeBase64(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	data, rawErr := base64.RawStdEncoding.DecodeString(payload)
	if rawErr == nil {
		return data, nil
	}
	return nil, fmt.Errorf("printer: decode snapshot: %w", err)
}

func validBase64(payload string) bool {
	_, err := decodeBase64(payload)
	return err == nil
}
