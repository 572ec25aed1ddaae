// Package config manages configuration for the printer dashboard.
//
// Handles loading config from a YAML file and environment variables,
// and provides default values for all settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Configuration struct
// =============================================================================

// Config holds all runtime configuration values.
type Config struct {
	API           APIConfig          `yaml:"api"`
	Polling       PollingConfig      `yaml:"polling"`
	Camera        CameraConfig       `yaml:"camera"`
	Notifications NotificationConfig `yaml:"notifications"`
	UI            UIConfig           `yaml:"ui"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// APIConfig locates the dashboard backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollingConfig drives the two polling loops.
type PollingConfig struct {
	StatusInterval time.Duration `yaml:"status_interval"`
	CameraInterval time.Duration `yaml:"camera_interval"`
	// RefreshDelay is the wait after a forced refresh before re-polling.
	RefreshDelay time.Duration `yaml:"refresh_delay"`
}

// CameraConfig tunes the camera feed.
type CameraConfig struct {
	EnableRepollDelay   time.Duration `yaml:"enable_repoll_delay"`
	SnapshotRepollDelay time.Duration `yaml:"snapshot_repoll_delay"`
	LoadingText         string        `yaml:"loading_text"`
	OffText             string        `yaml:"off_text"`
}

// NotificationConfig sets toast lifetimes.
type NotificationConfig struct {
	UpdateDuration time.Duration `yaml:"update_duration"`
	ActionDuration time.Duration `yaml:"action_duration"`
	Fade           time.Duration `yaml:"fade"`
}

// UIConfig describes the dashboard window.
type UIConfig struct {
	Title           string `yaml:"title"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	StartFullscreen bool   `yaml:"start_fullscreen"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	File        string `yaml:"file"`
	MaxBytes    int    `yaml:"max_bytes"`
	BackupCount int    `yaml:"backup_count"`
	Stdout      bool   `yaml:"stdout"`
	// HealthInterval is how often a health summary is logged. 0 disables it.
	HealthInterval time.Duration `yaml:"health_interval"`
}

// =============================================================================
// Defaults
// =============================================================================

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Polling: PollingConfig{
			StatusInterval: 30 * time.Second,
			CameraInterval: 10 * time.Second,
			RefreshDelay:   1 * time.Second,
		},
		Camera: CameraConfig{
			EnableRepollDelay:   3 * time.Second,
			SnapshotRepollDelay: 1 * time.Second,
			LoadingText:         "Loading camera snapshot...",
			OffText:             "Camera off",
		},
		Notifications: NotificationConfig{
			UpdateDuration: 2 * time.Second,
			ActionDuration: 3 * time.Second,
			Fade:           300 * time.Millisecond,
		},
		UI: UIConfig{
			Title:  "Printer Dashboard",
			Width:  1024,
			Height: 600,
		},
		Logging: LoggingConfig{
			File:           "./logs/printer_dashboard.log",
			MaxBytes:       5 * 1024 * 1024, // 5 MB
			BackupCount:    3,
			Stdout:         true,
			HealthInterval: 5 * time.Minute,
		},
	}
}

// =============================================================================
// Load
// =============================================================================

// Environment variables read by Load.
const (
	EnvConfigPath = "PRINTER_DASHBOARD_CONFIG"
	EnvBaseURL    = "PRINTER_DASHBOARD_BASE_URL"
	EnvLogFile    = "PRINTER_DASHBOARD_LOG_FILE"
)

// ConfigPath returns the YAML file path to use, respecting env vars.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return "./config.yaml"
}

// Load reads the YAML file at the given path (or the default/env path)
// and returns a fully populated Config. Missing sections or keys
// fall back to DefaultConfig() values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// If file doesn't exist, use defaults (not an error)
	case err != nil:
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	default:
		if err := decode(cfg, data); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.clamp()
	return cfg, nil
}

// decode overlays the YAML document onto cfg. Unknown keys are rejected
// so typos do not silently fall back to defaults.
func decode(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

// clamp pulls out-of-range values back to usable minimums.
func (c *Config) clamp() {
	c.API.Timeout = atLeast(c.API.Timeout, 500*time.Millisecond)
	c.Polling.StatusInterval = atLeast(c.Polling.StatusInterval, time.Second)
	c.Polling.CameraInterval = atLeast(c.Polling.CameraInterval, time.Second)
	c.Polling.RefreshDelay = atLeast(c.Polling.RefreshDelay, 0)
	c.Camera.EnableRepollDelay = atLeast(c.Camera.EnableRepollDelay, 0)
	c.Camera.SnapshotRepollDelay = atLeast(c.Camera.SnapshotRepollDelay, 0)
	c.Notifications.UpdateDuration = atLeast(c.Notifications.UpdateDuration, 100*time.Millisecond)
	c.Notifications.ActionDuration = atLeast(c.Notifications.ActionDuration, 100*time.Millisecond)
	c.Notifications.Fade = atLeast(c.Notifications.Fade, 0)
	c.Logging.HealthInterval = atLeast(c.Logging.HealthInterval, 0)

	if c.UI.Width < 320 {
		c.UI.Width = 320
	}
	if c.UI.Height < 240 {
		c.UI.Height = 240
	}
	if c.Logging.MaxBytes != 0 && c.Logging.MaxBytes < 1024 {
		c.Logging.MaxBytes = 1024
	}
	if c.Logging.BackupCount < 1 {
		c.Logging.BackupCount = 1
	}
}

func atLeast(d, minimum time.Duration) time.Duration {
	if d < minimum {
		return minimum
	}
	return d
}

// =============================================================================
// Validate
// =============================================================================

// Validate checks whether the Config values are reasonable and returns
// warnings. Returns ok=false if any setting is critically problematic.
func (c *Config) Validate() (ok bool, warnings []string) {
	ok = true

	url := c.API.BaseURL
	if url == "" {
		ok = false
		warnings = append(warnings, "api.base_url is empty")
	} else if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		ok = false
		warnings = append(warnings, fmt.Sprintf("api.base_url %q must start with http:// or https://", url))
	}

	if c.API.Timeout >= c.Polling.StatusInterval {
		warnings = append(warnings, fmt.Sprintf("api.timeout (%v) >= polling.status_interval (%v); polls may overlap",
			c.API.Timeout, c.Polling.StatusInterval))
	}

	if c.Camera.SnapshotRepollDelay > c.Camera.EnableRepollDelay {
		warnings = append(warnings, "camera.snapshot_repoll_delay is longer than camera.enable_repoll_delay")
	}

	if c.Notifications.Fade >= c.Notifications.UpdateDuration {
		warnings = append(warnings, "notifications.fade >= notifications.update_duration; toasts fade immediately")
	}

	if c.Polling.CameraInterval < 2*time.Second {
		warnings = append(warnings, "polling.camera_interval below 2s requests snapshots very often")
	}

	return ok, warnings
}
