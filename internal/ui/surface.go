package ui

import (
	"image"
	"image/color"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"printer-dashboard-go/internal/display"
)

// Class colors.
var (
	colorConnected    = color.RGBA{76, 175, 80, 255}
	colorDisconnected = color.RGBA{244, 67, 54, 255}
	colorCameraOn     = color.RGBA{76, 175, 80, 255}
	colorCameraOff    = color.RGBA{158, 158, 158, 255}
	colorText         = color.RGBA{230, 230, 230, 255}
)

func classColor(class string) color.Color {
	switch class {
	case display.ClassConnected:
		return colorConnected
	case display.ClassDisconnected:
		return colorDisconnected
	case display.ClassCameraOn:
		return colorCameraOn
	case display.ClassCameraOff:
		return colorCameraOff
	default:
		return colorText
	}
}

// =============================================================================
// Slots
// =============================================================================

type textSlot struct {
	text *canvas.Text
}

func (s *textSlot) SetText(text string) {
	s.text.Text = text
	s.text.Refresh()
}

func (s *textSlot) SetClass(class string) {
	s.text.Color = classColor(class)
	s.text.Refresh()
}

func (s *textSlot) SetVisible(visible bool) {
	setVisible(s.text, visible)
}

// arcSlot drives a progress bar from the arc geometry.
type arcSlot struct {
	bar *widget.ProgressBar
}

func (s *arcSlot) SetArc(length, circumference float64) {
	if circumference <= 0 {
		s.bar.SetValue(0)
		return
	}
	s.bar.SetValue(length / circumference)
}

type imageSlot struct {
	img *canvas.Image
}

func (s *imageSlot) SetImage(img image.Image) {
	s.img.Image = img
	s.img.Refresh()
}

func (s *imageSlot) SetVisible(visible bool) {
	setVisible(s.img, visible)
}

type controlSlot struct {
	obj fyne.CanvasObject
}

func (s *controlSlot) SetVisible(visible bool) {
	setVisible(s.obj, visible)
}

func setVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}

// =============================================================================
// Surface
// =============================================================================

// surface is the fyne-backed display.Surface. Slots are registered while
// the window is built; afterwards only the camera image is added.
type surface struct {
	mu       sync.RWMutex
	texts    map[display.SlotName]*textSlot
	arcs     map[display.SlotName]*arcSlot
	images   map[display.SlotName]*imageSlot
	controls map[display.SlotName]*controlSlot

	// imageHost receives the camera image when it is first created.
	imageHost *fyne.Container
}

func newSurface() *surface {
	return &surface{
		texts:    make(map[display.SlotName]*textSlot),
		arcs:     make(map[display.SlotName]*arcSlot),
		images:   make(map[display.SlotName]*imageSlot),
		controls: make(map[display.SlotName]*controlSlot),
	}
}

func (s *surface) addText(name display.SlotName, size float32) *canvas.Text {
	t := canvas.NewText("", colorText)
	t.TextSize = size
	s.mu.Lock()
	s.texts[name] = &textSlot{text: t}
	s.mu.Unlock()
	return t
}

func (s *surface) addArc(name display.SlotName) *widget.ProgressBar {
	bar := widget.NewProgressBar()
	bar.TextFormatter = func() string { return "" }
	s.mu.Lock()
	s.arcs[name] = &arcSlot{bar: bar}
	s.mu.Unlock()
	return bar
}

func (s *surface) addControl(name display.SlotName, obj fyne.CanvasObject) {
	s.mu.Lock()
	s.controls[name] = &controlSlot{obj: obj}
	s.mu.Unlock()
}

func (s *surface) setImageHost(host *fyne.Container) {
	s.mu.Lock()
	s.imageHost = host
	s.mu.Unlock()
}

func (s *surface) Text(name display.SlotName) (display.TextSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.texts[name]
	if !ok {
		return nil, false
	}
	return slot, true
}

func (s *surface) Arc(name display.SlotName) (display.ArcSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.arcs[name]
	if !ok {
		return nil, false
	}
	return slot, true
}

func (s *surface) Image(name display.SlotName) (display.ImageSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.images[name]
	if !ok {
		return nil, false
	}
	return slot, true
}

func (s *surface) Control(name display.SlotName) (display.ControlSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.controls[name]
	if !ok {
		return nil, false
	}
	return slot, true
}

func (s *surface) CreateImage(name display.SlotName) display.ImageSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.images[name]; ok {
		return slot
	}

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(320, 240))

	slot := &imageSlot{img: img}
	s.images[name] = slot
	if s.imageHost != nil {
		s.imageHost.Add(img)
	} else {
		log.Printf("[UI] No host for image slot %s", name)
	}
	return slot
}
