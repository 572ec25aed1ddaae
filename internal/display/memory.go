package display

import (
	"image"
	"sync"
)

// SlotState is the observable content of one Memory slot.
type SlotState struct {
	Text          string
	Class         string
	Visible       bool
	ArcLength     float64
	Circumference float64
	Image         image.Image
}

// Memory is a headless Surface. It backs the core's tests and can stand
// in for a window when the dashboard runs without a display.
type Memory struct {
	mu           sync.Mutex
	slots        map[SlotName]*memorySlot
	imageCreates int
}

type memorySlot struct {
	m     *Memory
	state SlotState
}

// NewMemory creates a surface with exactly the given slots. Slots start
// visible and empty. The camera image slot is never pre-created.
func NewMemory(names ...SlotName) *Memory {
	m := &Memory{slots: make(map[SlotName]*memorySlot)}
	for _, name := range names {
		if name == SlotCameraImage {
			continue
		}
		m.slots[name] = &memorySlot{m: m, state: SlotState{Visible: true}}
	}
	return m
}

// AllSlots lists every slot of the full dashboard layout except the
// lazily created camera image.
func AllSlots() []SlotName {
	names := []SlotName{
		SlotConnectionStatus, SlotModelName, SlotProgressText, SlotProgressArc,
		SlotTimeRemaining, SlotLastUpdate, SlotCameraStatus, SlotCameraInfo,
		SlotCameraPlaceholder, SlotPrinterName, SlotJobStatus, SlotFirmwareVersion,
		SlotEnableCamera, SlotRefreshCamera, SlotFullscreen,
	}
	return append(names, ParameterSlots[:]...)
}

// Text implements Surface.
func (m *Memory) Text(name SlotName) (TextSlot, bool) {
	return m.lookup(name)
}

// Arc implements Surface.
func (m *Memory) Arc(name SlotName) (ArcSlot, bool) {
	return m.lookup(name)
}

// Image implements Surface.
func (m *Memory) Image(name SlotName) (ImageSlot, bool) {
	return m.lookup(name)
}

// Control implements Surface.
func (m *Memory) Control(name SlotName) (ControlSlot, bool) {
	return m.lookup(name)
}

// CreateImage implements Surface.
func (m *Memory) CreateImage(name SlotName) ImageSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.slots[name]; ok {
		return s
	}
	s := &memorySlot{m: m, state: SlotState{Visible: true}}
	m.slots[name] = s
	m.imageCreates++
	return s
}

// ImageCreates counts how many times an image slot was materialized.
func (m *Memory) ImageCreates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageCreates
}

// State returns a copy of one slot's content.
func (m *Memory) State(name SlotName) (SlotState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[name]
	if !ok {
		return SlotState{}, false
	}
	return s.state, true
}

// Dump copies the content of every slot.
func (m *Memory) Dump() map[SlotName]SlotState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[SlotName]SlotState, len(m.slots))
	for name, s := range m.slots {
		out[name] = s.state
	}
	return out
}

func (m *Memory) lookup(name SlotName) (*memorySlot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[name]
	return s, ok
}

func (s *memorySlot) SetText(text string) {
	s.m.mu.Lock()
	s.state.Text = text
	s.m.mu.Unlock()
}

func (s *memorySlot) SetClass(class string) {
	s.m.mu.Lock()
	s.state.Class = class
	s.m.mu.Unlock()
}

func (s *memorySlot) SetVisible(visible bool) {
	s.m.mu.Lock()
	s.state.Visible = visible
	s.m.mu.Unlock()
}

func (s *memorySlot) SetArc(length, circumference float64) {
	s.m.mu.Lock()
	s.state.ArcLength = length
	s.state.Circumference = circumference
	s.m.mu.Unlock()
}

func (s *memorySlot) SetImage(img image.Image) {
	s.m.mu.Lock()
	s.state.Image = img
	s.m.mu.Unlock()
}
