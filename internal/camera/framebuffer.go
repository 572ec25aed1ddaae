package camera

import (
	"hash/fnv"
	"image"
	"sync/atomic"
	"time"
)

// Frame is a decoded snapshot together with the payload it came from.
type Frame struct {
	Image image.Image
	Key   uint64
	// Taken is the backend's snapshot timestamp, shown in the info slot.
	Taken string
}

// FrameBuffer keeps the last two decoded snapshots.
// The renderer writes, the UI and diagnostics read.
type FrameBuffer struct {
	// Double-buffering with atomic swap
	frames     [2]atomic.Pointer[Frame]
	writeIndex atomic.Int32
	readIndex  atomic.Int32

	frameCount   atomic.Uint64
	lastFrameAt  atomic.Int64 // Unix nano timestamp
	droppedCount atomic.Uint64
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	fb.writeIndex.Store(0)
	fb.readIndex.Store(1)
	return fb
}

// PayloadKey identifies a snapshot payload without keeping it around.
func PayloadKey(payload string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(payload))
	return h.Sum64()
}

// Write publishes a newly decoded frame.
func (fb *FrameBuffer) Write(frame *Frame) {
	writeIdx := fb.writeIndex.Load()
	fb.frames[writeIdx].Store(frame)

	fb.writeIndex.Store(1 - writeIdx)
	fb.readIndex.Store(writeIdx)

	fb.frameCount.Add(1)
	fb.lastFrameAt.Store(time.Now().UnixNano())
}

// Read returns the latest frame, or nil before the first Write.
func (fb *FrameBuffer) Read() *Frame {
	return fb.frames[fb.readIndex.Load()].Load()
}

// Lookup returns a buffered frame decoded from the payload with key.
func (fb *FrameBuffer) Lookup(key uint64) (*Frame, bool) {
	for i := range fb.frames {
		if f := fb.frames[i].Load(); f != nil && f.Key == key {
			return f, true
		}
	}
	return nil, false
}

// FrameCount returns how many frames have been decoded.
func (fb *FrameBuffer) FrameCount() uint64 {
	return fb.frameCount.Load()
}

// LastFrameTime returns when the last frame was decoded.
func (fb *FrameBuffer) LastFrameTime() time.Time {
	nanos := fb.lastFrameAt.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// MarkDropped counts a payload that could not be decoded.
func (fb *FrameBuffer) MarkDropped() {
	fb.droppedCount.Add(1)
}

// DroppedCount returns the number of undecodable payloads.
func (fb *FrameBuffer) DroppedCount() uint64 {
	return fb.droppedCount.Load()
}
