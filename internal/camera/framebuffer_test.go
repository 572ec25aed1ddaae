package camera

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBufferEmpty(t *testing.T) {
	fb := NewFrameBuffer()

	assert.Nil(t, fb.Read())
	assert.True(t, fb.LastFrameTime().IsZero())
	_, ok := fb.Lookup(PayloadKey("x"))
	assert.False(t, ok)
}

func TestFrameBufferKeepsLastTwo(t *testing.T) {
	fb := NewFrameBuffer()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	for _, payload := range []string{"a", "b", "c"} {
		fb.Write(&Frame{Image: img, Key: PayloadKey(payload), Taken: payload})
	}

	require.NotNil(t, fb.Read())
	assert.Equal(t, "c", fb.Read().Taken)
	assert.Equal(t, uint64(3), fb.FrameCount())
	assert.False(t, fb.LastFrameTime().IsZero())

	f, ok := fb.Lookup(PayloadKey("b"))
	require.True(t, ok)
	assert.Equal(t, "b", f.Taken)
	_, ok = fb.Lookup(PayloadKey("a"))
	assert.False(t, ok, "oldest frame evicted")
}

func TestPayloadKey(t *testing.T) {
	assert.Equal(t, PayloadKey("abc"), PayloadKey("abc"))
	assert.NotEqual(t, PayloadKey("abc"), PayloadKey("abd"))
}

func TestFrameBufferDropped(t *testing.T) {
	fb := NewFrameBuffer()
	fb.MarkDropped()
	fb.MarkDropped()
	assert.Equal(t, uint64(2), fb.DroppedCount())
	assert.Zero(t, fb.FrameCount())
}
