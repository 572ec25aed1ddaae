package camera

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-dashboard-go/internal/api"
	"printer-dashboard-go/internal/display"
	"printer-dashboard-go/internal/notify"
	"printer-dashboard-go/internal/printer"
)

type fakeClient struct {
	enable      printer.ActionResult
	enableErr   error
	refresh     printer.ActionResult
	refreshErr  error
	debugCalls  int
	refreshHits int
}

func (f *fakeClient) EnableCamera(context.Context) (printer.ActionResult, error) {
	return f.enable, f.enableErr
}

func (f *fakeClient) RefreshCamera(context.Context) (printer.ActionResult, error) {
	f.refreshHits++
	return f.refresh, f.refreshErr
}

func (f *fakeClient) CameraDebug(context.Context) (json.RawMessage, error) {
	f.debugCalls++
	return json.RawMessage(`{"ok":false}`), nil
}

type shown struct {
	message string
	kind    notify.Kind
}

type fakeNotifier struct {
	mu    sync.Mutex
	shown []shown
}

func (n *fakeNotifier) Show(message string, kind notify.Kind, _ time.Duration) notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, shown{message, kind})
	return notify.Notification{Message: message, Kind: kind}
}

type fakeRepoller struct {
	delays []time.Duration
}

func (r *fakeRepoller) SchedulePoll(delay time.Duration) {
	r.delays = append(r.delays, delay)
}

func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func parse(t *testing.T, body string) *printer.StatusSnapshot {
	t.Helper()
	snap, err := printer.ParseStatus([]byte(body))
	require.NoError(t, err)
	return snap
}

type fixture struct {
	surface  *display.Memory
	client   *fakeClient
	notifier *fakeNotifier
	repoller *fakeRepoller
	ctl      *Controller
}

func newFixture() *fixture {
	f := &fixture{
		surface:  display.NewMemory(display.AllSlots()...),
		client:   &fakeClient{},
		notifier: &fakeNotifier{},
		repoller: &fakeRepoller{},
	}
	f.ctl = NewController(Config{}, f.surface, f.client, f.notifier)
	f.ctl.Bind(f.repoller)
	return f
}

func (f *fixture) state(t *testing.T, name display.SlotName) display.SlotState {
	t.Helper()
	s, ok := f.surface.State(name)
	require.True(t, ok, "slot %s missing", name)
	return s
}

func TestRender_Disabled(t *testing.T) {
	f := newFixture()
	f.ctl.Render(parse(t, `{"camera_enabled": false}`))

	placeholder := f.state(t, display.SlotCameraPlaceholder)
	assert.Equal(t, DefaultOffText, placeholder.Text)
	assert.True(t, placeholder.Visible)

	_, exists := f.surface.State(display.SlotCameraImage)
	assert.False(t, exists, "image slot must not be created while disabled")

	status := f.state(t, display.SlotCameraStatus)
	assert.Equal(t, display.ClassCameraOff, status.Class)
	assert.True(t, f.state(t, display.SlotEnableCamera).Visible)
	assert.False(t, f.state(t, display.SlotRefreshCamera).Visible)
}

func TestRender_FirstSnapshotCreatesImageOnce(t *testing.T) {
	f := newFixture()
	body := `{"camera_enabled": true, "camera_snapshot": "` + pngPayload(t) + `", "snapshot_last_update": "12:00:00"}`

	f.ctl.Render(parse(t, body))
	f.ctl.Render(parse(t, body))

	assert.Equal(t, 1, f.surface.ImageCreates())
	assert.Equal(t, uint64(1), f.ctl.Frames().FrameCount(), "same payload decoded twice")

	img := f.state(t, display.SlotCameraImage)
	assert.True(t, img.Visible)
	require.NotNil(t, img.Image)
	assert.Equal(t, 4, img.Image.Bounds().Dx())

	assert.False(t, f.state(t, display.SlotCameraPlaceholder).Visible)
	assert.Equal(t, "Snapshot: 12:00:00", f.state(t, display.SlotCameraInfo).Text)
	assert.Equal(t, display.ClassCameraOn, f.state(t, display.SlotCameraStatus).Class)
}

func TestRender_DisableHidesImageWithoutDestroying(t *testing.T) {
	f := newFixture()
	f.ctl.Render(parse(t, `{"camera_enabled": true, "camera_snapshot": "`+pngPayload(t)+`"}`))
	f.ctl.Render(parse(t, `{"camera_enabled": false}`))

	img := f.state(t, display.SlotCameraImage)
	assert.False(t, img.Visible)
	assert.NotNil(t, img.Image)
	assert.Equal(t, 1, f.surface.ImageCreates())
	assert.Equal(t, DefaultOffText, f.state(t, display.SlotCameraPlaceholder).Text)
}

func TestRender_EnabledWithoutSnapshotShowsLoading(t *testing.T) {
	f := newFixture()
	f.ctl.Render(parse(t, `{"camera_enabled": true}`))

	placeholder := f.state(t, display.SlotCameraPlaceholder)
	assert.Equal(t, DefaultLoadingText, placeholder.Text)
	assert.True(t, placeholder.Visible)
	assert.False(t, f.state(t, display.SlotEnableCamera).Visible)
	assert.True(t, f.state(t, display.SlotRefreshCamera).Visible)
}

func TestRender_UndecodableKeepsPreviousFrame(t *testing.T) {
	f := newFixture()
	f.ctl.Render(parse(t, `{"camera_enabled": true, "camera_snapshot": "`+pngPayload(t)+`"}`))
	before := f.state(t, display.SlotCameraImage).Image

	garbage := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	f.ctl.Render(parse(t, `{"camera_enabled": true, "camera_snapshot": "`+garbage+`"}`))

	img := f.state(t, display.SlotCameraImage)
	assert.Same(t, before, img.Image)
	assert.True(t, img.Visible)
	assert.Equal(t, uint64(1), f.ctl.Frames().DroppedCount())
}

func sizedPayload(t *testing.T, width int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, 1))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRender_UndecodableFallsBackToDisplayedFrame(t *testing.T) {
	f := newFixture()
	a, b := sizedPayload(t, 1), sizedPayload(t, 2)
	snapshot := func(payload string) *printer.StatusSnapshot {
		return parse(t, `{"camera_enabled": true, "camera_snapshot": "`+payload+`"}`)
	}

	f.ctl.Render(snapshot(a))
	f.ctl.Render(snapshot(b))
	f.ctl.Render(snapshot(a)) // buffered, not decoded again
	require.Equal(t, 1, f.state(t, display.SlotCameraImage).Image.Bounds().Dx())
	require.Equal(t, uint64(2), f.ctl.Frames().FrameCount())

	garbage := base64.StdEncoding.EncodeToString([]byte("not a png"))
	f.ctl.Render(snapshot(garbage))

	img := f.state(t, display.SlotCameraImage)
	assert.Equal(t, 1, img.Image.Bounds().Dx())
	assert.True(t, img.Visible)
}

func TestRender_RepeatedBadPayloadCountedOnce(t *testing.T) {
	f := newFixture()
	garbage := base64.StdEncoding.EncodeToString([]byte("still not a png"))
	body := `{"camera_enabled": true, "camera_snapshot": "` + garbage + `"}`

	for i := 0; i < 3; i++ {
		f.ctl.Render(parse(t, body))
	}
	assert.Equal(t, uint64(1), f.ctl.Frames().DroppedCount())
	assert.Equal(t, DefaultLoadingText, f.state(t, display.SlotCameraPlaceholder).Text)

	other := base64.StdEncoding.EncodeToString([]byte("another bad one"))
	f.ctl.Render(parse(t, `{"camera_enabled": true, "camera_snapshot": "`+other+`"}`))
	assert.Equal(t, uint64(2), f.ctl.Frames().DroppedCount())
}

func TestRender_ExactlyOneControlVisible(t *testing.T) {
	f := newFixture()
	for _, body := range []string{
		`{"camera_enabled": false}`,
		`{"camera_enabled": true}`,
		`{"camera_enabled": true, "camera_snapshot": "` + pngPayload(t) + `"}`,
		`{}`,
	} {
		snap := parse(t, body)
		f.ctl.Render(snap)

		enable := f.state(t, display.SlotEnableCamera).Visible
		refresh := f.state(t, display.SlotRefreshCamera).Visible
		assert.NotEqual(t, enable, refresh, body)
		assert.Equal(t, snap.CameraEnabled, refresh, body)
	}
}

func TestRender_MissingSlotsSkipped(t *testing.T) {
	surface := display.NewMemory(display.SlotCameraStatus)
	ctl := NewController(Config{}, surface, &fakeClient{}, &fakeNotifier{})

	assert.NotPanics(t, func() {
		ctl.Render(parse(t, `{"camera_enabled": false}`))
	})
	s, _ := surface.State(display.SlotCameraStatus)
	assert.Equal(t, StatusOffText, s.Text)
}

func TestEnableCamera_Success(t *testing.T) {
	f := newFixture()
	f.client.enable = printer.ActionResult{Status: printer.ActionSuccess}

	require.NoError(t, f.ctl.EnableCamera(context.Background()))
	require.Len(t, f.notifier.shown, 1)
	assert.Equal(t, notify.Success, f.notifier.shown[0].kind)
	assert.Equal(t, []time.Duration{DefaultEnableRepollDelay}, f.repoller.delays)
}

func TestEnableCamera_RejectedBusy(t *testing.T) {
	f := newFixture()
	f.client.enable = printer.ActionResult{Status: "fail", Message: "busy"}

	err := f.ctl.EnableCamera(context.Background())
	assert.ErrorIs(t, err, ErrRejected)

	require.Len(t, f.notifier.shown, 1)
	assert.Equal(t, notify.Error, f.notifier.shown[0].kind)
	assert.Contains(t, f.notifier.shown[0].message, "busy")
	assert.Empty(t, f.repoller.delays, "no re-poll after a rejected enable")
	assert.Equal(t, 1, f.client.debugCalls)
}

func TestEnableCamera_TransportError(t *testing.T) {
	f := newFixture()
	f.client.enableErr = api.ErrTransport

	err := f.ctl.EnableCamera(context.Background())
	assert.ErrorIs(t, err, api.ErrTransport)
	require.Len(t, f.notifier.shown, 1)
	assert.Equal(t, ConnectionErrorText, f.notifier.shown[0].message)
	assert.Empty(t, f.repoller.delays)
}

func TestRefreshSnapshot_UsesShorterDelay(t *testing.T) {
	f := newFixture()
	f.client.refresh = printer.ActionResult{Status: printer.ActionSuccess}

	require.NoError(t, f.ctl.RefreshSnapshot(context.Background()))
	assert.Equal(t, []time.Duration{DefaultSnapshotRepollDelay}, f.repoller.delays)
	assert.Less(t, int64(DefaultSnapshotRepollDelay), int64(DefaultEnableRepollDelay))

	f.client.refresh = printer.ActionResult{Status: "fail"}
	err := f.ctl.RefreshSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrRejected)
	assert.Len(t, f.repoller.delays, 1)
}

func TestKeepAlive_Silent(t *testing.T) {
	f := newFixture()
	f.client.refresh = printer.ActionResult{Status: printer.ActionSuccess}

	require.NoError(t, f.ctl.KeepAlive(context.Background()))
	assert.Equal(t, []time.Duration{DefaultSnapshotRepollDelay}, f.repoller.delays)

	f.client.refreshErr = api.ErrTransport
	assert.Error(t, f.ctl.KeepAlive(context.Background()))
	assert.Empty(t, f.notifier.shown)
}

func TestActionWithoutBoundPoller(t *testing.T) {
	client := &fakeClient{enable: printer.ActionResult{Status: printer.ActionSuccess}}
	ctl := NewController(Config{}, display.NewMemory(), client, &fakeNotifier{})
	assert.NoError(t, ctl.EnableCamera(context.Background()))
}
