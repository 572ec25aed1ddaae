package ui

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"printer-dashboard-go/internal/notify"
)

var (
	colorToastSuccess = color.RGBA{76, 175, 80, 235}
	colorToastError   = color.RGBA{211, 47, 47, 235}
	colorTransparent  = color.RGBA{0, 0, 0, 0}
)

type toast struct {
	obj  fyne.CanvasObject
	bg   *canvas.Rectangle
	text *canvas.Text
}

// toastHost renders notifications as a column in the top-right corner.
type toastHost struct {
	box  *fyne.Container
	fade time.Duration

	mu     sync.Mutex
	toasts map[string]*toast
}

func newToastHost(fade time.Duration) *toastHost {
	return &toastHost{
		box:    container.NewVBox(),
		fade:   fade,
		toasts: make(map[string]*toast),
	}
}

func (h *toastHost) Add(n notify.Notification) {
	bg := canvas.NewRectangle(colorToastSuccess)
	if n.Kind == notify.Error {
		bg.FillColor = colorToastError
	}
	bg.CornerRadius = 12

	text := canvas.NewText(n.Message, color.White)
	text.TextSize = 14

	t := &toast{
		obj:  container.NewStack(bg, container.NewPadded(text)),
		bg:   bg,
		text: text,
	}

	h.mu.Lock()
	h.toasts[n.ID] = t
	h.mu.Unlock()

	h.box.Add(t.obj)
}

func (h *toastHost) Fade(id string) {
	h.mu.Lock()
	t, ok := h.toasts[id]
	h.mu.Unlock()
	if !ok || h.fade <= 0 {
		return
	}

	from := t.bg.FillColor
	canvas.NewColorRGBAAnimation(from, colorTransparent, h.fade, func(c color.Color) {
		t.bg.FillColor = c
		t.bg.Refresh()
	}).Start()
	canvas.NewColorRGBAAnimation(color.White, colorTransparent, h.fade, func(c color.Color) {
		t.text.Color = c
		t.text.Refresh()
	}).Start()
}

func (h *toastHost) Remove(id string) {
	h.mu.Lock()
	t, ok := h.toasts[id]
	delete(h.toasts, id)
	h.mu.Unlock()

	if ok {
		h.box.Remove(t.obj)
	}
}

// count returns the number of toasts on screen.
func (h *toastHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.toasts)
}
