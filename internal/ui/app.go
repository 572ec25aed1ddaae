// Package ui builds the printer dashboard window and wires the status
// engine to it.
package ui

import (
	"context"
	"image/color"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"printer-dashboard-go/internal/api"
	"printer-dashboard-go/internal/camera"
	"printer-dashboard-go/internal/config"
	"printer-dashboard-go/internal/display"
	"printer-dashboard-go/internal/fullscreen"
	"printer-dashboard-go/internal/notify"
	"printer-dashboard-go/internal/poller"
	"printer-dashboard-go/internal/reconcile"
)

// AppID identifies the application to fyne's preferences store.
const AppID = "local.printer-dashboard"

// App represents the printer dashboard application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	cfg     *config.Config

	surface     *surface
	toasts      *toastHost
	refreshHost *fyne.Container

	queue      *notify.Queue
	client     *api.Client
	camera     *camera.Controller
	reconciler *reconcile.Reconciler
	poller     *poller.Poller
	fullscreen *fullscreen.Controller

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	cleanupOnce sync.Once

	// closing is set by Cleanup before it waits on wg. Guarded by actionMu.
	actionMu sync.Mutex
	closing  bool
}

// NewApp creates the dashboard application and its window.
func NewApp(cfg *config.Config) (*App, error) {
	return newApp(app.NewWithID(AppID), cfg)
}

func newApp(fyneApp fyne.App, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	window := fyneApp.NewWindow(cfg.UI.Title)
	window.Resize(fyne.NewSize(float32(cfg.UI.Width), float32(cfg.UI.Height)))

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		fyneApp: fyneApp,
		window:  window,
		cfg:     cfg,
		surface: newSurface(),
		toasts:  newToastHost(cfg.Notifications.Fade),
		client:  api.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
		ctx:     ctx,
		cancel:  cancel,
	}
	a.queue = notify.New(a.toasts, notify.WithFade(cfg.Notifications.Fade))

	a.setupUI()

	a.camera = camera.NewController(camera.Config{
		EnableRepollDelay:   cfg.Camera.EnableRepollDelay,
		SnapshotRepollDelay: cfg.Camera.SnapshotRepollDelay,
		ActionDuration:      cfg.Notifications.ActionDuration,
		LoadingText:         cfg.Camera.LoadingText,
		OffText:             cfg.Camera.OffText,
	}, a.surface, a.client, a.queue)

	a.reconciler = reconcile.New(a.surface, a.queue, a.camera, reconcile.Options{
		UpdateDuration: cfg.Notifications.UpdateDuration,
	})

	p, err := poller.New(poller.Config{
		StatusInterval: cfg.Polling.StatusInterval,
		CameraInterval: cfg.Polling.CameraInterval,
		RefreshDelay:   cfg.Polling.RefreshDelay,
		ActionDuration: cfg.Notifications.ActionDuration,
	}, a.client, a.reconciler, a.queue)
	if err != nil {
		cancel()
		return nil, err
	}
	a.poller = p
	p.AttachCamera(a.camera)
	a.camera.Bind(p)

	fsControl, _ := a.surface.Control(display.SlotFullscreen)
	a.fullscreen = fullscreen.New(negotiateFullscreen(window, fyneApp.Driver().Device()), fsControl)

	c := window.Canvas()
	c.SetOnTypedKey(escapeHandler(a.fullscreen, c.OnTypedKey()))

	window.SetCloseIntercept(func() {
		log.Println("[UI] Window closed")
		a.Cleanup()
	})

	return a, nil
}

// Start shows the window, starts polling and runs the fyne event loop.
// It returns when the application quits.
func (a *App) Start() {
	a.window.Show()
	if a.cfg.UI.StartFullscreen {
		a.fullscreen.Toggle()
	}
	a.startBackground()
	a.fyneApp.Run()
	a.Cleanup()
}

func (a *App) startBackground() {
	log.Printf("[UI] Polling %s", a.client.BaseURL())

	a.poller.StartPeriodicStatusPolling(a.ctx, a.cfg.Polling.StatusInterval)
	a.poller.StartPeriodicCameraPolling(a.ctx, a.cfg.Polling.CameraInterval)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.startHealthLogging(a.ctx)
	}()
}

// =============================================================================
// Layout
// =============================================================================

func (a *App) setupUI() {
	s := a.surface
	background := canvas.NewRectangle(color.RGBA{20, 20, 20, 255})

	// Header: printer identity, connection state, fullscreen toggle
	printerName := s.addText(display.SlotPrinterName, 22)
	printerName.TextStyle = fyne.TextStyle{Bold: true}
	firmware := s.addText(display.SlotFirmwareVersion, 12)
	firmware.Color = colorCameraOff
	model := s.addText(display.SlotModelName, 18)
	jobStatus := s.addText(display.SlotJobStatus, 14)
	connection := s.addText(display.SlotConnectionStatus, 16)

	fsButton := widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), func() {
		a.fullscreen.Toggle()
	})
	s.addControl(display.SlotFullscreen, fsButton)

	header := container.NewBorder(nil, nil,
		container.NewVBox(printerName, firmware),
		container.NewHBox(connection, fsButton),
		container.NewCenter(container.NewVBox(model, jobStatus)),
	)

	// Progress
	progressText := s.addText(display.SlotProgressText, 40)
	progressText.Alignment = fyne.TextAlignCenter
	progressText.TextStyle = fyne.TextStyle{Bold: true}
	arc := s.addArc(display.SlotProgressArc)
	remaining := s.addText(display.SlotTimeRemaining, 16)
	remaining.Alignment = fyne.TextAlignCenter
	progress := container.NewVBox(progressText, arc, remaining)

	// Parameter tiles in fixed order
	captions := [len(display.ParameterSlots)]string{"Extruder", "Bed", "Enclosure", "Filament"}
	tiles := make([]fyne.CanvasObject, 0, len(display.ParameterSlots))
	for i, name := range display.ParameterSlots {
		caption := canvas.NewText(captions[i], colorCameraOff)
		caption.TextSize = 12
		value := s.addText(name, 18)
		tileBg := canvas.NewRectangle(color.RGBA{32, 32, 32, 255})
		tileBg.CornerRadius = 8
		tiles = append(tiles, container.NewStack(tileBg, container.NewPadded(container.NewVBox(caption, value))))
	}
	params := container.New(&tileGridLayout{}, tiles...)

	// Camera panel
	camStatus := s.addText(display.SlotCameraStatus, 14)
	camInfo := s.addText(display.SlotCameraInfo, 12)
	placeholder := s.addText(display.SlotCameraPlaceholder, 16)
	placeholder.Alignment = fyne.TextAlignCenter

	cameraBox := container.NewStack(
		canvas.NewRectangle(color.RGBA{30, 30, 30, 255}),
		container.NewCenter(placeholder),
	)
	s.setImageHost(cameraBox)

	enable := widget.NewButtonWithIcon("Enable camera", theme.VisibilityIcon(), func() {
		a.runAction("enable camera", a.camera.EnableCamera)
	})
	refresh := widget.NewButtonWithIcon("New snapshot", theme.ViewRefreshIcon(), func() {
		a.runAction("refresh snapshot", a.camera.RefreshSnapshot)
	})
	refresh.Hide()
	s.addControl(display.SlotEnableCamera, enable)
	s.addControl(display.SlotRefreshCamera, refresh)

	cameraPanel := container.NewBorder(
		container.NewBorder(nil, nil, camStatus, camInfo),
		container.NewHBox(layout.NewSpacer(), enable, refresh),
		nil, nil,
		cameraBox,
	)

	// Footer
	lastUpdate := s.addText(display.SlotLastUpdate, 12)
	a.refreshHost = container.NewHBox()
	footer := container.NewBorder(nil, nil, lastUpdate, a.refreshHost)
	a.injectRefreshControl()

	body := container.NewGridWithColumns(2,
		container.NewBorder(progress, nil, nil, nil, params),
		cameraPanel,
	)
	page := container.NewBorder(header, footer, nil, nil, body)

	overlay := container.NewBorder(container.NewHBox(layout.NewSpacer(), a.toasts.box), nil, nil, nil)

	a.window.SetContent(container.NewStack(background, container.NewPadded(page), overlay))
}

// injectRefreshControl adds the force-refresh button to its host.
func (a *App) injectRefreshControl() {
	btn := widget.NewButtonWithIcon("Refresh now", theme.ViewRefreshIcon(), func() {
		a.runAction("force refresh", a.poller.ForceRefresh)
	})
	btn.Importance = widget.HighImportance
	a.refreshHost.Add(btn)
}

// runAction performs a user action off the UI goroutine.
func (a *App) runAction(name string, action func(ctx context.Context) error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()
	if a.closing {
		log.Printf("[UI] Ignoring %s during shutdown", name)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := action(a.ctx); err != nil {
			log.Printf("[UI] %s failed: %v", name, err)
		}
	}()
}

// =============================================================================
// Shutdown
// =============================================================================

// Cleanup stops polling and quits the application. Safe to call more
// than once.
func (a *App) Cleanup() {
	a.cleanupOnce.Do(func() {
		log.Println("[UI] Cleanup: stopping polling...")
		a.actionMu.Lock()
		a.closing = true
		a.actionMu.Unlock()

		a.cancel()
		a.poller.Wait()
		a.wg.Wait()
		log.Println("[UI] Cleanup: complete, exiting...")
		a.fyneApp.Quit()
	})
}
