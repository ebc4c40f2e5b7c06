// Package display presents a lens render loop in an Ebitengine window.
//
// Window implements both ebiten.Game and lens.Presenter. Ebitengine's Update
// drives RenderLoop.Tick at the configured TPS, Present copies the filtered
// pixels, and Draw uploads them to the GPU and draws the HUD on top.
//
//	win := display.NewWindow(display.Config{Title: "lens", Width: 640, Height: 480})
//	loop, _ := lens.NewRenderLoop(src, win, lens.LoopConfig{})
//	win.Bind(loop)
//	if err := loop.Start(ctx); err != nil { ... }
//	err := win.Run(ctx)
package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/lens"
)

// Config configures a Window.
type Config struct {
	Title string
	// Width and Height size the window before the first frame arrives.
	Width, Height int
	// Scale multiplies the window size relative to the frame size.
	Scale float64
	// TPS is the tick rate. Zero keeps Ebitengine's default of 60.
	TPS     int
	ShowFPS bool
	// ScreenshotDir receives F12 and scripted snapshots. Empty uses ".".
	ScreenshotDir string
	// Script optionally drives filter switches and snapshots; the window
	// closes when it finishes.
	Script *lens.Script
	Logger *slog.Logger
}

// Window is an ebiten.Game that runs a lens.RenderLoop and presents its
// frames.
type Window struct {
	cfg    Config
	loop   *lens.RenderLoop
	logger *slog.Logger
	ctx    context.Context

	surface *Surface
	pix     []byte
	w, h    int
	dirty   bool

	snaps   *lens.PNGPresenter
	manual  int
	elapsed float64
	hud     *HUD
	err     error
}

var (
	_ ebiten.Game      = (*Window)(nil)
	_ lens.Presenter   = (*Window)(nil)
	_ lens.Snapshotter = (*Window)(nil)
)

// NewWindow creates a window. Bind must be called before Run.
func NewWindow(cfg Config) *Window {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 640, 480
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "."
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	snaps := lens.NewPNGPresenter(cfg.ScreenshotDir, false)
	snaps.Prefix = "lens"
	return &Window{
		cfg:     cfg,
		logger:  logger,
		ctx:     context.Background(),
		surface: &Surface{},
		snaps:   snaps,
		hud:     NewHUD(cfg.ShowFPS),
	}
}

// Bind attaches the render loop the window drives.
func (w *Window) Bind(loop *lens.RenderLoop) {
	w.loop = loop
	if d, ok := lens.Lookup(loop.ActiveFilter()); ok {
		w.hud.ShowBanner(d.Name)
	}
}

// Resize implements lens.Presenter. The GPU surface is reallocated on the
// next Draw.
func (w *Window) Resize(width, height int) {
	w.w, w.h = width, height
	w.pix = make([]byte, width*height*4)
	w.dirty = false
	w.snaps.Resize(width, height)
	ebiten.SetWindowSize(int(float64(width)*w.cfg.Scale), int(float64(height)*w.cfg.Scale))
}

// Present implements lens.Presenter. The pixels are copied for the next Draw
// and any queued snapshots are written.
func (w *Window) Present(pix []byte, width, height int) error {
	if width != w.w || height != w.h || len(pix) != len(w.pix) {
		return fmt.Errorf("%w: present %dx%d on %dx%d surface", lens.ErrBufferSize, width, height, w.w, w.h)
	}
	copy(w.pix, pix)
	w.dirty = true
	if err := w.snaps.Present(pix, width, height); err != nil {
		w.logger.Warn("snapshot failed", "error", err)
	}
	return nil
}

// Snapshot implements lens.Snapshotter.
func (w *Window) Snapshot(label string) {
	w.snaps.Snapshot(label)
}

// Snapshots returns the snapshot files written so far.
func (w *Window) Snapshots() []string {
	return w.snaps.Files()
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.loop == nil {
		return errors.New("display: window has no render loop")
	}
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if w.loop.State() != lens.StateRunning {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	w.handleKeys()

	if w.cfg.Script != nil {
		if err := w.cfg.Script.Step(w.loop, w); err != nil {
			w.err = err
			return err
		}
		w.syncBanner()
	}

	w.elapsed += dt
	if err := w.loop.Tick(seconds(w.elapsed)); err != nil {
		w.err = err
		return err
	}
	w.hud.Update(dt)

	if w.cfg.Script != nil && w.cfg.Script.Done() {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) handleKeys() {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if k == ebiten.KeyF12 {
			w.manual++
			w.Snapshot(fmt.Sprintf("manual-%d", w.manual))
			continue
		}
		id, ok := filterForKey(k, w.loop.ActiveFilter())
		if !ok {
			continue
		}
		if _, err := w.loop.SetActiveFilter(id); err != nil {
			w.logger.Warn("switch filter", "error", err)
			continue
		}
		w.syncBanner()
	}
}

// syncBanner shows the active filter's name when it changed.
func (w *Window) syncBanner() {
	d, ok := lens.Lookup(w.loop.ActiveFilter())
	if !ok {
		return
	}
	if text, alpha := w.hud.Banner(); text != d.Name || alpha == 0 {
		w.hud.ShowBanner(d.Name)
	}
}

// filterForKey maps number keys 1-6 to the filter catalog and the arrow keys
// to the previous and next filter.
func filterForKey(k ebiten.Key, active lens.FilterID) (lens.FilterID, bool) {
	switch {
	case k >= ebiten.Key1 && k <= ebiten.Key9:
		id := lens.FilterID(k - ebiten.Key1)
		return id, id.Valid()
	case k >= ebiten.KeyNumpad1 && k <= ebiten.KeyNumpad9:
		id := lens.FilterID(k - ebiten.KeyNumpad1)
		return id, id.Valid()
	case k == ebiten.KeyArrowRight:
		return active.Next(), true
	case k == ebiten.KeyArrowLeft:
		return active.Prev(), true
	}
	return 0, false
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.surface.Width() != w.w || w.surface.Height() != w.h {
		w.surface.Resize(w.w, w.h)
		w.dirty = w.pix != nil
	}
	if w.dirty {
		w.surface.Upload(w.pix)
		w.dirty = false
	}
	w.surface.DrawTo(screen, 1)
	w.hud.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is the frame size; the
// window scales it.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w.w > 0 && w.h > 0 {
		return w.w, w.h
	}
	return w.cfg.Width, w.cfg.Height
}

// Run opens the window and blocks until it is closed, Esc is pressed, ctx is
// done, a script finishes or the loop stops. The render loop is disposed
// before Run returns.
func (w *Window) Run(ctx context.Context) error {
	if w.loop == nil {
		return errors.New("display: window has no render loop")
	}
	w.ctx = ctx
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(int(float64(w.cfg.Width)*w.cfg.Scale), int(float64(w.cfg.Height)*w.cfg.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if w.cfg.TPS > 0 {
		ebiten.SetTPS(w.cfg.TPS)
	}

	err := ebiten.RunGame(w)
	if derr := w.loop.Dispose(); derr != nil {
		w.logger.Warn("dispose render loop", "error", derr)
	}
	w.surface.Dispose()
	w.hud.Dispose()
	if err != nil {
		return err
	}
	return w.err
}
