package display

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	bannerHold = 1.0 // seconds fully visible
	bannerFade = 0.5 // seconds to fade out
	fpsRefresh = 0.5 // seconds between FPS text refreshes

	glyphW = 6 // ebitenutil debug font cell
	glyphH = 16
)

// HUD draws the overlay on top of the filtered frame: an FPS/TPS readout and
// a banner naming the active filter that fades out after a switch.
type HUD struct {
	ShowFPS bool

	banner      string
	bannerImg   *ebiten.Image
	bannerDirty bool
	alpha       float64
	hold        float64
	fade        *gween.Tween

	fpsText   string
	sinceFPS  float64
	actualFPS func() float64
	actualTPS func() float64
}

// NewHUD creates a HUD.
func NewHUD(showFPS bool) *HUD {
	return &HUD{
		ShowFPS:   showFPS,
		sinceFPS:  fpsRefresh,
		actualFPS: ebiten.ActualFPS,
		actualTPS: ebiten.ActualTPS,
	}
}

// ShowBanner displays text at full opacity, holds it, then fades it out.
func (h *HUD) ShowBanner(text string) {
	if text != h.banner {
		h.bannerDirty = true
	}
	h.banner = text
	h.alpha = 1
	h.hold = bannerHold
	h.fade = gween.New(1, 0, bannerFade, ease.InQuad)
}

// Banner returns the banner text and its current opacity.
func (h *HUD) Banner() (string, float64) {
	return h.banner, h.alpha
}

// FPSText returns the last FPS readout.
func (h *HUD) FPSText() string {
	return h.fpsText
}

// Update advances the banner animation and refreshes the FPS text by dt
// seconds.
func (h *HUD) Update(dt float64) {
	if h.ShowFPS {
		h.sinceFPS += dt
		if h.sinceFPS >= fpsRefresh {
			h.sinceFPS = 0
			h.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", h.actualFPS(), h.actualTPS())
		}
	}

	if h.fade == nil {
		return
	}
	if h.hold > 0 {
		h.hold -= dt
		if h.hold > 0 {
			return
		}
		dt = -h.hold
		h.hold = 0
	}
	val, done := h.fade.Update(float32(dt))
	h.alpha = float64(val)
	if done {
		h.alpha = 0
		h.fade = nil
	}
}

// Draw renders the overlay onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h.ShowFPS && h.fpsText != "" {
		ebitenutil.DebugPrintAt(screen, h.fpsText, 4, 4)
	}
	if h.alpha <= 0 || h.banner == "" {
		return
	}
	if h.bannerDirty || h.bannerImg == nil {
		h.rebuildBanner()
	}
	b := screen.Bounds()
	bw := h.bannerImg.Bounds().Dx()
	bh := h.bannerImg.Bounds().Dy()

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(b.Dx()-bw)/2, float64(b.Dy()-bh-12))
	op.ColorScale.ScaleAlpha(float32(h.alpha))
	screen.DrawImage(h.bannerImg, &op)
}

func (h *HUD) rebuildBanner() {
	if h.bannerImg != nil {
		h.bannerImg.Deallocate()
	}
	w := len(h.banner)*glyphW + 16
	h.bannerImg = ebiten.NewImage(w, glyphH+8)
	// Semi-transparent background for readability
	h.bannerImg.Fill(color.RGBA{0, 0, 0, 160})
	ebitenutil.DebugPrintAt(h.bannerImg, h.banner, 8, 4)
	h.bannerDirty = false
}

// Dispose frees the banner image.
func (h *HUD) Dispose() {
	if h.bannerImg != nil {
		h.bannerImg.Deallocate()
		h.bannerImg = nil
	}
}
