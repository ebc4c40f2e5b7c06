package lens

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ASCIIRamp is the glyph ramp ordered from dark to light.
const ASCIIRamp = "@#$%=+*^·. "

const (
	// ASCIICellSize is the edge length of one glyph cell in pixels.
	ASCIICellSize = 10
	// asciiGlyphSize is the monospace font size in pixels.
	asciiGlyphSize = 10
)

var asciiGlyphs = []rune(ASCIIRamp)

// --- Lazy face construction (no sync.Once; the engine is single-threaded) ---

var asciiFace font.Face

func ensureASCIIFace() font.Face {
	if asciiFace == nil {
		f, err := opentype.Parse(gomono.TTF)
		if err != nil {
			panic("lens: failed to parse Go Mono: " + err.Error())
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    asciiGlyphSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			panic("lens: failed to build glyph face: " + err.Error())
		}
		asciiFace = face
	}
	return asciiFace
}

// asciiIndex maps a mean luminance in [0, 255] to a ramp index.
func asciiIndex(lum float64) int {
	idx := int(math.Floor(lum / 255 * float64(len(asciiGlyphs)-1)))
	return min(max(idx, 0), len(asciiGlyphs)-1)
}

// cellLuminance returns the mean of (R+G+B)/3 over the in-bounds pixels of
// the cell whose top-left corner is (x0, y0).
func cellLuminance(pix []byte, width, height, x0, y0 int) float64 {
	stride := width * 4
	xEnd := min(x0+ASCIICellSize, width)
	yEnd := min(y0+ASCIICellSize, height)
	var sum float64
	for y := y0; y < yEnd; y++ {
		row := y * stride
		for x := x0; x < xEnd; x++ {
			o := row + x*4
			sum += float64(int(pix[o])+int(pix[o+1])+int(pix[o+2])) / 3
		}
	}
	count := (xEnd - x0) * (yEnd - y0)
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// asciiIndices computes the ramp index of every cell, row-major.
func asciiIndices(pix []byte, width, height int) (indices []int, cols, rows int) {
	cols = (width + ASCIICellSize - 1) / ASCIICellSize
	rows = (height + ASCIICellSize - 1) / ASCIICellSize
	indices = make([]int, 0, cols*rows)
	for y := 0; y < height; y += ASCIICellSize {
		for x := 0; x < width; x += ASCIICellSize {
			indices = append(indices, asciiIndex(cellLuminance(pix, width, height, x, y)))
		}
	}
	return indices, cols, rows
}

// ApplyASCII replaces each ASCIICellSize cell with a white glyph on black,
// chosen by the cell's mean luminance. Colour is discarded.
func ApplyASCII(pix []byte, width, height int, elapsed float64, st *FilterState) {
	if !validGeometry(pix, width, height) {
		return
	}
	indices, cols, _ := asciiIndices(pix, width, height)

	n := width * height * 4
	clearOpaque(pix[:n], 0)

	dst := &image.RGBA{
		Pix:    pix[:n],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	face := ensureASCIIFace()
	ascent := face.Metrics().Ascent
	d := font.Drawer{Src: image.White, Face: face}
	for i, idx := range indices {
		r := asciiGlyphs[idx]
		if r == ' ' {
			continue
		}
		x0 := (i % cols) * ASCIICellSize
		y0 := (i / cols) * ASCIICellSize
		// Drawing into the cell's sub-image clips the glyph to the cell.
		d.Dst = dst.SubImage(image.Rect(x0, y0, x0+ASCIICellSize, y0+ASCIICellSize)).(*image.RGBA)
		d.Dot = fixed.Point26_6{X: fixed.I(x0), Y: fixed.I(y0) + ascent}
		d.DrawString(string(r))
	}
}
