package lens

import "math"

// --- Tunables ---

const (
	// TrailAlpha is the weight of the current frame in the motion trail.
	TrailAlpha = 0.8

	// PixelateBlockSize is the edge length of a pixelation block.
	PixelateBlockSize = 10

	// RippleAmplitude is the displacement distance in pixels.
	RippleAmplitude = 20
	// RippleWavelength divides the distance from the centre before the sine.
	RippleWavelength = 20
	// RippleSpeed scales elapsed seconds in the wave phase.
	RippleSpeed = 5
	// RippleStrength scales the wave into a displacement angle (radians).
	RippleStrength = 0.5
)

// --- Identity ---

// ApplyIdentity leaves the frame unchanged.
func ApplyIdentity(pix []byte, width, height int, elapsed float64, st *FilterState) {}

// --- Motion trail ---

// ApplyTrail blends the frame with the previous output:
// out = TrailAlpha*current + (1-TrailAlpha)*previous, per channel.
// On the first frame, or when the stored frame has different dimensions, the
// state is seeded with the current frame and the output equals the input.
func ApplyTrail(pix []byte, width, height int, elapsed float64, st *FilterState) {
	if !validGeometry(pix, width, height) || st == nil {
		return
	}
	if !st.Seeded() || !st.Matches(width, height) {
		st.seed(pix, width, height)
		return
	}
	n := width * height * 4
	prev := st.previous
	for i := 0; i < n; i++ {
		// Rounded integer form of 0.8*c + 0.2*p.
		pix[i] = byte((4*int(pix[i]) + int(prev[i]) + 2) / 5)
	}
	copy(prev, pix[:n])
}

// --- Pixelate ---

// ApplyPixelate fills each PixelateBlockSize square with the colour of its
// top-left pixel. Blocks on the right and bottom edges are clipped.
func ApplyPixelate(pix []byte, width, height int, elapsed float64, st *FilterState) {
	if !validGeometry(pix, width, height) {
		return
	}
	stride := width * 4
	var c [4]byte
	for by := 0; by < height; by += PixelateBlockSize {
		yEnd := min(by+PixelateBlockSize, height)
		for bx := 0; bx < width; bx += PixelateBlockSize {
			xEnd := min(bx+PixelateBlockSize, width)
			off := by*stride + bx*4
			copy(c[:], pix[off:off+4])
			for y := by; y < yEnd; y++ {
				row := y * stride
				for x := bx; x < xEnd; x++ {
					o := row + x*4
					pix[o+0] = c[0]
					pix[o+1] = c[1]
					pix[o+2] = c[2]
					pix[o+3] = c[3]
				}
			}
		}
	}
}

// --- Kaleidoscope ---

// kaleidoscopeParams holds the time-dependent parameters of the kaleidoscope.
type kaleidoscopeParams struct {
	segments float64 // real-valued segment count N(t)
	copies   int     // number of composited copies, i = 0 while i < N(t)
	step     float64 // angle between copies, 2π/N(t)
	rotation float64 // global rotation in radians
	scale    float64 // global uniform scale
}

// kaleidoscopeAt evaluates the kaleidoscope parameters at t seconds.
func kaleidoscopeAt(t float64) kaleidoscopeParams {
	n := 8 + 2*math.Sin(t)
	return kaleidoscopeParams{
		segments: n,
		copies:   int(math.Ceil(n)),
		step:     2 * math.Pi / n,
		rotation: 0.2 * t,
		scale:    1 + 0.2*math.Sin(0.5*t),
	}
}

// segmentTransform returns the source-to-destination matrix of copy i:
//
//	Translate(c) -> Rotate(rotation) -> Scale(scale) -> Rotate(i*step) -> Translate(-c)
//
// read left to right as the order the operations are applied to the context.
func (p kaleidoscopeParams) segmentTransform(i int, cx, cy float64) [6]float64 {
	m := translateAffine(cx, cy)
	m = multiplyAffine(m, rotateAffine(p.rotation))
	m = multiplyAffine(m, scaleAffine(p.scale, p.scale))
	m = multiplyAffine(m, rotateAffine(float64(i)*p.step))
	return multiplyAffine(m, translateAffine(-cx, -cy))
}

// ApplyKaleidoscope composites rotated copies of the frame around its centre.
// The output is cleared to opaque black, then copies are drawn in increasing
// order so later copies overwrite earlier ones.
func ApplyKaleidoscope(pix []byte, width, height int, elapsed float64, st *FilterState) {
	if !validGeometry(pix, width, height) {
		return
	}
	n := width * height * 4
	src := stateOrTemp(st).snapshot(pix[:n])
	clearOpaque(pix[:n], 0)

	p := kaleidoscopeAt(elapsed)
	cx := float64(width) / 2
	cy := float64(height) / 2
	for i := 0; i < p.copies; i++ {
		inv := invertAffine(p.segmentTransform(i, cx, cy))
		compositeAffine(pix, src, width, height, inv)
	}
}

// compositeAffine draws src over dst. inv maps destination pixel centres back
// to source coordinates; samples falling outside src leave dst untouched.
func compositeAffine(dst, src []byte, width, height int, inv [6]float64) {
	stride := width * 4
	for y := 0; y < height; y++ {
		fy := float64(y) + 0.5
		rowX := inv[2]*fy + inv[4]
		rowY := inv[3]*fy + inv[5]
		for x := 0; x < width; x++ {
			fx := float64(x) + 0.5
			sx := inv[0]*fx + rowX
			sy := inv[1]*fx + rowY
			if sx < 0 || sy < 0 {
				continue
			}
			ix, iy := int(sx), int(sy)
			if ix >= width || iy >= height {
				continue
			}
			s := iy*stride + ix*4
			d := y*stride + x*4
			copy(dst[d:d+4], src[s:s+4])
		}
	}
}

// --- Water ripple ---

// rippleSource returns the source coordinate sampled for destination (x, y).
func rippleSource(x, y, width, height int, t float64) (float64, float64) {
	dx := float64(x) - float64(width)/2
	dy := float64(y) - float64(height)/2
	dist := math.Sqrt(dx*dx + dy*dy)
	angle := math.Sin(dist/RippleWavelength-RippleSpeed*t) * RippleStrength
	sin, cos := math.Sincos(angle)
	return float64(x) + cos*RippleAmplitude, float64(y) + sin*RippleAmplitude
}

// ApplyRipple displaces pixels along a circular wave centred on the frame.
// Reads come from a frozen copy of the input; destinations whose source
// falls outside the frame keep their value. Alpha is never modified.
func ApplyRipple(pix []byte, width, height int, elapsed float64, st *FilterState) {
	if !validGeometry(pix, width, height) {
		return
	}
	n := width * height * 4
	src := stateOrTemp(st).snapshot(pix[:n])
	stride := width * 4
	fw, fh := float64(width), float64(height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := rippleSource(x, y, width, height, elapsed)
			if sx < 0 || sx >= fw || sy < 0 || sy >= fh {
				continue
			}
			s := int(sy)*stride + int(sx)*4
			d := y*stride + x*4
			pix[d+0] = src[s+0]
			pix[d+1] = src[s+1]
			pix[d+2] = src[s+2]
		}
	}
}

// clearOpaque sets every pixel to the grey level v with full alpha.
func clearOpaque(pix []byte, v byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = v
		pix[i+1] = v
		pix[i+2] = v
		pix[i+3] = 0xff
	}
}
