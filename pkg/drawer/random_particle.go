package drawer

import (
	"image/color"

	"cogentcore.org/lab/base/randx"
	"github.com/fogleman/gg"

	"github.com/decker502/gifmoji/pkg/animation"
)

// RandomParticleOptions configures a RandomParticleDrawer. Start from
// DefaultRandomParticleOptions and override what the scene needs.
type RandomParticleOptions struct {
	Count     int        // particles sampled per frame
	MaxSize   int        // particle diameter upper bound, exclusive
	ColorLow  int        // per-channel lower bound, inclusive
	ColorHigh int        // per-channel upper bound, exclusive
	Rand      randx.Rand // nil uses the process-wide generator
}

// DefaultRandomParticleOptions returns the bright white-noise field of
// the original product (small near-white specks).
func DefaultRandomParticleOptions() RandomParticleOptions {
	return RandomParticleOptions{
		Count:     20,
		MaxSize:   10,
		ColorLow:  192,
		ColorHigh: 255,
	}
}

// RandomParticleDrawer scatters freshly sampled particles on every frame:
// position uniform over the frame extent, diameter uniform in
// [1, MaxSize), RGB channels independently uniform in
// [ColorLow, ColorHigh), fully opaque. Nothing persists between frames —
// consecutive frames are uncorrelated and the flicker is deliberate.
type RandomParticleDrawer struct {
	opts RandomParticleOptions
}

// NewRandomParticles creates the drawer.
func NewRandomParticles(opts RandomParticleOptions) *RandomParticleDrawer {
	return &RandomParticleDrawer{opts: opts}
}

// Draw samples and paints Count filled circles per frame. A particle may
// overhang the frame edge by up to half its diameter.
func (d *RandomParticleDrawer) Draw(a *animation.Animation) error {
	rnd := source(d.opts.Rand)
	for _, frame := range a.Frames {
		dc := gg.NewContextForRGBA(frame)
		for i := 0; i < d.opts.Count; i++ {
			x := intBetween(rnd, 0, a.Width)
			y := intBetween(rnd, 0, a.Height)
			size := intBetween(rnd, 1, d.opts.MaxSize)
			c := color.RGBA{
				R: uint8(intBetween(rnd, d.opts.ColorLow, d.opts.ColorHigh)),
				G: uint8(intBetween(rnd, d.opts.ColorLow, d.opts.ColorHigh)),
				B: uint8(intBetween(rnd, d.opts.ColorLow, d.opts.ColorHigh)),
				A: 255,
			}
			dc.SetColor(c)
			dc.DrawCircle(float64(x), float64(y), float64(size)/2)
			dc.Fill()
		}
	}
	return nil
}
