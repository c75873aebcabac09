package drawer

import (
	"image/color"
	"math"

	"cogentcore.org/lab/base/randx"
	"github.com/fogleman/gg"

	"github.com/decker502/gifmoji/pkg/animation"
)

// particleState is one drifting particle: current values plus the
// per-step deltas applied after every frame.
type particleState struct {
	x, y   float64 // frame-relative position
	size   float64 // outer radius in pixels
	phase  float64 // rotation phase, 1.0 = one full turn
	dx, dy float64
	dsize  float64
	dphase float64
}

// ParticleOptions configures a ParticleDrawer. Start from
// DefaultParticleOptions.
type ParticleOptions struct {
	Count           int
	MaxSize         float64    // size upper bound, exclusive
	Shape           Shape      // star or circle
	TipCount        int        // star tips
	Color           color.Color
	VelocityMean    float64    // Gaussian mean for per-step deltas
	VelocitySigma   float64    // Gaussian sigma for per-step deltas
	AngularVelocity float64    // scale applied to the phase delta
	Rand            randx.Rand // nil uses the process-wide generator
}

// DefaultParticleOptions returns the original slowly twinkling yellow
// star swarm.
func DefaultParticleOptions() ParticleOptions {
	return ParticleOptions{
		Count:           20,
		MaxSize:         30,
		Shape:           ShapeStar,
		TipCount:        5,
		Color:           color.RGBA{255, 255, 0, 255},
		VelocityMean:    0,
		VelocitySigma:   0.05,
		AngularVelocity: 0.2,
	}
}

// ParticleDrawer owns a persistent swarm sampled once at construction.
// Every frame renders the swarm at its current state and then advances it
// one Euler step, so drift, growth and rotation accumulate smoothly over
// the whole animation. No bounds clamping — particles may leave the frame
// and never return.
type ParticleDrawer struct {
	opts      ParticleOptions
	particles []particleState
}

// NewParticles samples the swarm: position uniform in [0,1)² (frame
// relative), size uniform in [0, MaxSize), rotation phase uniform in
// [0,1); per-record deltas from Gaussian(mean, sigma), with the size
// delta scaled by MaxSize and the phase delta by AngularVelocity.
func NewParticles(opts ParticleOptions) *ParticleDrawer {
	rnd := source(opts.Rand)

	particles := make([]particleState, opts.Count)
	for i := range particles {
		particles[i] = particleState{
			x:      rnd.Float64(),
			y:      rnd.Float64(),
			size:   rnd.Float64() * opts.MaxSize,
			phase:  rnd.Float64(),
			dx:     randx.GaussianGen(opts.VelocityMean, opts.VelocitySigma, rnd),
			dy:     randx.GaussianGen(opts.VelocityMean, opts.VelocitySigma, rnd),
			dsize:  randx.GaussianGen(opts.VelocityMean, opts.VelocitySigma, rnd) * opts.MaxSize,
			dphase: randx.GaussianGen(opts.VelocityMean, opts.VelocitySigma, rnd) * opts.AngularVelocity,
		}
	}
	return &ParticleDrawer{opts: opts, particles: particles}
}

// Draw renders every particle — star polygon at rotation angle 2π·phase,
// or filled circle of radius |size| — then advances the whole swarm by
// its deltas. An unrecognized shape aborts with an error naming it.
func (d *ParticleDrawer) Draw(a *animation.Animation) error {
	c := d.opts.Color
	if c == nil {
		c = color.RGBA{255, 255, 0, 255}
	}

	for _, frame := range a.Frames {
		dc := gg.NewContextForRGBA(frame)
		dc.SetColor(c)

		for i := range d.particles {
			p := &d.particles[i]
			cx := p.x * float64(a.Width)
			cy := p.y * float64(a.Height)
			if err := fillShape(dc, d.opts.Shape, cx, cy, p.size, d.opts.TipCount, 2*math.Pi*p.phase); err != nil {
				return err
			}
		}

		// 绘制完成后整体推进一步
		for i := range d.particles {
			p := &d.particles[i]
			p.x += p.dx
			p.y += p.dy
			p.size += p.dsize
			p.phase += p.dphase
		}
	}
	return nil
}
