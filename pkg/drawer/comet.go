package drawer

import (
	"image/color"
	"math"

	"cogentcore.org/lab/base/randx"
	"cogentcore.org/core/colors"
	"github.com/fogleman/gg"

	"github.com/decker502/gifmoji/pkg/animation"
)

// entryRadius is the frame-relative distance from frame center at which
// the comet nucleus spawns, comfortably outside the visible area.
const entryRadius = 1.5

// DrawableParticle is the shared state of the comet nucleus and every
// dust grain: kinematics, brightness and silhouette. Position and
// velocity are free-running floats; nothing clamps them to the frame.
type DrawableParticle struct {
	Size            float64 // draw radius in pixels
	X, Y            float64 // frame-relative position
	VelocityX       float64
	VelocityY       float64
	AccelX          float64
	AccelY          float64
	Brightness      float64 // decays multiplicatively each step
	DecayRatio      float64
	Color           color.RGBA // foreground at full brightness
	Background      color.RGBA // fade target
	RotationAngle   float64
	AngularVelocity float64
	Shape           Shape
	TipCount        int
}

// Update integrates one time step.
func (p *DrawableParticle) Update(dt float64) {
	p.X += p.VelocityX * dt
	p.Y += p.VelocityY * dt
	p.VelocityX += p.AccelX * dt
	p.VelocityY += p.AccelY * dt
	p.RotationAngle += p.AngularVelocity * dt
	p.Brightness *= p.DecayRatio
}

// DrawColor blends background toward foreground by the current
// brightness, channel-wise, alpha forced opaque. A fading particle
// therefore dissolves into the background color, not into transparency.
func (p *DrawableParticle) DrawColor() color.RGBA {
	return color.RGBA{
		R: lerpChannel(p.Background.R, p.Color.R, p.Brightness),
		G: lerpChannel(p.Background.G, p.Color.G, p.Brightness),
		B: lerpChannel(p.Background.B, p.Color.B, p.Brightness),
		A: 255,
	}
}

// Draw paints the particle onto the frame context at its current state.
func (p *DrawableParticle) Draw(dc *gg.Context, frameW, frameH int) error {
	dc.SetColor(p.DrawColor())
	cx := p.X * float64(frameW)
	cy := p.Y * float64(frameH)
	return fillShape(dc, p.Shape, cx, cy, p.Size, p.TipCount, p.RotationAngle)
}

func lerpChannel(bg, fg uint8, t float64) uint8 {
	v := float64(bg) + (float64(fg)-float64(bg))*t
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// CometOptions configures a CometDrawer. Start from DefaultCometOptions.
type CometOptions struct {
	NucleusSize       float64
	NucleusShape      Shape
	NucleusTipCount   int
	NucleusSpeed      float64 // frame-relative units per time step
	NucleusAngularVel float64
	NucleusDecay      float64

	DustSize       float64
	DustShape      Shape
	DustTipCount   int
	DustRate       float64 // Poisson emission mean per unit time
	DustSpeedSigma float64 // Gaussian sigma of the dust speed
	DustDecay      float64
	DustAngularVel float64

	Color      color.Color // foreground, shared by nucleus and dust
	Background color.Color // fade target, shared by nucleus and dust
	DT         float64     // simulation step per frame
	Rand       randx.Rand  // nil uses the process-wide generator
}

// DefaultCometOptions returns a white comet on black: circular nucleus
// and dust, no brightness decay, emission rate 5 per step.
func DefaultCometOptions() CometOptions {
	return CometOptions{
		NucleusSize:     5,
		NucleusShape:    ShapeCircle,
		NucleusTipCount: 5,
		NucleusSpeed:    0.1,
		NucleusDecay:    1,
		DustSize:        2.5,
		DustShape:       ShapeCircle,
		DustTipCount:    5,
		DustRate:        5,
		DustSpeedSigma:  0.1,
		DustDecay:       1,
		Color:           color.RGBA{255, 255, 255, 255},
		Background:      color.RGBA{0, 0, 0, 255},
		DT:              1,
	}
}

// CometDrawer simulates a nucleus crossing the frame while shedding dust
// grains. The dust collection is append-only and grows for the
// animation's lifetime; grains are never culled even as their brightness
// fades toward zero.
type CometDrawer struct {
	opts    CometOptions
	rnd     randx.Rand
	nucleus DrawableParticle
	dusts   []DrawableParticle
}

// NewComet places the nucleus at a uniformly random angle on a circle of
// radius 1.5 (frame-relative) around frame center, with velocity aimed at
// the center at NucleusSpeed magnitude — the comet always enters the
// visible frame and crosses it, entry direction randomized per instance.
func NewComet(opts CometOptions) *CometDrawer {
	rnd := source(opts.Rand)

	fg := opts.Color
	if fg == nil {
		fg = color.RGBA{255, 255, 255, 255}
	}
	bg := opts.Background
	if bg == nil {
		bg = color.RGBA{0, 0, 0, 255}
	}

	theta := 2 * math.Pi * rnd.Float64()
	x := 0.5 + entryRadius*math.Cos(theta)
	y := 0.5 + entryRadius*math.Sin(theta)
	// 单位向量指向帧中心
	vx := (0.5 - x) / entryRadius * opts.NucleusSpeed
	vy := (0.5 - y) / entryRadius * opts.NucleusSpeed

	return &CometDrawer{
		opts: opts,
		rnd:  rnd,
		nucleus: DrawableParticle{
			Size:            opts.NucleusSize,
			X:               x,
			Y:               y,
			VelocityX:       vx,
			VelocityY:       vy,
			Brightness:      1,
			DecayRatio:      opts.NucleusDecay,
			Color:           colors.AsRGBA(fg),
			Background:      colors.AsRGBA(bg),
			AngularVelocity: opts.NucleusAngularVel,
			Shape:           opts.NucleusShape,
			TipCount:        opts.NucleusTipCount,
		},
	}
}

// Nucleus returns a copy of the nucleus state.
func (d *CometDrawer) Nucleus() DrawableParticle {
	return d.nucleus
}

// DustCount reports how many grains have been emitted so far.
func (d *CometDrawer) DustCount() int {
	return len(d.dusts)
}

// Draw advances the simulation one step per frame, strictly in sequence:
// existing dust renders and integrates first (insertion order), then the
// nucleus renders and integrates, then freshly emitted grains join the
// collection — so a new grain first becomes visible on the following
// frame.
func (d *CometDrawer) Draw(a *animation.Animation) error {
	dt := d.opts.DT
	for _, frame := range a.Frames {
		dc := gg.NewContextForRGBA(frame)

		for i := range d.dusts {
			dust := &d.dusts[i]
			if err := dust.Draw(dc, a.Width, a.Height); err != nil {
				return err
			}
			dust.Update(dt)
		}

		if err := d.nucleus.Draw(dc, a.Width, a.Height); err != nil {
			return err
		}

		preX, preY := d.nucleus.X, d.nucleus.Y
		d.nucleus.Update(dt)

		count := int(randx.PoissonGen(d.opts.DustRate*dt, d.rnd))
		for i := 0; i < count; i++ {
			d.dusts = append(d.dusts, d.emitDust(preX, preY))
		}
	}
	return nil
}

// emitDust seeds one grain somewhere on the nucleus's last travel
// segment. The velocity direction is fully random — deliberately not
// biased opposite the nucleus's travel — with a Gaussian magnitude small
// relative to the nucleus speed.
func (d *CometDrawer) emitDust(preX, preY float64) DrawableParticle {
	t := d.rnd.Float64()
	x := preX + (d.nucleus.X-preX)*t
	y := preY + (d.nucleus.Y-preY)*t

	theta := 2 * math.Pi * d.rnd.Float64()
	speed := randx.GaussianGen(0, d.opts.DustSpeedSigma, d.rnd)

	return DrawableParticle{
		Size:            d.opts.DustSize,
		X:               x,
		Y:               y,
		VelocityX:       math.Sin(theta) * speed,
		VelocityY:       math.Cos(theta) * speed,
		Brightness:      1,
		DecayRatio:      d.opts.DustDecay,
		Color:           d.nucleus.Color,
		Background:      d.nucleus.Background,
		AngularVelocity: d.opts.DustAngularVel,
		Shape:           d.opts.DustShape,
		TipCount:        d.opts.DustTipCount,
	}
}
