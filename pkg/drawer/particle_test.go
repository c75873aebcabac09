package drawer

import (
	"bytes"
	"image/color"
	"math"
	"strings"
	"testing"

	"cogentcore.org/lab/base/randx"
)

// TestNewParticles_InitialRanges tests the sampling bounds of a fresh
// swarm: frame-relative position and phase in [0,1), size in [0,MaxSize).
func TestNewParticles_InitialRanges(t *testing.T) {
	opts := DefaultParticleOptions()
	opts.Count = 100
	opts.Rand = randx.NewSysRand(11)

	d := NewParticles(opts)
	if len(d.particles) != opts.Count {
		t.Fatalf("got %d particles, want %d", len(d.particles), opts.Count)
	}
	for i, p := range d.particles {
		if p.x < 0 || p.x >= 1 || p.y < 0 || p.y >= 1 {
			t.Errorf("particle %d: position (%g, %g) outside [0,1)", i, p.x, p.y)
		}
		if p.size < 0 || p.size >= opts.MaxSize {
			t.Errorf("particle %d: size %g outside [0,%g)", i, p.size, opts.MaxSize)
		}
		if p.phase < 0 || p.phase >= 1 {
			t.Errorf("particle %d: phase %g outside [0,1)", i, p.phase)
		}
	}
}

// TestParticleDrawer_Advance tests that the swarm advances by its deltas
// once per frame, after drawing.
func TestParticleDrawer_Advance(t *testing.T) {
	const frames = 3

	opts := DefaultParticleOptions()
	opts.Count = 8
	opts.Rand = randx.NewSysRand(23)
	d := NewParticles(opts)
	initial := append([]particleState(nil), d.particles...)

	a := newTestAnimation(t, 16, 16, frames, color.RGBA{0, 0, 0, 255})
	if err := d.Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	for i, p := range d.particles {
		want := initial[i]
		for step := 0; step < frames; step++ {
			want.x += want.dx
			want.y += want.dy
			want.size += want.dsize
			want.phase += want.dphase
		}
		if math.Abs(p.x-want.x) > 1e-12 || math.Abs(p.y-want.y) > 1e-12 {
			t.Errorf("particle %d: position (%g, %g), want (%g, %g)", i, p.x, p.y, want.x, want.y)
		}
		if math.Abs(p.size-want.size) > 1e-12 {
			t.Errorf("particle %d: size %g, want %g", i, p.size, want.size)
		}
		if math.Abs(p.phase-want.phase) > 1e-12 {
			t.Errorf("particle %d: phase %g, want %g", i, p.phase, want.phase)
		}
	}
}

// TestParticleDrawer_UnsupportedShape tests that a bad shape aborts the
// render with the shape named.
func TestParticleDrawer_UnsupportedShape(t *testing.T) {
	opts := DefaultParticleOptions()
	opts.Shape = Shape("blob")
	opts.Rand = randx.NewSysRand(3)

	a := newTestAnimation(t, 16, 16, 2, color.RGBA{0, 0, 0, 255})
	err := NewParticles(opts).Draw(a)
	if err == nil {
		t.Fatal("Draw with unknown shape succeeded, want error")
	}
	if !strings.Contains(err.Error(), "blob") {
		t.Errorf("error %q does not name the shape", err)
	}
}

// TestParticleDrawer_PaintsCircles tests the circle shape against a black
// background.
func TestParticleDrawer_PaintsCircles(t *testing.T) {
	opts := DefaultParticleOptions()
	opts.Shape = ShapeCircle
	opts.Count = 10
	opts.MaxSize = 12
	opts.Rand = randx.NewSysRand(8)

	a := newTestAnimation(t, 64, 64, 1, color.RGBA{0, 0, 0, 255})
	bg := append([]byte(nil), a.Frames[0].Pix...)
	if err := NewParticles(opts).Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if bytes.Equal(a.Frames[0].Pix, bg) {
		t.Error("frame still matches the background, nothing painted")
	}
}

// TestParticleDrawer_Determinism tests that identically seeded swarms
// render byte-identical frames.
func TestParticleDrawer_Determinism(t *testing.T) {
	render := func() [][]byte {
		opts := DefaultParticleOptions()
		opts.Rand = randx.NewSysRand(77)
		a := newTestAnimation(t, 48, 48, 4, color.RGBA{0, 0, 0, 255})
		if err := NewParticles(opts).Draw(a); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		out := make([][]byte, len(a.Frames))
		for i, frame := range a.Frames {
			out[i] = frame.Pix
		}
		return out
	}

	first := render()
	second := render()
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Errorf("frame %d differs between identically seeded renders", i)
		}
	}
}
