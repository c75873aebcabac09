// Package animation owns the frame buffer and drawer pipeline for short
// looping pixel animations (GIF emoji).
//
// An Animation holds an ordered sequence of identically sized RGBA frames,
// all pre-filled with a background color, plus an ordered list of Drawers.
// Rendering runs every drawer once over all frames (later drawers paint
// over earlier ones), then encodes the frame sequence into animated GIF
// bytes.
package animation

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"cogentcore.org/core/colors"

	"github.com/decker502/gifmoji/internal/gifenc"
)

// Drawer is one stage of the drawing pipeline. A Drawer mutates every
// frame of the Animation exactly once per render pass, frames in index
// order. Implementations must not retain frames past the Draw call, and a
// stateful drawer instance serves exactly one render pass.
type Drawer interface {
	Draw(a *Animation) error
}

// Animation holds the frame sequence and the registered drawer pipeline.
// Width, Height and Background are fixed for the animation's lifetime.
type Animation struct {
	Width      int
	Height     int
	Background color.RGBA

	// Frames are mutated in place by drawers, in registration order.
	Frames []*image.RGBA

	drawers []Drawer
}

// New creates an animation with frameCount frames of width×height pixels,
// each pre-filled with the background color (alpha included — a
// transparent background stays transparent). A nil background means fully
// transparent.
//
// frameCount must be at least 1; it is the only validated argument. Other
// parameters are accepted unchecked and may produce degenerate but
// non-crashing output.
func New(width, height, frameCount int, background color.Color) (*Animation, error) {
	if frameCount < 1 {
		return nil, fmt.Errorf("animation: frame count must be at least 1, got %d", frameCount)
	}

	a := &Animation{
		Width:      width,
		Height:     height,
		Background: colors.AsRGBA(background),
	}
	for i := 0; i < frameCount; i++ {
		a.AddFrame()
	}
	return a, nil
}

// AddFrame appends one more background-filled frame.
func (a *Animation) AddFrame() {
	frame := image.NewRGBA(image.Rect(0, 0, a.Width, a.Height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(a.Background), image.Point{}, draw.Src)
	a.Frames = append(a.Frames, frame)
}

// FrameCount returns the current number of frames.
func (a *Animation) FrameCount() int {
	return len(a.Frames)
}

// AddDrawer appends a drawer to the pipeline, preserving order, and
// returns the animation for chaining.
func (a *Animation) AddDrawer(d Drawer) *Animation {
	a.drawers = append(a.drawers, d)
	return a
}

// AddDrawers appends drawers in the given order.
func (a *Animation) AddDrawers(ds ...Drawer) *Animation {
	a.drawers = append(a.drawers, ds...)
	return a
}

// Draw runs every registered drawer once, in registration order. Each
// drawer iterates all frames itself. The first error aborts the pass and
// is returned unmodified; partial frame state is the caller's to discard.
func (a *Animation) Draw() error {
	for _, d := range a.drawers {
		if err := d.Draw(a); err != nil {
			return err
		}
	}
	return nil
}

// Render runs Draw and encodes the frames into animated GIF bytes.
// delay is the per-frame display duration; loopCount follows GIF
// semantics (gifenc.LoopForever repeats indefinitely).
func (a *Animation) Render(delay time.Duration, loopCount int) ([]byte, error) {
	if err := a.Draw(); err != nil {
		return nil, err
	}
	return gifenc.Encode(a.Frames, delay, loopCount)
}
