// Package drawer provides the drawing pipeline stages that paint the
// frames of an animation: flat fills, moving and auto-fitted text,
// flickering particle fields, drifting star and circle swarms, and a
// comet with a trailing dust system.
//
// Every drawer implements animation.Drawer and walks the whole frame
// sequence exactly once per render pass. Drawers with persistent particle
// state (ParticleDrawer, CometDrawer) serve exactly one pass.
package drawer

import (
	"fmt"
	"math"

	"cogentcore.org/lab/base/randx"
	"github.com/fogleman/gg"
)

// Shape selects a particle silhouette.
type Shape string

const (
	ShapeStar   Shape = "star"
	ShapeCircle Shape = "circle"
)

// starInnerRatio is the inner-corner radius relative to the outer radius,
// shared by every built-in star particle.
const starInnerRatio = 0.4

// StarPolygon builds the vertex list of a k-pointed star polygon: 2k
// vertices alternating between the outer radius and radius*innerRatio,
// starting at angle and advancing π/k per vertex (a full 2π sweep).
// The result is directly usable as a filled-polygon path.
func StarPolygon(cx, cy float64, tips int, radius, innerRatio, angle float64) []gg.Point {
	if tips <= 0 {
		return nil
	}

	points := make([]gg.Point, 0, tips*2)
	for i := 0; i < tips*2; i++ {
		r := radius
		if i%2 == 1 {
			r = radius * innerRatio
		}
		points = append(points, gg.Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		})
		angle += math.Pi / float64(tips)
	}
	return points
}

// fillShape paints one particle silhouette centered at (cx, cy) using the
// context's current color. An unrecognized shape is an error naming the
// shape; the render aborts rather than silently skipping the draw.
func fillShape(dc *gg.Context, shape Shape, cx, cy, radius float64, tips int, angle float64) error {
	switch shape {
	case ShapeStar:
		points := StarPolygon(cx, cy, tips, radius, starInnerRatio, angle)
		if len(points) == 0 {
			return nil
		}
		dc.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Fill()
	case ShapeCircle:
		dc.DrawCircle(cx, cy, math.Abs(radius))
		dc.Fill()
	default:
		return fmt.Errorf("drawer: unsupported particle shape %q", shape)
	}
	return nil
}

// source returns rnd, or the process-wide generator when rnd is nil.
func source(rnd randx.Rand) randx.Rand {
	if rnd == nil {
		return randx.NewGlobalRand()
	}
	return rnd
}

// intBetween returns a uniform integer in [lo, hi). Degenerate ranges
// collapse to lo instead of failing; these knobs are unvalidated.
func intBetween(rnd randx.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo)
}
