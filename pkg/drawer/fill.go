package drawer

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/decker502/gifmoji/pkg/animation"
)

// FillDrawer paints every frame with a single color. The fill is a pure
// overwrite of the full frame, alpha included — no blending with prior
// content.
type FillDrawer struct {
	Color color.Color
}

// NewFill creates a fill stage with the given color. A nil color fills
// with full transparency.
func NewFill(c color.Color) *FillDrawer {
	return &FillDrawer{Color: c}
}

// Draw fills all frames. Idempotent.
func (d *FillDrawer) Draw(a *animation.Animation) error {
	c := d.Color
	if c == nil {
		c = color.RGBA{}
	}
	for _, frame := range a.Frames {
		dc := gg.NewContextForRGBA(frame)
		dc.SetColor(c)
		dc.Clear()
	}
	return nil
}
