// Package gifenc turns rendered RGBA frame sequences into animated GIF
// byte streams.
package gifenc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"time"
)

// Loop count values follow GIF semantics (netscape application extension).
const (
	LoopForever = 0  // repeat indefinitely
	LoopOnce    = -1 // play a single time, no repeat extension
)

// alphaCutoff is the alpha value below which a pixel is treated as fully
// transparent during palettization. GIF has no partial transparency.
const alphaCutoff = 128

// Encode encodes the frame sequence into an animated GIF.
//
// Parameters:
//   - frames: ordered frames, all of identical dimensions
//   - delay: per-frame display duration (GIF stores 10ms steps)
//   - loopCount: 0 loops forever, -1 plays once, n>0 repeats n times
//
// Returns the encoded byte stream, or an error when the input is empty,
// frame sizes disagree, or the encoder fails.
func Encode(frames []*image.RGBA, delay time.Duration, loopCount int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("gifenc: no frames to encode")
	}

	bounds := frames[0].Bounds()
	transparent := hasTransparency(frames)
	pal := buildPalette(transparent)

	delayCS := int(delay / (10 * time.Millisecond))
	if delayCS < 0 {
		delayCS = 0
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: loopCount,
		Config: image.Config{
			ColorModel: pal,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		},
	}
	if transparent {
		// 透明背景时每帧恢复背景色，避免上一帧残影
		g.Disposal = make([]byte, 0, len(frames))
		g.BackgroundIndex = 0
	}

	memo := make(map[color.RGBA]uint8)
	for i, frame := range frames {
		if frame.Bounds() != bounds {
			return nil, fmt.Errorf("gifenc: frame %d bounds %v differ from first frame %v", i, frame.Bounds(), bounds)
		}
		g.Image = append(g.Image, palettize(frame, pal, transparent, memo))
		g.Delay = append(g.Delay, delayCS)
		if transparent {
			g.Disposal = append(g.Disposal, gif.DisposalBackground)
		}
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, fmt.Errorf("gifenc: encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// hasTransparency reports whether any frame carries a pixel below the
// alpha cutoff.
func hasTransparency(frames []*image.RGBA) bool {
	for _, frame := range frames {
		b := frame.Bounds()
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			row := frame.Pix[y*frame.Stride : y*frame.Stride+rowLen]
			for x := 3; x < len(row); x += 4 {
				if row[x] < alphaCutoff {
					return true
				}
			}
		}
	}
	return false
}

// buildPalette returns the 256-color palette used for every frame. With
// transparency, index 0 is reserved as the fully transparent slot and the
// base palette loses its last color.
func buildPalette(transparent bool) color.Palette {
	if !transparent {
		return palette.Plan9
	}
	pal := make(color.Palette, 0, 256)
	pal = append(pal, color.RGBA{})
	pal = append(pal, palette.Plan9[:255]...)
	return pal
}

// palettize quantizes one RGBA frame to the shared palette. The memo maps
// exact RGBA values to palette indices so repeated colors (the common case
// for flat fills and text) cost one palette search total.
func palettize(frame *image.RGBA, pal color.Palette, transparent bool, memo map[color.RGBA]uint8) *image.Paletted {
	b := frame.Bounds()
	pm := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			if transparent && c.A < alphaCutoff {
				pm.SetColorIndex(x, y, 0)
				continue
			}
			idx, ok := memo[c]
			if !ok {
				idx = uint8(pal.Index(c))
				memo[c] = idx
			}
			pm.SetColorIndex(x, y, idx)
		}
	}
	return pm
}
