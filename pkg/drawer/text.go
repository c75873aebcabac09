package drawer

import (
	"image"
	"image/color"
	"math"
	"strings"

	"cogentcore.org/core/colors"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/decker502/gifmoji/pkg/animation"
	"github.com/decker502/gifmoji/pkg/resource"
)

// FitMode selects how FitFontToFrame matches text to frame.
type FitMode int

const (
	// FitModeMax scales so the text's longest dimension matches the
	// frame — the whole text fits inside.
	FitModeMax FitMode = iota
	// FitModeMin scales so the text's shortest dimension matches the
	// frame — the text covers the frame.
	FitModeMin
)

// referenceFontSize is the probe size for fit measurements; the fitted
// size is referenceFontSize divided by the measured ratio.
const referenceFontSize = 100.0

// TextOptions configures a TextDrawer. Start from DefaultTextOptions.
type TextOptions struct {
	Text        string
	XOffset     float64
	YOffset     float64
	Align       gg.Align // per-line placement inside the text block
	Spacing     float64  // extra pixels between lines
	StrokeWidth int      // glyph thickening in the fill color
	Color       color.Color
	FontSize    float64
	FontPath    string // "" = built-in typeface
	FitFrame    bool   // re-fit the font size to the frame, per frame
	FitStretch  bool   // fit-and-stretch card compositing instead

	// Background is used only by the stretch composite; nil inherits
	// the animation's background at draw time.
	Background color.Color

	// Fonts may share a manager across drawers; nil creates a private one.
	Fonts *resource.FontManager
}

// DefaultTextOptions returns the original product defaults: centered
// gray 20pt text with 4px line spacing.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Align:    gg.AlignCenter,
		Spacing:  4,
		Color:    color.RGBA{0x80, 0x80, 0x80, 0xff},
		FontSize: 20,
	}
}

// TextDrawer renders a multi-line text block onto every frame, anchored
// with the block's middle at frame center plus the configured offset.
// Stateless per frame except the font-size adjustment kept between
// frames while auto-fit is enabled.
type TextDrawer struct {
	opts     TextOptions
	fonts    *resource.FontManager
	fontSize float64 // current size; mutated by the fit paths
	bg       color.RGBA
	bgSet    bool
}

// NewText creates the drawer, filling unset options with the defaults.
func NewText(opts TextOptions) *TextDrawer {
	if opts.Color == nil {
		opts.Color = color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 20
	}
	fonts := opts.Fonts
	if fonts == nil {
		fonts = resource.NewFontManager()
	}

	d := &TextDrawer{opts: opts, fonts: fonts, fontSize: opts.FontSize}
	if opts.Background != nil {
		d.bg = colors.AsRGBA(opts.Background)
		d.bgSet = true
	}
	return d
}

// FontSize returns the current (possibly auto-fitted) font size.
func (d *TextDrawer) FontSize() float64 {
	return d.fontSize
}

// Draw renders the text block onto every frame.
func (d *TextDrawer) Draw(a *animation.Animation) error {
	bg := d.resolveBackground(a)
	for _, frame := range a.Frames {
		if err := d.drawText(frame, d.opts.XOffset, d.opts.YOffset, bg); err != nil {
			return err
		}
	}
	return nil
}

func (d *TextDrawer) resolveBackground(a *animation.Animation) color.RGBA {
	if d.bgSet {
		return d.bg
	}
	return a.Background
}

// drawText renders one frame at the given offset, routing through the
// stretch composite or the plain fitted/fixed-size path.
func (d *TextDrawer) drawText(frame *image.RGBA, xOff, yOff float64, bg color.RGBA) error {
	if d.opts.FitStretch {
		return d.drawTextStretch(frame, xOff, yOff, bg)
	}

	b := frame.Bounds()
	if d.opts.FitFrame {
		// 帧尺寸可能不同，每帧重新计算
		if err := d.FitFontToFrame(b.Dx(), b.Dy(), FitModeMax); err != nil {
			return err
		}
	}

	face, err := d.fonts.LoadFace(d.opts.FontPath, d.fontSize)
	if err != nil {
		return err
	}

	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(face)
	dc.SetColor(d.opts.Color)
	anchorX := float64(b.Dx())/2 + xOff
	anchorY := float64(b.Dy())/2 + yOff
	d.drawBlock(dc, anchorX, anchorY)
	return nil
}

// FitFontToFrame measures the text at the reference size and rescales the
// font so it matches the frame: FitModeMax matches the longest text
// dimension (text fits inside the frame), FitModeMin the shortest (text
// covers the frame).
func (d *TextDrawer) FitFontToFrame(frameW, frameH int, mode FitMode) error {
	tw, th, err := d.measureAt(referenceFontSize)
	if err != nil {
		return err
	}
	if tw <= 0 || th <= 0 || frameW <= 0 || frameH <= 0 {
		return nil
	}

	wr := tw / float64(frameW)
	hr := th / float64(frameH)
	ratio := math.Max(wr, hr)
	if mode == FitModeMin {
		ratio = math.Min(wr, hr)
	}
	if ratio <= 0 {
		return nil
	}
	d.fontSize = referenceFontSize / ratio
	return nil
}

// MeasureText returns the rendered pixel size of the text block at the
// current font size, stroke width included.
func (d *TextDrawer) MeasureText() (w, h float64, err error) {
	return d.measureAt(d.fontSize)
}

func (d *TextDrawer) measureAt(size float64) (w, h float64, err error) {
	face, err := d.fonts.LoadFace(d.opts.FontPath, size)
	if err != nil {
		return 0, 0, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	w, h = d.measureBlock(dc, strings.Split(d.opts.Text, "\n"))
	return w, h, nil
}

// measureBlock computes the block bounding box in the context's current
// face: widest line by lines stacked at FontHeight plus spacing, stroke
// added on both sides.
func (d *TextDrawer) measureBlock(dc *gg.Context, lines []string) (w, h float64) {
	for _, line := range lines {
		lw, _ := dc.MeasureString(line)
		if lw > w {
			w = lw
		}
	}
	n := float64(len(lines))
	h = dc.FontHeight()*n + d.opts.Spacing*(n-1)
	stroke := 2 * float64(d.opts.StrokeWidth)
	return w + stroke, h + stroke
}

// drawBlock paints the multi-line block with its middle at (x, y),
// narrower lines placed per the alignment. Face and color must already be
// set on the context.
func (d *TextDrawer) drawBlock(dc *gg.Context, x, y float64) {
	lines := strings.Split(d.opts.Text, "\n")
	lineH := dc.FontHeight()
	stroke := float64(d.opts.StrokeWidth)
	blockW, blockH := d.measureBlock(dc, lines)

	top := y - blockH/2 + stroke
	for i, line := range lines {
		lineCY := top + float64(i)*(lineH+d.opts.Spacing) + lineH/2

		lineCX := x
		switch d.opts.Align {
		case gg.AlignLeft:
			w, _ := dc.MeasureString(line)
			lineCX = x - blockW/2 + stroke + w/2
		case gg.AlignRight:
			w, _ := dc.MeasureString(line)
			lineCX = x + blockW/2 - stroke - w/2
		}
		d.drawLine(dc, line, lineCX, lineCY)
	}
}

// drawLine paints one line centered at (cx, cy). A positive stroke width
// re-draws the line at every integer offset within the stroke radius,
// thickening the glyphs in the fill color.
func (d *TextDrawer) drawLine(dc *gg.Context, line string, cx, cy float64) {
	sw := d.opts.StrokeWidth
	if sw > 0 {
		for dy := -sw; dy <= sw; dy++ {
			for dx := -sw; dx <= sw; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawStringAnchored(line, cx+float64(dx), cy+float64(dy), 0.5, 0.5)
			}
		}
	}
	dc.DrawStringAnchored(line, cx, cy, 0.5, 0.5)
}

// drawTextStretch renders the fit-and-stretch composite: the text goes
// onto an off-screen card whose aspect follows the text's, the card is
// resized to the frame's pixel size and pasted at the offset (top-left)
// through a rendered alpha mask. Font fitting is thereby decoupled from
// pixel-aspect distortion — text whose aspect differs from the frame's
// appears stretched.
func (d *TextDrawer) drawTextStretch(frame *image.RGBA, xOff, yOff float64, bg color.RGBA) error {
	b := frame.Bounds()
	fw, fh := b.Dx(), b.Dy()

	tw, th, err := d.measureAt(referenceFontSize)
	if err != nil {
		return err
	}
	if tw <= 0 || th <= 0 || fw < 1 || fh < 1 {
		return nil
	}

	// 卡片尺寸按文本长宽比修正
	aspect := tw / th
	cardW, cardH := fw, fh
	if aspect > 1 {
		cardW = int(float64(fw) * aspect)
	} else {
		cardH = int(float64(fh) / aspect)
	}
	if cardW < 1 || cardH < 1 {
		return nil
	}

	if err := d.FitFontToFrame(fw, fh, FitModeMin); err != nil {
		return err
	}
	face, err := d.fonts.LoadFace(d.opts.FontPath, d.fontSize)
	if err != nil {
		return err
	}

	cx, cy := float64(cardW)/2, float64(cardH)/2

	card := gg.NewContext(cardW, cardH)
	card.SetColor(bg)
	card.Clear()
	card.SetFontFace(face)
	card.SetColor(d.opts.Color)
	d.drawBlock(card, cx, cy)

	maskCtx := gg.NewContext(cardW, cardH)
	maskCtx.SetFontFace(face)
	maskCtx.SetRGB(1, 1, 1)
	d.drawBlock(maskCtx, cx, cy)

	// 双线性缩放回帧尺寸
	scaledCard := image.NewRGBA(image.Rect(0, 0, fw, fh))
	xdraw.BiLinear.Scale(scaledCard, scaledCard.Bounds(), card.Image(), card.Image().Bounds(), xdraw.Src, nil)
	scaledMask := image.NewRGBA(image.Rect(0, 0, fw, fh))
	xdraw.BiLinear.Scale(scaledMask, scaledMask.Bounds(), maskCtx.Image(), maskCtx.Image().Bounds(), xdraw.Src, nil)

	origin := b.Min.Add(image.Pt(int(xOff), int(yOff)))
	rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(fw, fh))}
	xdraw.DrawMask(frame, rect, scaledCard, image.Point{}, alphaMask(scaledMask), image.Point{}, xdraw.Over)
	return nil
}

// alphaMask extracts the alpha channel as a standalone mask image.
func alphaMask(src *image.RGBA) *image.Alpha {
	b := src.Bounds()
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: src.RGBAAt(x, y).A})
		}
	}
	return mask
}

// CircleMoveTextDrawer moves the text along a circle over the animation's
// loop: one full revolution per loop, starting at the bottom of the
// circle offset (0, r) and moving clockwise in screen coordinates.
type CircleMoveTextDrawer struct {
	TextDrawer
	Radius float64
}

// NewCircleMoveText creates the drawer; radius is the orbit radius in
// pixels.
func NewCircleMoveText(opts TextOptions, radius float64) *CircleMoveTextDrawer {
	return &CircleMoveTextDrawer{TextDrawer: *NewText(opts), Radius: radius}
}

// Offset returns the orbit offset for frame i of n:
// (r·sin(−2πt), r·cos(−2πt)) with t = i/n. At i = 0 the offset is (0, r).
func (d *CircleMoveTextDrawer) Offset(i, n int) (x, y float64) {
	if n <= 0 {
		return 0, d.Radius
	}
	t := float64(i) / float64(n)
	return d.Radius * math.Sin(-2*math.Pi*t), d.Radius * math.Cos(-2*math.Pi*t)
}

// Draw renders the text with a per-frame offset along the circle,
// replacing the configured static offset.
func (d *CircleMoveTextDrawer) Draw(a *animation.Animation) error {
	bg := d.resolveBackground(a)
	n := a.FrameCount()
	for i, frame := range a.Frames {
		xOff, yOff := d.Offset(i, n)
		if err := d.drawText(frame, xOff, yOff, bg); err != nil {
			return err
		}
	}
	return nil
}
