package drawer

import (
	"bytes"
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

// TestCircleMoveTextDrawer_Offset tests the orbit: start at (0, r), a
// quarter loop reaches (-r, 0), and the path closes over one period.
func TestCircleMoveTextDrawer_Offset(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Text = "A"
	d := NewCircleMoveText(opts, 8)

	cases := []struct {
		i, n   int
		wx, wy float64
	}{
		{0, 4, 0, 8},
		{1, 4, -8, 0},
		{2, 4, 0, -8},
		{3, 4, 8, 0},
		{0, 10, 0, 8},
	}
	for _, tc := range cases {
		x, y := d.Offset(tc.i, tc.n)
		if math.Abs(x-tc.wx) > 1e-9 || math.Abs(y-tc.wy) > 1e-9 {
			t.Errorf("Offset(%d, %d) = (%g, %g), want (%g, %g)", tc.i, tc.n, x, y, tc.wx, tc.wy)
		}
	}

	// Degenerate frame count falls back to the start offset.
	if x, y := d.Offset(0, 0); x != 0 || y != 8 {
		t.Errorf("Offset(0, 0) = (%g, %g), want (0, 8)", x, y)
	}

	// The offsets of one full period cancel out.
	var sumX, sumY float64
	for i := 0; i < 8; i++ {
		x, y := d.Offset(i, 8)
		sumX += x
		sumY += y
	}
	if math.Abs(sumX) > 1e-9 || math.Abs(sumY) > 1e-9 {
		t.Errorf("period offset sum = (%g, %g), want (0, 0)", sumX, sumY)
	}
}

// TestTextDrawer_PaintsText tests that glyphs reach the frame.
func TestTextDrawer_PaintsText(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Text = "A"
	opts.FontSize = 40
	opts.Color = color.RGBA{255, 255, 255, 255}

	a := newTestAnimation(t, 64, 64, 2, color.RGBA{0, 0, 0, 255})
	bg := append([]byte(nil), a.Frames[0].Pix...)
	if err := NewText(opts).Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	for i, frame := range a.Frames {
		if bytes.Equal(frame.Pix, bg) {
			t.Errorf("frame %d still matches the background, no glyphs painted", i)
		}
	}
}

// TestTextDrawer_EmptyText tests that an empty string draws nothing and
// the fit guard leaves the font size alone.
func TestTextDrawer_EmptyText(t *testing.T) {
	opts := DefaultTextOptions()
	opts.FitFrame = true

	a := newTestAnimation(t, 32, 32, 1, color.RGBA{0, 0, 0, 255})
	bg := append([]byte(nil), a.Frames[0].Pix...)

	d := NewText(opts)
	if err := d.Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !bytes.Equal(a.Frames[0].Pix, bg) {
		t.Error("empty text changed the frame")
	}
	if got := d.FontSize(); got != 20 {
		t.Errorf("font size after degenerate fit = %g, want the default 20", got)
	}
}

// TestTextDrawer_Defaults tests the zero-option fallbacks.
func TestTextDrawer_Defaults(t *testing.T) {
	d := NewText(TextOptions{Text: "x"})
	if got := d.FontSize(); got != 20 {
		t.Errorf("default font size = %g, want 20", got)
	}
	if d.opts.Color == nil {
		t.Error("default color not applied")
	}
}

// TestTextDrawer_MeasureText tests the block box arithmetic: a second
// line adds one line height plus the spacing, stroke pads both sides.
func TestTextDrawer_MeasureText(t *testing.T) {
	newDrawer := func(text string, stroke int) *TextDrawer {
		opts := DefaultTextOptions()
		opts.Text = text
		opts.StrokeWidth = stroke
		return NewText(opts)
	}

	_, h1, err := newDrawer("A", 0).MeasureText()
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}
	_, h2, err := newDrawer("A\nA", 0).MeasureText()
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}
	if math.Abs(h2-(2*h1+4)) > 1e-9 {
		t.Errorf("two-line height = %g, want %g (two lines plus spacing)", h2, 2*h1+4)
	}

	w0, h0, err := newDrawer("A", 0).MeasureText()
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}
	w3, h3, err := newDrawer("A", 3).MeasureText()
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}
	if math.Abs(w3-(w0+6)) > 1e-9 || math.Abs(h3-(h0+6)) > 1e-9 {
		t.Errorf("stroke 3 box = (%g, %g), want (%g, %g)", w3, h3, w0+6, h0+6)
	}
}

// TestTextDrawer_FitFontToFrame tests the fit ordering properties: wider
// text fits at a smaller size, and covering (min mode) never picks a
// smaller size than fitting (max mode).
func TestTextDrawer_FitFontToFrame(t *testing.T) {
	fit := func(text string, mode FitMode) float64 {
		opts := DefaultTextOptions()
		opts.Text = text
		d := NewText(opts)
		if err := d.FitFontToFrame(128, 128, mode); err != nil {
			t.Fatalf("FitFontToFrame failed: %v", err)
		}
		return d.FontSize()
	}

	short := fit("W", FitModeMax)
	long := fit("WWWWWWWW", FitModeMax)
	if short <= 0 || long <= 0 {
		t.Fatalf("fitted sizes %g and %g, want positive", short, long)
	}
	if long >= short {
		t.Errorf("wider text fitted at %g, want smaller than %g", long, short)
	}

	cover := fit("WWWWWWWW", FitModeMin)
	if cover < long {
		t.Errorf("min-mode size %g smaller than max-mode %g", cover, long)
	}
}

// TestTextDrawer_FitStretch tests the card composite: pixels land only
// from the paste origin on, leaving the rest of the frame untouched.
func TestTextDrawer_FitStretch(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Text = "AB"
	opts.FitStretch = true
	opts.XOffset = 32
	opts.YOffset = 32
	opts.Color = color.RGBA{255, 255, 255, 255}
	opts.Background = color.RGBA{40, 40, 40, 255}

	a := newTestAnimation(t, 64, 64, 1, color.RGBA{0, 0, 0, 255})
	frame := a.Frames[0]
	before := append([]byte(nil), frame.Pix...)

	if err := NewText(opts).Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if bytes.Equal(frame.Pix, before) {
		t.Fatal("stretch composite painted nothing")
	}

	// Rows above the paste origin must be untouched.
	for y := 0; y < 32; y++ {
		row := frame.Pix[y*frame.Stride : y*frame.Stride+64*4]
		if !bytes.Equal(row, before[y*frame.Stride:y*frame.Stride+64*4]) {
			t.Fatalf("row %d above the paste origin changed", y)
		}
	}
}

// TestTextDrawer_MissingFont tests that a bad font path fails the draw.
func TestTextDrawer_MissingFont(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Text = "A"
	opts.FontPath = filepath.Join(t.TempDir(), "nope.ttf")

	a := newTestAnimation(t, 32, 32, 1, color.RGBA{0, 0, 0, 255})
	if err := NewText(opts).Draw(a); err == nil {
		t.Fatal("Draw with a missing font succeeded, want error")
	}
}

// TestCircleMoveTextDrawer_Draw tests that the moving text paints every
// frame and actually moves between them.
func TestCircleMoveTextDrawer_Draw(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Text = "A"
	opts.FontSize = 30
	opts.Color = color.RGBA{255, 255, 255, 255}

	a := newTestAnimation(t, 64, 64, 8, color.RGBA{0, 0, 0, 255})
	bg := append([]byte(nil), a.Frames[0].Pix...)
	if err := NewCircleMoveText(opts, 8).Draw(a); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	for i, frame := range a.Frames {
		if bytes.Equal(frame.Pix, bg) {
			t.Errorf("frame %d still matches the background", i)
		}
	}
	if bytes.Equal(a.Frames[0].Pix, a.Frames[4].Pix) {
		t.Error("frames 0 and 4 are identical, text did not move")
	}
}
