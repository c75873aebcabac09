package gifenc

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"testing"
	"time"
)

// solidFrame builds a w×h RGBA frame filled with a single color
func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return frame
}

// TestEncode_Empty tests that an empty frame list is rejected
func TestEncode_Empty(t *testing.T) {
	if _, err := Encode(nil, 100*time.Millisecond, LoopForever); err == nil {
		t.Error("Encode(nil) expected error, got nil")
	}
}

// TestEncode_RoundTrip tests that encoded output decodes back to the same
// frame count, dimensions, delay and loop count
func TestEncode_RoundTrip(t *testing.T) {
	frames := []*image.RGBA{
		solidFrame(32, 24, color.RGBA{255, 0, 0, 255}),
		solidFrame(32, 24, color.RGBA{0, 255, 0, 255}),
		solidFrame(32, 24, color.RGBA{0, 0, 255, 255}),
	}

	data, err := Encode(frames, 200*time.Millisecond, LoopForever)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Encode returned empty byte stream")
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	if len(decoded.Image) != 3 {
		t.Errorf("decoded frame count = %d, want 3", len(decoded.Image))
	}
	if decoded.Config.Width != 32 || decoded.Config.Height != 24 {
		t.Errorf("decoded size = %dx%d, want 32x24", decoded.Config.Width, decoded.Config.Height)
	}
	if decoded.LoopCount != 0 {
		t.Errorf("decoded LoopCount = %d, want 0 (forever)", decoded.LoopCount)
	}
	for i, delay := range decoded.Delay {
		if delay != 20 {
			t.Errorf("frame %d delay = %d, want 20 (200ms in 10ms steps)", i, delay)
		}
	}

	// 首帧应保持纯红
	got := decoded.Image[0].At(10, 10)
	r, g, b, a := got.RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 || a>>8 != 255 {
		t.Errorf("frame 0 pixel = %v, want opaque red", got)
	}
}

// TestEncode_Transparency tests that transparent pixels map to a reserved
// transparent palette slot with background disposal
func TestEncode_Transparency(t *testing.T) {
	frame := solidFrame(16, 16, color.RGBA{})
	frame.SetRGBA(8, 8, color.RGBA{255, 255, 255, 255})
	frames := []*image.RGBA{frame, solidFrame(16, 16, color.RGBA{})}

	data, err := Encode(frames, 100*time.Millisecond, LoopForever)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	_, _, _, a := decoded.Image[0].At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("background pixel alpha = %d, want 0", a)
	}
	_, _, _, a = decoded.Image[0].At(8, 8).RGBA()
	if a == 0 {
		t.Error("dot pixel alpha = 0, want opaque")
	}

	for i, disposal := range decoded.Disposal {
		if disposal != gif.DisposalBackground {
			t.Errorf("frame %d disposal = %d, want DisposalBackground", i, disposal)
		}
	}
}

// TestEncode_MismatchedFrames tests that differing frame sizes are rejected
func TestEncode_MismatchedFrames(t *testing.T) {
	frames := []*image.RGBA{
		solidFrame(16, 16, color.RGBA{0, 0, 0, 255}),
		solidFrame(8, 16, color.RGBA{0, 0, 0, 255}),
	}
	if _, err := Encode(frames, 100*time.Millisecond, LoopForever); err == nil {
		t.Error("expected error for mismatched frame sizes, got nil")
	}
}

// TestEncode_DelayClamp tests that negative delays encode as zero
func TestEncode_DelayClamp(t *testing.T) {
	frames := []*image.RGBA{solidFrame(8, 8, color.RGBA{0, 0, 0, 255})}
	data, err := Encode(frames, -time.Second, LoopOnce)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if decoded.Delay[0] != 0 {
		t.Errorf("delay = %d, want 0", decoded.Delay[0])
	}
}
