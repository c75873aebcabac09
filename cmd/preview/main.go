// Package main provides an interactive scene preview tool for composing
// gifmoji scenes without re-rendering GIF files after every tweak.
//
// The tool renders the scene's frames once up front and plays them in a
// window at the scene's frame rate. Frames are shown pre-quantization:
// what the GIF encoder receives, not the palettized result.
//
// Usage:
//
//	go run ./cmd/preview [flags]
//
// Flags:
//
//	--scene <v>   Scene file path or bundled scene name (default greeting)
//	--seed <n>    Pin the random seed, 0 renders a fresh random scene
//	--scale <n>   Integer pixel scale of the window (default 4)
//	--fps <n>     Override the scene's playback rate, 0 keeps the scene's own
//	--verbose     Enable verbose logging
//
// Controls:
//
//	Space             - Toggle pause
//	Left/Right Arrow  - Step one frame (pauses playback)
//	R                 - Re-render with a fresh random seed
//	Q/Escape          - Quit
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/gifmoji/pkg/app"
	"github.com/decker502/gifmoji/pkg/config"
	"github.com/decker502/gifmoji/pkg/embedded"
)

var (
	sceneFlag   = flag.String("scene", "greeting", "scene file path or bundled scene name")
	seedFlag    = flag.Int64("seed", 0, "pin the random seed, 0 renders a fresh random scene")
	scaleFlag   = flag.Int("scale", 4, "integer pixel scale of the window")
	fpsFlag     = flag.Int("fps", 0, "override the scene's playback rate, 0 keeps the scene's own")
	verboseFlag = flag.Bool("verbose", false, "enable verbose logging (default off)")
)

// previewGame implements ebiten.Game: it owns the pre-rendered frames
// and replays them at the scene's frame rate (60 ticks per second).
type previewGame struct {
	app   *app.App
	scene *config.Scene

	frames        []*ebiten.Image
	scale         int
	ticksPerFrame int

	tick    int
	current int
	paused  bool

	seed   int64
	seeded bool
}

// rebuild renders the scene from scratch and swaps in the new frames.
func (g *previewGame) rebuild() error {
	if g.seeded {
		g.scene.Seed = &g.seed
	}

	anim, err := g.scene.Build(g.app.Fonts())
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	if err := anim.Draw(); err != nil {
		return fmt.Errorf("failed to draw scene: %w", err)
	}

	frames := make([]*ebiten.Image, len(anim.Frames))
	for i, frame := range anim.Frames {
		frames[i] = ebiten.NewImageFromImage(frame)
	}
	g.frames = frames
	if g.current >= len(frames) {
		g.current = 0
	}
	return nil
}

// step moves the playhead by delta frames, wrapping around the loop.
func (g *previewGame) step(delta int) {
	n := len(g.frames)
	if n == 0 {
		return
	}
	g.current = (g.current + delta + n) % n
}

func (g *previewGame) Update() error {
	// Quit
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return fmt.Errorf("quit requested")
	}

	// Toggle pause
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	// Re-render with a fresh seed (观察随机性带来的差异)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seed = time.Now().UnixNano()
		g.seeded = true
		if err := g.rebuild(); err != nil {
			return err
		}
		log.Printf("[Preview] Re-rendered with seed %d", g.seed)
	}

	// Frame stepping pauses playback for close inspection
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.paused = true
		g.step(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.paused = true
		g.step(-1)
	}

	if !g.paused {
		g.tick++
		if g.tick >= g.ticksPerFrame {
			g.tick = 0
			g.step(1)
		}
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{25, 25, 38, 255})

	if len(g.frames) > 0 {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(g.scale), float64(g.scale))
		// 像素风格预览，最近邻放大保持锐利边缘
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(g.frames[g.current], op)
	}

	g.drawUI(screen)
}

// drawUI draws the overlay with scene info and controls.
func (g *previewGame) drawUI(screen *ebiten.Image) {
	name := g.scene.Name
	if name == "" {
		name = "(unnamed)"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Scene: %s  Frame %d/%d  %d fps",
		name, g.current+1, len(g.frames), g.scene.FPS), 10, 10)

	seedInfo := "Seed: random"
	if g.seeded {
		seedInfo = fmt.Sprintf("Seed: %d", g.seed)
	}
	ebitenutil.DebugPrintAt(screen, seedInfo, 10, 30)

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED (Space to resume)", 10, 50)
	}

	h := g.scene.Height * g.scale
	ebitenutil.DebugPrintAt(screen, "Space = Pause  </>= Step  R = Reseed  Q = Quit", 10, h-25)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Width * g.scale, g.scene.Height * g.scale
}

// loadScene resolves the --scene argument: a file path first, then the
// bundled presets.
func loadScene(arg string) (*config.Scene, error) {
	if _, err := os.Stat(arg); err == nil {
		return config.LoadScene(arg)
	}
	data, err := embedded.SceneData(arg)
	if err != nil {
		return nil, fmt.Errorf("scene %q is neither a file nor a bundled preset: %w", arg, err)
	}
	s, err := config.ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", arg, err)
	}
	if s.Name == "" {
		s.Name = arg
	}
	return s, nil
}

func main() {
	flag.Parse()

	// The preview runs from a source checkout, so bundled scenes come
	// from the working tree rather than an embed.FS.
	embedded.Init(os.DirFS("."))

	log.Println("=== gifmoji scene preview ===")
	log.Printf("Scene: %q", *sceneFlag)

	a := app.NewApp(app.Config{Verbose: *verboseFlag})

	scene, err := loadScene(*sceneFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "preview: %v\n", err)
		os.Exit(1)
	}
	if *fpsFlag > 0 {
		scene.FPS = *fpsFlag
	}

	game := &previewGame{
		app:   a,
		scene: scene,
		scale: *scaleFlag,
	}
	if game.scale < 1 {
		game.scale = 1
	}
	if *seedFlag != 0 {
		game.seed = *seedFlag
		game.seeded = true
	}
	game.ticksPerFrame = 60 / scene.FPS
	if game.ticksPerFrame < 1 {
		game.ticksPerFrame = 1
	}

	if err := game.rebuild(); err != nil {
		fmt.Fprintf(os.Stderr, "preview: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(scene.Width*game.scale, scene.Height*game.scale)
	ebiten.SetWindowTitle("gifmoji preview")

	if err := ebiten.RunGame(game); err != nil {
		if err.Error() != "quit requested" {
			fmt.Fprintf(os.Stderr, "preview: %v\n", err)
			os.Exit(1)
		}
	}
}
