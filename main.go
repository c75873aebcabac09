// Package main provides the gifmoji command line tool: it renders short
// looping GIF emoji — orbiting text over a flat or transparent
// background, optionally sprinkled with flickering particles — or any
// full scene file, and writes the animated GIF.
//
// Usage:
//
//	gifmoji [flags]
//
// Render from flags (the default mode):
//
//	gifmoji -text "thx" -o thanks.gif
//	gifmoji -text GG -font-color "#00FF88" -transparent -frames 20
//
// Render a scene file or a built-in preset:
//
//	gifmoji -scene scene.yaml
//	gifmoji -scene comet -seed 42 -o comet.gif
//
// Flags:
//
//	-text <s>          Text to render; a literal \n starts a new line
//	-font <path>       TTF font file (default: saved setting or built-in)
//	-font-color <c>    Text color, hex or CSS name (default #E204F7)
//	-font-size <n>     Font size in points, ignored while -fit is on
//	-bg <c>            Background color (default #111111)
//	-transparent       Transparent background, overrides -bg
//	-fit               Auto-fit the font to the frame (default true)
//	-stretch           Fit-and-stretch card compositing
//	-stroke <n>        Text outline thickness (default 1)
//	-spacing <n>       Extra pixels between lines (default 4)
//	-radius <n>        Text orbit radius in pixels (default 8)
//	-particles         Flickering particle field behind the text (default true)
//	-fps <n>           Frames per second 1-10 (default: saved settings)
//	-frames <n>        Frame count 1-50 (default: saved settings)
//	-seed <n>          Pin the random seed for reproducible output
//	-scene <v>         YAML scene file path or built-in preset name
//	-list-scenes       List the built-in presets and exit
//	-o <path>          Output file, - for stdout (default: <name>.gif)
//	-out-dir <path>    Output directory for derived file names
//	-save-defaults     Persist -font/-fps/-frames/-out-dir and exit
//	-v                 Verbose logging
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/gifmoji/pkg/app"
	"github.com/decker502/gifmoji/pkg/config"
	"github.com/decker502/gifmoji/pkg/embedded"
)

var (
	textFlag        = flag.String("text", "あざ\nます", "text to render, literal \\n starts a new line")
	fontFlag        = flag.String("font", "", "TTF font file path (default: saved setting or built-in)")
	fontColorFlag   = flag.String("font-color", "#E204F7", "text color, hex or CSS name")
	fontSizeFlag    = flag.Float64("font-size", 70, "font size in points, ignored while -fit is on")
	bgFlag          = flag.String("bg", "#111111", "background color, hex or CSS name")
	transparentFlag = flag.Bool("transparent", false, "transparent background, overrides -bg")
	fitFlag         = flag.Bool("fit", true, "auto-fit the font size to the frame")
	stretchFlag     = flag.Bool("stretch", false, "fit-and-stretch card compositing")
	strokeFlag      = flag.Int("stroke", 1, "text outline thickness in pixels")
	spacingFlag     = flag.Float64("spacing", 4, "extra pixels between lines")
	radiusFlag      = flag.Float64("radius", 8, "text orbit radius in pixels, 0 keeps the text still")
	particlesFlag   = flag.Bool("particles", true, "flickering particle field behind the text")
	fpsFlag         = flag.Int("fps", 0, "frames per second 1-10 (default: saved settings)")
	framesFlag      = flag.Int("frames", 0, "frame count 1-50 (default: saved settings)")
	seedFlag        = flag.Int64("seed", 0, "pin the random seed for reproducible output")
	sceneFlag       = flag.String("scene", "", "YAML scene file path or built-in preset name")
	listScenesFlag  = flag.Bool("list-scenes", false, "list the built-in presets and exit")
	outputFlag      = flag.String("o", "", "output file path, - for stdout (default: <name>.gif in the output dir)")
	outDirFlag      = flag.String("out-dir", "", "output directory for derived file names")
	saveFlag        = flag.Bool("save-defaults", false, "persist -font/-fps/-frames/-out-dir as defaults and exit")
	verboseFlag     = flag.Bool("v", false, "enable verbose logging")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（scenesFS 在 embed.go 中声明）
	embedded.Init(scenesFS)

	// 记录用户显式传入的 flag，便于与已保存设置区分
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	a := app.NewApp(app.Config{Verbose: *verboseFlag})
	if err := run(a, set); err != nil {
		fmt.Fprintf(os.Stderr, "gifmoji: %v\n", err)
		os.Exit(1)
	}
}

func run(a *app.App, set map[string]bool) error {
	if *listScenesFlag {
		for _, name := range presetNames() {
			fmt.Println(name)
		}
		return nil
	}

	if *outDirFlag != "" {
		a.Settings().SetOutputDir(*outDirFlag)
	}

	if *saveFlag {
		if set["font"] {
			a.Settings().SetFontPath(*fontFlag)
		}
		if set["fps"] {
			a.Settings().SetFPS(*fpsFlag)
		}
		if set["frames"] {
			a.Settings().SetFrames(*framesFlag)
		}
		if err := a.Settings().Save(); err != nil {
			return err
		}
		fmt.Println("defaults saved")
		return nil
	}

	s, err := buildScene(a, set)
	if err != nil {
		return err
	}
	if set["seed"] {
		seed := *seedFlag
		s.Seed = &seed
	}

	path, err := a.RenderToFile(s, *outputFlag)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Println(path)
	}
	return nil
}

func buildScene(a *app.App, set map[string]bool) (*config.Scene, error) {
	if *sceneFlag != "" {
		return loadScene(*sceneFlag)
	}
	return flagScene(a.Settings().GetSettings(), set)
}

// loadScene resolves the -scene argument: an existing file wins, then the
// built-in presets.
func loadScene(arg string) (*config.Scene, error) {
	if _, err := os.Stat(arg); err == nil {
		return config.LoadScene(arg)
	}

	data, err := embedded.SceneData(arg)
	if err != nil {
		return nil, fmt.Errorf("scene %q is neither a file nor a preset (presets: %s)",
			arg, strings.Join(presetNames(), ", "))
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

// flagScene assembles the classic emoji scene from the flags: orbiting
// text over the background, optionally with a particle field behind it.
func flagScene(settings *app.RenderSettings, set map[string]bool) (*config.Scene, error) {
	s := config.DefaultScene()
	s.Name = "emoji"
	s.FPS = settings.FPS
	s.Frames = settings.Frames
	if set["fps"] {
		s.FPS = *fpsFlag
	}
	if set["frames"] {
		s.Frames = *framesFlag
	}

	if !*transparentFlag {
		bg, err := config.ParseColor(*bgFlag)
		if err != nil {
			return nil, err
		}
		s.Background = bg
	}

	fontColor, err := config.ParseColor(*fontColorFlag)
	if err != nil {
		return nil, err
	}

	fontPath := settings.FontPath
	if set["font"] {
		fontPath = *fontFlag
	}

	if *particlesFlag {
		s.Drawers = append(s.Drawers, config.DrawerConfig{Type: config.TypeRandomParticles})
	}

	spacing := *spacingFlag
	radius := *radiusFlag
	s.Drawers = append(s.Drawers, config.DrawerConfig{
		Type:     config.TypeCircleText,
		Text:     strings.ReplaceAll(*textFlag, `\n`, "\n"),
		Font:     fontPath,
		FontSize: *fontSizeFlag,
		Spacing:  &spacing,
		Stroke:   *strokeFlag,
		Fit:      *fitFlag,
		Stretch:  *stretchFlag,
		Color:    &fontColor,
		Radius:   &radius,
	})
	return &s, nil
}

// presetNames lists the embedded scene presets.
func presetNames() []string {
	names, err := embedded.SceneNames()
	if err != nil {
		return nil
	}
	return names
}
