// Package config loads scene files: YAML documents describing a complete
// render — canvas geometry, timing, background and an ordered list of
// drawer stages — and turns them into a ready-to-render animation.
//
// Numeric knobs that benefit from per-render variation (particle counts,
// comet speed, emission rate) accept either a fixed scalar or a
// "[min max]" range resolved against the scene's random source when the
// animation is built.
package config

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"
	"time"

	"cogentcore.org/lab/base/randx"
	"cogentcore.org/core/colors"
	"github.com/fogleman/gg"
	"gopkg.in/yaml.v3"

	"github.com/decker502/gifmoji/internal/gifenc"
	"github.com/decker502/gifmoji/internal/span"
	"github.com/decker502/gifmoji/pkg/animation"
	"github.com/decker502/gifmoji/pkg/drawer"
	"github.com/decker502/gifmoji/pkg/resource"
)

// Color is a color.RGBA that unmarshals from the usual scene spellings:
// "#RGB", "#RRGGBB" or "#RRGGBBAA" hex, CSS color names, and
// "transparent". The zero value is fully transparent.
type Color struct {
	color.RGBA
}

// ParseColor parses a scene color spelling.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return Color{}, nil
	}

	var (
		parsed color.RGBA
		err    error
	)
	if strings.HasPrefix(s, "#") {
		parsed, err = colors.FromHex(s)
	} else {
		parsed, err = colors.FromName(strings.ToLower(s))
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{parsed}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar, got %s node", value.Tag)
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting hex notation.
func (c Color) MarshalYAML() (interface{}, error) {
	if c.RGBA == (color.RGBA{}) {
		return "transparent", nil
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A), nil
}

// IsZero reports whether the color is the fully transparent zero value.
func (c Color) IsZero() bool {
	return c.RGBA == (color.RGBA{})
}

// Drawer type names accepted in scene files.
const (
	TypeFill            = "fill"
	TypeText            = "text"
	TypeCircleText      = "circle_text"
	TypeRandomParticles = "random_particles"
	TypeParticles       = "particles"
	TypeComet           = "comet"
)

// DrawerConfig describes one stage of the drawing pipeline as a flat
// record: Type selects the drawer, the remaining fields apply to the
// types that read them and are ignored otherwise. Pointer fields
// distinguish "absent, use the default" from an explicit zero.
type DrawerConfig struct {
	// Type selects the drawer: fill, text, circle_text,
	// random_particles, particles or comet.
	Type string `yaml:"type"`

	// Color is the foreground shared by every type.
	Color *Color `yaml:"color,omitempty"`

	// Text properties (文本绘制)
	Text     string   `yaml:"text,omitempty"`
	Font     string   `yaml:"font,omitempty"` // font file path, empty = built-in
	FontSize float64  `yaml:"font_size,omitempty"`
	Align    string   `yaml:"align,omitempty"` // left, center or right
	Spacing  *float64 `yaml:"spacing,omitempty"`
	Stroke   int      `yaml:"stroke,omitempty"`
	XOffset  float64  `yaml:"x_offset,omitempty"`
	YOffset  float64  `yaml:"y_offset,omitempty"`
	Fit      bool     `yaml:"fit,omitempty"`     // auto-fit font to the frame
	Stretch  bool     `yaml:"stretch,omitempty"` // fit-and-stretch compositing

	// Background is the stretch card or comet fade target; defaults to
	// the scene background.
	Background *Color `yaml:"background,omitempty"`

	// Radius is the circle_text orbit radius in pixels.
	Radius *float64 `yaml:"radius,omitempty"`

	// Drifting swarm properties (漂移粒子群)
	Count           *span.Span `yaml:"count,omitempty"`
	MaxSize         *span.Span `yaml:"max_size,omitempty"`
	Shape           string     `yaml:"shape,omitempty"` // star or circle
	Tips            int        `yaml:"tips,omitempty"`
	VelocityMean    *float64   `yaml:"velocity_mean,omitempty"`
	VelocitySigma   *float64   `yaml:"velocity_sigma,omitempty"`
	AngularVelocity *float64   `yaml:"angular_velocity,omitempty"`

	// Flicker field properties (随机闪烁)
	ColorMin int `yaml:"color_min,omitempty"` // channel floor, 0-255
	ColorMax int `yaml:"color_max,omitempty"` // channel ceiling, 0-255

	// Comet properties (彗星)
	NucleusSize  *float64   `yaml:"nucleus_size,omitempty"`
	NucleusShape string     `yaml:"nucleus_shape,omitempty"`
	NucleusTips  int        `yaml:"nucleus_tips,omitempty"`
	Speed        *span.Span `yaml:"speed,omitempty"` // nucleus speed per step
	NucleusDecay *float64   `yaml:"nucleus_decay,omitempty"`
	DustSize     *float64   `yaml:"dust_size,omitempty"`
	DustShape    string     `yaml:"dust_shape,omitempty"`
	DustTips     int        `yaml:"dust_tips,omitempty"`
	Rate         *span.Span `yaml:"rate,omitempty"` // dust grains per step
	DustSigma    *float64   `yaml:"dust_sigma,omitempty"`
	DustDecay    *float64   `yaml:"dust_decay,omitempty"`
	DT           *float64   `yaml:"dt,omitempty"` // simulation step per frame
}

// Scene is a complete render description.
type Scene struct {
	Name   string `yaml:"name,omitempty"`
	Width  int    `yaml:"width,omitempty"`  // canvas width, default 128
	Height int    `yaml:"height,omitempty"` // canvas height, default 128
	Frames int    `yaml:"frames,omitempty"` // frame count, default 10
	FPS    int    `yaml:"fps,omitempty"`    // playback rate, default 5

	// Loop is the GIF loop count: 0 loops forever, -1 plays once, a
	// positive n repeats n times.
	Loop int `yaml:"loop,omitempty"`

	Background Color `yaml:"background,omitempty"`

	// Seed pins the random source; omit for a different render each run.
	Seed *int64 `yaml:"seed,omitempty"`

	Drawers []DrawerConfig `yaml:"drawers"`
}

// Scene defaults applied for omitted fields.
const (
	DefaultWidth  = 128
	DefaultHeight = 128
	DefaultFrames = 10
	DefaultFPS    = 5

	// DefaultOrbitRadius is the circle_text orbit radius when the scene
	// omits one.
	DefaultOrbitRadius = 32.0
)

// DefaultScene returns a scene with the canvas and timing defaults and
// no drawers.
func DefaultScene() Scene {
	return Scene{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Frames: DefaultFrames,
		FPS:    DefaultFPS,
		Loop:   gifenc.LoopForever,
	}
}

// LoadScene reads and parses a scene file.
//
// Parameters:
//   - path: File path to the YAML scene description
//
// Returns:
//   - *Scene: Parsed scene with defaults filled in
//   - error: Any error encountered during reading, parsing or validation
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	return s, nil
}

// ParseScene parses a YAML scene document, fills the defaults and
// validates it. A scene must declare at least one drawer with a known
// type.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid scene YAML: %w", err)
	}
	s.fillDefaults()

	if s.Width < 1 || s.Height < 1 {
		return nil, fmt.Errorf("scene canvas %dx%d is not positive", s.Width, s.Height)
	}
	if len(s.Drawers) == 0 {
		return nil, fmt.Errorf("scene contains no drawers")
	}
	for i, d := range s.Drawers {
		switch d.Type {
		case TypeFill, TypeText, TypeCircleText, TypeRandomParticles, TypeParticles, TypeComet:
		default:
			return nil, fmt.Errorf("drawer %d: unknown type %q", i, d.Type)
		}
	}

	// 可疑但合法的取值只告警，不拒绝
	if s.FPS > 10 {
		log.Printf("[Scene] Warning: fps %d is above the usual 1-10 range, GIF viewers may clamp the frame delay", s.FPS)
	}
	if s.Frames > 50 {
		log.Printf("[Scene] Warning: %d frames produces a large animation, render time and file size grow with frame count", s.Frames)
	}

	log.Printf("[Scene] ✅ Loaded scene config (drawers=%d, frames=%d, fps=%d)",
		len(s.Drawers), s.Frames, s.FPS)
	return &s, nil
}

// fillDefaults replaces omitted (zero) scene fields with the defaults.
// The frame count is deliberately left alone so that an explicit
// non-positive value still fails animation construction.
func (s *Scene) fillDefaults() {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.Frames == 0 {
		s.Frames = DefaultFrames
	}
	if s.FPS <= 0 {
		s.FPS = DefaultFPS
	}
}

// Delay returns the per-frame GIF delay for the scene's playback rate.
func (s *Scene) Delay() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Build constructs the animation and its drawer pipeline.
//
// All randomized values — spans, particle sampling, the comet path —
// draw from one source seeded by the scene's seed, so a pinned seed
// reproduces the render exactly. A nil font manager gets a private one.
//
// Returns:
//   - *animation.Animation: Animation with all drawers registered
//   - error: Any error encountered while building a drawer
func (s *Scene) Build(fonts *resource.FontManager) (*animation.Animation, error) {
	rnd := randx.NewGlobalRand()
	if s.Seed != nil {
		rnd = randx.NewSysRand(*s.Seed)
	}
	if fonts == nil {
		fonts = resource.NewFontManager()
	}

	a, err := animation.New(s.Width, s.Height, s.Frames, s.Background.RGBA)
	if err != nil {
		return nil, err
	}

	for i, cfg := range s.Drawers {
		d, err := s.buildDrawer(cfg, rnd, fonts)
		if err != nil {
			return nil, fmt.Errorf("drawer %d (%s): %w", i, cfg.Type, err)
		}
		a.AddDrawer(d)
	}
	return a, nil
}

// buildDrawer turns one config record into a pipeline stage, resolving
// spans against the scene's random source.
func (s *Scene) buildDrawer(cfg DrawerConfig, rnd randx.Rand, fonts *resource.FontManager) (animation.Drawer, error) {
	switch cfg.Type {
	case TypeFill:
		var c color.RGBA
		if cfg.Color != nil {
			c = cfg.Color.RGBA
		}
		return drawer.NewFill(c), nil

	case TypeText, TypeCircleText:
		opts, err := textOptions(cfg, fonts)
		if err != nil {
			return nil, err
		}
		if cfg.Type == TypeText {
			return drawer.NewText(opts), nil
		}
		radius := DefaultOrbitRadius
		if cfg.Radius != nil {
			radius = *cfg.Radius
		}
		return drawer.NewCircleMoveText(opts, radius), nil

	case TypeRandomParticles:
		opts := drawer.DefaultRandomParticleOptions()
		opts.Rand = rnd
		if cfg.Count != nil {
			opts.Count = int(cfg.Count.Random(rnd))
		}
		if cfg.MaxSize != nil {
			opts.MaxSize = int(cfg.MaxSize.Random(rnd))
		}
		if cfg.ColorMin > 0 {
			opts.ColorLow = cfg.ColorMin
		}
		if cfg.ColorMax > 0 {
			opts.ColorHigh = cfg.ColorMax
		}
		return drawer.NewRandomParticles(opts), nil

	case TypeParticles:
		opts := drawer.DefaultParticleOptions()
		opts.Rand = rnd
		if cfg.Count != nil {
			opts.Count = int(cfg.Count.Random(rnd))
		}
		if cfg.MaxSize != nil {
			opts.MaxSize = cfg.MaxSize.Random(rnd)
		}
		if cfg.Shape != "" {
			opts.Shape = drawer.Shape(cfg.Shape)
		}
		if cfg.Tips > 0 {
			opts.TipCount = cfg.Tips
		}
		if cfg.Color != nil {
			opts.Color = cfg.Color.RGBA
		}
		if cfg.VelocityMean != nil {
			opts.VelocityMean = *cfg.VelocityMean
		}
		if cfg.VelocitySigma != nil {
			opts.VelocitySigma = *cfg.VelocitySigma
		}
		if cfg.AngularVelocity != nil {
			opts.AngularVelocity = *cfg.AngularVelocity
		}
		return drawer.NewParticles(opts), nil

	case TypeComet:
		opts := drawer.DefaultCometOptions()
		opts.Rand = rnd
		if cfg.NucleusSize != nil {
			opts.NucleusSize = *cfg.NucleusSize
		}
		if cfg.NucleusShape != "" {
			opts.NucleusShape = drawer.Shape(cfg.NucleusShape)
		}
		if cfg.NucleusTips > 0 {
			opts.NucleusTipCount = cfg.NucleusTips
		}
		if cfg.Speed != nil {
			opts.NucleusSpeed = cfg.Speed.Random(rnd)
		}
		if cfg.AngularVelocity != nil {
			opts.NucleusAngularVel = *cfg.AngularVelocity
		}
		if cfg.NucleusDecay != nil {
			opts.NucleusDecay = *cfg.NucleusDecay
		}
		if cfg.DustSize != nil {
			opts.DustSize = *cfg.DustSize
		}
		if cfg.DustShape != "" {
			opts.DustShape = drawer.Shape(cfg.DustShape)
		}
		if cfg.DustTips > 0 {
			opts.DustTipCount = cfg.DustTips
		}
		if cfg.Rate != nil {
			opts.DustRate = cfg.Rate.Random(rnd)
		}
		if cfg.DustSigma != nil {
			opts.DustSpeedSigma = *cfg.DustSigma
		}
		if cfg.DustDecay != nil {
			opts.DustDecay = *cfg.DustDecay
		}
		if cfg.DT != nil {
			opts.DT = *cfg.DT
		}
		if cfg.Color != nil {
			opts.Color = cfg.Color.RGBA
		}
		// 彗星余辉融入背景色
		if cfg.Background != nil {
			opts.Background = cfg.Background.RGBA
		} else if !s.Background.IsZero() {
			opts.Background = s.Background.RGBA
		}
		return drawer.NewComet(opts), nil
	}
	return nil, fmt.Errorf("unknown type %q", cfg.Type)
}

// textOptions assembles drawer.TextOptions from a text or circle_text
// record.
func textOptions(cfg DrawerConfig, fonts *resource.FontManager) (drawer.TextOptions, error) {
	opts := drawer.DefaultTextOptions()
	opts.Text = cfg.Text
	opts.Fonts = fonts
	opts.FontPath = cfg.Font
	if cfg.FontSize > 0 {
		opts.FontSize = cfg.FontSize
	}
	if cfg.Align != "" {
		align, err := parseAlign(cfg.Align)
		if err != nil {
			return drawer.TextOptions{}, err
		}
		opts.Align = align
	}
	if cfg.Spacing != nil {
		opts.Spacing = *cfg.Spacing
	}
	opts.StrokeWidth = cfg.Stroke
	opts.XOffset = cfg.XOffset
	opts.YOffset = cfg.YOffset
	opts.FitFrame = cfg.Fit
	opts.FitStretch = cfg.Stretch
	if cfg.Color != nil {
		opts.Color = cfg.Color.RGBA
	}
	if cfg.Background != nil {
		opts.Background = cfg.Background.RGBA
	}
	return opts, nil
}

// parseAlign maps the scene spelling to the drawing alignment.
func parseAlign(s string) (gg.Align, error) {
	switch strings.ToLower(s) {
	case "left":
		return gg.AlignLeft, nil
	case "center":
		return gg.AlignCenter, nil
	case "right":
		return gg.AlignRight, nil
	}
	return 0, fmt.Errorf("unknown align %q (want left, center or right)", s)
}
