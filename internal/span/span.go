// Package span provides scalar-or-range numeric values for scene
// configuration files.
package span

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/lab/base/randx"
	"gopkg.in/yaml.v3"
)

// Span is a closed numeric interval [Min, Max]. A fixed value is a span
// with Min == Max. Scene files write spans either as a plain number or as
// a bracketed pair:
//   - Fixed value: 5 or "5" → Min=5, Max=5
//   - Single: "[5]" → Min=5, Max=5
//   - Range: "[2 8]" → Min=2, Max=8
type Span struct {
	Min float64
	Max float64
}

// Fixed returns a span holding a single value.
func Fixed(v float64) Span {
	return Span{Min: v, Max: v}
}

// Parse parses a span string. Reversed ranges are normalized so that
// Min <= Max always holds.
func Parse(s string) (Span, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Span{}, fmt.Errorf("span: empty value")
	}

	// 范围格式: "[min max]" 或 "[value]"
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.TrimPrefix(s, "[")
		inner = strings.TrimSuffix(inner, "]")
		parts := strings.Fields(inner)
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Span{}, fmt.Errorf("span: invalid value %q: %w", s, err)
			}
			return Fixed(v), nil
		case 2:
			lo, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Span{}, fmt.Errorf("span: invalid range %q: %w", s, err)
			}
			hi, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return Span{}, fmt.Errorf("span: invalid range %q: %w", s, err)
			}
			if hi < lo {
				lo, hi = hi, lo
			}
			return Span{Min: lo, Max: hi}, nil
		default:
			return Span{}, fmt.Errorf("span: range %q must hold one or two values", s)
		}
	}

	// 固定值格式
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Span{}, fmt.Errorf("span: invalid value %q: %w", s, err)
	}
	return Fixed(v), nil
}

// Random returns a uniformly random value from the span, drawn from rnd
// (the process-wide source when rnd is nil). A degenerate span returns Min.
func (sp Span) Random(rnd randx.Rand) float64 {
	if sp.Min >= sp.Max {
		return sp.Min
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	return sp.Min + rnd.Float64()*(sp.Max-sp.Min)
}

// IsFixed reports whether the span holds a single value.
func (sp Span) IsFixed() bool {
	return sp.Min == sp.Max
}

// IsZero reports whether the span is the zero value (unset in a scene file).
func (sp Span) IsZero() bool {
	return sp.Min == 0 && sp.Max == 0
}

func (sp Span) String() string {
	if sp.IsFixed() {
		return strconv.FormatFloat(sp.Min, 'g', -1, 64)
	}
	return fmt.Sprintf("[%g %g]", sp.Min, sp.Max)
}

// UnmarshalYAML accepts either a YAML number or a quoted span string,
// so scene files can write `size: 5` and `size: "[2 8]"` interchangeably.
func (sp *Span) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("span: expected scalar, got %v at line %d", value.Kind, value.Line)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*sp = parsed
	return nil
}

// MarshalYAML renders the span back in the scene-file grammar.
func (sp Span) MarshalYAML() (interface{}, error) {
	if sp.IsFixed() {
		return sp.Min, nil
	}
	return sp.String(), nil
}
