// Package resource manages shared render resources (fonts) for the
// drawing pipeline.
package resource

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFont selects the embedded Go Regular typeface. Any drawer that
// does not name a font file renders with it.
const DefaultFont = ""

// FontManager parses each font file once and caches one font.Face per
// path and size combination. Auto-fitted text re-requests a face on every
// size change, so the caches keep that cheap.
//
// Not safe for concurrent use; the render pipeline is single threaded.
type FontManager struct {
	fonts map[string]*truetype.Font // parsed font per path
	faces map[string]font.Face      // face per "path:size"
}

// NewFontManager creates an empty font manager.
func NewFontManager() *FontManager {
	return &FontManager{
		fonts: make(map[string]*truetype.Font),
		faces: make(map[string]font.Face),
	}
}

// LoadFace returns a font face for the given font file and point size,
// parsing and caching the font on first use.
//
// Parameters:
//   - path: font file path, or DefaultFont for the built-in typeface
//   - size: font size in points
//
// Returns:
//   - the cached or newly built face, or an error when the file cannot
//     be read or parsed
func (fm *FontManager) LoadFace(path string, size float64) (font.Face, error) {
	// Cache key combining path and size
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if face, ok := fm.faces[cacheKey]; ok {
		return face, nil
	}

	tf, err := fm.loadFont(path)
	if err != nil {
		return nil, err
	}

	face := truetype.NewFace(tf, &truetype.Options{Size: size})
	fm.faces[cacheKey] = face
	return face, nil
}

// loadFont parses the font file at path, caching the parse result.
func (fm *FontManager) loadFont(path string) (*truetype.Font, error) {
	if tf, ok := fm.fonts[path]; ok {
		return tf, nil
	}

	data := goregular.TTF
	if path != DefaultFont {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
	}

	tf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	fm.fonts[path] = tf
	return tf, nil
}
