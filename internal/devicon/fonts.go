package devicon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FaceSource produces a font face at a given pixel size.
type FaceSource interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// FileFace loads a TrueType/OpenType font (or the first font of a .ttc
// collection) from disk. The file is parsed once.
type FileFace struct {
	Path string

	once   sync.Once
	parsed *opentype.Font
	err    error
}

func (f *FileFace) Name() string { return f.Path }

func (f *FileFace) Face(size float64) (font.Face, error) {
	f.once.Do(func() {
		f.parsed, f.err = parseFontFile(f.Path)
	})
	if f.err != nil {
		return nil, f.err
	}
	return newFace(f.parsed, size)
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return coll.Font(0)
	default:
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return f, nil
	}
}

// GoBold is the bundled Go Bold typeface.
type GoBold struct {
	once   sync.Once
	parsed *opentype.Font
	err    error
}

func (g *GoBold) Name() string { return "gobold" }

func (g *GoBold) Face(size float64) (font.Face, error) {
	g.once.Do(func() {
		g.parsed, g.err = opentype.Parse(gobold.TTF)
	})
	if g.err != nil {
		return nil, g.err
	}
	return newFace(g.parsed, size)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// systemFontPaths are bold sans-serif faces commonly present on macOS and
// Linux desktops.
var systemFontPaths = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/SFNSMono.ttf",
	"/Library/Fonts/Arial Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// DefaultFonts returns the lookup order used for badge text: system fonts,
// then the bundled Go Bold face. The fixed bitmap face is always the last
// resort and is not part of the list.
func DefaultFonts() []FaceSource {
	out := make([]FaceSource, 0, len(systemFontPaths)+1)
	for _, p := range systemFontPaths {
		out = append(out, &FileFace{Path: p})
	}
	return append(out, &GoBold{})
}

// measureText returns the pixel extent of s in face along with the offset
// of the ink's top-left corner relative to the drawing origin. When the face
// reports no ink it falls back to an estimate from the font size.
func measureText(face font.Face, s string, size int) (w, h, offX, offY int) {
	bounds, _ := font.BoundString(face, s)
	w = (bounds.Max.X - bounds.Min.X).Ceil()
	h = (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w > 0 && h > 0 {
		return w, h, bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	}
	w = len([]rune(s)) * size * 2 / 3
	h = size
	return w, h, 0, -face.Metrics().Ascent.Ceil()
}

func fallbackFace() font.Face { return basicfont.Face7x13 }
