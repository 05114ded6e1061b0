package devicon

import (
	"image"
	"image/color"
	"log/slog"

	devlog "github.com/vmark-dev/devkit/internal/logger"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// DefaultLabel is the badge text.
	DefaultLabel = "DEV"
	// MinBadgeDimension is the smallest icon side that still gets a badge.
	MinBadgeDimension = 48
)

var (
	// BadgeFill is the badge background (amber).
	BadgeFill = color.NRGBA{R: 255, G: 149, B: 0, A: 255}
	// BadgeText is the label color.
	BadgeText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// BadgeRect returns the badge rectangle for a w×h icon, anchored to the
// bottom-right corner with a 5% margin.
func BadgeRect(w, h int) image.Rectangle {
	bh := max(int(float64(h)*0.22), 10)
	bw := max(int(float64(w)*0.45), 20)
	x := w - bw - int(float64(w)*0.05)
	y := h - bh - int(float64(h)*0.05)
	return image.Rect(x, y, x+bw, y+bh)
}

// Badger draws a labelled badge onto icon variants.
type Badger struct {
	Label        string
	MinDimension int
	Fill         color.Color
	TextColor    color.Color
	// Fonts are tried in order; the fixed bitmap face is used when none load.
	Fonts  []FaceSource
	Logger *slog.Logger
}

// NewBadger returns a Badger with the default colors and font lookup.
func NewBadger(label string, logger *slog.Logger) *Badger {
	if label == "" {
		label = DefaultLabel
	}
	if logger == nil {
		logger = devlog.Discard()
	}
	return &Badger{
		Label:        label,
		MinDimension: MinBadgeDimension,
		Fill:         BadgeFill,
		TextColor:    BadgeText,
		Fonts:        DefaultFonts(),
		Logger:       logger,
	}
}

// Apply draws the badge onto img in place and returns it. Images whose
// smaller side is under MinDimension are returned untouched. Only pixels
// inside BadgeRect are modified.
func (b *Badger) Apply(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if min(w, h) < b.MinDimension {
		return img
	}

	rect := BadgeRect(w, h).Add(bounds.Min)
	radius := max(int(float64(rect.Dy())*0.3), 2)
	mask := &roundedRect{r: rect, radius: radius}
	draw.DrawMask(img, rect, image.NewUniform(b.Fill), image.Point{}, mask, rect.Min, draw.Over)

	b.drawLabel(img.SubImage(rect).(*image.NRGBA), rect)
	return img
}

func (b *Badger) drawLabel(dst *image.NRGBA, rect image.Rectangle) {
	size := max(int(float64(rect.Dy())*0.65), 8)
	face := b.face(float64(size))
	defer face.Close()

	tw, th, offX, offY := measureText(face, b.Label, size)
	x := rect.Min.X + floorDiv(rect.Dx()-tw, 2)
	y := rect.Min.Y + floorDiv(rect.Dy()-th, 2) - int(float64(rect.Dy())*0.1)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(b.TextColor),
		Face: face,
		Dot:  fixed.P(x-offX, y-offY),
	}
	d.DrawString(b.Label)
}

func (b *Badger) face(size float64) font.Face {
	for _, src := range b.Fonts {
		f, err := src.Face(size)
		if err == nil {
			return f
		}
		b.logger().Debug("font unavailable", "font", src.Name(), "error", err)
	}
	return fallbackFace()
}

func (b *Badger) logger() *slog.Logger {
	if b.Logger == nil {
		return devlog.Discard()
	}
	return b.Logger
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// roundedRect is an alpha mask that is opaque inside r with corners rounded
// to radius.
type roundedRect struct {
	r      image.Rectangle
	radius int
}

func (m *roundedRect) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedRect) Bounds() image.Rectangle { return m.r }

func (m *roundedRect) At(x, y int) color.Color {
	if m.contains(x, y) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func (m *roundedRect) contains(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(m.r) {
		return false
	}
	left, right := m.r.Min.X+m.radius, m.r.Max.X-1-m.radius
	top, bottom := m.r.Min.Y+m.radius, m.r.Max.Y-1-m.radius

	cx, cy := x, y
	switch {
	case x < left:
		cx = left
	case x > right:
		cx = right
	}
	switch {
	case y < top:
		cy = top
	case y > bottom:
		cy = bottom
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= m.radius*m.radius
}
