package render

import (
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is the annotation text size in pixels.
const DefaultFontSize = 12

// LoadFace returns Go Regular at size pixels. If the font cannot be
// parsed it falls back to the fixed 7x13 bitmap face.
func LoadFace(size float64) font.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		slog.Warn("parse annotation font, using bitmap face", "err", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		slog.Warn("create annotation face, using bitmap face", "err", err)
		return basicfont.Face7x13
	}
	return face
}
