package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SketchTheme is the editor's theme: a dark toolbar with a blue accent for
// the active tool.
type SketchTheme struct{}

var _ fyne.Theme = (*SketchTheme)(nil)

func (t *SketchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x25, G: 0x63, B: 0xEB, A: 0xFF}
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *SketchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SketchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SketchTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	default:
		return theme.DefaultTheme().Size(name)
	}
}
