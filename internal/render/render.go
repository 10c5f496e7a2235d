// Package render draws a scene of committed shapes, their annotations and
// the polygon draft onto an RGBA image.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/colorutil"
	"plan-sketcher/pkg/geometry"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options controls the canvas size and palette.
type Options struct {
	Width       int
	Height      int
	StrokeWidth float64
	FontSize    float64
	Background  color.RGBA
	Stroke      color.RGBA
	Draft       color.RGBA
	Label       color.RGBA
}

// DefaultOptions returns an 800x600 white canvas with black 1px outlines.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		StrokeWidth: 1,
		FontSize:    DefaultFontSize,
		Background:  colorutil.White,
		Stroke:      colorutil.Black,
		Draft:       colorutil.DraftGray,
		Label:       colorutil.Black,
	}
}

// Scene is everything one frame shows.
type Scene struct {
	Shapes      []shape.Shape
	Draft       []geometry.Point2D
	Annotations bool
}

// Renderer draws scenes. A Renderer is not safe for concurrent use.
type Renderer struct {
	opts Options
	face font.Face
}

// NewRenderer creates a renderer. Zero sizes fall back to the defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = def.StrokeWidth
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	// Fully transparent colors are treated as unset.
	if opts.Background.A == 0 {
		opts.Background = def.Background
	}
	if opts.Stroke.A == 0 {
		opts.Stroke = def.Stroke
	}
	if opts.Draft.A == 0 {
		opts.Draft = def.Draft
	}
	if opts.Label.A == 0 {
		opts.Label = def.Label
	}
	return &Renderer{opts: opts, face: LoadFace(opts.FontSize)}
}

// Options returns the renderer's settings.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws the scene: background, each shape outline in order with its
// label when annotations are on, then the draft as an open polyline.
func (r *Renderer) Render(scene Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	r.RenderTo(img, scene)
	return img
}

// RenderTo draws the scene into img, which should be the canvas size.
func (r *Renderer) RenderTo(img *image.RGBA, scene Scene) {
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	b := img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), scanner)
	stroker.SetStroke(fixed.Int26_6(r.opts.StrokeWidth*64), 4*64, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.ArcClip)

	sp := &shapePainter{stroker: stroker, color: r.opts.Stroke}
	for _, s := range scene.Shapes {
		if s == nil {
			continue
		}
		s.Accept(sp)
		if scene.Annotations {
			r.drawLabel(img, Annotate(s))
		}
	}

	if len(scene.Draft) > 0 {
		sp.color = r.opts.Draft
		sp.polyline(scene.Draft, false)
	}
}

func (r *Renderer) drawLabel(img *image.RGBA, l Label) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.opts.Label),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(l.At.X * 64), Y: fixed.Int26_6(l.At.Y * 64)},
	}
	d.DrawString(l.Text)
}

// shapePainter strokes each shape kind's outline.
type shapePainter struct {
	stroker *rasterx.Stroker
	color   color.RGBA
}

func (p *shapePainter) flush() {
	p.stroker.SetColor(p.color)
	p.stroker.Draw()
	p.stroker.Clear()
}

func (p *shapePainter) VisitRectangle(r shape.Rectangle) {
	n := geometry.NewRect(r.X, r.Y, r.Width, r.Height).Normalize()
	if n.Width == 0 && n.Height == 0 {
		return
	}
	p.polyline([]geometry.Point2D{
		{X: n.X, Y: n.Y},
		{X: n.X + n.Width, Y: n.Y},
		{X: n.X + n.Width, Y: n.Y + n.Height},
		{X: n.X, Y: n.Y + n.Height},
	}, true)
}

func (p *shapePainter) VisitCircle(c shape.Circle) {
	if c.Radius <= 0 {
		return
	}
	rasterx.AddCircle(c.X, c.Y, c.Radius, p.stroker)
	p.flush()
}

func (p *shapePainter) VisitLine(l shape.Line) {
	if l.Length() == 0 {
		return
	}
	p.polyline([]geometry.Point2D{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}}, false)
}

func (p *shapePainter) VisitPolygon(poly shape.Polygon) {
	p.polyline(poly.Points, true)
}

// polyline strokes the path through pts, closing it back to the first point
// when closed is set. Fewer than two points draw nothing.
func (p *shapePainter) polyline(pts []geometry.Point2D, closed bool) {
	if len(pts) < 2 {
		return
	}
	p.stroker.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		p.stroker.Line(rasterx.ToFixedP(pt.X, pt.Y))
	}
	p.stroker.Stop(closed)
	p.flush()
}
