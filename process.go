package labelmesh

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	// WithoutWireframe fills the regions only.
	WithoutWireframe = iota
	// WithWireframe fills the regions and strokes every triangle.
	WithWireframe
	// WireframeOnly strokes every triangle without filling the regions.
	WireframeOnly
)

// Palette maps every label to its preview color.
type Palette map[Label]color.NRGBA

// DefaultPalette follows the annotation toolbar colors.
var DefaultPalette = Palette{
	Unknown:     {0, 0, 0, 0},
	Ignore:      {128, 128, 128, 255},
	Background:  {255, 255, 255, 255},
	Body:        {255, 0, 0, 255},
	PickSurface: {0, 128, 0, 255},
	Lead:        {0, 0, 255, 255},
}

// Processor holds the preview rendering options.
type Processor struct {
	Wireframe   int
	LineWidth   float64
	PointRadius float64
	// Opacity of the region fill over the backdrop, in the [0, 1] range.
	Opacity   float64
	Grayscale bool
	Palette   Palette
}

// DefaultProcessor renders a half transparent overlay with the triangle
// wireframe and the mesh points.
var DefaultProcessor = Processor{
	Wireframe:   WithWireframe,
	LineWidth:   1,
	PointRadius: 5,
	Opacity:     0.5,
	Palette:     DefaultPalette,
}

// RenderLabels rasterizes the regions into a width x height label image. Every
// region except the unknown ones is filled, holes excluded, with the color
// (id, 0, 0, 255); the rest of the image stays transparent.
func RenderLabels(regions []Region, width, height int) (*image.NRGBA, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	for _, r := range regions {
		if r.Label == Unknown {
			continue
		}
		if r.ID < 0 || r.ID > 255 {
			return nil, errors.Errorf("region id %d does not fit in a label image", r.ID)
		}

		mask := gg.NewContext(width, height)
		tracePolygon(mask, r)
		mask.SetFillRule(gg.FillRuleEvenOdd)
		mask.SetRGBA(1, 1, 1, 1)
		mask.Fill()

		m := mask.Image().(*image.RGBA)
		for i := 3; i < len(m.Pix); i += 4 {
			if m.Pix[i] < 0x80 {
				continue
			}
			dst.Pix[i-3] = uint8(r.ID)
			dst.Pix[i-2] = 0
			dst.Pix[i-1] = 0
			dst.Pix[i] = 0xff
		}
	}
	return dst, nil
}

// tracePolygon adds the hull and the holes of a region as closed sub-paths.
func tracePolygon(ctx *gg.Context, r Region) {
	for _, loop := range append([][]Point{r.Hull}, r.Holes...) {
		if len(loop) == 0 {
			continue
		}
		ctx.NewSubPath()
		ctx.MoveTo(loop[0].X, loop[0].Y)
		for _, p := range loop[1:] {
			ctx.LineTo(p.X, p.Y)
		}
		ctx.ClosePath()
	}
}

// Preview draws the labeled regions, the triangle wireframe and the mesh points
// over the backdrop. A nil backdrop is replaced by a white canvas of the mesh size.
func (p *Processor) Preview(m *Mesh, backdrop image.Image) (image.Image, error) {
	width, height := int(m.Width()), int(m.Height())
	ctx := gg.NewContext(width, height)

	if backdrop != nil {
		src := ToNRGBA(backdrop)
		if p.Grayscale {
			src = Grayscale(src)
		}
		ctx.DrawImage(src, 0, 0)
	} else {
		ctx.SetRGBA(1, 1, 1, 1)
		ctx.Clear()
	}

	palette := p.Palette
	if palette == nil {
		palette = DefaultPalette
	}

	if p.Wireframe != WireframeOnly {
		regions, err := m.Regions()
		if err != nil {
			return nil, errors.Wrap(err, "preview")
		}
		for _, r := range regions {
			c, ok := palette[r.Label]
			if !ok || c.A == 0 {
				continue
			}
			ctx.Push()
			tracePolygon(ctx, r)
			ctx.SetFillRule(gg.FillRuleEvenOdd)
			ctx.SetRGBA255(int(c.R), int(c.G), int(c.B), int(float64(c.A)*p.Opacity))
			ctx.Fill()
			ctx.Pop()
		}
	}

	if p.Wireframe != WithoutWireframe {
		ctx.SetRGBA(0, 0, 0, 0.3)
		ctx.SetLineWidth(p.LineWidth)
		for _, t := range m.Triangles() {
			tri := m.Coords(t)
			ctx.MoveTo(tri.P1.X, tri.P1.Y)
			ctx.LineTo(tri.P2.X, tri.P2.Y)
			ctx.LineTo(tri.P3.X, tri.P3.Y)
			ctx.ClosePath()
			ctx.Stroke()
		}
	}

	if p.PointRadius > 0 {
		ctx.SetRGB(1, 0, 0)
		for _, pt := range m.Points() {
			ctx.DrawCircle(pt.X, pt.Y, p.PointRadius)
			ctx.Fill()
		}
	}
	return ctx.Image(), nil
}

// Process renders the preview and encodes it as PNG into w.
func (p *Processor) Process(m *Mesh, backdrop image.Image, w io.Writer) error {
	img, err := p.Preview(m, backdrop)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "encoding preview")
}
