package labelmesh

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/pkg/errors"
)

// errWriter keeps the first write error, since svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG draws the region outlines, the triangle wireframe and the points of
// the mesh as an SVG document. It returns the first error of the writer.
func WriteSVG(w io.Writer, m *Mesh, regions []Region, palette Palette) error {
	if palette == nil {
		palette = DefaultPalette
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(m.Width(), m.Height())

	canvas.Gid("regions")
	for _, r := range regions {
		c, ok := palette[r.Label]
		if !ok || c.A == 0 {
			continue
		}
		style := fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.2f;fill-rule:evenodd;stroke:none",
			c.R, c.G, c.B, float64(c.A)/255)
		canvas.Path(pathData(r), style, fmt.Sprintf(`data-id="%d"`, r.ID), fmt.Sprintf(`data-label="%s"`, r.Label))
	}
	canvas.Gend()

	canvas.Gstyle("fill:none;stroke:black;stroke-opacity:0.3;stroke-width:1")
	for _, t := range m.Triangles() {
		tri := m.Coords(t)
		canvas.Polygon(
			[]float64{tri.P1.X, tri.P2.X, tri.P3.X},
			[]float64{tri.P1.Y, tri.P2.Y, tri.P3.Y},
		)
	}
	canvas.Gend()

	for _, p := range m.Points() {
		canvas.Circle(p.X, p.Y, 5, "fill:red")
	}
	canvas.End()
	return errors.Wrap(ew.err, "writing svg")
}

// pathData builds the path of a region, one closed sub-path per loop.
func pathData(r Region) string {
	var sb strings.Builder
	for _, loop := range append([][]Point{r.Hull}, r.Holes...) {
		for i, p := range loop {
			if i == 0 {
				fmt.Fprintf(&sb, "M%g,%g", p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, " L%g,%g", p.X, p.Y)
			}
		}
		if len(loop) > 0 {
			sb.WriteString(" Z ")
		}
	}
	return strings.TrimSpace(sb.String())
}
