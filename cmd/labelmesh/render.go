package main

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/labelmesh"
	"github.com/esimov/labelmesh/utils"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	out       string
	preview   string
	geojson   string
	svg       string
	session   string
	wireframe int
	lineWidth float64
	opacity   float64
	grayscale bool
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render [script]",
	Short: "Replay a script and export the label image",
	Long: `Replay the annotation script and write the label image, where every labeled region
is filled with the color (id, 0, 0). The preview, GeoJSON, SVG and session outputs are optional.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	addRenderFlags(renderCmd, &renderOpts)
	rootCmd.AddCommand(renderCmd)
}

func addRenderFlags(cmd *cobra.Command, o *renderOptions) {
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Label image destination (default <script>.labels.png)")
	cmd.Flags().StringVarP(&o.preview, "preview", "p", "", "Preview image destination")
	cmd.Flags().StringVar(&o.geojson, "geojson", "", "GeoJSON regions destination")
	cmd.Flags().StringVar(&o.svg, "svg", "", "SVG outline destination")
	cmd.Flags().StringVar(&o.session, "session", "", "JSON session destination")
	cmd.Flags().IntVar(&o.wireframe, "wireframe", labelmesh.WithWireframe, "Preview wireframe mode (0: none, 1: with wireframe, 2: wireframe only)")
	cmd.Flags().Float64Var(&o.lineWidth, "width", 1, "Preview wireframe line width")
	cmd.Flags().Float64Var(&o.opacity, "opacity", 0.5, "Preview region opacity")
	cmd.Flags().BoolVar(&o.grayscale, "gray", false, "Draw the preview backdrop in grayscale")
}

func runRender(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	spinner := utils.NewSpinner()
	spinner.Start("Replaying annotation script...")
	start := time.Now()
	s, regions, err := render(args[0], renderOpts, logger)
	spinner.Stop()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Rendered in: %s\n", aurora.Green(utils.FormatTime(time.Since(start))))
	fmt.Fprintf(w, "%d points, %d triangles, %d regions\n",
		aurora.Green(len(s.mesh.Points())), aurora.Green(len(s.mesh.Triangles())), aurora.Green(len(regions)))
	printStats(w, s.stats)
	return nil
}

func printStats(w io.Writer, st labelmesh.Stats) {
	fmt.Fprintf(w, "inserted %d, rejected %d, skipped %d, painted %d, reset %d, seeded %d, collapsed %d\n",
		st.Inserted, aurora.Yellow(st.Rejected), aurora.Red(st.Skipped), st.Painted, st.Reset, st.Seeded, st.Collapsed)
}

// render replays the script and writes every requested output.
func render(path string, o renderOptions, logger *zap.Logger) (*session, []labelmesh.Region, error) {
	s, err := replay(path, logger)
	if err != nil {
		return nil, nil, err
	}
	regions, err := s.mesh.Regions()
	if err != nil {
		return nil, nil, err
	}

	out := o.out
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".labels.png"
	}
	labels, err := labelmesh.RenderLabels(regions, int(s.mesh.Width()), int(s.mesh.Height()))
	if err != nil {
		return nil, nil, err
	}
	if err := writeFile(out, func(w io.Writer) error { return png.Encode(w, labels) }); err != nil {
		return nil, nil, err
	}

	if o.preview != "" {
		p := labelmesh.DefaultProcessor
		p.Wireframe = o.wireframe
		p.LineWidth = o.lineWidth
		p.Opacity = o.opacity
		p.Grayscale = o.grayscale
		err := writeFile(o.preview, func(w io.Writer) error { return p.Process(s.mesh, s.backdrop, w) })
		if err != nil {
			return nil, nil, err
		}
	}
	if o.geojson != "" {
		data, err := labelmesh.MarshalGeoJSON(regions)
		if err != nil {
			return nil, nil, err
		}
		if err := writeFile(o.geojson, func(w io.Writer) error { _, err := w.Write(data); return err }); err != nil {
			return nil, nil, err
		}
	}
	if o.svg != "" {
		err := writeFile(o.svg, func(w io.Writer) error { return labelmesh.WriteSVG(w, s.mesh, regions, nil) })
		if err != nil {
			return nil, nil, err
		}
	}
	if o.session != "" {
		if err := writeFile(o.session, func(w io.Writer) error { return labelmesh.SaveSession(w, s.mesh) }); err != nil {
			return nil, nil, err
		}
	}
	return s, regions, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
