package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "labelmesh",
	Short: "Replay image annotation scripts on a labeled triangle mesh",
	Long: `labelmesh maintains a constrained Delaunay triangulation of an image canvas whose
triangles carry semantic labels. Annotation scripts insert points, paint labels and
reset label components; the resulting regions are exported as a label image,
GeoJSON, SVG or a JSON session.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every mesh event")
}

// newLogger builds a development logger in verbose mode and a production one otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
