package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/esimov/labelmesh"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var regionsCmd = &cobra.Command{
	Use:   "regions [script|session.json]",
	Short: "List the labeled regions of a script or a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	mesh, err := loadMesh(args[0], logger)
	if err != nil {
		return err
	}
	regions, err := mesh.Regions()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tAREA\tHULL POINTS\tHOLES")
	for _, r := range regions {
		label := aurora.Bold(r.Label.String())
		if r.Label == labelmesh.Unknown {
			label = aurora.Faint(r.Label.String())
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\n", r.ID, label, r.Area(), len(r.Hull), len(r.Holes))
	}
	return w.Flush()
}

// loadMesh opens a JSON session or replays a YAML script.
func loadMesh(path string, logger *zap.Logger) (*labelmesh.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening session")
		}
		defer f.Close()
		return labelmesh.LoadSession(f, labelmesh.WithLogger(logger))
	}
	s, err := replay(path, logger)
	if err != nil {
		return nil, err
	}
	return s.mesh, nil
}
