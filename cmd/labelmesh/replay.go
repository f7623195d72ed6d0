package main

import (
	"image"
	"path/filepath"

	"github.com/esimov/labelmesh"
	"github.com/esimov/labelmesh/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// session is the outcome of replaying a script.
type session struct {
	mesh     *labelmesh.Mesh
	backdrop image.Image
	stats    labelmesh.Stats
}

// replay loads the script, its backdrop image and applies every event to a fresh mesh.
func replay(path string, logger *zap.Logger) (*session, error) {
	script, err := labelmesh.LoadScript(path)
	if err != nil {
		return nil, err
	}

	var backdrop image.Image
	if script.Image != "" {
		src := script.Image
		if !utils.IsURL(src) && !filepath.IsAbs(src) {
			src = filepath.Join(filepath.Dir(path), src)
		}
		if backdrop, err = utils.LoadImage(src); err != nil {
			return nil, err
		}
	}

	width, height := script.Canvas(backdrop)
	mesh, err := labelmesh.NewMesh(width, height, labelmesh.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	stats, err := script.Apply(mesh, backdrop, logger)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &session{mesh: mesh, backdrop: backdrop, stats: stats}, nil
}
