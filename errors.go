package labelmesh

import "github.com/pkg/errors"

var (
	// ErrNoContainingTriangle is returned when an insert or paint point falls
	// outside every triangle of the mesh.
	ErrNoContainingTriangle = errors.New("point is not inside any triangle")

	// ErrDegenerateGeometry is returned for near-collinear triangles which have
	// no finite circumcircle.
	ErrDegenerateGeometry = errors.New("degenerate triangle")

	// ErrMalformedBoundary is returned when a label region boundary contains a
	// vertex of odd degree and therefore cannot be walked as closed loops.
	ErrMalformedBoundary = errors.New("malformed region boundary")

	// ErrDuplicatePoint is returned when an inserted point coincides with an
	// existing mesh vertex.
	ErrDuplicatePoint = errors.New("point coincides with an existing vertex")

	// ErrUnknownLabel is returned when a label name or ordinal is not part of the label set.
	ErrUnknownLabel = errors.New("unknown label")
)
