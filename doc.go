/*
Package labelmesh keeps a labeled triangle mesh over an image canvas and turns it
into semantic label regions.

The mesh starts as the two triangles spanning the canvas. Every inserted point
carves a star-shaped cavity out of the unlabeled triangles around it and fills
it with a fan of new triangles (constrained Bowyer-Watson). Triangles painted
with a label other than Unknown are constrained: they are left untouched by
insertion until their whole connected label component is reset.

	m, err := labelmesh.NewMesh(800, 600)
	if err != nil {
		log.Fatal(err)
	}
	m.InsertPoint(labelmesh.Point{X: 400, Y: 300}, false)
	m.Paint(labelmesh.Point{X: 300, Y: 300}, labelmesh.Body, false)

	regions, err := m.Regions()
	if err != nil {
		log.Fatal(err)
	}
	img, err := labelmesh.RenderLabels(regions, 800, 600)

Regions group edge-connected triangles of the same label. Their boundary is
recovered as closed loops: the outer hull winds clockwise and the holes
counterclockwise. Unknown, Background and Ignore regions always get the ids
0, 1 and 2; the others are numbered from 3 in discovery order. In the label
image every region is filled with the color (id, 0, 0).

Regions can also be exported as GeoJSON and SVG, and the whole mesh can be
saved and restored as a JSON session. The labelmesh command replays YAML
annotation scripts with all these outputs.
*/
package labelmesh
