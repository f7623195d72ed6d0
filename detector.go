package labelmesh

import (
	"image"
	"math/rand"
)

// SeedOptions controls how bootstrap points are picked from image edges.
type SeedOptions struct {
	BlurRadius      int     `yaml:"blur"`
	SobelThreshold  float64 `yaml:"sobel"`
	PointsThreshold uint8   `yaml:"threshold"`
	// PointRate is the share of the edge pixels kept as points.
	PointRate float64 `yaml:"rate"`
	MaxPoints int     `yaml:"max"`
}

// DefaultSeedOptions are tuned for photographs of a few hundred pixels wide.
var DefaultSeedOptions = SeedOptions{
	BlurRadius:      2,
	SobelThreshold:  10,
	PointsThreshold: 20,
	PointRate:       0.075,
	MaxPoints:       2500,
}

// SeedPoints blurs and desaturates the image, runs a Sobel edge detector over it
// and returns a random sample of the pixels whose 3x3 neighborhood average
// exceeds the points threshold. The sample only depends on the generator state.
func SeedPoints(src image.Image, opts SeedOptions, rng *rand.Rand) []Point {
	gray := Grayscale(ToNRGBA(src))
	BoxBlur(gray, opts.BlurRadius)
	edges := SobelFilter(gray, opts.SobelThreshold)

	width, height := edges.Bounds().Dx(), edges.Bounds().Dy()

	var candidates []Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum, total int
			for row := -1; row <= 1; row++ {
				sy := y + row
				if sy < 0 || sy >= height {
					continue
				}
				for col := -1; col <= 1; col++ {
					sx := x + col
					if sx < 0 || sx >= width {
						continue
					}
					sum += int(edges.Pix[edges.PixOffset(sx, sy)])
					total++
				}
			}
			if sum/total > int(opts.PointsThreshold) {
				candidates = append(candidates, Point{X: float64(x), Y: float64(y)})
			}
		}
	}

	limit := Min(int(float64(len(candidates))*opts.PointRate), opts.MaxPoints, len(candidates))
	limit = Max(0, limit)
	points := make([]Point, 0, limit)
	for i := 0; i < limit; i++ {
		j := rng.Intn(len(candidates))
		points = append(points, candidates[j])
		candidates[j] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
	}
	return points
}

// Seed inserts edge points of the image without force and returns the number
// of points accepted by the mesh.
func (m *Mesh) Seed(src image.Image, opts SeedOptions, rng *rand.Rand) int {
	return m.InsertPoints(SeedPoints(src, opts, rng))
}
