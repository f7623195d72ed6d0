package labelmesh

import (
	"image"
	"math"
)

var (
	kernelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	kernelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelFilter computes the gradient magnitude of a grayscale image. Magnitudes
// not exceeding threshold are set to zero.
func SobelFilter(gray *image.NRGBA, threshold float64) *image.NRGBA {
	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	dst := image.NewNRGBA(gray.Bounds())

	// The red channel holds the luminance of a grayscale image.
	lum := func(x, y int) float64 {
		x = Max(0, Min(width-1, x))
		y = Max(0, Min(height-1, y))
		return float64(gray.Pix[gray.PixOffset(x, y)])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for row := 0; row < 3; row++ {
				for col := 0; col < 3; col++ {
					l := lum(x+col-1, y+row-1)
					gx += l * kernelX[row][col]
					gy += l * kernelY[row][col]
				}
			}
			var m uint8
			if magnitude := math.Hypot(gx, gy); magnitude > threshold {
				m = uint8(Min(255, magnitude))
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = m
			dst.Pix[i+1] = m
			dst.Pix[i+2] = m
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}
