package labelmesh

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/exp/constraints"
)

// ToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if dst, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return dst
	}
	dst := image.NewNRGBA(b.Sub(b.Min))

	if src, ok := img.(*image.YCbCr); ok {
		for y := 0; y < b.Dy(); y++ {
			di := dst.PixOffset(0, y)
			for x := 0; x < b.Dx(); x++ {
				yi := src.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := src.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = bl
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Grayscale converts the image to grayscale, keeping the NRGBA layout so that
// the red channel can be read as the luminance.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		lum := uint8(float32(r)*0.299 + float32(g)*0.587 + float32(b)*0.114)
		dst.Pix[i+0] = lum
		dst.Pix[i+1] = lum
		dst.Pix[i+2] = lum
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// BoxBlur blurs the red channel of a grayscale image in place with a square
// kernel of the given radius.
func BoxBlur(img *image.NRGBA, radius int) {
	if radius <= 0 {
		return
	}
	convolutionFilter(setBlurMatrix(radius), img)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i+1] = img.Pix[i]
		img.Pix[i+2] = img.Pix[i]
	}
}

// convolutionFilter convolves the square matrix over the red channel of the
// image. Each sum is divided by the weight of the matrix cells falling inside
// the image, so borders keep their brightness.
func convolutionFilter(matrix []float64, img *image.NRGBA) {
	var (
		width  = img.Bounds().Dx()
		height = img.Bounds().Dy()
		side   = 1
	)
	for side*side < len(matrix) {
		side++
	}
	dim := side / 2

	red := make([]float64, width*height)
	for i := range red {
		red[i] = float64(img.Pix[i*4])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum, weight float64
			for row := -dim; row <= dim; row++ {
				sy := y + row
				if sy < 0 || sy >= height {
					continue
				}
				for col := -dim; col <= dim; col++ {
					sx := x + col
					if sx < 0 || sx >= width {
						continue
					}
					v := matrix[(col+dim)+(row+dim)*side]
					sum += red[sx+sy*width] * v
					weight += v
				}
			}
			if weight != 0 {
				sum /= weight
			}
			img.Pix[(x+y*width)<<2] = uint8(Max(0, Min(255, sum)))
		}
	}
}

// setBlurMatrix returns a (2*size+1)² matrix of ones.
func setBlurMatrix(size int) []float64 {
	side := size*2 + 1
	matrix := make([]float64, side*side)
	for i := range matrix {
		matrix[i] = 1
	}
	return matrix
}

// Min returns the smallest of the values.
func Min[T constraints.Ordered](values ...T) T {
	acc := values[0]
	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest of the values.
func Max[T constraints.Ordered](values ...T) T {
	acc := values[0]
	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}
