package utils

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := (d - minutes*time.Minute) / time.Second

	switch {
	case days > 0:
		return fmt.Sprintf("%dd:%dh:%dm:%ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh:%dm:%ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm:%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// IsURL reports whether the source looks like an http(s) address.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// LoadImage decodes the image found at a local path or an http(s) URL.
func LoadImage(src string) (image.Image, error) {
	var r io.ReadCloser
	if IsURL(src) {
		f, err := DownloadImage(src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		r = f
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, errors.Wrap(err, "opening image")
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", src)
	}
	return img, nil
}
