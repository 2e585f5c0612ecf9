package vision

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"
)

// Template is a reference grayscale image matched against frame regions.
// Loaded once at startup, immutable afterwards.
type Template struct {
	Name string
	Mat  gocv.Mat
}

// LoadTemplate reads a template image from disk and converts it to
// grayscale. When the runtime resolution differs from the reference
// resolution the template was captured at, it is rescaled by the same
// factors the regions are.
func LoadTemplate(name, path string, sx, sy float64) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vision: template %s: %w", name, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("vision: template %s: decode: %w", name, err)
	}

	gray := toGray(img)
	if sx != 1 || sy != 1 {
		gray = rescale(gray, sx, sy)
	}

	b := gray.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("vision: template %s has no area", name)
	}

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("vision: template %s: %w", name, err)
	}
	return &Template{Name: name, Mat: mat}, nil
}

// Close releases the template's pixel buffer.
func (t *Template) Close() {
	if t != nil && !t.Mat.Empty() {
		t.Mat.Close()
	}
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

func rescale(src *image.Gray, sx, sy float64) *image.Gray {
	b := src.Bounds()
	w := int(float64(b.Dx()) * sx)
	h := int(float64(b.Dy()) * sy)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
