// Package ocr turns pixel regions into raw text. It owns the only
// Tesseract client in the process; every tuning knob is an explicit
// Spec input, not hidden state.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/RKleminski/Scrapless/internal/vision"
)

// Spec bundles the recognition parameters for one logical field. One
// immutable Spec exists per field (threat level, behemoth name, drop
// lines, ...); the values are tuned against the game's UI rendering.
type Spec struct {
	// Threshold is the binarization cutoff: pixels at or above it become
	// white, the rest black.
	Threshold float32
	// SpeckleSize removes isolated noise blobs up to this size. Zero
	// disables the filter.
	SpeckleSize int
	// ScaleX and ScaleY upscale the binarized image before recognition.
	// Tesseract degrades sharply below a native glyph height; the game's
	// small fields need 4-7x.
	ScaleX, ScaleY int
	// Border is the white padding kept around the glyphs after trimming.
	// BorderShrink is the step the trim backs off by when a trim would
	// produce a degenerate image.
	Border, BorderShrink int
	// Invert flips black and white after thresholding.
	Invert bool
	// PSM is the page-segmentation hint passed to Tesseract.
	PSM gosseract.PageSegMode
	// Whitelist restricts recognition to the given characters when
	// non-empty.
	Whitelist string
}

// Engine wraps the Tesseract client.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates the OCR engine. Dictionary-based word correction is
// disabled: behemoth and item names are not English words and Tesseract
// would "fix" them into something else.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set language: %w", err)
	}

	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")
	_ = client.SetVariable("language_model_penalty_non_freq_dict_word", "0")

	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Read runs the fixed preprocessing pipeline on the region and hands the
// result to Tesseract. Returns the raw recognized string, which may be
// empty.
func (e *Engine) Read(f *vision.Frame, r vision.Region, spec Spec) (string, error) {
	prepared, err := Preprocess(f, r, spec)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return "", fmt.Errorf("ocr: encode: %w", err)
	}

	if err := e.client.SetPageSegMode(spec.PSM); err != nil {
		return "", fmt.Errorf("ocr: set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(spec.Whitelist); err != nil && spec.Whitelist != "" {
		return "", fmt.Errorf("ocr: set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return strings.TrimRight(text, "\n"), nil
}

// Preprocess applies the deterministic pipeline: crop, grayscale,
// binarize, despeckle, invert, upscale, trim. The result is the image
// Tesseract actually sees; the region-dump tool writes it out for
// calibration.
func Preprocess(f *vision.Frame, r vision.Region, spec Spec) (*image.Gray, error) {
	crop, err := r.Crop(f)
	if err != nil {
		return nil, err
	}
	defer crop.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(crop, &gray, gocv.ColorRGBAToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, spec.Threshold, 255, gocv.ThresholdBinary)

	if spec.SpeckleSize > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect,
			image.Pt(spec.SpeckleSize+1, spec.SpeckleSize+1))
		defer kernel.Close()
		gocv.MorphologyEx(binary, &binary, gocv.MorphOpen, kernel)
	}

	if spec.Invert {
		gocv.BitwiseNot(binary, &binary)
	}

	if spec.ScaleX > 1 || spec.ScaleY > 1 {
		scaled := gocv.NewMat()
		gocv.Resize(binary, &scaled, image.Point{},
			float64(max(spec.ScaleX, 1)), float64(max(spec.ScaleY, 1)),
			gocv.InterpolationArea)
		scaled.CopyTo(&binary)
		scaled.Close()
	}

	img, err := binary.ToImage()
	if err != nil {
		return nil, fmt.Errorf("ocr: convert: %w", err)
	}

	grayImg, ok := img.(*image.Gray)
	if !ok {
		b := img.Bounds()
		grayImg = image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				grayImg.Set(x, y, img.At(x, y))
			}
		}
	}

	return TrimBorder(grayImg, spec.Border, spec.BorderShrink), nil
}
