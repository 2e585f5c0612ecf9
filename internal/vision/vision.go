// Package vision provides the frame, region and template primitives and
// the template-matching detector used to recognize fixed UI graphics.
package vision

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Frame is one captured screen image. The pixel data is owned by the
// capture loop; detection and reading operations treat it as read-only.
type Frame struct {
	Mat        gocv.Mat
	CapturedAt time.Time
}

// NewFrame wraps a captured RGBA image in a Frame.
func NewFrame(img *image.RGBA, at time.Time) (*Frame, error) {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("vision: convert capture: %w", err)
	}
	return &Frame{Mat: mat, CapturedAt: at}, nil
}

// Close releases the underlying pixel buffer.
func (f *Frame) Close() {
	if f != nil && !f.Mat.Empty() {
		f.Mat.Close()
	}
}

// Region is a rectangle in frame coordinates. Coordinates are stored
// already scaled to the runtime resolution; regions are immutable
// configuration data after startup.
type Region struct {
	Top    int `json:"height_start"`
	Bottom int `json:"height_end"`
	Left   int `json:"width_start"`
	Right  int `json:"width_end"`
}

// Scaled returns the region scaled by independent X and Y factors.
func (r Region) Scaled(sx, sy float64) Region {
	return Region{
		Top:    int(float64(r.Top) * sy),
		Bottom: int(float64(r.Bottom) * sy),
		Left:   int(float64(r.Left) * sx),
		Right:  int(float64(r.Right) * sx),
	}
}

// WithBottom returns a copy of the region with its bottom edge replaced.
// Used to cut a drop list short at a detected marker graphic.
func (r Region) WithBottom(bottom int) Region {
	r.Bottom = bottom
	return r
}

// Validate rejects degenerate or negative rectangles. Called once at
// startup for every configured region; a failure here is fatal.
func (r Region) Validate() error {
	if r.Top < 0 || r.Left < 0 {
		return fmt.Errorf("vision: region coordinates cannot be negative: %+v", r)
	}
	if r.Bottom <= r.Top || r.Right <= r.Left {
		return fmt.Errorf("vision: region has no area: %+v", r)
	}
	return nil
}

// Crop returns the sub-image of the frame covered by the region. The
// returned Mat shares storage with the frame and must be closed by the
// caller.
func (r Region) Crop(f *Frame) (gocv.Mat, error) {
	cols, rows := f.Mat.Cols(), f.Mat.Rows()
	if r.Right > cols || r.Bottom > rows {
		return gocv.Mat{}, fmt.Errorf("vision: region %+v exceeds frame %dx%d", r, cols, rows)
	}
	return f.Mat.Region(image.Rect(r.Left, r.Top, r.Right, r.Bottom)), nil
}

// DefaultPrecision is the template-matching threshold used unless a caller
// tunes it for a specific element.
const DefaultPrecision = 0.8

// Detect reports whether the template is visible inside the region of the
// frame at or above the given precision, and where the best match sits
// (relative to the region's top-left corner). Pure function of the pixel
// input: identical pixels give identical results.
func Detect(f *Frame, r Region, t *Template, precision float64) (bool, image.Point, error) {
	crop, err := r.Crop(f)
	if err != nil {
		return false, image.Point{}, err
	}
	defer crop.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(crop, &gray, gocv.ColorRGBAToGray)

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(gray, t.Mat, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	return float64(maxVal) >= precision, maxLoc, nil
}
