package ocr

import "image"

// TrimBorder crops the uniform white margin around the glyphs down to
// border pixels of padding. If the padded crop would fall outside the
// image, the padding shrinks by shrink and the crop is retried, until a
// valid image results or the padding reaches zero. An all-white image is
// returned unchanged.
func TrimBorder(img *image.Gray, border, shrink int) *image.Gray {
	minX, minY, maxX, maxY, any := inkBounds(img)
	if !any {
		return img
	}
	if shrink < 1 {
		shrink = 1
	}

	b := img.Bounds()
	for border > 0 {
		rect := image.Rect(minX-border, minY-border, maxX+1+border, maxY+1+border)
		if rect.In(b) {
			return img.SubImage(rect).(*image.Gray)
		}
		border -= shrink
	}

	return img.SubImage(image.Rect(minX, minY, maxX+1, maxY+1)).(*image.Gray)
}

// inkBounds finds the bounding box of every non-white pixel.
func inkBounds(img *image.Gray) (minX, minY, maxX, maxY int, any bool) {
	b := img.Bounds()
	minX, minY = b.Max.X, b.Max.Y
	maxX, maxY = b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y == 255 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			any = true
		}
	}
	return minX, minY, maxX, maxY, any
}
