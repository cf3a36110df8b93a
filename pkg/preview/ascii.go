package preview

import (
	"image"
	"strings"

	"meadow/internal/util"
)

// DefaultCharSet runs from dark to bright
const DefaultCharSet = " .:-=+*#%@"

// luminance of pixel (x, y) in [0,1]
func luminance(img *image.RGBA, x, y int) float64 {
	o := img.PixOffset(x, y)
	r := float64(img.Pix[o]) / 255
	g := float64(img.Pix[o+1]) / 255
	b := float64(img.Pix[o+2]) / 255
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ASCII downsamples img to cols x rows characters with bilinear filtering.
// Brighter pixels map to later characters of charset.
func ASCII(img *image.RGBA, cols, rows int, charset string) string {
	if charset == "" {
		charset = DefaultCharSet
	}
	chars := []rune(charset)
	bounds := img.Bounds()
	if cols <= 0 || rows <= 0 || bounds.Empty() {
		return ""
	}

	width, height := bounds.Dx(), bounds.Dy()
	scaleX := float64(width) / float64(cols)
	scaleY := float64(height) / float64(rows)

	var sb strings.Builder
	sb.Grow((cols + 1) * rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sx := float64(x) * scaleX
			sy := float64(y) * scaleY

			x0, y0 := int(sx), int(sy)
			x1, y1 := min(x0+1, width-1), min(y0+1, height-1)
			wx := sx - float64(x0)
			wy := sy - float64(y0)

			l00 := luminance(img, bounds.Min.X+x0, bounds.Min.Y+y0)
			l10 := luminance(img, bounds.Min.X+x1, bounds.Min.Y+y0)
			l01 := luminance(img, bounds.Min.X+x0, bounds.Min.Y+y1)
			l11 := luminance(img, bounds.Min.X+x1, bounds.Min.Y+y1)

			top := util.Lerp(l00, l10, wx)
			bottom := util.Lerp(l01, l11, wx)
			l := util.Clamp01(util.Lerp(top, bottom, wy))

			idx := int(l * float64(len(chars)))
			if idx >= len(chars) {
				idx = len(chars) - 1
			}
			sb.WriteRune(chars[idx])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
