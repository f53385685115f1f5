// Package encoder serialises decoded pixel buffers for the save path.
package encoder

import (
	"image"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// toImage views img as an *image.NRGBA. RGBA buffers are shared, RGB
// buffers are expanded with opaque alpha.
func toImage(op string, img core.DecodedImage) (*image.NRGBA, error) {
	if img.IsZero() {
		return nil, apperrors.New(apperrors.CategoryEncode, op, apperrors.ErrEmptyInput)
	}
	w, h := int(img.Width()), int(img.Height())
	if w == 0 || h == 0 {
		return nil, apperrors.New(apperrors.CategoryEncode, op, apperrors.ErrInvalidDimensions)
	}
	rect := image.Rect(0, 0, w, h)

	if img.Channels() == core.RGBA {
		return &image.NRGBA{Pix: img.Pix(), Stride: w * 4, Rect: rect}, nil
	}
	out := image.NewNRGBA(rect)
	src := img.Pix()
	for i, j := 0, 0; i < len(src); i, j = i+3, j+4 {
		out.Pix[j] = src[i]
		out.Pix[j+1] = src[i+1]
		out.Pix[j+2] = src[i+2]
		out.Pix[j+3] = 0xff
	}
	return out, nil
}
