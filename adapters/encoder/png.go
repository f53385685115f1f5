package encoder

import (
	"image/png"
	"io"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// PNG encodes images to PNG format. Opaque images are written as truecolor.
type PNG struct {
	CompressionLevel png.CompressionLevel
}

func NewPNG() *PNG { return &PNG{CompressionLevel: png.DefaultCompression} }

func (p *PNG) Name() string { return "png" }

func (p *PNG) Encode(w io.Writer, img core.DecodedImage) error {
	src, err := toImage("png.encode", img)
	if err != nil {
		return err
	}
	enc := &png.Encoder{CompressionLevel: p.CompressionLevel}
	if err := enc.Encode(w, src); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}
	return nil
}

var _ core.Encoder = (*PNG)(nil)
