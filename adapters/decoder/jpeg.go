package decoder

import (
	"github.com/gen2brain/jpegn"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// JPEG decodes JPEG/JFIF files with jpegn. Output is always RGBA.
type JPEG struct{}

// NewJPEG returns an initialised JPEG decoder.
func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) Name() string { return "jpeg" }

func (j *JPEG) Decode(data []byte) (core.Raw, error) {
	// orientation is applied by the renderer's transform, never to the pixels
	img, err := jpegn.Decode(utils.BytesReader(data), &jpegn.Options{ToRGBA: true, AutoRotate: false})
	if err != nil {
		return core.Raw{}, apperrors.Decode("jpeg.decode", apperrors.ErrCorruptData, err)
	}
	return pack(img, core.RGBA), nil
}

var _ core.FastDecoder = (*JPEG)(nil)
