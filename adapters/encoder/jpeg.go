package encoder

import (
	"image/jpeg"
	"io"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// JPEG encodes images to JPEG format. Alpha is dropped.
type JPEG struct {
	Quality int
}

// NewJPEG returns a JPEG encoder; quality outside 1-100 means 100.
func NewJPEG(quality int) *JPEG {
	if quality <= 0 || quality > 100 {
		quality = 100
	}
	return &JPEG{Quality: quality}
}

func (j *JPEG) Name() string { return "jpeg" }

func (j *JPEG) Encode(w io.Writer, img core.DecodedImage) error {
	src, err := toImage("jpeg.encode", img)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(w, src, &jpeg.Options{Quality: j.Quality}); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	return nil
}

var _ core.Encoder = (*JPEG)(nil)
