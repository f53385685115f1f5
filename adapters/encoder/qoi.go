package encoder

import (
	"io"

	"github.com/xfmoulet/qoi"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// QOI encodes images to QOI format.
type QOI struct{}

func NewQOI() *QOI { return &QOI{} }

func (q *QOI) Name() string { return "qoi" }

func (q *QOI) Encode(w io.Writer, img core.DecodedImage) error {
	src, err := toImage("qoi.encode", img)
	if err != nil {
		return err
	}
	if err := qoi.Encode(w, src); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "qoi.encode", err)
	}
	return nil
}

var _ core.Encoder = (*QOI)(nil)
