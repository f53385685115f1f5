package decoder

import (
	"encoding/binary"
	"fmt"

	"github.com/xfmoulet/qoi"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

const (
	qoiMagic      = "qoif"
	qoiHeaderSize = 14
)

// QOI decodes QOI files. The channel count comes from the file header.
type QOI struct{}

func NewQOI() *QOI { return &QOI{} }

func (q *QOI) Name() string { return "qoi" }

func (q *QOI) Decode(data []byte) (core.Raw, error) {
	ch, err := qoiChannels(data)
	if err != nil {
		return core.Raw{}, err
	}
	img, err := qoi.Decode(utils.BytesReader(data))
	if err != nil {
		return core.Raw{}, apperrors.Decode("qoi.decode", apperrors.ErrCorruptData, err)
	}
	return pack(img, ch), nil
}

// qoiChannels reads the channels byte of the 14-byte header:
// magic[4] width[4] height[4] channels[1] colorspace[1], big endian.
func qoiChannels(data []byte) (core.Channels, error) {
	if len(data) < qoiHeaderSize || string(data[:4]) != qoiMagic {
		return 0, apperrors.Decode("qoi.header", apperrors.ErrCorruptData, fmt.Errorf("missing %q header", qoiMagic))
	}
	if binary.BigEndian.Uint32(data[4:8]) == 0 || binary.BigEndian.Uint32(data[8:12]) == 0 {
		return 0, apperrors.Decode("qoi.header", apperrors.ErrCorruptData, fmt.Errorf("zero dimension"))
	}
	switch ch := core.Channels(data[12]); ch {
	case core.RGB, core.RGBA:
		return ch, nil
	default:
		return 0, apperrors.Decode("qoi.header", apperrors.ErrCorruptData, fmt.Errorf("channels %d", data[12]))
	}
}

var _ core.FastDecoder = (*QOI)(nil)
