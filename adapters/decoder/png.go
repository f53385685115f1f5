package decoder

import (
	"errors"
	"fmt"
	"image/png"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// PNG decodes truecolor and truecolor-with-alpha PNGs. Every other colour
// type is rejected with ErrUnsupportedColorMode so the chain can fall back.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (p *PNG) Name() string { return "png" }

func (p *PNG) Decode(data []byte) (core.Raw, error) {
	if _, err := png.DecodeConfig(utils.BytesReader(data)); err != nil {
		return core.Raw{}, apperrors.Decode("png.header", apperrors.ErrCorruptData, err)
	}
	ch, err := pngChannels(data)
	if err != nil {
		return core.Raw{}, err
	}

	img, err := png.Decode(utils.BytesReader(data))
	if err != nil {
		return core.Raw{}, apperrors.Decode("png.decode", apperrors.ErrCorruptData, err)
	}
	return pack(img, ch), nil
}

// IHDR layout after the 8-byte signature: length[4] "IHDR"[4] width[4]
// height[4] depth[1] colour type[1]. 16-bit samples are narrowed by pack.
const (
	pngIHDRType      = 12
	pngColorTypeByte = 25

	pngTruecolor      = 2
	pngTruecolorAlpha = 6
)

// pngChannels maps the IHDR colour type. image/png reports greyscale with
// alpha as NRGBA, so the colour model alone cannot tell it from truecolor.
func pngChannels(data []byte) (core.Channels, error) {
	if len(data) <= pngColorTypeByte || string(data[pngIHDRType:pngIHDRType+4]) != "IHDR" {
		return 0, apperrors.Decode("png.header", apperrors.ErrCorruptData, errors.New("missing IHDR"))
	}
	switch ct := data[pngColorTypeByte]; ct {
	case pngTruecolor:
		return core.RGB, nil
	case pngTruecolorAlpha:
		return core.RGBA, nil
	default:
		return 0, apperrors.Decode("png.color", apperrors.ErrUnsupportedColorMode, fmt.Errorf("colour type %d", ct))
	}
}

var _ core.FastDecoder = (*PNG)(nil)
