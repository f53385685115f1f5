package core

import (
	"fmt"

	apperrors "github.com/Skryldev/image-viewer/errors"
)

// Channels is the number of 8-bit samples per pixel. Only RGB and RGBA are
// modelled; consumers switch on it exhaustively.
type Channels uint8

const (
	RGB  Channels = 3
	RGBA Channels = 4
)

func (c Channels) String() string {
	switch c {
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("channels(%d)", uint8(c))
}

// Valid reports whether c is RGB or RGBA.
func (c Channels) Valid() bool { return c == RGB || c == RGBA }

// Size is a width/height pair in pixels.
type Size struct {
	W, H uint32
}

// DecodedImage is a validated, tightly packed 8-bit pixel buffer.
// len(Pix()) == Width()*Height()*Channels() always holds; the only way to
// obtain a non-zero DecodedImage is Normalize.
type DecodedImage struct {
	width    uint32
	height   uint32
	channels Channels
	pix      []byte
}

// Normalize validates raw decoder output and wraps it as a DecodedImage.
// It fails with ErrSizeMismatch iff len(pix) != width*height*channels.
func Normalize(width, height uint32, channels Channels, pix []byte) (DecodedImage, error) {
	if !channels.Valid() {
		return DecodedImage{}, apperrors.Decode("normalize", apperrors.ErrUnsupportedColorMode,
			fmt.Errorf("%d channels", uint8(channels)))
	}
	want := uint64(width) * uint64(height) * uint64(channels)
	if uint64(len(pix)) != want {
		return DecodedImage{}, apperrors.Decode("normalize", apperrors.ErrSizeMismatch,
			fmt.Errorf("%dx%dx%d needs %d bytes, got %d", width, height, channels, want, len(pix)))
	}
	return DecodedImage{width: width, height: height, channels: channels, pix: pix}, nil
}

func (d DecodedImage) Width() uint32      { return d.width }
func (d DecodedImage) Height() uint32     { return d.height }
func (d DecodedImage) Channels() Channels { return d.channels }
func (d DecodedImage) Size() Size         { return Size{W: d.width, H: d.height} }

// Pix returns the packed samples, row-major, no padding. The slice is
// shared; callers that take ownership must not keep the DecodedImage.
func (d DecodedImage) Pix() []byte { return d.pix }

// IsZero reports whether d was never produced by Normalize.
func (d DecodedImage) IsZero() bool { return d.pix == nil && d.channels == 0 }

func (d DecodedImage) String() string {
	return fmt.Sprintf("%dx%d %s", d.width, d.height, d.channels)
}
