// Package decoder provides the format-specific fast decoders and the
// content-sniffing generic decoder used by the decode chain.
package decoder

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/Skryldev/image-viewer/core"
)

// pack flattens img into tightly packed 8-bit samples with ch channels.
// Colour values are non-premultiplied; RGB output drops alpha.
func pack(img image.Image, ch core.Channels) core.Raw {
	src := asNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := make([]byte, w*h*int(ch))

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		if ch == core.RGBA {
			copy(out[y*w*4:], row)
			continue
		}
		o := y * w * 3
		for x := 0; x < w; x++ {
			out[o] = row[x*4]
			out[o+1] = row[x*4+1]
			out[o+2] = row[x*4+2]
			o += 3
		}
	}
	return core.Raw{Width: uint32(w), Height: uint32(h), Channels: ch, Pix: out}
}

// asNRGBA avoids a copy for the layouts decoders usually hand back.
func asNRGBA(img image.Image) *image.NRGBA {
	switch m := img.(type) {
	case *image.NRGBA:
		if m.Rect.Min == (image.Point{}) {
			return m
		}
	case *image.RGBA:
		// premultiplied and non-premultiplied agree when every pixel is opaque
		if m.Rect.Min == (image.Point{}) && m.Opaque() {
			return &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
		}
	}
	return imaging.Clone(img)
}

// hasAlpha reports whether img carries an alpha channel that RGB output
// would discard.
func hasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Alpha, *image.Alpha16, *image.NYCbCrA:
		return true
	case interface{ Opaque() bool }:
		return !m.Opaque()
	}
	return true
}
