package utils

import (
	"bytes"
	"net/http"
)

const (
	formatJPEG    = "jpeg"
	formatPNG     = "png"
	formatQOI     = "qoi"
	formatGIF     = "gif"
	formatBMP     = "bmp"
	formatWebP    = "webp"
	formatTIFF    = "tiff"
	formatICO     = "ico"
	formatUnknown = "unknown"
)

// DetectFormat sniffs the leading bytes of data and returns the image format.
// It is used for diagnostics only; decoders do their own sniffing.
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return formatUnknown
	}
	switch {
	// JPEG: FF D8 FF
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return formatJPEG
	// PNG: 89 50 4E 47
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return formatPNG
	case bytes.HasPrefix(data, []byte("qoif")):
		return formatQOI
	case bytes.HasPrefix(data, []byte("GIF8")):
		return formatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return formatBMP
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return formatTIFF
	// ICO: reserved 0, type 1
	case data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == 0:
		return formatICO
	}
	// WebP: RIFF....WEBP
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return formatWebP
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/webp":
		return formatWebP
	case "image/gif":
		return formatGIF
	case "image/bmp":
		return formatBMP
	}
	return formatUnknown
}

// BytesReader creates an io.Reader backed by b without allocation.
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
