package core

import (
	"errors"
	"testing"

	apperrors "github.com/Skryldev/image-viewer/errors"
)

func TestNormalizeExactLength(t *testing.T) {
	sizes := []Size{{1, 1}, {3, 2}, {17, 5}, {640, 480}}
	for _, sz := range sizes {
		for _, ch := range []Channels{RGB, RGBA} {
			pix := make([]byte, int(sz.W)*int(sz.H)*int(ch))
			img, err := Normalize(sz.W, sz.H, ch, pix)
			if err != nil {
				t.Fatalf("Normalize(%v, %s): %v", sz, ch, err)
			}
			if img.Size() != sz || img.Channels() != ch {
				t.Errorf("got %s, want %dx%d %s", img, sz.W, sz.H, ch)
			}
			if len(img.Pix()) != len(pix) {
				t.Errorf("pix length changed: %d -> %d", len(pix), len(img.Pix()))
			}
		}
	}
}

func TestNormalizeSizeMismatch(t *testing.T) {
	cases := []struct {
		w, h uint32
		ch   Channels
		n    int
	}{
		{2, 2, RGB, 11},
		{2, 2, RGB, 13},
		{2, 2, RGBA, 12},
		{4, 1, RGBA, 0},
		{0, 5, RGB, 1},
	}
	for _, tc := range cases {
		_, err := Normalize(tc.w, tc.h, tc.ch, make([]byte, tc.n))
		if !errors.Is(err, apperrors.ErrSizeMismatch) {
			t.Errorf("Normalize(%d,%d,%s,%d bytes) = %v, want size mismatch", tc.w, tc.h, tc.ch, tc.n, err)
		}
	}
}

func TestNormalizeRejectsChannelCount(t *testing.T) {
	_, err := Normalize(1, 1, Channels(1), []byte{0})
	if !errors.Is(err, apperrors.ErrUnsupportedColorMode) {
		t.Errorf("got %v, want unsupported color mode", err)
	}
}

func TestNormalizeHugeDimensionsDoNotOverflow(t *testing.T) {
	_, err := Normalize(1<<31, 1<<31, RGBA, make([]byte, 16))
	if !errors.Is(err, apperrors.ErrSizeMismatch) {
		t.Errorf("got %v, want size mismatch", err)
	}
}

func TestZeroValue(t *testing.T) {
	var d DecodedImage
	if !d.IsZero() {
		t.Error("zero DecodedImage should report IsZero")
	}
	img, _ := Normalize(1, 1, RGB, []byte{1, 2, 3})
	if img.IsZero() {
		t.Error("normalized image should not be zero")
	}
}
