package core

import "fmt"

// Orientation is the clockwise rotation needed to display an image upright.
// Mirrored EXIF orientations are not modelled.
type Orientation uint8

const (
	Up Orientation = iota
	Right
	Down
	Left
)

func (o Orientation) String() string {
	switch o {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("orientation(%d)", uint8(o))
}

// Clockwise returns the orientation a quarter turn clockwise from o.
func (o Orientation) Clockwise() Orientation { return (o + 1) % 4 }

// Anticlockwise is the inverse of Clockwise.
func (o Orientation) Anticlockwise() Orientation { return (o + 3) % 4 }

// OrientationFromEXIF maps the EXIF orientation code. 1, 6, 3 and 8 are the
// pure rotations; every other code, mirrored ones included, is Up.
func OrientationFromEXIF(code int) Orientation {
	switch code {
	case 6:
		return Right
	case 3:
		return Down
	case 8:
		return Left
	}
	return Up
}

// RotationMatrix is applied to the unit quad [-1,1]² in device-normalized
// coordinates. Row-major: m[row][col].
type RotationMatrix [2][2]float32

// Matrix returns the transform that draws an image of size img upright and
// letterboxed inside a device of size dev. Both sizes must be non-zero.
func (o Orientation) Matrix(dev, img Size) RotationMatrix {
	dw, dh := float64(dev.W), float64(dev.H)
	iw, ih := float64(img.W), float64(img.H)

	var t, s float64
	if o == Right || o == Left {
		t = (dw * iw) / (dh * ih)
	} else {
		t = (dh * iw) / (dw * ih)
	}
	s = 1 / t
	if t < 1 {
		s = 1
	} else {
		t = 1
	}

	ft, fs := float32(t), float32(s)
	switch o {
	case Right:
		return RotationMatrix{{0, -ft}, {-fs, 0}}
	case Down:
		return RotationMatrix{{-ft, 0}, {0, fs}}
	case Left:
		return RotationMatrix{{0, ft}, {fs, 0}}
	default:
		return RotationMatrix{{ft, 0}, {0, -fs}}
	}
}

// Transform is Matrix in free-function form, for renderers that hold the
// orientation separately.
func Transform(dev, img Size, o Orientation) RotationMatrix { return o.Matrix(dev, img) }
