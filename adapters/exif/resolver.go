// Package exif resolves the display orientation of an image file from its
// embedded EXIF metadata.
package exif

import (
	"errors"
	"fmt"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// ErrNoOrientation is returned by Code when the EXIF block has no usable
// orientation tag.
var ErrNoOrientation = errors.New("no orientation tag")

// Resolver reads EXIF orientation through goexif. It satisfies
// core.OrientationResolver.
type Resolver struct {
	fs     afero.Fs
	logger core.Logger
}

// NewResolver returns a Resolver reading from fsys. A nil logger discards
// diagnostics.
func NewResolver(fsys afero.Fs, l core.Logger) *Resolver {
	if l == nil {
		l = core.NopLogger{}
	}
	return &Resolver{fs: fsys, logger: l}
}

// Resolve maps the orientation tag of path to an Orientation. Missing files,
// missing or corrupt metadata and mirrored codes all give Up.
func (r *Resolver) Resolve(path string) core.Orientation {
	code, err := r.Code(path)
	if err != nil {
		r.logger.Warn("orientation.unresolved", "path", path, "error", err.Error())
		return core.Up
	}
	o := core.OrientationFromEXIF(code)
	r.logger.Debug("orientation.resolved", "path", path, "code", code, "orientation", o.String())
	return o
}

// Code returns the raw EXIF orientation code (1-8) of path.
func (r *Resolver) Code(path string) (code int, err error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CategoryMetadata, "exif.open", err)
	}
	defer f.Close()

	defer func() {
		if p := recover(); p != nil {
			code, err = 0, apperrors.New(apperrors.CategoryMetadata, "exif.decode", fmt.Errorf("panic: %v", p))
		}
	}()

	// goexif returns a usable x alongside non-critical errors
	x, err := goexif.Decode(f)
	if x == nil || (err != nil && goexif.IsCriticalError(err)) {
		return 0, apperrors.New(apperrors.CategoryMetadata, "exif.decode", errOrMissing(err))
	}
	tag, err := x.Get(goexif.Orientation)
	if err != nil || tag == nil || tag.Count == 0 {
		return 0, apperrors.New(apperrors.CategoryMetadata, "exif.orientation", errOrMissing(err))
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CategoryMetadata, "exif.orientation", err)
	}
	return v, nil
}

func errOrMissing(err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoOrientation, err)
	}
	return ErrNoOrientation
}

var _ core.OrientationResolver = (*Resolver)(nil)
