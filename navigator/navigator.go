// Package navigator steps through the supported images of a directory and
// owns the viewer state the renderer polls.
package navigator

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// Loader produces the pixels for a path. *pipeline.Chain satisfies it.
type Loader interface {
	Decode(path string) (core.DecodedImage, error)
}

// Navigator is not safe for concurrent use; it is driven from the UI thread.
type Navigator struct {
	fs       afero.Fs
	resolver core.OrientationResolver
	loader   Loader
	exts     map[string]struct{}
	logger   core.Logger

	state core.ViewerState
}

// New returns an inactive Navigator. exts are matched case-insensitively,
// with or without a leading dot.
func New(fsys afero.Fs, resolver core.OrientationResolver, loader Loader, exts []string, l core.Logger) *Navigator {
	if l == nil {
		l = core.NopLogger{}
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.TrimPrefix(strings.ToLower(e), ".")] = struct{}{}
	}
	return &Navigator{fs: fsys, resolver: resolver, loader: loader, exts: set, logger: l}
}

// State returns a copy of the current viewer state.
func (n *Navigator) State() core.ViewerState { return n.state }

// Open makes path current and activates navigation. The image is marked
// pending for the renderer.
func (n *Navigator) Open(path string) {
	n.state.Active = true
	n.moveTo(filepath.Clean(path))
}

// Close deactivates navigation; Next and Previous become no-ops.
func (n *Navigator) Close() { n.state.Active = false }

// Next moves to the following supported file in path order. It reports
// whether the current path changed. There is no wraparound.
func (n *Navigator) Next() bool { return n.step(false) }

// Previous moves to the preceding supported file in path order.
func (n *Navigator) Previous() bool { return n.step(true) }

// Load decodes the current path. On success it clears ReloadPending, which
// hands the image to the caller.
func (n *Navigator) Load() (core.DecodedImage, error) {
	img, err := n.loader.Decode(n.state.CurrentPath)
	if err != nil {
		return core.DecodedImage{}, err
	}
	n.state.ReloadPending = false
	return img, nil
}

// Acknowledge clears ReloadPending for renderers that decode on their own.
func (n *Navigator) Acknowledge() { n.state.ReloadPending = false }

// RotateClockwise turns the current image a quarter turn clockwise.
func (n *Navigator) RotateClockwise() { n.state.Orientation = n.state.Orientation.Clockwise() }

// RotateAnticlockwise turns the current image a quarter turn anticlockwise.
func (n *Navigator) RotateAnticlockwise() {
	n.state.Orientation = n.state.Orientation.Anticlockwise()
}

// Transform returns the per-frame matrix for the current orientation.
func (n *Navigator) Transform(device, image core.Size) core.RotationMatrix {
	return n.state.Orientation.Matrix(device, image)
}

func (n *Navigator) step(reverse bool) bool {
	if n.state.ReloadPending || !n.state.Active {
		return false
	}

	paths, err := n.siblings()
	if err != nil {
		n.logger.Warn("navigate.failed", "dir", n.state.Directory, "error", err.Error())
		return false
	}
	if reverse {
		slices.Reverse(paths)
	}

	i := slices.Index(paths, n.state.CurrentPath)
	if i < 0 || i+1 >= len(paths) {
		n.logger.Debug("navigate.boundary", "path", n.state.CurrentPath, "reverse", reverse)
		return false
	}
	n.moveTo(paths[i+1])
	return true
}

// siblings lists the supported files next to the current path, sorted by
// full path. The directory is re-read on every call.
func (n *Navigator) siblings() ([]string, error) {
	entries, err := afero.ReadDir(n.fs, n.state.Directory)
	if err != nil {
		return nil, apperrors.New(apperrors.CategoryNavigation, "navigator.list",
			fmt.Errorf("%w: %w", apperrors.ErrIO, err))
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := n.exts[core.Ext(e.Name())]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(n.state.Directory, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func (n *Navigator) moveTo(path string) {
	n.state.CurrentPath = path
	n.state.Directory = filepath.Dir(path)
	n.state.Orientation = n.resolver.Resolve(path)
	n.state.ReloadPending = true
	n.logger.Info("navigate", "path", path, "orientation", n.state.Orientation.String())
}
