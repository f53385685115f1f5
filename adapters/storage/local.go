// Package storage provides StorageAdapter implementations.
package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// Local writes files through an afero filesystem. Each Put writes a
// temporary sibling and renames it over the target, so a failed save never
// leaves a truncated image behind.
type Local struct {
	fs          afero.Fs
	permissions os.FileMode
}

// NewLocal creates a Local storage adapter on fsys.
func NewLocal(fsys afero.Fs, perm os.FileMode) *Local {
	if perm == 0 {
		perm = 0o644
	}
	return &Local{fs: fsys, permissions: perm}
}

func (l *Local) Put(path string, r io.Reader) error {
	path = filepath.Clean(path)
	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.mkdir", err)
	}

	tmp := path + ".part"
	f, err := l.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.open", err)
	}
	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		_ = l.fs.Remove(tmp)
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.copy", err)
	}
	if err = f.Close(); err != nil {
		_ = l.fs.Remove(tmp)
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.close", err)
	}
	if err = l.fs.Rename(tmp, path); err != nil {
		_ = l.fs.Remove(tmp)
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.rename", err)
	}
	return nil
}

// Exists reports whether path is present.
func (l *Local) Exists(path string) (bool, error) {
	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CategoryStorage, "local.exists", err)
	}
	return ok, nil
}

var _ core.StorageAdapter = (*Local)(nil)
