package saver

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-viewer/adapters/storage"
	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

func newTestPool(t *testing.T, cfg config.SaveConfig) (*Pool, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	reg := core.NewRegistry()
	RegisterEncoders(reg, 90)
	return New(cfg, reg, storage.NewLocal(fsys, 0)), fsys
}

func testImage(t *testing.T) core.DecodedImage {
	t.Helper()
	img, err := core.Normalize(4, 2, core.RGBA, bytes.Repeat([]byte{10, 20, 30, 255}, 8))
	require.NoError(t, err)
	return img
}

func TestSaveWritesByExtension(t *testing.T) {
	p, fsys := newTestPool(t, config.SaveConfig{Workers: 2, QueueSize: 4})
	p.Start()
	defer p.Stop()

	results := make(chan Result, 4)
	paths := []string{"/out/a.png", "/out/b.JPG", "/out/c.qoi", "/out/d.jfif"}
	ids := make(map[uuid.UUID]bool)
	for _, path := range paths {
		id, err := p.Save(testImage(t), path, results)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)
		ids[id] = true
	}
	for range paths {
		r := <-results
		require.NoError(t, r.Err, r.Path)
		require.True(t, ids[r.JobID])
		require.Positive(t, r.Bytes)
		ok, err := afero.Exists(fsys, r.Path)
		require.NoError(t, err)
		require.True(t, ok, r.Path)
	}

	data, err := afero.ReadFile(fsys, "/out/a.png")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
}

func TestUnsupportedExtension(t *testing.T) {
	p, _ := newTestPool(t, config.SaveConfig{Workers: 1, QueueSize: 1})
	p.Start()
	defer p.Stop()

	results := make(chan Result, 1)
	_, err := p.Save(testImage(t), "/out/a.tga", results)
	require.NoError(t, err)

	r := <-results
	require.True(t, errors.Is(r.Err, apperrors.ErrUnsupportedFormat), "got %v", r.Err)
	saved, failed := p.Stats()
	require.Zero(t, saved)
	require.EqualValues(t, 1, failed)
}

func TestSubmitQueueFull(t *testing.T) {
	p, _ := newTestPool(t, config.SaveConfig{Workers: 1, QueueSize: 1})

	_, err := p.Save(testImage(t), "/out/a.png", nil)
	require.NoError(t, err)
	_, err = p.Save(testImage(t), "/out/b.png", nil)
	require.True(t, errors.Is(err, apperrors.ErrWorkerPoolFull), "got %v", err)
	p.Stop()
}

func TestStopDrainsQueue(t *testing.T) {
	p, fsys := newTestPool(t, config.SaveConfig{Workers: 1, QueueSize: 3})
	for _, path := range []string{"/q/1.png", "/q/2.png", "/q/3.qoi"} {
		_, err := p.Save(testImage(t), path, nil)
		require.NoError(t, err)
	}

	p.Stop()
	p.Stop()

	for _, path := range []string{"/q/1.png", "/q/2.png", "/q/3.qoi"} {
		ok, _ := afero.Exists(fsys, path)
		require.True(t, ok, path)
	}
	saved, _ := p.Stats()
	require.EqualValues(t, 3, saved)

	_, err := p.Save(testImage(t), "/q/4.png", nil)
	require.True(t, errors.Is(err, apperrors.ErrPoolStopped), "got %v", err)
}

func TestSubmitKeepsCallerID(t *testing.T) {
	p, _ := newTestPool(t, config.SaveConfig{Workers: 1, QueueSize: 1})
	defer p.Stop()

	want := uuid.New()
	got, err := p.Submit(Job{ID: want, Image: testImage(t), Path: "/a.png"})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveSyncEmptyImage(t *testing.T) {
	p, _ := newTestPool(t, config.SaveConfig{})
	_, err := p.SaveSync(core.DecodedImage{}, "/a.png")
	require.True(t, errors.Is(err, apperrors.ErrEmptyInput), "got %v", err)
}
