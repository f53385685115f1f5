package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	apperrors "github.com/Skryldev/image-viewer/errors"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestPutCreatesParents(t *testing.T) {
	fsys := afero.NewMemMapFs()
	l := NewLocal(fsys, 0)

	if err := l.Put("/out/nested/a.png", strings.NewReader("data")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := afero.ReadFile(fsys, "/out/nested/a.png")
	if err != nil || string(got) != "data" {
		t.Fatalf("read back %q, %v", got, err)
	}
	if ok, _ := l.Exists("/out/nested/a.png.part"); ok {
		t.Error("temporary file left behind")
	}
}

func TestPutOverwrites(t *testing.T) {
	fsys := afero.NewMemMapFs()
	l := NewLocal(fsys, 0o600)
	if err := l.Put("/a.qoi", strings.NewReader("first, longer")); err != nil {
		t.Fatal(err)
	}
	if err := l.Put("/a.qoi", strings.NewReader("second")); err != nil {
		t.Fatal(err)
	}
	got, _ := afero.ReadFile(fsys, "/a.qoi")
	if string(got) != "second" {
		t.Errorf("content = %q", got)
	}
}

func TestPutFailureKeepsOriginal(t *testing.T) {
	fsys := afero.NewMemMapFs()
	l := NewLocal(fsys, 0)
	if err := afero.WriteFile(fsys, "/a.png", []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := l.Put("/a.png", failingReader{})
	if !apperrors.IsCategory(err, apperrors.CategoryStorage) {
		t.Fatalf("got %v, want storage error", err)
	}
	got, _ := afero.ReadFile(fsys, "/a.png")
	if string(got) != "original" {
		t.Errorf("content = %q", got)
	}
	if ok, _ := l.Exists("/a.png.part"); ok {
		t.Error("temporary file left behind")
	}
}

func TestPutReadOnly(t *testing.T) {
	l := NewLocal(afero.NewReadOnlyFs(afero.NewMemMapFs()), 0)
	if err := l.Put("/x/a.png", strings.NewReader("data")); !apperrors.IsCategory(err, apperrors.CategoryStorage) {
		t.Errorf("got %v", err)
	}
}
