package pipeline

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/adapters/decoder"
	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// ── Fast path ─────────────────────────────────────────────────────────────────

// FastStage dispatches on the lowercase file extension to a registered
// format-specific decoder.
type FastStage struct {
	Registry core.Registry
}

func (s *FastStage) Name() string { return "fast" }

func (s *FastStage) Decode(path string, data []byte) (core.Raw, error) {
	ext := core.Ext(path)
	dec, ok := s.Registry.DecoderFor(ext)
	if !ok {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedExtension, fmt.Errorf("%q", ext))
	}
	return dec.Decode(data)
}

// ── Defaults ──────────────────────────────────────────────────────────────────

// RegisterDecoders installs the built-in fast decoders on reg.
func RegisterDecoders(reg core.Registry) {
	jpeg := decoder.NewJPEG()
	for _, ext := range []string{"jpg", "jpeg", "jfif"} {
		reg.RegisterDecoder(ext, jpeg)
	}
	reg.RegisterDecoder("png", decoder.NewPNG())
	reg.RegisterDecoder("qoi", decoder.NewQOI())
}

// DefaultStages returns fast, generic RGB and generic RGBA, in that order.
func DefaultStages(reg core.Registry) []core.Strategy {
	return []core.Strategy{
		&FastStage{Registry: reg},
		decoder.NewGeneric(core.RGB),
		decoder.NewGeneric(core.RGBA),
	}
}

// ── Icon ──────────────────────────────────────────────────────────────────────

// LoadIcon decodes the window icon at cfg.IconPath() as RGBA. Unlike Decode
// it has no placeholder; callers run without an icon on error.
func LoadIcon(fsys afero.Fs, cfg config.Config) (core.DecodedImage, error) {
	path := cfg.IconPath()
	data, err := utils.ReadFile(fsys, path, cfg.MaxImageBytes, cfg.ChunkSize)
	if err != nil {
		return core.DecodedImage{}, apperrors.Decode("icon.read", apperrors.ErrIO, err)
	}
	return decodeWith(decoder.NewGeneric(core.RGBA), path, data)
}

var (
	_ core.Strategy = (*FastStage)(nil)
	_ core.Strategy = (*decoder.Generic)(nil)
)
