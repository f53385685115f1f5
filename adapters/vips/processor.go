//go:build vips

// Package vips provides libvips-backed generic decode strategies. Build with
// -tags vips; libvips must be installed.
package vips

import (
	"fmt"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	MaxCacheSize int
	MaxWorkers   int
	ReportLeaks  bool
}

// Backend owns the libvips runtime.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// Strategies returns RGB then RGBA sniffing strategies, a drop-in
// replacement for the generic stages.
func (b *Backend) Strategies() []core.Strategy {
	return []core.Strategy{&Strategy{Mode: core.RGB}, &Strategy{Mode: core.RGBA}}
}

// ─── Strategy ─────────────────────────────────────────────────────────────────

// Strategy decodes anything libvips can sniff to 8-bit sRGB with Mode
// channels. Like the pure-Go generic stage, RGB mode refuses images that
// carry alpha. EXIF orientation is left untouched.
type Strategy struct {
	Mode core.Channels
}

func (s *Strategy) Name() string { return "vips." + s.Mode.String() }

func (s *Strategy) Decode(_ string, data []byte) (core.Raw, error) {
	ref, err := govips.NewImageFromBuffer(data)
	if err != nil {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrCorruptData, err)
	}
	defer ref.Close()

	if s.Mode == core.RGB && ref.HasAlpha() {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedColorMode,
			fmt.Errorf("%d bands with alpha", ref.Bands()))
	}
	if err := ref.ToColorSpace(govips.InterpretationSRGB); err != nil {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedColorMode, err)
	}
	if s.Mode == core.RGBA && !ref.HasAlpha() {
		if err := ref.AddAlpha(); err != nil {
			return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedColorMode, err)
		}
	}
	if ref.BandFormat() != govips.BandFormatUchar {
		if err := ref.Cast(govips.BandFormatUchar); err != nil {
			return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedColorMode, err)
		}
	}
	if ref.Bands() != int(s.Mode) {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrUnsupportedColorMode,
			fmt.Errorf("%d bands after conversion", ref.Bands()))
	}

	pix, err := ref.ToBytes()
	if err != nil {
		return core.Raw{}, apperrors.Decode(s.Name(), apperrors.ErrCorruptData, err)
	}
	return core.Raw{
		Width:    uint32(ref.Width()),
		Height:   uint32(ref.Height()),
		Channels: s.Mode,
		Pix:      pix,
	}, nil
}

var _ core.Strategy = (*Strategy)(nil)
