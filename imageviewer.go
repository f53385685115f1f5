// Package imageviewer wires the image acquisition pipeline of a picture
// viewer: the decode chain, EXIF orientation, directory navigation and the
// off-thread save path.
package imageviewer

import (
	"os"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/adapters/exif"
	"github.com/Skryldev/image-viewer/adapters/storage"
	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/hooks"
	"github.com/Skryldev/image-viewer/navigator"
	"github.com/Skryldev/image-viewer/pipeline"
	"github.com/Skryldev/image-viewer/saver"
)

// Re-export channel layouts for convenience.
const (
	RGB  = core.RGB
	RGBA = core.RGBA
)

// DefaultConfig returns the production defaults. AssetRoot must still be set.
func DefaultConfig() config.Config { return config.Default() }

// Option customises New.
type Option func(*options)

type options struct {
	fs         afero.Fs
	logger     core.Logger
	hooks      []core.Hook
	strategies []core.Strategy
}

// WithFs reads, lists and saves through fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option { return func(o *options) { o.fs = fsys } }

// WithLogger replaces the slog text logger built from Config.LogLevel.
func WithLogger(l core.Logger) Option { return func(o *options) { o.logger = l } }

// WithHook registers an observer for decode stage events.
func WithHook(h core.Hook) Option { return func(o *options) { o.hooks = append(o.hooks, h) } }

// WithStrategies replaces the generic stages that follow the fast path.
func WithStrategies(s ...core.Strategy) Option {
	return func(o *options) { o.strategies = append(o.strategies, s...) }
}

// Viewer is the primary entry point. Navigation and decoding are meant to be
// driven from a single UI goroutine; saving is safe from any goroutine.
type Viewer struct {
	cfg     config.Config
	fs      afero.Fs
	logger  core.Logger
	reg     *core.DefaultRegistry
	chain   *pipeline.Chain
	nav     *navigator.Navigator
	pool    *saver.Pool
	metrics *hooks.InMemoryMetrics

	// size of the last image handed out by Load, for Transform
	lastSize core.Size
}

// New creates a fully wired Viewer with the built-in JPEG, PNG and QOI
// decoders and encoders registered.
func New(cfg config.Config, opts ...Option) (*Viewer, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "viewer.new", err)
	}
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hooks.NewLogger(cfg.LogLevel, os.Stderr)
	}

	reg := core.NewRegistry()
	pipeline.RegisterDecoders(reg)
	saver.RegisterEncoders(reg, cfg.Save.JPEGQuality)

	metrics := hooks.NewInMemoryMetrics()
	chain := pipeline.New(o.fs, cfg)
	if len(o.strategies) > 0 {
		chain.Use(&pipeline.FastStage{Registry: reg}).Use(o.strategies...)
	} else {
		chain.Use(pipeline.DefaultStages(reg)...)
	}
	chain.
		SetLogger(o.logger).
		SetMetrics(metrics).
		AddHook(hooks.NewLoggingHook(o.logger)).
		AddHook(hooks.NewMetricsHook(metrics))
	for _, h := range o.hooks {
		chain.AddHook(h)
	}

	resolver := exif.NewResolver(o.fs, o.logger)
	nav := navigator.New(o.fs, resolver, chain, cfg.NavigableExtensions, o.logger)

	pool := saver.New(cfg.Save, reg, storage.NewLocal(o.fs, 0))
	pool.SetLogger(o.logger)

	return &Viewer{
		cfg:     cfg,
		fs:      o.fs,
		logger:  o.logger,
		reg:     reg,
		chain:   chain,
		nav:     nav,
		pool:    pool,
		metrics: metrics,
	}, nil
}

// Start starts the save workers.
func (v *Viewer) Start() { v.pool.Start() }

// Close finishes queued saves and deactivates navigation.
func (v *Viewer) Close() {
	v.nav.Close()
	v.pool.Stop()
}

// ── Decoding ──────────────────────────────────────────────────────────────────

// Decode runs the decode chain on path. The only error is
// *errors.FatalDecodeError, raised when the placeholder itself is unusable.
func (v *Viewer) Decode(path string) (core.DecodedImage, error) { return v.chain.Decode(path) }

// DecodeWithReport is Decode plus per-stage diagnostics.
func (v *Viewer) DecodeWithReport(path string) (pipeline.Result, error) {
	return v.chain.DecodeWithReport(path)
}

// Icon decodes the window icon as RGBA.
func (v *Viewer) Icon() (core.DecodedImage, error) { return pipeline.LoadIcon(v.fs, v.cfg) }

// ── Navigation ────────────────────────────────────────────────────────────────

// Open makes path the current image and marks it pending.
func (v *Viewer) Open(path string) { v.nav.Open(path) }

// Next moves to the next supported file in the directory.
func (v *Viewer) Next() bool { return v.nav.Next() }

// Previous moves to the previous supported file in the directory.
func (v *Viewer) Previous() bool { return v.nav.Previous() }

// Load decodes the current image and clears ReloadPending.
func (v *Viewer) Load() (core.DecodedImage, error) {
	img, err := v.nav.Load()
	if err != nil {
		return core.DecodedImage{}, err
	}
	v.lastSize = img.Size()
	return img, nil
}

// RotateClockwise turns the current image a quarter turn clockwise.
func (v *Viewer) RotateClockwise() { v.nav.RotateClockwise() }

// RotateAnticlockwise turns the current image a quarter turn anticlockwise.
func (v *Viewer) RotateAnticlockwise() { v.nav.RotateAnticlockwise() }

// State returns a copy of the viewer state.
func (v *Viewer) State() core.ViewerState { return v.nav.State() }

// Transform returns this frame's matrix for the last loaded image. Before
// the first Load the image is taken to fill the device.
func (v *Viewer) Transform(device core.Size) core.RotationMatrix {
	img := v.lastSize
	if img.W == 0 || img.H == 0 {
		img = device
	}
	return v.nav.Transform(device, img)
}

// ── Saving ────────────────────────────────────────────────────────────────────

// Save queues img for writing to path; the format follows the extension.
// resultCh may be nil.
func (v *Viewer) Save(img core.DecodedImage, path string, resultCh chan<- saver.Result) error {
	_, err := v.pool.Save(img, path, resultCh)
	return err
}

// ── Stats ─────────────────────────────────────────────────────────────────────

// Metrics returns a snapshot of decode-stage metrics.
func (v *Viewer) Metrics() hooks.MetricsSnapshot { return v.metrics.Snapshot() }

// SaveStats returns the number of completed and failed saves.
func (v *Viewer) SaveStats() (saved, failed int64) { return v.pool.Stats() }
