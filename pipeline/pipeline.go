// Package pipeline runs the ordered decode chain: fast decoder by extension,
// generic RGB, generic RGBA, then the placeholder asset.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// stageRead is the pseudo-stage reported to hooks for the file read.
const stageRead = "read"

// StageFailure is one recoverable failure recorded while decoding.
type StageFailure struct {
	Stage string
	Path  string
	Err   error
}

// Reason returns the decode reason sentinel carried by Err.
func (f StageFailure) Reason() error { return apperrors.Reason(f.Err) }

// Result describes how an image was obtained.
type Result struct {
	Image core.DecodedImage

	// Path is the file the image was decoded from; the placeholder path
	// when Placeholder is true.
	Path        string
	Stage       string
	Placeholder bool
	Failures    []StageFailure
}

// Chain executes its strategies in order until one succeeds. The read path is
// synchronous; a decoder that hangs blocks the caller.
type Chain struct {
	fs      afero.Fs
	cfg     config.Config
	stages  []core.Strategy
	hooks   []core.Hook
	logger  core.Logger
	metrics core.MetricsCollector
}

// New returns a Chain reading from fsys. The placeholder and read limits come
// from cfg.
func New(fsys afero.Fs, cfg config.Config, stages ...core.Strategy) *Chain {
	return &Chain{fs: fsys, cfg: cfg, stages: stages, logger: core.NopLogger{}}
}

// Use appends stages. Returns the same Chain for chaining.
func (c *Chain) Use(s ...core.Strategy) *Chain {
	c.stages = append(c.stages, s...)
	return c
}

// AddHook registers an observer.
func (c *Chain) AddHook(h core.Hook) *Chain {
	c.hooks = append(c.hooks, h)
	return c
}

// SetLogger attaches a structured logger.
func (c *Chain) SetLogger(l core.Logger) *Chain {
	if l == nil {
		l = core.NopLogger{}
	}
	c.logger = l
	return c
}

// SetMetrics attaches a collector for read throughput and placeholder use.
// Per-stage timings are reported by hooks.MetricsHook.
func (c *Chain) SetMetrics(m core.MetricsCollector) *Chain {
	c.metrics = m
	return c
}

// Stages returns the stage names in evaluation order.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Decode returns the image at path, or the placeholder when no stage can
// decode it. The only error it returns is *apperrors.FatalDecodeError.
func (c *Chain) Decode(path string) (core.DecodedImage, error) {
	res, err := c.DecodeWithReport(path)
	return res.Image, err
}

// DecodeWithReport is Decode plus the stage that succeeded and every
// failure recorded on the way.
func (c *Chain) DecodeWithReport(path string) (Result, error) {
	res := Result{Path: path}
	if img, stage, ok := c.attempt(path, &res.Failures); ok {
		res.Image, res.Stage = img, stage
		return res, nil
	}

	placeholder := c.cfg.PlaceholderPath()
	if filepath.Clean(path) == filepath.Clean(placeholder) {
		return res, c.fatal(path, placeholder, res.Failures)
	}
	c.logger.Warn("decode.placeholder",
		"path", path,
		"placeholder", placeholder,
		"failures", len(res.Failures),
	)
	if c.metrics != nil {
		c.metrics.RecordPlaceholder()
	}
	res.Placeholder = true
	res.Path = placeholder

	// same stages, one level deep; the placeholder has no fallback of its own
	if img, stage, ok := c.attempt(placeholder, &res.Failures); ok {
		res.Image, res.Stage = img, stage
		return res, nil
	}

	return res, c.fatal(path, placeholder, res.Failures)
}

func (c *Chain) fatal(path, placeholder string, failures []StageFailure) error {
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f.Err
	}
	fatal := &apperrors.FatalDecodeError{Path: path, Placeholder: placeholder, Failures: errs}
	c.logger.Error("decode.fatal", "path", path, "placeholder", placeholder, "error", fatal.Error())
	return fatal
}

// attempt reads path once and offers the bytes to each stage in turn.
func (c *Chain) attempt(path string, failures *[]StageFailure) (core.DecodedImage, string, bool) {
	c.before(stageRead, path)
	start := time.Now()
	data, err := utils.ReadFile(c.fs, path, c.cfg.MaxImageBytes, c.cfg.ChunkSize)
	if err != nil {
		err = apperrors.Decode(stageRead, apperrors.ErrIO, err)
		c.after(stageRead, path, nil, time.Since(start), err)
		c.fail(failures, stageRead, path, err)
		return core.DecodedImage{}, "", false
	}
	c.after(stageRead, path, nil, time.Since(start), nil)
	if c.metrics != nil {
		c.metrics.RecordThroughput(int64(len(data)))
	}
	c.logger.Debug("decode.read", "path", path, "bytes", len(data), "format", utils.DetectFormat(data))

	for _, s := range c.stages {
		img, err := c.runStage(s, path, data)
		if err == nil {
			c.logger.Debug("decode.done", "path", path, "stage", s.Name(), "image", img.String())
			return img, s.Name(), true
		}
		c.fail(failures, s.Name(), path, err)
	}
	return core.DecodedImage{}, "", false
}

func (c *Chain) runStage(s core.Strategy, path string, data []byte) (core.DecodedImage, error) {
	name := s.Name()
	c.before(name, path)
	start := time.Now()
	img, err := decodeWith(s, path, data)
	elapsed := time.Since(start)
	if err != nil {
		c.after(name, path, nil, elapsed, err)
		return core.DecodedImage{}, err
	}
	c.after(name, path, &img, elapsed, nil)
	return img, nil
}

// decodeWith runs one strategy and normalizes its output. A panicking
// decoder counts as corrupt data.
func decodeWith(s core.Strategy, path string, data []byte) (img core.DecodedImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = core.DecodedImage{}
			err = apperrors.Decode(s.Name(), apperrors.ErrCorruptData, fmt.Errorf("decoder panic: %v", r))
		}
	}()

	raw, err := s.Decode(path, data)
	if err != nil {
		return core.DecodedImage{}, err
	}
	return core.Normalize(raw.Width, raw.Height, raw.Channels, raw.Pix)
}

func (c *Chain) fail(failures *[]StageFailure, stage, path string, err error) {
	*failures = append(*failures, StageFailure{Stage: stage, Path: path, Err: err})
	reason := "unknown"
	if r := apperrors.Reason(err); r != nil {
		reason = r.Error()
	}
	c.logger.Warn("decode.stage.failed",
		"stage", stage,
		"path", path,
		"reason", reason,
		"error", err.Error(),
	)
}

func (c *Chain) before(stage, path string) {
	for _, h := range c.hooks {
		h.BeforeStage(stage, path)
	}
}

func (c *Chain) after(stage, path string, img *core.DecodedImage, d time.Duration, err error) {
	for _, h := range c.hooks {
		h.AfterStage(stage, path, img, d, err)
	}
}
