// Package saver encodes decoded images and writes them off the UI thread.
package saver

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Skryldev/image-viewer/adapters/encoder"
	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// Job is one save request. ResultCh, when set, receives exactly one Result
// and must have room for it or a reader.
type Job struct {
	ID       uuid.UUID
	Image    core.DecodedImage
	Path     string
	ResultCh chan<- Result
}

// Result reports the outcome of a Job.
type Result struct {
	JobID uuid.UUID
	Path  string
	Bytes int64
	Took  time.Duration
	Err   error
}

// RegisterEncoders installs the built-in encoders on reg: jpg, jpeg and jfif
// as JPEG at quality, png, and qoi.
func RegisterEncoders(reg core.Registry, quality int) {
	jpeg := encoder.NewJPEG(quality)
	for _, ext := range []string{"jpg", "jpeg", "jfif"} {
		reg.RegisterEncoder(ext, jpeg)
	}
	reg.RegisterEncoder("png", encoder.NewPNG())
	reg.RegisterEncoder("qoi", encoder.NewQOI())
}

// Pool is a fixed set of workers draining a bounded queue. It is safe for
// concurrent use.
type Pool struct {
	registry core.Registry
	storage  core.StorageAdapter
	logger   core.Logger
	workers  int

	jobQueue  chan Job
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	mu      sync.RWMutex
	stopped bool

	savedCount int64
	errorCount int64
}

// New creates a Pool. Call Start before expecting progress and Stop when
// done; Stop waits for queued jobs.
func New(cfg config.SaveConfig, reg core.Registry, store core.StorageAdapter) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 8
	}
	return &Pool{
		registry: reg,
		storage:  store,
		logger:   core.NopLogger{},
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
	}
}

// SetLogger attaches a structured logger.
func (p *Pool) SetLogger(l core.Logger) {
	if l == nil {
		l = core.NopLogger{}
	}
	p.logger = l
}

// Start launches the workers. It is idempotent.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop rejects new jobs, finishes the queued ones and waits for the workers.
// It is idempotent.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.jobQueue)
		p.mu.Unlock()
	})
	p.Start() // drain even if the pool never started
	p.wg.Wait()
}

// Submit enqueues job without blocking and returns its ID. It fails with
// ErrWorkerPoolFull when the queue is full and ErrPoolStopped after Stop.
func (p *Pool) Submit(job Job) (uuid.UUID, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return uuid.Nil, apperrors.New(apperrors.CategoryInput, "save.submit", apperrors.ErrPoolStopped)
	}
	select {
	case p.jobQueue <- job:
		return job.ID, nil
	default:
		return uuid.Nil, apperrors.New(apperrors.CategoryInput, "save.submit", apperrors.ErrWorkerPoolFull)
	}
}

// Save enqueues img for writing to path and returns the job ID.
func (p *Pool) Save(img core.DecodedImage, path string, resultCh chan<- Result) (uuid.UUID, error) {
	return p.Submit(Job{Image: img, Path: path, ResultCh: resultCh})
}

// SaveSync encodes img by the extension of path and writes it on the
// calling goroutine. It returns the encoded size.
func (p *Pool) SaveSync(img core.DecodedImage, path string) (int64, error) {
	ext := core.Ext(path)
	enc, ok := p.registry.EncoderFor(ext)
	if !ok {
		return 0, apperrors.New(apperrors.CategoryEncode, "save.encode",
			fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, ext))
	}

	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := enc.Encode(buf, img); err != nil {
		return 0, err
	}
	n := int64(buf.Len())
	if err := p.storage.Put(path, buf); err != nil {
		return 0, err
	}
	return n, nil
}

// Stats returns the number of completed and failed saves.
func (p *Pool) Stats() (saved, failed int64) {
	return atomic.LoadInt64(&p.savedCount), atomic.LoadInt64(&p.errorCount)
}

// ── worker pool internals ──────────────────────────────────────────────────────

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobQueue {
		p.processJob(job)
	}
}

func (p *Pool) processJob(job Job) {
	start := time.Now()
	n, err := p.SaveSync(job.Image, job.Path)
	took := time.Since(start)

	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		p.logger.Error("save.failed", "job", job.ID.String(), "path", job.Path, "error", err.Error())
	} else {
		atomic.AddInt64(&p.savedCount, 1)
		p.logger.Info("save.done", "job", job.ID.String(), "path", job.Path, "bytes", n, "duration_ms", took.Milliseconds())
	}
	if job.ResultCh != nil {
		job.ResultCh <- Result{JobID: job.ID, Path: job.Path, Bytes: n, Took: took, Err: err}
	}
}
