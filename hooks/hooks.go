// Package hooks provides production-ready Hook and Logger implementations.
package hooks

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

// NewLogger returns a text logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels mean info.
func NewLogger(level string, w io.Writer) *SlogLogger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return NewSlogLogger(slog.New(h))
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, toAttrs(fields)...)
}

func toAttrs(fields []interface{}) []any { return fields }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each decode stage at Debug.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStage(stage, path string) {
	h.logger.Debug("decode.stage.start", "stage", stage, "path", path)
}

func (h *LoggingHook) AfterStage(stage, path string, img *core.DecodedImage, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decode.stage.error",
			"stage", stage,
			"path", path,
			"duration_ms", d.Milliseconds(),
			"reason", reasonOf(err),
		)
		return
	}
	out := "bytes"
	if img != nil {
		out = img.String()
	}
	h.logger.Debug("decode.stage.done",
		"stage", stage,
		"path", path,
		"duration_ms", d.Milliseconds(),
		"output", out,
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics atomically; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64 // cumulative ms per stage
	stageCalls       map[string]int64 // call count per stage
	stageFailures    map[string]int64
	failureReasons   map[string]int64

	placeholders     int64
	totalThroughputB int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageFailures:    make(map[string]int64),
		failureReasons:   make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordStageTime(stage string, d interface{ Seconds() float64 }) {
	ms := int64(d.Seconds() * 1000)
	m.mu.Lock()
	m.stageDurationsMs[stage] += ms
	m.stageCalls[stage]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordFailure(stage string, reason string) {
	m.mu.Lock()
	m.stageFailures[stage]++
	m.failureReasons[reason]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordPlaceholder() {
	atomic.AddInt64(&m.placeholders, 1)
}

func (m *InMemoryMetrics) RecordThroughput(bytes int64) {
	atomic.AddInt64(&m.totalThroughputB, bytes)
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		StageDurationsMs: copyCounts(m.stageDurationsMs),
		StageCalls:       copyCounts(m.stageCalls),
		StageFailures:    copyCounts(m.stageFailures),
		FailureReasons:   copyCounts(m.failureReasons),
		Placeholders:     atomic.LoadInt64(&m.placeholders),
		TotalThroughputB: atomic.LoadInt64(&m.totalThroughputB),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageFailures    map[string]int64
	FailureReasons   map[string]int64 // keyed by decode reason
	Placeholders     int64
	TotalThroughputB int64
}

// ── Metrics hook ──────────────────────────────────────────────────────────────

// MetricsHook feeds stage events into a MetricsCollector.
type MetricsHook struct {
	collector core.MetricsCollector
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c core.MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeStage(string, string) {}

func (h *MetricsHook) AfterStage(stage, _ string, _ *core.DecodedImage, d time.Duration, err error) {
	h.collector.RecordStageTime(stage, d)
	if err != nil {
		h.collector.RecordFailure(stage, reasonOf(err))
	}
}

func reasonOf(err error) string {
	if r := apperrors.Reason(err); r != nil {
		return r.Error()
	}
	return "unknown"
}

var (
	_ core.Logger           = (*SlogLogger)(nil)
	_ core.Hook             = (*LoggingHook)(nil)
	_ core.Hook             = (*MetricsHook)(nil)
	_ core.MetricsCollector = (*InMemoryMetrics)(nil)
)
