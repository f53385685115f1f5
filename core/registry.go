package core

import (
	"path/filepath"
	"strings"
	"sync"
)

// ── Registry ──────────────────────────────────────────────────────────────────

// DefaultRegistry is a thread-safe implementation of Registry. Keys are
// normalized with Ext, so ".JPG", "JPG" and "jpg" are the same entry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	decoders map[string]FastDecoder
	encoders map[string]Encoder
}

// NewRegistry returns an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		decoders: make(map[string]FastDecoder),
		encoders: make(map[string]Encoder),
	}
}

func (r *DefaultRegistry) RegisterDecoder(ext string, d FastDecoder) {
	r.mu.Lock()
	r.decoders[normExt(ext)] = d
	r.mu.Unlock()
}

func (r *DefaultRegistry) RegisterEncoder(ext string, e Encoder) {
	r.mu.Lock()
	r.encoders[normExt(ext)] = e
	r.mu.Unlock()
}

func (r *DefaultRegistry) DecoderFor(ext string) (FastDecoder, bool) {
	r.mu.RLock()
	d, ok := r.decoders[normExt(ext)]
	r.mu.RUnlock()
	return d, ok
}

func (r *DefaultRegistry) EncoderFor(ext string) (Encoder, bool) {
	r.mu.RLock()
	e, ok := r.encoders[normExt(ext)]
	r.mu.RUnlock()
	return e, ok
}

// Ext returns the lowercase extension of path without the leading dot, or
// "" when there is none.
func Ext(path string) string {
	return normExt(filepath.Ext(path))
}

func normExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
