package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryDecode     Category = "decode"
	CategoryMetadata   Category = "metadata"
	CategoryNavigation Category = "navigation"
	CategoryFatal      Category = "fatal"
	CategoryEncode     Category = "encode"
	CategoryStorage    Category = "storage"
	CategoryConfig     Category = "config"
	CategoryInput      Category = "input"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// Decode reasons. Every recoverable decode failure wraps exactly one of them.
var (
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrCorruptData          = errors.New("corrupt data")
	ErrUnsupportedColorMode = errors.New("unsupported color mode")
	ErrIO                   = errors.New("i/o error")
	ErrSizeMismatch         = errors.New("pixel buffer size mismatch")
)

var decodeReasons = []error{
	ErrUnsupportedExtension,
	ErrCorruptData,
	ErrUnsupportedColorMode,
	ErrIO,
	ErrSizeMismatch,
}

// Decode builds a CategoryDecode error carrying reason. cause may be nil.
func Decode(op string, reason, cause error) *ProcessingError {
	err := reason
	if cause != nil {
		err = fmt.Errorf("%w: %w", reason, cause)
	}
	return New(CategoryDecode, op, err)
}

// Reason returns the decode reason sentinel wrapped by err, or nil.
func Reason(err error) error {
	for _, r := range decodeReasons {
		if errors.Is(err, r) {
			return r
		}
	}
	return nil
}

// FatalDecodeError is returned when neither the requested file nor the
// placeholder asset could be decoded by any stage.
type FatalDecodeError struct {
	Path        string
	Placeholder string
	Failures    []error
}

func (e *FatalDecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] decode %s: placeholder %s failed", CategoryFatal, e.Path, e.Placeholder)
	for _, f := range e.Failures {
		b.WriteString("; ")
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *FatalDecodeError) Unwrap() []error { return e.Failures }

// IsFatal reports whether err is (or wraps) a FatalDecodeError.
func IsFatal(err error) bool {
	var fe *FatalDecodeError
	return errors.As(err, &fe)
}

// Sentinel errors for common failure modes.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrEmptyInput        = errors.New("empty input")
	ErrWorkerPoolFull    = errors.New("worker pool queue full")
	ErrPoolStopped       = errors.New("worker pool stopped")
)
