package core

import (
	"io"
	"time"
)

// Raw is decoder output before it has been through Normalize.
type Raw struct {
	Width    uint32
	Height   uint32
	Channels Channels
	Pix      []byte
}

// FastDecoder is a format-specific decoder picked by file extension.
// Implementations live in adapters/decoder/.
type FastDecoder interface {
	Name() string
	Decode(data []byte) (Raw, error)
}

// Strategy is one stage of the decode chain. path is informational; data
// holds the whole file.
type Strategy interface {
	Name() string
	Decode(path string, data []byte) (Raw, error)
}

// Encoder serialises a DecodedImage. Implementations live in
// adapters/encoder/.
type Encoder interface {
	Name() string
	Encode(w io.Writer, img DecodedImage) error
}

// StorageAdapter persists encoded images.
// Implementations live in adapters/storage/.
type StorageAdapter interface {
	Put(path string, r io.Reader) error
}

// OrientationResolver reads embedded metadata. It never fails; anything it
// cannot read resolves to Up.
type OrientationResolver interface {
	Resolve(path string) Orientation
}

// MetricsCollector receives observations from the decode chain.
type MetricsCollector interface {
	RecordStageTime(stage string, d interface{ Seconds() float64 })
	RecordFailure(stage string, reason string)
	RecordPlaceholder()
	RecordThroughput(bytes int64)
}

// Hook is an optional observer invoked around decode stages. img is nil
// when the stage failed.
type Hook interface {
	BeforeStage(stage, path string)
	AfterStage(stage, path string, img *DecodedImage, d time.Duration, err error)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// Registry maps lowercase file extensions (no dot) to fast decoders and
// encoders.
type Registry interface {
	DecoderFor(ext string) (FastDecoder, bool)
	EncoderFor(ext string) (Encoder, bool)
	RegisterDecoder(ext string, d FastDecoder)
	RegisterEncoder(ext string, e Encoder)
}
