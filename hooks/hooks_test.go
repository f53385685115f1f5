package hooks

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Skryldev/image-viewer/config"
	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/pipeline"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("warn", &buf)
	l.Info("hidden", "k", 1)
	l.Warn("shown", "path", "/a.png")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked: %s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "path=/a.png") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestLoggingHook(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggingHook(NewLogger("debug", &buf))

	img, err := core.Normalize(2, 1, core.RGB, make([]byte, 6))
	if err != nil {
		t.Fatal(err)
	}
	h.BeforeStage("fast", "/a.png")
	h.AfterStage("fast", "/a.png", &img, time.Millisecond, nil)
	h.AfterStage("generic.rgb", "/a.png", nil, 0,
		apperrors.Decode("generic.rgb", apperrors.ErrUnsupportedColorMode, nil))

	out := buf.String()
	for _, want := range []string{
		"decode.stage.start", "stage=fast",
		`output="2x1 rgb"`,
		"decode.stage.error", `reason="unsupported color mode"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsHookCounts(t *testing.T) {
	m := NewInMemoryMetrics()
	h := NewMetricsHook(m)

	h.AfterStage("fast", "/a.jpg", nil, 2*time.Millisecond,
		apperrors.Decode("fast", apperrors.ErrCorruptData, errors.New("bad marker")))
	h.AfterStage("generic.rgb", "/a.jpg", nil, 3*time.Millisecond, nil)
	h.AfterStage("fast", "/b.jpg", nil, 0, errors.New("opaque"))
	m.RecordPlaceholder()
	m.RecordThroughput(100)

	snap := m.Snapshot()
	if snap.StageCalls["fast"] != 2 || snap.StageCalls["generic.rgb"] != 1 {
		t.Errorf("calls = %v", snap.StageCalls)
	}
	if snap.StageFailures["fast"] != 2 || snap.StageFailures["generic.rgb"] != 0 {
		t.Errorf("failures = %v", snap.StageFailures)
	}
	if snap.FailureReasons["corrupt data"] != 1 || snap.FailureReasons["unknown"] != 1 {
		t.Errorf("reasons = %v", snap.FailureReasons)
	}
	if snap.StageDurationsMs["generic.rgb"] != 3 {
		t.Errorf("durations = %v", snap.StageDurationsMs)
	}
	if snap.Placeholders != 1 || snap.TotalThroughputB != 100 {
		t.Errorf("placeholders=%d throughput=%d", snap.Placeholders, snap.TotalThroughputB)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordFailure("fast", "corrupt data")
	snap := m.Snapshot()
	snap.StageFailures["fast"] = 99
	if m.Snapshot().StageFailures["fast"] != 1 {
		t.Error("snapshot aliases collector state")
	}
}

// TestHooksOnChain drives a real chain into its placeholder and checks what
// the collector saw.
func TestHooksOnChain(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.AssetRoot = "/app"

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, cfg.PlaceholderPath(), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := core.NewRegistry()
	pipeline.RegisterDecoders(reg)
	m := NewInMemoryMetrics()
	c := pipeline.New(fsys, cfg, pipeline.DefaultStages(reg)...).
		AddHook(NewMetricsHook(m)).
		SetMetrics(m)

	if _, err := c.Decode("/photos/missing.jpg"); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if snap.Placeholders != 1 {
		t.Errorf("placeholders = %d", snap.Placeholders)
	}
	if snap.StageFailures["read"] != 1 || snap.FailureReasons["i/o error"] != 1 {
		t.Errorf("failures = %v reasons = %v", snap.StageFailures, snap.FailureReasons)
	}
	if snap.StageCalls["fast"] != 1 || snap.TotalThroughputB != int64(buf.Len()) {
		t.Errorf("calls = %v throughput = %d", snap.StageCalls, snap.TotalThroughputB)
	}
}
