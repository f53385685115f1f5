package imageviewer

import (
	"github.com/Skryldev/image-viewer/core"
	"github.com/Skryldev/image-viewer/navigator"
	"github.com/Skryldev/image-viewer/pipeline"
	"github.com/Skryldev/image-viewer/saver"
)

// Chain exposes the underlying decode chain for advanced use (e.g. adding
// hooks after construction). Prefer the high-level API for normal usage.
func (v *Viewer) Chain() *pipeline.Chain { return v.chain }

// Navigator exposes the underlying navigator.
func (v *Viewer) Navigator() *navigator.Navigator { return v.nav }

// Registry exposes the codec registry so callers can register extra fast
// decoders or encoders.
func (v *Viewer) Registry() core.Registry { return v.reg }

// Saver exposes the save worker pool.
func (v *Viewer) Saver() *saver.Pool { return v.pool }
