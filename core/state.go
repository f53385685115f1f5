package core

// ViewerState is owned by the navigator. The renderer only clears
// ReloadPending once it has consumed the new image.
type ViewerState struct {
	CurrentPath   string
	Directory     string
	Orientation   Orientation
	ReloadPending bool
	Active        bool
}
