package decoder

import (
	"fmt"

	_ "github.com/biessek/golang-ico" // decode ico format
	"github.com/disintegration/imaging"
	_ "github.com/xfmoulet/qoi"      // decode qoi format
	_ "golang.org/x/image/bmp"       // decode bmp format
	_ "golang.org/x/image/tiff"      // decode tiff format
	_ "golang.org/x/image/webp"      // decode webp format

	"github.com/Skryldev/image-viewer/core"
	apperrors "github.com/Skryldev/image-viewer/errors"
	"github.com/Skryldev/image-viewer/utils"
)

// Generic sniffs the format from the file contents, ignoring the extension,
// and converts the result to Mode. With Mode RGB it refuses images that carry
// an alpha channel so that they reach an RGBA stage intact.
type Generic struct {
	Mode core.Channels
}

// NewGeneric returns a sniffing decoder producing mode output.
func NewGeneric(mode core.Channels) *Generic { return &Generic{Mode: mode} }

func (g *Generic) Name() string { return "generic." + g.Mode.String() }

func (g *Generic) Decode(_ string, data []byte) (core.Raw, error) {
	if !g.Mode.Valid() {
		return core.Raw{}, apperrors.Decode(g.Name(), apperrors.ErrUnsupportedColorMode, nil)
	}
	img, err := imaging.Decode(utils.BytesReader(data), imaging.AutoOrientation(false))
	if err != nil {
		return core.Raw{}, apperrors.Decode(g.Name(), apperrors.ErrCorruptData, err)
	}
	if g.Mode == core.RGB && hasAlpha(img) {
		return core.Raw{}, apperrors.Decode(g.Name(), apperrors.ErrUnsupportedColorMode,
			fmt.Errorf("%T has alpha", img))
	}
	return pack(img, g.Mode), nil
}

var _ core.Strategy = (*Generic)(nil)
