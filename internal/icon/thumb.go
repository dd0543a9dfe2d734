package icon

import (
	"image"

	"github.com/buckket/go-blurhash"
	"github.com/disintegration/imaging"
)

// Blurhash defaults: a 32x32 thumbnail encoded with 4x4 components.
const (
	DefaultThumbSize   = 32
	DefaultComponentsX = 4
	DefaultComponentsY = 4
)

// Blurhash downsizes img to size x size and encodes it as a compact
// low-resolution preview.
func Blurhash(img image.Image, size, componentsX, componentsY int) (string, error) {
	if size <= 0 {
		size = DefaultThumbSize
	}
	if componentsX <= 0 {
		componentsX = DefaultComponentsX
	}
	if componentsY <= 0 {
		componentsY = DefaultComponentsY
	}
	thumb := imaging.Resize(img, size, size, imaging.Lanczos)
	return blurhash.Encode(componentsX, componentsY, thumb)
}
