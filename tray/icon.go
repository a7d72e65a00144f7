package tray

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
)

// Pixmap is a raw icon image in the wire format of the StatusNotifierItem
// specification: width, height, and pixel data in ARGB32 network byte
// order. Its D-Bus signature is (iiay).
type Pixmap struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// pixmapSizes are the edge lengths rendered for hosts, covering the tray
// icon sizes in common use.
var pixmapSizes = []int{16, 22, 24, 32, 48}

// NewPixmap converts an image into a [Pixmap].
func NewPixmap(img image.Image) Pixmap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]byte, 0, width*height*4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			data = append(data, byte(a>>8), byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	return Pixmap{
		Width:  int32(width),
		Height: int32(height),
		Bytes:  data,
	}
}

// LoadPixmaps reads an icon file and renders it at every standard tray
// size, largest last, so hosts can pick the closest match.
func LoadPixmaps(path string) ([]Pixmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("icon: decode %s: %w", path, err)
	}

	pixmaps := make([]Pixmap, 0, len(pixmapSizes))
	for _, size := range pixmapSizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		pixmaps = append(pixmaps, NewPixmap(resized))
	}

	return pixmaps, nil
}
