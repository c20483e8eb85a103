package silhouette

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Mask is a single channel binary grid marking foreground (subject)
// pixels.  Values are 0 for background, any non-zero value is treated as
// foreground.  The caller owns the mask for the duration of a frame
type Mask struct {
	Width  int
	Height int
	// Pix holds one byte per pixel in row-major order
	Pix []uint8
}

// NewMask creates an empty mask of the given dimensions
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the mask value at (x, y), coordinates outside the grid are
// background
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}

	return m.Pix[y*m.Width+x]
}

// Set writes the mask value at (x, y), out of bounds writes are dropped
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}

	m.Pix[y*m.Width+x] = v
}

// Gray copies the mask into an image.Gray
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(img.Pix, m.Pix)
	return img
}

// Resize scales the mask to the given dimensions using nearest neighbor
// interpolation so values stay binary
func (m *Mask) Resize(width, height int) *Mask {
	if width == m.Width && height == m.Height {
		out := NewMask(width, height)
		copy(out.Pix, m.Pix)
		return out
	}

	src := m.Gray()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(),
		xdraw.Src, nil)

	return &Mask{
		Width:  width,
		Height: height,
		Pix:    dst.Pix,
	}
}

// MaskFromImage converts an image to a mask, any pixel with non-zero
// luminance becomes foreground.  Segmentation model outputs decoded as
// grayscale or matte images can be fed in directly
func MaskFromImage(img image.Image) *Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)

			if g.Y != 0 {
				m.Pix[(y-bounds.Min.Y)*m.Width+(x-bounds.Min.X)] = 255
			}
		}
	}

	return m
}
