package extract

import (
	"github.com/silkit/go-silhouette"
)

// CoordMapper maps points from mask-grid coordinates into the original
// image's pixel coordinate space.  Segmentation models commonly receive
// an aspect preserving letterbox resize of the camera frame, so the
// inverse mapping is a uniform scale plus the symmetric padding offsets.
// When the mask and image share an aspect ratio the padding collapses to
// zero and the mapping is a plain rescale
type CoordMapper struct {
	// maskWidth is the width of the mask grid
	maskWidth int
	// maskHeight is the height of the mask grid
	maskHeight int
	// imgWidth is the width of the original image
	imgWidth int
	// imgHeight is the height of the original image
	imgHeight int
	// letterbox parameters used in scaling
	xPad  float64
	yPad  float64
	scale float64
}

// NewCoordMapper returns a mapper from the given mask grid dimensions to
// the given image dimensions
func NewCoordMapper(maskWidth, maskHeight, imgWidth, imgHeight int) *CoordMapper {
	m := &CoordMapper{
		maskWidth:  maskWidth,
		maskHeight: maskHeight,
		imgWidth:   imgWidth,
		imgHeight:  imgHeight,
	}

	// precalculate scaling dimensions
	m.preCalc()

	return m
}

// preCalc the scaling factor and padding of the assumed image to mask
// letterbox resize
func (m *CoordMapper) preCalc() {

	scaleW := float64(m.maskWidth) / float64(m.imgWidth)
	scaleH := float64(m.maskHeight) / float64(m.imgHeight)
	m.scale = scaleH

	resizeW := float64(m.maskWidth)
	resizeH := float64(m.maskHeight)

	if scaleW < scaleH {
		m.scale = scaleW
		resizeH = float64(m.imgHeight) * m.scale
	} else {
		resizeW = float64(m.imgWidth) * m.scale
	}

	m.xPad = (float64(m.maskWidth) - resizeW) / 2
	m.yPad = (float64(m.maskHeight) - resizeH) / 2
}

// ToImage maps a mask-grid point into image pixel coordinates
func (m *CoordMapper) ToImage(p silhouette.Point) silhouette.Point {
	return silhouette.Point{
		X: (p.X - m.xPad) / m.scale,
		Y: (p.Y - m.yPad) / m.scale,
	}
}

// Identity reports whether the mapping is a no-op, mask and image
// dimensions match
func (m *CoordMapper) Identity() bool {
	return m.maskWidth == m.imgWidth && m.maskHeight == m.imgHeight
}

// Scale returns the uniform scale factor of the assumed letterbox resize
func (m *CoordMapper) Scale() float64 {
	return m.scale
}

// XPad returns the horizontal letterbox padding in mask-grid units
func (m *CoordMapper) XPad() float64 {
	return m.xPad
}

// YPad returns the vertical letterbox padding in mask-grid units
func (m *CoordMapper) YPad() float64 {
	return m.yPad
}
