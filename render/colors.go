package render

import "image/color"

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 72, G: 249, B: 10, A: 255}
	Red    = color.RGBA{R: 255, G: 56, B: 56, A: 255}
	Blue   = color.RGBA{R: 0, G: 194, B: 255, A: 255}
	Orange = color.RGBA{R: 255, G: 112, B: 31, A: 255}
)
