// Package render draws silhouette contours and alignment feedback over
// capture frames.  Used to validate extraction and alignment visually,
// none of it participates in the scoring path.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/silkit/go-silhouette"
	"github.com/silkit/go-silhouette/align"
	"gocv.io/x/gocv"
)

// Style defines the parameters used for rendering a contour overlay
type Style struct {
	LineColor     color.RGBA
	LineThickness int
	// VertexRadius is the marker size drawn at each polygon vertex, 0
	// disables vertex markers
	VertexRadius int
	VertexColor  color.RGBA
}

// DefaultStyle returns default contour overlay settings
func DefaultStyle() Style {
	return Style{
		LineColor:     Green,
		LineThickness: 2,
		VertexRadius:  3,
		VertexColor:   Yellow,
	}
}

// GuidelineStyle returns the settings used for drawing the stored
// guideline outline
func GuidelineStyle() Style {
	return Style{
		LineColor:     Blue,
		LineThickness: 2,
	}
}

// toPointVector converts a contour to a gocv PointVector, the caller
// must Close it
func toPointVector(c silhouette.Contour) gocv.PointVector {
	pts := make([]image.Point, len(c))

	for i, p := range c {
		pts[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}

	return gocv.NewPointVectorFromPoints(pts)
}

// Contour draws the polygon's edges and vertex markers over the image.
// The image is modified in place, clone it first to keep the original
func Contour(img *gocv.Mat, c silhouette.Contour, style Style) {

	if len(c) < 2 {
		return
	}

	pv := toPointVector(c)
	defer pv.Close()

	ptsVec := gocv.NewPointsVector()
	defer ptsVec.Close()

	ptsVec.Append(pv)

	gocv.Polylines(img, ptsVec, true, style.LineColor, style.LineThickness)

	if style.VertexRadius > 0 {
		for _, p := range c {
			gocv.Circle(img,
				image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))),
				style.VertexRadius, style.VertexColor, -1)
		}
	}
}

// GuidelineBand draws the guideline outline plus the tolerance band
// around it, the band edges are the outline offset outward and inward by
// halfWidth pixels
func GuidelineBand(img *gocv.Mat, c silhouette.Contour, halfWidth float64,
	style Style) {

	Contour(img, c, style)

	if halfWidth <= 0 {
		return
	}

	bandStyle := Style{
		LineColor:     style.LineColor,
		LineThickness: 1,
	}

	Contour(img, c.Offset(halfWidth), bandStyle)
	Contour(img, c.Offset(-halfWidth), bandStyle)
}

// Feedback writes the alignment score and movement directions in the
// top left corner of the image
func Feedback(img *gocv.Mat, res align.Result, font Font) {

	text := fmt.Sprintf("score %.3f  %s", res.Score, res.Direction)

	if res.WithinTolerance {
		text = fmt.Sprintf("score %.3f  aligned", res.Score)
	}

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// draw box text gets written on
	bRect := image.Rect(0, 0,
		textSize.X+font.LeftPad+font.RightPad,
		textSize.Y+font.TopPad+font.BottomPad)

	gocv.Rectangle(img, bRect, Black, -1)

	gocv.PutTextWithParams(img, text,
		image.Pt(font.LeftPad, textSize.Y+font.TopPad),
		font.Face, font.Scale, font.Color, font.Thickness,
		font.LineType, false)
}
