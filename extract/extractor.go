package extract

import (
	"fmt"
	"math"

	"github.com/silkit/go-silhouette"
)

// Params defines the contour extraction parameters
type Params struct {
	// Connectivity is the neighborhood used when labeling foreground
	// components
	Connectivity Connectivity
	// SimplifyTolerance is the polyline simplification tolerance
	// expressed as a fraction of the mask diagonal
	SimplifyTolerance float64
	// MaxPoints caps the simplified polygon size, the tolerance is
	// escalated until the polygon fits
	MaxPoints int
	// MinArea is the minimum component pixel area considered a subject,
	// anything smaller is segmentation noise
	MinArea int
	// AreaTieBand is the relative area difference under which two
	// components are considered tied and broken by centroid position
	AreaTieBand float64
}

// DefaultParams returns an instance of Params configured with default
// values featuring:
// - Connectivity: 8
// - Simplify Tolerance: 0.5% of the mask diagonal
// - Maximum Points: 200
// - Minimum Area: 16 pixels
// - Area Tie Band: 2%
func DefaultParams() Params {
	return Params{
		Connectivity:      Connect8,
		SimplifyTolerance: 0.005,
		MaxPoints:         200,
		MinArea:           16,
		AreaTieBand:       0.02,
	}
}

// Extractor turns a binary segmentation mask into an ordered simplified
// closed polygon.  Extraction is a pure function of its inputs, the same
// Extractor can be shared across frames
type Extractor struct {
	// Params are the extraction configuration parameters
	Params Params
}

// NewExtractor returns an instance of the contour extractor
func NewExtractor(p Params) *Extractor {
	return &Extractor{
		Params: p,
	}
}

// Extract traces the subject silhouette in the mask and returns a closed
// polygon in mask-grid coordinates with counter-clockwise winding
func (e *Extractor) Extract(mask *silhouette.Mask) (silhouette.Contour, error) {
	return e.ExtractWithHint(mask, mask.Width, mask.Height, nil)
}

// ExtractInImage traces the subject silhouette and maps the polygon into
// the pixel coordinate space of an image with the given dimensions.  Use
// it when the segmentation mask resolution differs from the captured
// image resolution
func (e *Extractor) ExtractInImage(mask *silhouette.Mask, imgWidth,
	imgHeight int) (silhouette.Contour, error) {

	return e.ExtractWithHint(mask, imgWidth, imgHeight, nil)
}

// ExtractWithHint is the full extraction entry point.  hint is the
// previous frame's subject centroid in mask-grid coordinates and is used
// as the final tie-break when multiple components have near equal area,
// pass nil when no previous frame exists
func (e *Extractor) ExtractWithHint(mask *silhouette.Mask, imgWidth,
	imgHeight int, hint *silhouette.Point) (silhouette.Contour, error) {

	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil, silhouette.ErrNoSubjectFound
	}

	labels, comps := labelComponents(mask, e.Params.Connectivity)

	if len(comps) == 0 {
		return nil, silhouette.ErrNoSubjectFound
	}

	subject := e.selectSubject(comps, mask, hint)

	if subject.area < e.Params.MinArea {
		return nil, fmt.Errorf("largest component area %d below minimum %d: %w",
			subject.area, e.Params.MinArea, silhouette.ErrDegenerateContour)
	}

	dense := traceBoundary(labels, mask.Width, mask.Height, subject)

	if len(dense) < 3 {
		return nil, silhouette.ErrDegenerateContour
	}

	contour := e.simplifyCapped(dense, mask)

	if len(contour) < 3 {
		return nil, silhouette.ErrDegenerateContour
	}

	// rescale from mask-grid coordinates into the image's pixel space
	mapper := NewCoordMapper(mask.Width, mask.Height, imgWidth, imgHeight)

	if !mapper.Identity() {
		mapped := make(silhouette.Contour, len(contour))

		for i, p := range contour {
			mapped[i] = mapper.ToImage(p)
		}

		contour = mapped
	}

	// normalize winding order to counter-clockwise
	if !contour.IsCCW() {
		contour = contour.Reverse()
	}

	return contour, nil
}

// selectSubject picks the component treated as the subject silhouette.
// Largest pixel area wins, areas within the tie band prefer the centroid
// closest to the image center and then closest to the previous frame's
// centroid when supplied
func (e *Extractor) selectSubject(comps []component, mask *silhouette.Mask,
	hint *silhouette.Point) component {

	largest := comps[0]

	for _, c := range comps[1:] {
		if c.area > largest.area {
			largest = c
		}
	}

	center := silhouette.Point{
		X: float64(mask.Width) / 2,
		Y: float64(mask.Height) / 2,
	}

	// distances closer than 1% of the mask diagonal count as equal when
	// comparing centroid positions
	eps := 0.01 * math.Hypot(float64(mask.Width), float64(mask.Height))

	// gather candidates whose area is within the tie band of the largest
	cutoff := float64(largest.area) * (1 - e.Params.AreaTieBand)
	best := largest
	bestDist := largest.centroid().Dist(center)

	for _, c := range comps {
		if c.label == largest.label || float64(c.area) < cutoff {
			continue
		}

		d := c.centroid().Dist(center)

		switch {
		case d < bestDist-eps:
			best = c
			bestDist = d
		case hint != nil && math.Abs(d-bestDist) <= eps:
			// near equidistant from center, fall back to the previous
			// frame's centroid
			if c.centroid().Dist(*hint) < best.centroid().Dist(*hint) {
				best = c
				bestDist = d
			}
		}
	}

	return best
}

// simplifyCapped simplifies the dense traced polygon and escalates the
// tolerance until the result fits under MaxPoints
func (e *Extractor) simplifyCapped(dense silhouette.Contour,
	mask *silhouette.Mask) silhouette.Contour {

	diag := math.Hypot(float64(mask.Width), float64(mask.Height))
	tol := e.Params.SimplifyTolerance * diag

	out := simplify(dense, tol)

	for e.Params.MaxPoints > 0 && len(out) > e.Params.MaxPoints {
		tol *= 1.5
		out = simplify(dense, tol)
	}

	return out
}
