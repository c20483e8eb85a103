package silhouette

// NormalizedContour is a contour mapped into a translation and scale
// invariant comparison space.  The centroid sits at the origin and the
// bounding box diagonal length is 1.0.  Origin and Diagonal retain the
// inverse transform back to pixel space, the pixel diagonal is also what
// carries the closer/farther signal when two normalized contours are
// compared
type NormalizedContour struct {
	Points Contour
	// Origin is the pixel-space centroid removed during normalization
	Origin Point
	// Diagonal is the pixel-space bounding box diagonal divided out
	// during normalization
	Diagonal float64
}

// Normalize maps a contour into the canonical comparison space by
// translating its area weighted centroid to the origin and scaling the
// bounding box diagonal to 1.0
func Normalize(c Contour) (NormalizedContour, error) {
	if len(c) < 3 {
		return NormalizedContour{}, ErrDegenerateContour
	}

	diag := c.BoundingRect().Diagonal()

	if diag < 1e-9 {
		return NormalizedContour{}, ErrDegenerateContour
	}

	centroid := c.Centroid()
	pts := make(Contour, len(c))

	for i, p := range c {
		pts[i] = Point{
			X: (p.X - centroid.X) / diag,
			Y: (p.Y - centroid.Y) / diag,
		}
	}

	return NormalizedContour{
		Points:   pts,
		Origin:   centroid,
		Diagonal: diag,
	}, nil
}

// Denormalize applies the retained inverse transform, reproducing the
// original pixel-space contour within floating point tolerance
func (n NormalizedContour) Denormalize() Contour {
	out := make(Contour, len(n.Points))

	for i, p := range n.Points {
		out[i] = Point{
			X: p.X*n.Diagonal + n.Origin.X,
			Y: p.Y*n.Diagonal + n.Origin.Y,
		}
	}

	return out
}
