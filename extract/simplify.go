package extract

import (
	"math"

	"github.com/silkit/go-silhouette"
)

// simplify reduces a closed polygon with Douglas-Peucker polyline
// simplification.  The polygon is split at its first point and the point
// farthest from it so both simplification chains have fixed anchors
func simplify(c silhouette.Contour, tolerance float64) silhouette.Contour {

	if len(c) < 4 || tolerance <= 0 {
		return c
	}

	far := 0
	maxDist := 0.0

	for i, p := range c {
		if d := c[0].Dist(p); d > maxDist {
			maxDist = d
			far = i
		}
	}

	if far == 0 {
		return c
	}

	// chain one runs first..far, chain two runs far..last and wraps
	// back to the first point
	chain1 := make(silhouette.Contour, far+1)
	copy(chain1, c[:far+1])

	chain2 := make(silhouette.Contour, 0, len(c)-far+1)
	chain2 = append(chain2, c[far:]...)
	chain2 = append(chain2, c[0])

	out1 := rdp(chain1, tolerance)
	out2 := rdp(chain2, tolerance)

	// drop each chain's trailing anchor, it is the head of the other
	out := make(silhouette.Contour, 0, len(out1)+len(out2)-2)
	out = append(out, out1[:len(out1)-1]...)
	out = append(out, out2[:len(out2)-1]...)

	return out
}

// rdp is the recursive Douglas-Peucker step over an open polyline, the
// first and last points are always kept
func rdp(pts silhouette.Contour, tolerance float64) silhouette.Contour {

	if len(pts) < 3 {
		return pts
	}

	a := pts[0]
	b := pts[len(pts)-1]

	idx := 0
	maxDist := 0.0

	for i := 1; i < len(pts)-1; i++ {
		if d := perpDist(pts[i], a, b); d > maxDist {
			maxDist = d
			idx = i
		}
	}

	if maxDist <= tolerance {
		return silhouette.Contour{a, b}
	}

	left := rdp(pts[:idx+1], tolerance)
	right := rdp(pts[idx:], tolerance)

	out := make(silhouette.Contour, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	out = append(out, right...)

	return out
}

// perpDist returns the perpendicular distance from p to the segment a-b
func perpDist(p, a, b silhouette.Point) float64 {

	dx := b.X - a.X
	dy := b.Y - a.Y

	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return p.Dist(a)
	}

	// project p onto the segment and clamp to its extent
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return p.Dist(silhouette.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
