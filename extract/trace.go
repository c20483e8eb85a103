package extract

import (
	"github.com/silkit/go-silhouette"
)

// mooreDirs is the 8-neighborhood in clockwise order starting East, y
// axis points down in mask coordinates
var mooreDirs = [8][2]int{
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
}

// dirIndex maps a unit offset back to its mooreDirs index
func dirIndex(dx, dy int) int {
	for i, d := range mooreDirs {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}

	return 4
}

// traceBoundary follows the outer boundary of the component with the
// given label using Moore-neighbor tracing with Jacob's stopping
// criterion.  The returned polygon is dense, one point per boundary
// pixel with collinear runs collapsed, in mask-grid coordinates
func traceBoundary(labels []int32, w, h int, comp component) silhouette.Contour {

	isSet := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == comp.label
	}

	// find the topmost-leftmost pixel of the component, its West
	// neighbor is guaranteed background which seeds the backtrack
	sx, sy := -1, -1

	for y := comp.minY; y <= comp.maxY && sx < 0; y++ {
		for x := comp.minX; x <= comp.maxX; x++ {
			if labels[y*w+x] == comp.label {
				sx, sy = x, y
				break
			}
		}
	}

	if sx < 0 {
		return nil
	}

	pts := make(silhouette.Contour, 0, 256)

	// push appends a boundary pixel, dropping the middle point of any
	// collinear run to keep the dense polygon compact
	push := func(x, y int) {
		p := silhouette.Point{X: float64(x), Y: float64(y)}
		n := len(pts)

		if n >= 2 {
			a := pts[n-2]
			b := pts[n-1]
			cross := (b.X-a.X)*(p.Y-b.Y) - (b.Y-a.Y)*(p.X-b.X)

			if cross == 0 {
				pts = pts[:n-1]
			}
		}

		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bIdx := 4 // backtrack starts West of the start pixel
	startB := bIdx

	push(cx, cy)

	maxSteps := 4*w*h + 8

	for steps := 0; steps < maxSteps; steps++ {

		// scan the Moore neighborhood clockwise beginning just after
		// the backtrack direction
		found := false
		ni := 0

		for k := 1; k <= 8; k++ {
			ni = (bIdx + k) % 8

			if isSet(cx+mooreDirs[ni][0], cy+mooreDirs[ni][1]) {
				found = true
				break
			}
		}

		if !found {
			// isolated single pixel component
			break
		}

		// the neighbor checked just before the hit is background and
		// becomes the backtrack for the next pixel
		prev := (ni + 7) % 8
		px := cx + mooreDirs[prev][0]
		py := cy + mooreDirs[prev][1]

		cx += mooreDirs[ni][0]
		cy += mooreDirs[ni][1]

		bIdx = dirIndex(px-cx, py-cy)

		// Jacob's stopping criterion, back at the start pixel entered
		// from the same backtrack
		if cx == sx && cy == sy && bIdx == startB {
			break
		}

		push(cx, cy)
	}

	// drop a duplicated closing point if tracing emitted one
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	return pts
}
