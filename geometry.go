package silhouette

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// clipperScale is the fixed point scaling factor used when converting
// float coordinates to clipper's integer path coordinates
const clipperScale = 100.0

// Point is a 2D coordinate in either mask-grid, image pixel, or
// normalized space
type Point struct {
	X float64
	Y float64
}

// Pt is a shorthand Point constructor
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the vector sum p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis aligned bounding box
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Diagonal returns the length of the rectangle's diagonal
func (r Rect) Diagonal() float64 {
	return math.Hypot(r.Width(), r.Height())
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Contour is an ordered closed polygon, the first and last points are
// distinct and an implicit edge connects the last point back to the first.
// Winding order produced by the extractor is normalized so the signed
// area is positive
type Contour []Point

// Clone returns a copy of the contour
func (c Contour) Clone() Contour {
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// Reverse returns the contour with point order reversed
func (c Contour) Reverse() Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// Rotate returns the contour with its starting index cyclically shifted
// by k positions
func (c Contour) Rotate(k int) Contour {
	n := len(c)
	if n == 0 {
		return Contour{}
	}

	k = ((k % n) + n) % n
	out := make(Contour, 0, n)
	out = append(out, c[k:]...)
	out = append(out, c[:k]...)
	return out
}

// BoundingRect returns the axis aligned bounding box of the contour
func (c Contour) BoundingRect() Rect {
	if len(c) == 0 {
		return Rect{}
	}

	r := Rect{MinX: c[0].X, MinY: c[0].Y, MaxX: c[0].X, MaxY: c[0].Y}

	for _, p := range c[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}

	return r
}

// Perimeter returns the total length of the closed polygon including the
// implicit closing edge
func (c Contour) Perimeter() float64 {
	n := len(c)

	if n < 2 {
		return 0
	}

	total := 0.0

	for i := 0; i < n; i++ {
		total += c[i].Dist(c[(i+1)%n])
	}

	return total
}

// SignedArea returns the polygon area via the shoelace formula.  The sign
// indicates winding order, positive for counter-clockwise
func (c Contour) SignedArea() float64 {
	n := len(c)

	if n < 3 {
		return 0
	}

	area := 0.0

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += c[i].X*c[j].Y - c[j].X*c[i].Y
	}

	return area / 2
}

// IsCCW reports whether the contour winds counter-clockwise, defined as
// positive signed area
func (c Contour) IsCCW() bool {
	return c.SignedArea() > 0
}

// Centroid returns the area weighted centroid of the polygon.  When the
// polygon area is near zero it falls back to the mean of the points
func (c Contour) Centroid() Point {
	n := len(c)

	if n == 0 {
		return Point{}
	}

	area := c.SignedArea()

	if math.Abs(area) < 1e-9 {
		// degenerate polygon, use vertex mean
		var sum Point
		for _, p := range c {
			sum.X += p.X
			sum.Y += p.Y
		}
		return Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}
	}

	var cx, cy float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := c[i].X*c[j].Y - c[j].X*c[i].Y
		cx += (c[i].X + c[j].X) * cross
		cy += (c[i].Y + c[j].Y) * cross
	}

	f := 1 / (6 * area)

	return Point{X: cx * f, Y: cy * f}
}

// Resample walks the contour's perimeter and emits n evenly
// arc-length-spaced points starting from the first point, removing any
// sensitivity to the original point density
func (c Contour) Resample(n int) (Contour, error) {
	m := len(c)

	if m < 3 || n < 3 {
		return nil, ErrInsufficientPoints
	}

	// cumulative arc lengths around the closed polygon
	cum := make([]float64, m+1)

	for i := 0; i < m; i++ {
		cum[i+1] = cum[i] + c[i].Dist(c[(i+1)%m])
	}

	perimeter := cum[m]

	if perimeter <= 0 {
		return nil, ErrInsufficientPoints
	}

	step := perimeter / float64(n)
	out := make(Contour, n)
	seg := 0

	for k := 0; k < n; k++ {
		target := float64(k) * step

		// advance to the edge containing the target arc length, zero
		// length edges are skipped
		for cum[seg+1] < target {
			seg++
		}

		t := 0.0

		if l := cum[seg+1] - cum[seg]; l > 0 {
			t = (target - cum[seg]) / l
		}

		a := c[seg]
		b := c[(seg+1)%m]

		out[k] = Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}

	return out, nil
}

// Offset returns the contour inflated (positive delta) or deflated
// (negative delta) by delta units using a polygon offset with round
// joins.  Used for rendering tolerance bands around a guideline outline
func (c Contour) Offset(delta float64) Contour {
	if len(c) < 3 {
		return c.Clone()
	}

	// convert the contour points to a Clipper Path in fixed point
	// coordinates
	var path clipper.Path

	for _, pt := range c {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(pt.X * clipperScale)),
			Y: clipper.CInt(math.Round(pt.Y * clipperScale)),
		})
	}

	// create a ClipperOffset object and add the path
	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	// execute the offset operation
	solution := co.Execute(delta * clipperScale)

	if len(solution) == 0 {
		return c.Clone()
	}

	// an offset can split into multiple paths, keep the largest one
	best := solution[0]

	for _, sol := range solution[1:] {
		if len(sol) > len(best) {
			best = sol
		}
	}

	out := make(Contour, 0, len(best))

	for _, ip := range best {
		out = append(out, Point{
			X: float64(ip.X) / clipperScale,
			Y: float64(ip.Y) / clipperScale,
		})
	}

	return out
}
