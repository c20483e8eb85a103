package extract

import (
	"github.com/silkit/go-silhouette"
)

// Connectivity sets the neighborhood used when labeling connected
// foreground components
type Connectivity int

const (
	// Connect4 considers only horizontal and vertical neighbors
	Connect4 Connectivity = 4
	// Connect8 also considers diagonal neighbors
	Connect8 Connectivity = 8
)

var (
	neighbors4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbors8 = [][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// component holds the statistics of one labeled foreground region
type component struct {
	label int32
	area  int
	minX  int
	minY  int
	maxX  int
	maxY  int
	sumX  int64
	sumY  int64
}

// centroid returns the pixel mass center of the component
func (c *component) centroid() silhouette.Point {
	if c.area == 0 {
		return silhouette.Point{}
	}

	return silhouette.Point{
		X: float64(c.sumX) / float64(c.area),
		Y: float64(c.sumY) / float64(c.area),
	}
}

// labelComponents performs a flood fill labeling of all foreground
// regions in the mask.  It returns the label grid, one int32 per pixel
// with 0 meaning background, and the per component statistics
func labelComponents(m *silhouette.Mask, conn Connectivity) ([]int32, []component) {

	w := m.Width
	h := m.Height
	labels := make([]int32, w*h)
	comps := make([]component, 0, 4)

	offsets := neighbors4

	if conn == Connect8 {
		offsets = neighbors8
	}

	// reusable flood fill stack of pixel indices
	stack := make([]int, 0, 256)
	next := int32(1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {

			idx := y*w + x

			if m.Pix[idx] == 0 || labels[idx] != 0 {
				continue
			}

			comp := component{
				label: next,
				minX:  x,
				minY:  y,
				maxX:  x,
				maxY:  y,
			}

			labels[idx] = next
			stack = append(stack[:0], idx)

			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				cx := cur % w
				cy := cur / w

				comp.area++
				comp.sumX += int64(cx)
				comp.sumY += int64(cy)

				if cx < comp.minX {
					comp.minX = cx
				}
				if cx > comp.maxX {
					comp.maxX = cx
				}
				if cy < comp.minY {
					comp.minY = cy
				}
				if cy > comp.maxY {
					comp.maxY = cy
				}

				for _, off := range offsets {
					nx := cx + off[0]
					ny := cy + off[1]

					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}

					nidx := ny*w + nx

					if m.Pix[nidx] != 0 && labels[nidx] == 0 {
						labels[nidx] = next
						stack = append(stack, nidx)
					}
				}
			}

			comps = append(comps, comp)
			next++
		}
	}

	return labels, comps
}
