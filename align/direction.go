package align

import (
	"strings"
)

// Direction is a bitmask of the movements the subject must make to line
// up with the guideline.  The flags name the direction to MOVE, a
// subject sitting right of the guideline gets Left
type Direction uint8

const (
	// Left means move left in the frame
	Left Direction = 1 << iota
	// Right means move right in the frame
	Right
	// Up means move up in the frame
	Up
	// Down means move down in the frame
	Down
	// Closer means step towards the camera, the subject appears smaller
	// than the guideline
	Closer
	// Farther means step away from the camera, the subject appears
	// larger than the guideline
	Farther
)

// None means the subject is inside all tolerance bands
const None Direction = 0

// Has reports whether the given flag is set
func (d Direction) Has(flag Direction) bool {
	return d&flag != 0
}

// String returns a pipe separated list of the set flags
func (d Direction) String() string {
	if d == None {
		return "none"
	}

	names := []struct {
		flag Direction
		name string
	}{
		{Left, "left"},
		{Right, "right"},
		{Up, "up"},
		{Down, "down"},
		{Closer, "closer"},
		{Farther, "farther"},
	}

	parts := make([]string, 0, 3)

	for _, n := range names {
		if d.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}

	return strings.Join(parts, "|")
}
