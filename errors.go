package silhouette

import (
	"errors"
)

var (
	// ErrNoSubjectFound occurs when a mask contains no foreground pixels
	// to extract a silhouette from
	ErrNoSubjectFound = errors.New("no foreground subject found in mask")

	// ErrDegenerateContour occurs when the candidate region has near-zero
	// area or the polygon has fewer than 3 points after simplification
	ErrDegenerateContour = errors.New("contour is degenerate")

	// ErrInsufficientPoints occurs when a contour cannot be resampled to
	// the minimum point count
	ErrInsufficientPoints = errors.New("insufficient points to resample contour")
)
