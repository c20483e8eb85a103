// Package guideline persists the reference silhouette a user aligns
// against for a given capture category.  One guideline exists per
// category, absence is a valid state meaning no reference pose has been
// locked in yet.
package guideline

import (
	"errors"
	"time"

	"github.com/silkit/go-silhouette"
)

// ErrMissing indicates no guideline has been stored for the category.
// It is a recognized state rather than a failure, the capture flow
// offers to establish a reference from the current frame
var ErrMissing = errors.New("no guideline stored for category")

// Guideline is the stored reference contour for one category
type Guideline struct {
	// CategoryID identifies the capture category the guideline
	// belongs to
	CategoryID string
	// Contour is the normalized reference silhouette with its retained
	// inverse transform
	Contour silhouette.NormalizedContour
	// Created is when the user locked in the reference pose
	Created time.Time
}

// Store is the durable key-value persistence the engine consumes.
// Implementations must provide atomic replace semantics, a reader never
// observes a partially written guideline, and a Load immediately after a
// Save for the same category returns the just-saved value
type Store interface {
	// Load returns the guideline for the category or ErrMissing when
	// none has been stored
	Load(categoryID string) (*Guideline, error)
	// Save stores the contour as the category's guideline, replacing
	// any previous one
	Save(categoryID string, nc silhouette.NormalizedContour) error
}
