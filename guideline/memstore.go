package guideline

import (
	"sync"
	"time"

	"github.com/silkit/go-silhouette"
)

// MemStore is an in-memory guideline store.  Useful for tests and for
// sessions that do not need the reference to outlive the process
type MemStore struct {
	mu     sync.RWMutex
	guides map[string]Guideline
}

// NewMemStore returns an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		guides: make(map[string]Guideline),
	}
}

// Save stores a deep copy of the contour as the category's guideline
func (s *MemStore) Save(categoryID string, nc silhouette.NormalizedContour) error {
	g := Guideline{
		CategoryID: categoryID,
		Contour: silhouette.NormalizedContour{
			Points:   nc.Points.Clone(),
			Origin:   nc.Origin,
			Diagonal: nc.Diagonal,
		},
		Created: time.Now(),
	}

	s.mu.Lock()
	s.guides[categoryID] = g
	s.mu.Unlock()

	return nil
}

// Load returns a copy of the category's guideline or ErrMissing
func (s *MemStore) Load(categoryID string) (*Guideline, error) {
	s.mu.RLock()
	g, ok := s.guides[categoryID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrMissing
	}

	out := g
	out.Contour.Points = g.Contour.Points.Clone()

	return &out, nil
}
