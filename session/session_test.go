package session

import (
	"testing"
	"time"

	"github.com/silkit/go-silhouette"
	"github.com/silkit/go-silhouette/guideline"
	"github.com/stretchr/testify/require"
)

// subjectMask fills a rectangular stand-in subject
func subjectMask(w, h, x0, y0, x1, y1 int) *silhouette.Mask {
	m := silhouette.NewMask(w, h)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, 255)
		}
	}

	return m
}

func newTestSession(t *testing.T) *Session {
	t.Helper()

	return New(Config{
		Category: "front",
		Store:    guideline.NewMemStore(),
	})
}

func TestSessionEstablishAndScore(t *testing.T) {
	s := newTestSession(t)

	mask := subjectMask(200, 200, 70, 40, 130, 180)

	// first frame, no reference yet
	res := s.Process(mask)
	require.Equal(t, Normalized, res.State)
	require.True(t, res.NeedsGuideline)
	require.NoError(t, res.Err)
	require.NotEmpty(t, res.Contour)

	// lock in the reference pose
	require.NoError(t, s.EstablishGuideline(res.Normalized))

	// same pose scores as aligned
	res2 := s.Process(mask)
	require.Equal(t, GuidanceReady, res2.State)
	require.NotNil(t, res2.Alignment)
	require.True(t, res2.Alignment.WithinTolerance)
	require.Less(t, res2.Alignment.Score, 0.05)
}

func TestSessionDirectionalFeedback(t *testing.T) {
	s := newTestSession(t)

	ref := s.Process(subjectMask(200, 200, 70, 40, 130, 180))
	require.True(t, ref.NeedsGuideline)
	require.NoError(t, s.EstablishGuideline(ref.Normalized))

	// subject drifted 20px right
	res := s.Process(subjectMask(200, 200, 90, 40, 150, 180))
	require.Equal(t, GuidanceReady, res.State)
	require.False(t, res.Alignment.WithinTolerance)
	require.InDelta(t, -20, res.Alignment.CorrectionPx.X, 1.5)
}

func TestSessionFailedFrame(t *testing.T) {
	s := newTestSession(t)

	res := s.Process(silhouette.NewMask(64, 64))
	require.Equal(t, Failed, res.State)
	require.ErrorIs(t, res.Err, silhouette.ErrNoSubjectFound)

	// the session recovers on the next frame
	res2 := s.Process(subjectMask(200, 200, 70, 40, 130, 180))
	require.Equal(t, Normalized, res2.State)
	require.True(t, res2.NeedsGuideline)
}

func TestSessionGuidelineCached(t *testing.T) {
	store := &countingStore{Store: guideline.NewMemStore()}
	s := New(Config{Category: "front", Store: store})

	mask := subjectMask(200, 200, 70, 40, 130, 180)

	ref := s.Process(mask)
	require.NoError(t, s.EstablishGuideline(ref.Normalized))

	loads := store.loads

	// the guideline loads once and is cached for the session
	s.Process(mask)
	s.Process(mask)
	s.Process(mask)

	require.Equal(t, loads+1, store.loads)
}

func TestSessionImageSpace(t *testing.T) {
	store := guideline.NewMemStore()
	s := New(Config{
		Category:    "front",
		Store:       store,
		ImageWidth:  400,
		ImageHeight: 400,
	})

	// half resolution mask
	res := s.Process(subjectMask(200, 200, 70, 40, 130, 180))
	require.Equal(t, Normalized, res.State)

	r := res.Contour.BoundingRect()
	require.InDelta(t, 140, r.MinX, 4)
	require.InDelta(t, 260, r.MaxX, 4)
}

func TestWorkerLatestWins(t *testing.T) {
	s := newTestSession(t)
	w := NewWorker(s)
	defer w.Close()

	w.Submit(subjectMask(200, 200, 70, 40, 130, 180))

	select {
	case res := <-w.Results():
		require.Equal(t, Normalized, res.State)
		require.True(t, res.NeedsGuideline)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker result")
	}

	// flood the worker, the queue never backs up past one frame
	for i := 0; i < 50; i++ {
		w.Submit(subjectMask(200, 200, 70, 40, 130, 180))
	}

	select {
	case res := <-w.Results():
		require.NotEqual(t, Failed, res.State)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker result")
	}
}

func TestWorkerClose(t *testing.T) {
	s := newTestSession(t)
	w := NewWorker(s)

	w.Close()

	// results channel closes shortly after
	select {
	case _, ok := <-w.Results():
		if ok {
			// drained a leftover result, channel closes next
			_, ok = <-w.Results()
			require.False(t, ok)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker shutdown")
	}

	// submitting after close must not panic
	w.Submit(silhouette.NewMask(8, 8))
}

// countingStore wraps a Store and counts Load calls
type countingStore struct {
	guideline.Store
	loads int
}

func (c *countingStore) Load(categoryID string) (*guideline.Guideline, error) {
	c.loads++
	return c.Store.Load(categoryID)
}
