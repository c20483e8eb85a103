package align

import (
	"errors"
	"math"
	"testing"

	"github.com/silkit/go-silhouette"
	"github.com/silkit/go-silhouette/extract"
)

// circleContour returns a polygonal circle with segments points
func circleContour(cx, cy, r float64, segments int) silhouette.Contour {
	c := make(silhouette.Contour, segments)

	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c[i] = silhouette.Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}

	return c
}

// circleMask fills a circular foreground region
func circleMask(w, h int, cx, cy, r float64) *silhouette.Mask {
	m := silhouette.NewMask(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy

			if dx*dx+dy*dy <= r*r {
				m.Set(x, y, 255)
			}
		}
	}

	return m
}

func mustNormalize(t *testing.T, c silhouette.Contour) silhouette.NormalizedContour {
	t.Helper()

	nc, err := silhouette.Normalize(c)

	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	return nc
}

func TestScoreSelf(t *testing.T) {
	nc := mustNormalize(t, circleContour(100, 100, 40, 48))

	s := NewScorer(DefaultParams())
	res, err := s.Score(nc, nc)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if res.Score > 1e-6 {
		t.Errorf("expected score ~0, got %f", res.Score)
	}

	if res.Direction != None {
		t.Errorf("expected direction none, got %s", res.Direction)
	}

	if !res.WithinTolerance {
		t.Error("expected within tolerance")
	}

	if math.Abs(res.ScaleRatio-1) > 1e-9 {
		t.Errorf("expected scale ratio 1, got %f", res.ScaleRatio)
	}
}

func TestScoreCyclicInvariance(t *testing.T) {
	guide := mustNormalize(t, circleContour(100, 100, 40, 48))
	cur := circleContour(102, 99, 41, 48)

	s := NewScorer(DefaultParams())

	base, err := s.Score(mustNormalize(t, cur), guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// rotating the starting index of the input point list must not
	// change the outcome.  the integer cyclic shift compensates the
	// rotation to within half a resampling step, so the score can move
	// by a small sub-step quantization amount
	for _, k := range []int{1, 7, 23, 47} {
		res, err := s.Score(mustNormalize(t, cur.Rotate(k)), guide)

		if err != nil {
			t.Fatalf("score failed at rotation %d: %v", k, err)
		}

		if math.Abs(res.Score-base.Score) > 0.06 {
			t.Errorf("rotation %d: score %f differs from base %f",
				k, res.Score, base.Score)
		}

		if math.Abs(res.CorrectionPx.X-base.CorrectionPx.X) > 0.2 ||
			math.Abs(res.CorrectionPx.Y-base.CorrectionPx.Y) > 0.2 {
			t.Errorf("rotation %d: correction %v differs from base %v",
				k, res.CorrectionPx, base.CorrectionPx)
		}
	}
}

func TestScoreShiftedRight(t *testing.T) {
	// subject standing 10px right of the guideline must be told to
	// move left by 10px
	guide := mustNormalize(t, circleContour(100, 100, 40, 64))
	cur := mustNormalize(t, circleContour(110, 100, 40, 64))

	s := NewScorer(DefaultParams())
	res, err := s.Score(cur, guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if math.Abs(res.CorrectionPx.X+10) > 0.5 {
		t.Errorf("expected correction x ~ -10, got %f", res.CorrectionPx.X)
	}

	if math.Abs(res.CorrectionPx.Y) > 0.5 {
		t.Errorf("expected correction y ~ 0, got %f", res.CorrectionPx.Y)
	}

	if !res.Direction.Has(Left) {
		t.Errorf("expected Left flag, got %s", res.Direction)
	}

	if res.WithinTolerance {
		t.Error("expected outside tolerance")
	}

	// identical shapes, the shape score stays near zero even though the
	// position is off
	if res.Score > 1e-6 {
		t.Errorf("expected score ~0 for identical shapes, got %f", res.Score)
	}
}

func TestScoreShiftedDown(t *testing.T) {
	guide := mustNormalize(t, circleContour(100, 100, 40, 64))
	cur := mustNormalize(t, circleContour(100, 80, 40, 64))

	s := NewScorer(DefaultParams())
	res, err := s.Score(cur, guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// subject sits 20px above the guideline, move down
	if math.Abs(res.CorrectionPx.Y-20) > 0.5 {
		t.Errorf("expected correction y ~ +20, got %f", res.CorrectionPx.Y)
	}

	if !res.Direction.Has(Down) {
		t.Errorf("expected Down flag, got %s", res.Direction)
	}
}

func TestScoreScaleRatio(t *testing.T) {
	// guideline captured at half the pixel diagonal of the current
	// frame's contour, the subject appears too large and must move away
	guide := mustNormalize(t, circleContour(100, 100, 20, 64))
	cur := mustNormalize(t, circleContour(100, 100, 40, 64))

	s := NewScorer(DefaultParams())
	res, err := s.Score(cur, guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if math.Abs(res.ScaleRatio-2) > 0.01 {
		t.Errorf("expected scale ratio ~2, got %f", res.ScaleRatio)
	}

	if !res.Direction.Has(Farther) {
		t.Errorf("expected Farther flag, got %s", res.Direction)
	}

	if res.WithinTolerance {
		t.Error("expected outside tolerance")
	}

	// inverse comparison reports Closer
	res2, err := s.Score(guide, cur)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if math.Abs(res2.ScaleRatio-0.5) > 0.01 {
		t.Errorf("expected scale ratio ~0.5, got %f", res2.ScaleRatio)
	}

	if !res2.Direction.Has(Closer) {
		t.Errorf("expected Closer flag, got %s", res2.Direction)
	}
}

func TestScoreDissimilarShapes(t *testing.T) {
	square := silhouette.Contour{
		{X: 60, Y: 60}, {X: 140, Y: 60}, {X: 140, Y: 140}, {X: 60, Y: 140},
	}

	guide := mustNormalize(t, circleContour(100, 100, 40, 64))
	cur := mustNormalize(t, square)

	s := NewScorer(DefaultParams())
	res, err := s.Score(cur, guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if res.Score <= 0 || res.Score > 1 {
		t.Errorf("expected score in (0,1], got %f", res.Score)
	}

	// a square against a circle scores clearly worse than a circle
	// against itself
	if res.Score < 0.01 {
		t.Errorf("expected non-trivial score, got %f", res.Score)
	}
}

func TestScoreInsufficientPoints(t *testing.T) {
	guide := mustNormalize(t, circleContour(100, 100, 40, 64))

	bad := silhouette.NormalizedContour{
		Points:   silhouette.Contour{{X: 0, Y: 0}, {X: 0.1, Y: 0.1}},
		Origin:   silhouette.Pt(100, 100),
		Diagonal: 50,
	}

	s := NewScorer(DefaultParams())

	if _, err := s.Score(bad, guide); !errors.Is(err, silhouette.ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestScoreCircleMaskScenario(t *testing.T) {
	// full pipeline scenario, a circular mask of radius 40px centered
	// at (100,100) in a 200x200 frame against an identical guideline
	e := extract.NewExtractor(extract.DefaultParams())

	guideContour, err := e.Extract(circleMask(200, 200, 100, 100, 40))

	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	curContour, err := e.Extract(circleMask(200, 200, 100, 100, 40))

	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	guide := mustNormalize(t, guideContour)
	cur := mustNormalize(t, curContour)

	s := NewScorer(DefaultParams())
	res, err := s.Score(cur, guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if res.Score > 0.05 {
		t.Errorf("expected score ~0, got %f", res.Score)
	}

	if !res.WithinTolerance {
		t.Errorf("expected within tolerance, got %s", res.Direction)
	}

	// same mask shifted +10px on the x axis
	shifted, err := e.Extract(circleMask(200, 200, 110, 100, 40))

	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	res2, err := s.Score(mustNormalize(t, shifted), guide)

	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if math.Abs(res2.CorrectionPx.X+10) > 1.5 {
		t.Errorf("expected correction x ~ -10, got %f", res2.CorrectionPx.X)
	}

	if !res2.Direction.Has(Left) {
		t.Errorf("expected Left flag, got %s", res2.Direction)
	}

	if res2.WithinTolerance {
		t.Error("expected outside tolerance")
	}
}

func TestDirectionString(t *testing.T) {
	if None.String() != "none" {
		t.Errorf("unexpected string %q", None.String())
	}

	d := Left | Closer

	if got := d.String(); got != "left|closer" {
		t.Errorf("unexpected string %q", got)
	}

	if !d.Has(Left) || d.Has(Right) {
		t.Error("flag check failed")
	}
}
