package align

import (
	"fmt"
	"math"

	"github.com/silkit/go-silhouette"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Params defines the alignment scoring parameters
type Params struct {
	// SamplePoints is the number of evenly arc-length-spaced points
	// each contour is resampled to before comparison
	SamplePoints int
	// ScoreCeiling is the RMS residual in normalized units at which the
	// score saturates at 1.0
	ScoreCeiling float64
	// TranslationTol is the tolerance band for the pixel-space
	// correction vector expressed as a fraction of the guideline's
	// pixel diagonal
	TranslationTol float64
	// ScaleTol is the tolerance band around a scale ratio of 1.0
	ScaleTol float64
}

// DefaultParams returns an instance of Params configured with default
// values featuring:
// - Sample Points: 64
// - Score Ceiling: 0.25
// - Translation Tolerance: 2% of the guideline diagonal
// - Scale Tolerance: 3%
func DefaultParams() Params {
	return Params{
		SamplePoints:   64,
		ScoreCeiling:   0.25,
		TranslationTol: 0.02,
		ScaleTol:       0.03,
	}
}

// Result is the outcome of scoring a frame's contour against the
// guideline
type Result struct {
	// Score is the RMS residual distance after the best cyclic
	// alignment, in normalized units clamped to [0,1].  0 is a perfect
	// shape match
	Score float64
	// CorrectionPx is the pixel-space vector the subject must move by,
	// image convention with y pointing down.  A subject standing 10px
	// right of the guideline gets an x component of -10
	CorrectionPx silhouette.Point
	// ScaleRatio is the current contour's pixel diagonal divided by the
	// guideline's, above 1.0 the subject appears too large
	ScaleRatio float64
	// Direction holds the movement flags outside the tolerance bands
	Direction Direction
	// WithinTolerance is true only when every component falls inside
	// its band
	WithinTolerance bool
	// Shift is the cyclic shift applied to the current contour's point
	// sequence for the best correspondence
	Shift int
}

// Scorer compares a frame's normalized contour against a stored
// guideline contour.  A Scorer holds no per-frame state and can be
// shared across frames
type Scorer struct {
	// Params are the scoring configuration parameters
	Params Params
}

// NewScorer returns an instance of the alignment scorer
func NewScorer(p Params) *Scorer {
	return &Scorer{
		Params: p,
	}
}

// Score resamples both contours, finds the best cyclic correspondence
// and produces the alignment score plus the directional feedback signal
func (s *Scorer) Score(current, guide silhouette.NormalizedContour) (Result, error) {

	if guide.Diagonal <= 0 || current.Diagonal <= 0 {
		return Result{}, fmt.Errorf("contour has no pixel diagonal: %w",
			silhouette.ErrDegenerateContour)
	}

	n := s.Params.SamplePoints

	cur, err := current.Points.Resample(n)

	if err != nil {
		return Result{}, fmt.Errorf("resampling current contour: %w", err)
	}

	ref, err := guide.Points.Resample(n)

	if err != nil {
		return Result{}, fmt.Errorf("resampling guideline contour: %w", err)
	}

	shift := bestShift(cur, ref)

	// per-point residuals with the best shift applied
	dx := make([]float64, n)
	dy := make([]float64, n)
	dist := make([]float64, n)

	for i := 0; i < n; i++ {
		p := cur[(i+shift)%n]
		dx[i] = p.X - ref[i].X
		dy[i] = p.Y - ref[i].Y
		dist[i] = math.Hypot(dx[i], dy[i])
	}

	rms := floats.Norm(dist, 2) / math.Sqrt(float64(n))
	score := rms / s.Params.ScoreCeiling

	if score > 1 {
		score = 1
	}

	// displacement of the subject relative to the guideline in pixel
	// space.  normalization removed the absolute position, so the
	// retained origins carry the translation signal and the mean shape
	// residual is back-projected through the guideline's diagonal
	dispX := (current.Origin.X - guide.Origin.X) + stat.Mean(dx, nil)*guide.Diagonal
	dispY := (current.Origin.Y - guide.Origin.Y) + stat.Mean(dy, nil)*guide.Diagonal

	// the correction points where the subject must move, opposite the
	// displacement
	correction := silhouette.Pt(-dispX, -dispY)
	ratio := current.Diagonal / guide.Diagonal

	tolPx := s.Params.TranslationTol * guide.Diagonal
	dir := None

	if correction.X < -tolPx {
		dir |= Left
	} else if correction.X > tolPx {
		dir |= Right
	}

	if correction.Y < -tolPx {
		dir |= Up
	} else if correction.Y > tolPx {
		dir |= Down
	}

	if ratio > 1+s.Params.ScaleTol {
		dir |= Farther
	} else if ratio < 1-s.Params.ScaleTol {
		dir |= Closer
	}

	return Result{
		Score:           score,
		CorrectionPx:    correction,
		ScaleRatio:      ratio,
		Direction:       dir,
		WithinTolerance: dir == None,
		Shift:           shift,
	}, nil
}

// bestShift finds the integer cyclic shift of cur that minimizes the sum
// of squared distances to ref at matching indices.  Brute force over all
// shifts, cheap at the default sample count
func bestShift(cur, ref silhouette.Contour) int {

	n := len(cur)
	best := 0
	bestSSD := math.MaxFloat64

	for k := 0; k < n; k++ {

		ssd := 0.0

		for i := 0; i < n; i++ {
			p := cur[(i+k)%n]
			ddx := p.X - ref[i].X
			ddy := p.Y - ref[i].Y
			ssd += ddx*ddx + ddy*ddy

			if ssd >= bestSSD {
				// this shift already lost
				break
			}
		}

		if ssd < bestSSD {
			bestSSD = ssd
			best = k
		}
	}

	return best
}
