// Package session runs the per-frame capture pipeline, mask to contour
// to normalized contour to alignment score, against a category's stored
// guideline.  Each frame is a fresh run of the state machine, a failure
// in any stage terminates that frame and the next mask starts over.
package session

import (
	"errors"
	"fmt"

	"github.com/silkit/go-silhouette"
	"github.com/silkit/go-silhouette/align"
	"github.com/silkit/go-silhouette/extract"
	"github.com/silkit/go-silhouette/guideline"
)

// State tracks how far a frame progressed through the pipeline
type State int

const (
	// WaitingForMask is the initial state before any processing
	WaitingForMask State = iota
	// ContourExtracted means the silhouette polygon was traced
	ContourExtracted
	// Normalized means the contour was mapped to comparison space
	Normalized
	// Scored means alignment against the guideline completed
	Scored
	// GuidanceReady is the terminal success state, feedback available
	GuidanceReady
	// Failed is the terminal error state for the frame
	Failed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case WaitingForMask:
		return "WaitingForMask"
	case ContourExtracted:
		return "ContourExtracted"
	case Normalized:
		return "Normalized"
	case Scored:
		return "Scored"
	case GuidanceReady:
		return "GuidanceReady"
	case Failed:
		return "Failed"
	}

	return "Unknown"
}

// Config defines the session setup
type Config struct {
	// Category selects which guideline the session aligns against
	Category string
	// Store is the guideline persistence backend
	Store guideline.Store
	// Extractor to use, nil gets one with default parameters
	Extractor *extract.Extractor
	// Scorer to use, nil gets one with default parameters
	Scorer *align.Scorer
	// ImageWidth and ImageHeight give the capture resolution for
	// mapping contours out of the mask grid.  Zero means contours stay
	// in mask-grid coordinates
	ImageWidth  int
	ImageHeight int
}

// FrameResult is the outcome of processing one mask
type FrameResult struct {
	// State is the terminal state the frame reached
	State State
	// Contour is the extracted silhouette in pixel coordinates, set
	// from ContourExtracted onward
	Contour silhouette.Contour
	// Normalized is the contour in comparison space, set from
	// Normalized onward
	Normalized silhouette.NormalizedContour
	// Alignment holds the feedback signal when State is GuidanceReady
	Alignment *align.Result
	// NeedsGuideline is true when no reference exists for the category
	// yet, the frame's Normalized contour is a candidate to establish
	// one
	NeedsGuideline bool
	// Err carries the failure when State is Failed
	Err error
}

// Session holds the per-capture-session state, the cached guideline and
// the previous frame's centroid used as the extraction tie-break hint.
// A session is confined to a single worker context, it is not safe for
// concurrent use
type Session struct {
	cfg       Config
	extractor *extract.Extractor
	scorer    *align.Scorer

	// guideline is loaded once per session and cached
	guide       *guideline.Guideline
	guideLoaded bool

	// hint is the previous successful frame's centroid in mask-grid
	// coordinates
	hint *silhouette.Point
}

// New returns a session for the given category
func New(cfg Config) *Session {
	s := &Session{
		cfg:       cfg,
		extractor: cfg.Extractor,
		scorer:    cfg.Scorer,
	}

	if s.extractor == nil {
		s.extractor = extract.NewExtractor(extract.DefaultParams())
	}

	if s.scorer == nil {
		s.scorer = align.NewScorer(align.DefaultParams())
	}

	return s
}

// Process runs one mask through the pipeline.  All per-frame state lives
// in the returned FrameResult, a failed frame leaves the session ready
// for the next mask
func (s *Session) Process(mask *silhouette.Mask) FrameResult {

	imgW, imgH := s.cfg.ImageWidth, s.cfg.ImageHeight

	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = mask.Width, mask.Height
	}

	contour, err := s.extractor.ExtractWithHint(mask, imgW, imgH, s.hint)

	if err != nil {
		return FrameResult{State: Failed, Err: fmt.Errorf("extracting contour: %w", err)}
	}

	nc, err := silhouette.Normalize(contour)

	if err != nil {
		return FrameResult{
			State:   Failed,
			Contour: contour,
			Err:     fmt.Errorf("normalizing contour: %w", err),
		}
	}

	// remember where the subject stood for the next frame's tie-break.
	// the hint lives in mask-grid coordinates
	mapper := extract.NewCoordMapper(mask.Width, mask.Height, imgW, imgH)
	hint := silhouette.Pt(
		nc.Origin.X*mapper.Scale()+mapper.XPad(),
		nc.Origin.Y*mapper.Scale()+mapper.YPad(),
	)
	s.hint = &hint

	guide, err := s.guideline()

	if errors.Is(err, guideline.ErrMissing) {
		// no reference yet, the capture flow treats this frame as a
		// free capture and may establish it as the new guideline
		return FrameResult{
			State:          Normalized,
			Contour:        contour,
			Normalized:     nc,
			NeedsGuideline: true,
		}
	}

	if err != nil {
		return FrameResult{
			State:      Failed,
			Contour:    contour,
			Normalized: nc,
			Err:        fmt.Errorf("loading guideline: %w", err),
		}
	}

	res, err := s.scorer.Score(nc, guide.Contour)

	if err != nil {
		return FrameResult{
			State:      Failed,
			Contour:    contour,
			Normalized: nc,
			Err:        fmt.Errorf("scoring alignment: %w", err),
		}
	}

	return FrameResult{
		State:      GuidanceReady,
		Contour:    contour,
		Normalized: nc,
		Alignment:  &res,
	}
}

// EstablishGuideline stores the contour as the category's new reference
// pose, replacing any previous one, and refreshes the session cache
func (s *Session) EstablishGuideline(nc silhouette.NormalizedContour) error {

	if s.cfg.Store == nil {
		return errors.New("session has no guideline store")
	}

	if err := s.cfg.Store.Save(s.cfg.Category, nc); err != nil {
		return fmt.Errorf("saving guideline: %w", err)
	}

	// reload on next frame so the cache reflects the stored value
	s.guide = nil
	s.guideLoaded = false

	return nil
}

// Guideline returns the cached guideline, loading it on first use.  nil
// when none has been established
func (s *Session) Guideline() *guideline.Guideline {
	g, err := s.guideline()

	if err != nil {
		return nil
	}

	return g
}

// guideline loads the category's guideline once per session.  A missing
// guideline is cached as well, established references go through
// EstablishGuideline which resets the cache
func (s *Session) guideline() (*guideline.Guideline, error) {

	if s.guideLoaded {
		if s.guide == nil {
			return nil, guideline.ErrMissing
		}
		return s.guide, nil
	}

	if s.cfg.Store == nil {
		s.guideLoaded = true
		return nil, guideline.ErrMissing
	}

	g, err := s.cfg.Store.Load(s.cfg.Category)

	if errors.Is(err, guideline.ErrMissing) {
		s.guideLoaded = true
		return nil, err
	}

	if err != nil {
		// IO failures are not cached, the next frame retries the load
		return nil, err
	}

	s.guide = g
	s.guideLoaded = true

	return g, nil
}
