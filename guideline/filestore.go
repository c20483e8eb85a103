package guideline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/silkit/go-silhouette"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is the on-disk guideline format.  contourPoints are in
// normalized space, originPx and diagonalPx retain the inverse transform
// needed for back-projection when scoring
type record struct {
	CategoryID    string       `json:"categoryId"`
	ContourPoints [][2]float64 `json:"contourPoints"`
	OriginPx      [2]float64   `json:"originPx"`
	DiagonalPx    float64      `json:"diagonalPx"`
	CreatedDate   string       `json:"createdDate"`
}

// FileStore persists one guideline JSON file per category in a
// directory.  Writes go through a temp file and rename so a reader never
// observes a partially written guideline
type FileStore struct {
	dir string
}

// NewFileStore creates the storage directory if needed and returns the
// store
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating guideline directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// path returns the file for a category, separators in the id are
// flattened so a category can not escape the storage directory
func (s *FileStore) path(categoryID string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(categoryID)
	return filepath.Join(s.dir, name+".json")
}

// Save writes the category's guideline record with atomic replace
// semantics
func (s *FileStore) Save(categoryID string, nc silhouette.NormalizedContour) error {

	if len(nc.Points) < 3 || nc.Diagonal <= 0 {
		return fmt.Errorf("refusing to store guideline: %w",
			silhouette.ErrDegenerateContour)
	}

	rec := record{
		CategoryID:    categoryID,
		ContourPoints: make([][2]float64, len(nc.Points)),
		OriginPx:      [2]float64{nc.Origin.X, nc.Origin.Y},
		DiagonalPx:    nc.Diagonal,
		CreatedDate:   time.Now().UTC().Format(time.RFC3339),
	}

	for i, p := range nc.Points {
		rec.ContourPoints[i] = [2]float64{p.X, p.Y}
	}

	data, err := json.Marshal(rec)

	if err != nil {
		return fmt.Errorf("encoding guideline: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".guideline-*.tmp")

	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing guideline: %w", err)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing guideline: %w", err)
	}

	if err = os.Rename(tmpName, s.path(categoryID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing guideline: %w", err)
	}

	return nil
}

// Load reads the category's guideline, ErrMissing when none exists
func (s *FileStore) Load(categoryID string) (*Guideline, error) {

	data, err := os.ReadFile(s.path(categoryID))

	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("reading guideline: %w", err)
	}

	var rec record

	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding guideline: %w", err)
	}

	if len(rec.ContourPoints) < 3 || rec.DiagonalPx <= 0 {
		return nil, fmt.Errorf("stored guideline is unusable: %w",
			silhouette.ErrDegenerateContour)
	}

	created, err := time.Parse(time.RFC3339, rec.CreatedDate)

	if err != nil {
		return nil, fmt.Errorf("parsing guideline date: %w", err)
	}

	pts := make(silhouette.Contour, len(rec.ContourPoints))

	for i, p := range rec.ContourPoints {
		pts[i] = silhouette.Pt(p[0], p[1])
	}

	return &Guideline{
		CategoryID: categoryID,
		Contour: silhouette.NormalizedContour{
			Points:   pts,
			Origin:   silhouette.Pt(rec.OriginPx[0], rec.OriginPx[1]),
			Diagonal: rec.DiagonalPx,
		},
		Created: created,
	}, nil
}
