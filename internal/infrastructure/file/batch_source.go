package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

// BatchSource reads candidate rows from JSON files on local disk, used for
// operator-driven backfills.
type BatchSource struct {
	BaseDir string
}

func NewBatchSource(baseDir string) *BatchSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &BatchSource{BaseDir: baseDir}
}

func (s *BatchSource) ReadRows(_ context.Context, sourcePath string) ([]domain.BatchRow, error) {
	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, sourcePath)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file %s: %w", path, err)
	}
	defer f.Close()

	var rows []domain.BatchRow
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", path, err)
	}

	return rows, nil
}
