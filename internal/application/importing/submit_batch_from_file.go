package importing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

var ErrInvalidImportSource = errors.New("invalid import source")

type SubmitBatchFromFileInput struct {
	SourcePath string
	Kind       string
	Actor      string
}

type SubmitBatchFromFile interface {
	Execute(ctx context.Context, in SubmitBatchFromFileInput) (SubmitBatchOutput, error)
}

type rowSource interface {
	ReadRows(ctx context.Context, sourcePath string) ([]domain.BatchRow, error)
}

type submitBatchFromFile struct {
	source rowSource
	submit SubmitBatch
}

func NewSubmitBatchFromFile(source rowSource, submit SubmitBatch) SubmitBatchFromFile {
	return &submitBatchFromFile{source: source, submit: submit}
}

func (uc *submitBatchFromFile) Execute(ctx context.Context, in SubmitBatchFromFileInput) (SubmitBatchOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".json" {
		return SubmitBatchOutput{}, ErrInvalidImportSource
	}

	rows, err := uc.source.ReadRows(ctx, sourcePath)
	if err != nil {
		return SubmitBatchOutput{}, fmt.Errorf("%w: %v", ErrInvalidImportSource, err)
	}

	return uc.submit.Execute(ctx, SubmitBatchInput{
		Origin: "file:" + sourcePath,
		Kind:   in.Kind,
		Actor:  in.Actor,
		Rows:   rows,
	})
}
