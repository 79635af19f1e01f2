package textimport

import (
	"context"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/chapters"
	"github.com/readloom/readloom/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// BulkInserter stores a batch of chapters all-or-nothing.
type BulkInserter interface {
	BulkInsertChapters(ctx context.Context, bookID int, inputs []chapters.ChapterInput) ([]*models.Chapter, error)
}

type Service struct {
	inserter BulkInserter
}

func NewService(inserter BulkInserter) *Service {
	return &Service{inserter: inserter}
}

// ImportChapters parses text and stores the result as one batch. Nothing is
// stored when parsing or any batch precondition fails.
func (svc *Service) ImportChapters(ctx context.Context, bookID int, text string, opts Options) ([]*models.Chapter, error) {
	parsed, err := Parse(text, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Debug("parsed chapters from text", logger.Data{"book_id": bookID, "count": len(parsed)})

	stored, err := svc.inserter.BulkInsertChapters(ctx, bookID, parsed)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return stored, nil
}
