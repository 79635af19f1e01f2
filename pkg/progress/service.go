package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/uptrace/bun"
)

type RecordProgressOptions struct {
	UserID          int
	BookID          int
	ChapterNumber   int
	PercentComplete float64
}

type ListHistoryOptions struct {
	// Status is models.ProgressStatusInProgress or
	// models.ProgressStatusCompleted. Nil lists everything.
	Status *string
	Limit  *int
	Offset *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RecordProgress upserts the progress of a user in a book with a single
// statement. The first call creates the record, later calls overwrite the
// chapter, percentage and updated_at. The book and chapter aren't checked.
func (svc *Service) RecordProgress(ctx context.Context, opts RecordProgressOptions) (*models.ReadingProgress, error) {
	now := time.Now()
	progress := &models.ReadingProgress{
		CreatedAt:       now,
		UpdatedAt:       now,
		UserID:          opts.UserID,
		BookID:          opts.BookID,
		LastChapterRead: opts.ChapterNumber,
		PercentComplete: opts.PercentComplete,
	}

	_, err := svc.db.
		NewInsert().
		Model(progress).
		On("CONFLICT (user_id, book_id) DO UPDATE").
		Set("last_chapter_read = EXCLUDED.last_chapter_read").
		Set("percent_complete = EXCLUDED.percent_complete").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	progress.Status = models.ProgressStatus(progress.PercentComplete)

	return progress, nil
}

// selectWithBook joins the book for display fields. A deleted book leaves
// them blank.
func (svc *Service) selectWithBook(model interface{}) *bun.SelectQuery {
	return svc.db.
		NewSelect().
		Model(model).
		ColumnExpr("rp.*").
		ColumnExpr("COALESCE(b.title, '') AS book_title").
		ColumnExpr("COALESCE(b.author, '') AS book_author").
		Join("LEFT JOIN books AS b ON b.id = rp.book_id")
}

func (svc *Service) RetrieveProgress(ctx context.Context, userID, bookID int) (*models.ReadingProgress, error) {
	progress := &models.ReadingProgress{}
	err := svc.selectWithBook(progress).
		Where("rp.user_id = ?", userID).
		Where("rp.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reading progress")
		}
		return nil, errors.WithStack(err)
	}
	return progress, nil
}

// ListHistory returns the progress records of a user, most recently read
// first.
func (svc *Service) ListHistory(ctx context.Context, userID int, opts ListHistoryOptions) ([]*models.ReadingProgress, error) {
	records := []*models.ReadingProgress{}

	q := svc.selectWithBook(&records).
		Where("rp.user_id = ?", userID).
		OrderExpr("rp.updated_at DESC").
		OrderExpr("rp.id DESC")

	if opts.Status != nil {
		switch *opts.Status {
		case models.ProgressStatusCompleted:
			q = q.Where("rp.percent_complete >= ?", models.CompletedPercent)
		case models.ProgressStatusInProgress:
			q = q.Where("rp.percent_complete < ?", models.CompletedPercent)
		default:
			return nil, errcodes.ValidationError("Unknown status " + *opts.Status + ".")
		}
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		// SQLite only takes OFFSET after a LIMIT; -1 means no limit.
		if opts.Limit == nil {
			q = q.Limit(-1)
		}
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return records, nil
}

// ChaptersReadByDate counts progress records per UTC calendar day of their
// last update, between from and to (YYYY-MM-DD, inclusive). Days without
// reading are left out.
func (svc *Service) ChaptersReadByDate(ctx context.Context, from, to string) ([]*models.DailyCount, error) {
	counts := []*models.DailyCount{}
	err := svc.db.NewSelect().
		Model((*models.ReadingProgress)(nil)).
		ColumnExpr("substr(rp.updated_at, 1, 10) AS date").
		ColumnExpr("COUNT(*) AS count").
		Where("substr(rp.updated_at, 1, 10) BETWEEN ? AND ?", from, to).
		GroupExpr("date").
		OrderExpr("date ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}
