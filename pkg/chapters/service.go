package chapters

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/books"
	"github.com/readloom/readloom/pkg/database"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/uptrace/bun"
)

// ChapterInput is a chapter that hasn't been stored yet.
type ChapterInput struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

type RetrieveChapterOptions struct {
	ID            *int
	BookID        *int
	ChapterNumber *int
}

type UpdateChapterOptions struct {
	Columns []string
}

type Service struct {
	db          *bun.DB
	bookService *books.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:          db,
		bookService: books.NewService(db),
	}
}

func (svc *Service) requireBook(ctx context.Context, bookID int) error {
	exists, err := svc.bookService.Exists(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Book")
	}
	return nil
}

// CreateChapter stores one chapter. A chapter with the same number in the same
// book is a conflict, never an overwrite.
func (svc *Service) CreateChapter(ctx context.Context, bookID int, input ChapterInput) (*models.Chapter, error) {
	if err := svc.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	if msg := validateInput(input); msg != "" {
		return nil, errcodes.ValidationError(msg)
	}

	exists, err := svc.db.NewSelect().
		Model((*models.Chapter)(nil)).
		Where("ch.book_id = ?", bookID).
		Where("ch.chapter_number = ?", input.ChapterNumber).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, conflictError([]int{input.ChapterNumber})
	}

	now := time.Now()
	chapter := &models.Chapter{
		CreatedAt:     now,
		UpdatedAt:     now,
		BookID:        bookID,
		ChapterNumber: input.ChapterNumber,
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		WordCount:     models.CountWords(input.Content),
	}

	// The unique index catches a concurrent insert that slipped past the
	// check above.
	_, err = svc.db.NewInsert().Model(chapter).Returning("*").Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflictError([]int{input.ChapterNumber})
		}
		return nil, errors.WithStack(err)
	}

	return chapter, nil
}

func (svc *Service) RetrieveChapter(ctx context.Context, opts RetrieveChapterOptions) (*models.Chapter, error) {
	chapter := &models.Chapter{}

	q := svc.db.
		NewSelect().
		Model(chapter)

	if opts.ID != nil {
		q = q.Where("ch.id = ?", *opts.ID)
	}
	if opts.BookID != nil {
		q = q.Where("ch.book_id = ?", *opts.BookID)
	}
	if opts.ChapterNumber != nil {
		q = q.Where("ch.chapter_number = ?", *opts.ChapterNumber)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Chapter")
		}
		return nil, errors.WithStack(err)
	}

	return chapter, nil
}

// RetrieveChapterByNumber returns the full chapter, content included.
func (svc *Service) RetrieveChapterByNumber(ctx context.Context, bookID, chapterNumber int) (*models.Chapter, error) {
	return svc.RetrieveChapter(ctx, RetrieveChapterOptions{
		BookID:        &bookID,
		ChapterNumber: &chapterNumber,
	})
}

// ListChapters returns the chapters of a book in reading order. Content isn't
// loaded.
func (svc *Service) ListChapters(ctx context.Context, bookID int) ([]*models.Chapter, error) {
	if err := svc.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	chapters := []*models.Chapter{}
	err := svc.db.NewSelect().
		Model(&chapters).
		ExcludeColumn("content").
		Where("ch.book_id = ?", bookID).
		Order("ch.chapter_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return chapters, nil
}

// UpdateChapter writes the given columns. The owning book can't change.
// Writing content also refreshes the word count.
func (svc *Service) UpdateChapter(ctx context.Context, chapter *models.Chapter, opts UpdateChapterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	columns := make([]string, 0, len(opts.Columns)+2)
	for _, col := range opts.Columns {
		switch col {
		case "book_id", "id", "created_at":
			return errors.Errorf("column %q can't be updated", col)
		case "content":
			chapter.WordCount = models.CountWords(chapter.Content)
			columns = append(columns, "content", "word_count")
		case "word_count":
		default:
			columns = append(columns, col)
		}
	}

	// Update updated_at.
	chapter.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(chapter).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return conflictError([]int{chapter.ChapterNumber})
		}
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Chapter")
	}

	return nil
}

// DeleteChapter removes a chapter. The book's chapter total follows on the
// next read.
func (svc *Service) DeleteChapter(ctx context.Context, id int) error {
	res, err := svc.db.NewDelete().
		Model((*models.Chapter)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Chapter")
	}
	return nil
}

// BulkInsertChapters stores a batch of chapters all-or-nothing. Checks run in
// order: the book exists, every chapter is complete, numbers are unique
// within the batch, and none of them is stored yet.
func (svc *Service) BulkInsertChapters(ctx context.Context, bookID int, inputs []ChapterInput) ([]*models.Chapter, error) {
	if err := svc.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, errcodes.ValidationError("At least one chapter is required.")
	}

	for i, input := range inputs {
		if msg := validateInput(input); msg != "" {
			return nil, errcodes.ValidationError(fmt.Sprintf("Chapter %d in the batch: %s", i+1, msg))
		}
	}

	if dupes := duplicateNumbers(inputs); len(dupes) > 0 {
		return nil, errcodes.ValidationError("Duplicate chapter numbers in the batch: " + joinNumbers(dupes) + ".")
	}

	numbers := make([]int, 0, len(inputs))
	now := time.Now()
	chapters := make([]*models.Chapter, 0, len(inputs))
	for _, input := range inputs {
		numbers = append(numbers, input.ChapterNumber)
		chapters = append(chapters, &models.Chapter{
			CreatedAt:     now,
			UpdatedAt:     now,
			BookID:        bookID,
			ChapterNumber: input.ChapterNumber,
			Title:         strings.TrimSpace(input.Title),
			Content:       input.Content,
			WordCount:     models.CountWords(input.Content),
		})
	}

	// Check and insert share a transaction, so a concurrent import can only
	// surface as a unique violation and never as a partial batch.
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var existing []int
		err := tx.NewSelect().
			Model((*models.Chapter)(nil)).
			Column("ch.chapter_number").
			Where("ch.book_id = ?", bookID).
			Where("ch.chapter_number IN (?)", bun.In(numbers)).
			Order("ch.chapter_number ASC").
			Scan(ctx, &existing)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(existing) > 0 {
			return conflictError(existing)
		}

		_, err = tx.NewInsert().Model(&chapters).Returning("*").Exec(ctx)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return errcodes.Conflict("One or more chapters already exist for this book.")
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return chapters, nil
}

// validateInput returns a message describing what's wrong with the input, or
// the empty string.
func validateInput(input ChapterInput) string {
	switch {
	case input.ChapterNumber <= 0:
		return "chapter number must be a positive integer."
	case strings.TrimSpace(input.Title) == "":
		return "title is required."
	case strings.TrimSpace(input.Content) == "":
		return "content is required."
	}
	return ""
}

func duplicateNumbers(inputs []ChapterInput) []int {
	seen := make(map[int]int, len(inputs))
	for _, input := range inputs {
		seen[input.ChapterNumber]++
	}
	dupes := []int{}
	for n, count := range seen {
		if count > 1 {
			dupes = append(dupes, n)
		}
	}
	sort.Ints(dupes)
	return dupes
}

func conflictError(numbers []int) error {
	if len(numbers) == 1 {
		return errcodes.Conflict("Chapter " + strconv.Itoa(numbers[0]) + " already exists.")
	}
	return errcodes.Conflict("Chapters " + joinNumbers(numbers) + " already exist.")
}

func joinNumbers(numbers []int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}
