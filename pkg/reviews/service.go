package reviews

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/books"
	"github.com/readloom/readloom/pkg/database"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/uptrace/bun"
)

type CreateReviewOptions struct {
	BookID  int
	Rating  int
	Comment *string
}

type UpdateReviewOptions struct {
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

// ListReviews returns the reviews of a book, newest first.
func (svc *Service) ListReviews(ctx context.Context, bookID int) ([]*models.Review, error) {
	if err := svc.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	reviews := []*models.Review{}
	err := svc.db.NewSelect().
		Model(&reviews).
		Where("rv.book_id = ?", bookID).
		Order("rv.created_at DESC", "rv.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return reviews, nil
}

// CreateReview stores a review by user. A user reviews each book once.
func (svc *Service) CreateReview(ctx context.Context, user *models.User, opts CreateReviewOptions) (*models.Review, error) {
	if err := svc.requireBook(ctx, opts.BookID); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &models.Review{
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    opts.BookID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    opts.Rating,
		Comment:   opts.Comment,
	}

	_, err := svc.db.NewInsert().Model(review).Returning("*").Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errcodes.Conflict("You have already reviewed this book.")
		}
		return nil, errors.WithStack(err)
	}

	return review, nil
}

func (svc *Service) RetrieveReview(ctx context.Context, id int) (*models.Review, error) {
	review := &models.Review{}
	err := svc.db.NewSelect().
		Model(review).
		Where("rv.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Review")
		}
		return nil, errors.WithStack(err)
	}
	return review, nil
}

// RetrieveOwnReview loads a review that user is allowed to change.
func (svc *Service) RetrieveOwnReview(ctx context.Context, id int, user *models.User) (*models.Review, error) {
	review, err := svc.RetrieveReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != user.ID {
		return nil, errcodes.Forbidden("Changing another user's review")
	}
	return review, nil
}

func (svc *Service) UpdateReview(ctx context.Context, review *models.Review, opts UpdateReviewOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	review.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.NewUpdate().
		Model(review).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteReview(ctx context.Context, id int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
