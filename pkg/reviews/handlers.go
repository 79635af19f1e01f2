package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/errcodes"
)

type handler struct {
	reviewService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	reviews, err := h.reviewService.ListReviews(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"reviews": reviews,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := CreateReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.reviewService.CreateReview(ctx, user, CreateReviewOptions{
		BookID:  bookID,
		Rating:  params.Rating,
		Comment: emptyToNil(params.Comment),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, review))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Review")
	}

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := UpdateReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.reviewService.RetrieveOwnReview(ctx, id, user)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateReviewOptions{Columns: []string{}}
	if params.Rating != nil && *params.Rating != review.Rating {
		review.Rating = *params.Rating
		opts.Columns = append(opts.Columns, "rating")
	}
	if params.Comment != nil {
		review.Comment = emptyToNil(params.Comment)
		opts.Columns = append(opts.Columns, "comment")
	}

	if err := h.reviewService.UpdateReview(ctx, review, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, review))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Review")
	}

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.reviewService.RetrieveOwnReview(ctx, id, user); err != nil {
		return errors.WithStack(err)
	}

	if err := h.reviewService.DeleteReview(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
