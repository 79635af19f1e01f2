package books

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/htmlutil"
	"github.com/readloom/readloom/pkg/models"
	"github.com/readloom/readloom/pkg/sortname"
	"github.com/robinjoseph08/golib/logger"
)

// FileRemover releases stored files once their book is gone.
type FileRemover interface {
	Delete(ctx context.Context, key string) error
}

type handler struct {
	bookService *Service
	files       FileRemover
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Category: params.Category,
		Author:   params.Author,
		Search:   params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}{books, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:       params.Title,
		Author:      params.Author,
		Category:    emptyToNil(params.Category),
		Description: plainDescription(params.Description),
	}
	if user, ok := c.Get("user").(*models.User); ok {
		book.UploadedByID = &user.ID
	}

	err := h.bookService.CreateBook(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload so the derived fields are populated.
	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// Bind params.
	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Fetch the book.
	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateBookOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		book.SortTitle = sortname.ForTitle(book.Title)
		opts.Columns = append(opts.Columns, "title", "sort_title")
	}
	if params.Author != nil && *params.Author != book.Author {
		book.Author = *params.Author
		opts.Columns = append(opts.Columns, "author")
	}
	if params.Category != nil {
		book.Category = emptyToNil(params.Category)
		opts.Columns = append(opts.Columns, "category")
	}
	if params.Description != nil {
		book.Description = plainDescription(params.Description)
		opts.Columns = append(opts.Columns, "description")
	}

	// Update the model.
	err = h.bookService.UpdateBook(ctx, book, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload the model.
	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.DeleteBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	// Stored files are released best-effort; the rows are already gone.
	if h.files != nil {
		log := logger.FromContext(ctx)
		for _, key := range []*string{book.PDFKey, book.CoverImageKey} {
			if key == nil || *key == "" {
				continue
			}
			if err := h.files.Delete(ctx, *key); err != nil {
				log.Warn("failed to delete stored file", logger.Data{"book_id": id, "key": *key, "error": err.Error()})
			}
		}
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// plainDescription strips editor markup, since descriptions are rendered as
// plain text.
func plainDescription(s *string) *string {
	if s == nil {
		return nil
	}
	plain := htmlutil.StripTags(*s)
	return emptyToNil(&plain)
}
