package chapters

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	chapterService *Service
}

func bookIDParam(c echo.Context) (int, error) {
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("Book")
	}
	return bookID, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	chapters, err := h.chapterService.ListChapters(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"chapters": chapters,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	params := CreateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapter, err := h.chapterService.CreateChapter(ctx, bookID, ChapterInput(params))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, chapter))
}

func (h *handler) retrieveByNumber(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	chapter, err := h.chapterService.RetrieveChapterByNumber(ctx, bookID, number)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) bulkInsert(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	params := BulkInsertChaptersPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapters, err := h.chapterService.BulkInsertChapters(ctx, bookID, params.Chapters)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("chapters inserted", logger.Data{"book_id": bookID, "count": len(chapters)})

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]any{
		"chapters": chapters,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	chapter, err := h.chapterService.RetrieveChapter(ctx, RetrieveChapterOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	// Bind params.
	params := UpdateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Fetch the chapter.
	chapter, err := h.chapterService.RetrieveChapter(ctx, RetrieveChapterOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateChapterOptions{Columns: []string{}}

	if params.ChapterNumber != nil && *params.ChapterNumber != chapter.ChapterNumber {
		chapter.ChapterNumber = *params.ChapterNumber
		opts.Columns = append(opts.Columns, "chapter_number")
	}
	if params.Title != nil && *params.Title != chapter.Title {
		chapter.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Content != nil && *params.Content != chapter.Content {
		chapter.Content = *params.Content
		opts.Columns = append(opts.Columns, "content")
	}

	// Update the model.
	err = h.chapterService.UpdateChapter(ctx, chapter, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	err = h.chapterService.DeleteChapter(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
