package progress

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/errcodes"
)

type handler struct {
	progressService *Service
}

func (h *handler) record(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := RecordProgressPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	progress, err := h.progressService.RecordProgress(ctx, RecordProgressOptions{
		UserID:          user.ID,
		BookID:          params.BookID,
		ChapterNumber:   params.ChapterNumber,
		PercentComplete: params.PercentComplete,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, progress))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := ListHistoryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	history, err := h.progressService.ListHistory(ctx, user.ID, ListHistoryOptions{
		Status: params.Status,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"progress": history,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Reading progress")
	}

	progress, err := h.progressService.RetrieveProgress(ctx, user.ID, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, progress))
}
