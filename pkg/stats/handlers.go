package stats

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
)

type handler struct {
	statsService *Service
	now          func() time.Time
}

func (h *handler) chaptersRead(c echo.Context) error {
	ctx := c.Request().Context()

	params := ChaptersReadQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	from, to := MonthRange(h.now())
	var err error
	if params.From != "" {
		if from, err = parseDate("from", params.From); err != nil {
			return err
		}
	}
	if params.To != "" {
		if to, err = parseDate("to", params.To); err != nil {
			return err
		}
	}

	counts, err := h.statsService.ChaptersRead(ctx, from, to)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"from":     from.Format(dateLayout),
		"to":       to.Format(dateLayout),
		"chapters": counts,
	}))
}

func (h *handler) logins(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	counts, err := h.statsService.Logins(ctx, params.Days, h.now())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"days":   params.Days,
		"logins": counts,
	}))
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errcodes.ValidationError("\"" + field + "\" is not a valid date")
	}
	return t, nil
}
