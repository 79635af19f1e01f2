package textimport

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
)

type handler struct {
	importService  *Service
	maxUploadBytes int64
}

// importChapters parses the submitted text and stores the chapters, or only
// returns them when ?preview=true.
func (h *handler) importChapters(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	preview := false
	if raw := c.QueryParam("preview"); raw != "" {
		preview, err = strconv.ParseBool(raw)
		if err != nil {
			return errcodes.ValidationTypeError(`"preview" should be of type bool`)
		}
	}

	params := ImportChaptersPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	text, err := h.payloadText(params)
	if err != nil {
		return err
	}

	if preview || params.Preview {
		parsed, err := Parse(text, params.options())
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
			"chapters": parsed,
		}))
	}

	stored, err := h.importService.ImportChapters(ctx, bookID, text, params.options())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]any{
		"chapters": stored,
	}))
}

const mimeTypePDF = "application/pdf"

// payloadText returns the inline text, or the text of the uploaded file when
// it's plain text or a PDF.
func (h *handler) payloadText(params ImportChaptersPayload) (string, error) {
	fh, ok := params.FormFiles["file"]
	if !ok {
		if strings.TrimSpace(params.Text) == "" {
			return "", errcodes.ValidationError(`"text" is required`)
		}
		return params.Text, nil
	}

	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return "", errcodes.PayloadTooLarge(strconv.FormatInt(h.maxUploadBytes, 10) + " bytes")
	}

	f, err := fh.Open()
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.WithStack(err)
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(mimeTypePDF):
		return ExtractPDFText(data)
	case isPlainText(mtype):
		return string(data), nil
	default:
		return "", errcodes.UnsupportedMediaType()
	}
}

func isPlainText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
