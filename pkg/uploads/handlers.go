package uploads

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/errcodes"
)

type handler struct {
	uploadService  *Service
	avatarService  *AvatarService
	maxUploadBytes int64
}

func (h *handler) uploadPDF(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	filename, data, err := h.readUpload(c)
	if err != nil {
		return err
	}

	book, err := h.uploadService.AttachPDF(ctx, bookID, filename, data)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) uploadCover(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	_, data, err := h.readUpload(c)
	if err != nil {
		return err
	}

	book, err := h.uploadService.AttachCover(ctx, bookID, data)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) servePDF(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	r, book, err := h.uploadService.OpenPDF(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	filename := "book-" + strconv.Itoa(book.ID) + ".pdf"
	if book.PDFOriginalName != nil && *book.PDFOriginalName != "" {
		filename = *book.PDFOriginalName
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": filename}))

	return errors.WithStack(c.Stream(http.StatusOK, MimeTypePDF, r))
}

func (h *handler) serveCover(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	r, book, err := h.uploadService.OpenCover(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	contentType := echo.MIMEOctetStream
	if book.CoverMimeType != nil {
		contentType = *book.CoverMimeType
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=3600")

	return errors.WithStack(c.Stream(http.StatusOK, contentType, r))
}

func (h *handler) uploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := auth.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	_, data, err := h.readUpload(c)
	if err != nil {
		return err
	}

	user, err = h.avatarService.SetAvatar(ctx, user, data)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func (h *handler) serveAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	r, user, err := h.avatarService.OpenAvatar(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	contentType := echo.MIMEOctetStream
	if user.AvatarMimeType != nil {
		contentType = *user.AvatarMimeType
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=3600")

	return errors.WithStack(c.Stream(http.StatusOK, contentType, r))
}

// readUpload binds the multipart form and reads the "file" field into
// memory, enforcing the upload limit.
func (h *handler) readUpload(c echo.Context) (string, []byte, error) {
	params := UploadPayload{}
	if err := c.Bind(&params); err != nil {
		return "", nil, errors.WithStack(err)
	}

	fh, ok := params.FormFiles["file"]
	if !ok {
		return "", nil, errcodes.ValidationError(`"file" is required`)
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return "", nil, errcodes.PayloadTooLarge(strconv.FormatInt(h.maxUploadBytes/(1024*1024), 10) + " MB")
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, errors.WithStack(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errors.WithStack(err)
	}

	return fh.Filename, data, nil
}
