package chapters

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/binder"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/readloom/readloom/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")

	c, rr := newTestContext(t, http.MethodPost, "/books/1/chapters", `{"chapter_number":1,"title":"Intro","content":"Hello world."}`)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var chapter models.Chapter
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &chapter))
	assert.Equal(t, book.ID, chapter.BookID)
	assert.Equal(t, 2, chapter.WordCount)
	assert.Equal(t, "Hello world.", chapter.Content)
}

func TestHandler_List_OmitsContent(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	testutils.CreateChapters(t, db, book.ID, 2, 1)

	c, rr := newTestContext(t, http.MethodGet, "/books/1/chapters", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	require.NoError(t, h.list(c))
	assert.NotContains(t, rr.Body.String(), `"content"`)

	var resp struct {
		Chapters []*models.Chapter `json:"chapters"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Chapters, 2)
	assert.Equal(t, 1, resp.Chapters[0].ChapterNumber)
}

func TestHandler_RetrieveByNumber(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	testutils.CreateChapters(t, db, book.ID, 4)

	c, rr := newTestContext(t, http.MethodGet, "/books/1/chapters/4", "")
	c.SetParamNames("id", "number")
	c.SetParamValues(strconv.Itoa(book.ID), "4")

	require.NoError(t, h.retrieveByNumber(c))
	assert.Contains(t, rr.Body.String(), `"content"`)

	c, _ = newTestContext(t, http.MethodGet, "/books/1/chapters/5", "")
	c.SetParamNames("id", "number")
	c.SetParamValues(strconv.Itoa(book.ID), "5")

	err := h.retrieveByNumber(c)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.HTTPCode)
}

func TestHandler_BulkInsert_Conflict(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	testutils.CreateChapters(t, db, book.ID, 2)

	payload := `{"chapters":[{"chapter_number":1,"title":"One","content":"a"},{"chapter_number":2,"title":"Two","content":"b"}]}`
	c, _ := newTestContext(t, http.MethodPost, "/books/1/chapters/bulk", payload)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	err := h.bulkInsert(c)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusConflict, errResp.HTTPCode)
	assert.Equal(t, "conflict", errResp.Code)
}

func TestHandler_Update_RejectsBookID(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	other := testutils.CreateBook(t, db, "Other")
	chapters := testutils.CreateChapters(t, db, book.ID, 1)
	id := strconv.Itoa(chapters[0].ID)

	c, _ := newTestContext(t, http.MethodPost, "/chapters/"+id, `{"book_id":`+strconv.Itoa(other.ID)+`}`)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.update(c)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, errResp.HTTPCode)
	assert.Contains(t, errResp.Message, "book_id")
}

func TestHandler_Update_Content(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	chapters := testutils.CreateChapters(t, db, book.ID, 1)
	id := strconv.Itoa(chapters[0].ID)

	c, rr := newTestContext(t, http.MethodPost, "/chapters/"+id, `{"content":"just three words"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, h.update(c))

	var got models.Chapter
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, book.ID, got.BookID)
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{chapterService: NewService(db)}
	book := testutils.CreateBook(t, db, "Book")
	chapters := testutils.CreateChapters(t, db, book.ID, 1)
	id := strconv.Itoa(chapters[0].ID)

	c, rr := newTestContext(t, http.MethodDelete, "/chapters/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, h.delete(c))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
