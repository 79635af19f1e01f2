package progress

import (
	"context"
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

func newTestContext(t *testing.T, user *models.User, method, target, payload string) (echo.Context, *httptest.ResponseRecorder) {
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
	c := e.NewContext(req, rr)
	if user != nil {
		c.Set("user", user)
	}
	return c, rr
}

func TestHandler_Record(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{progressService: NewService(db)}
	user := testutils.CreateUser(t, db, models.RoleUser)
	book := testutils.CreateBook(t, db, "Emma")

	payload := `{"book_id":` + strconv.Itoa(book.ID) + `,"chapter_number":5,"percent_complete":100}`
	c, rr := newTestContext(t, user, http.MethodPost, "/progress", payload)

	require.NoError(t, h.record(c))
	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.ReadingProgress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, 5, got.LastChapterRead)
	assert.Equal(t, models.ProgressStatusCompleted, got.Status)
}

func TestHandler_Record_Validation(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{progressService: NewService(db)}
	user := testutils.CreateUser(t, db, models.RoleUser)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing book", `{"chapter_number":1,"percent_complete":10}`},
		{"negative chapter", `{"book_id":1,"chapter_number":-1,"percent_complete":10}`},
		{"percent over 100", `{"book_id":1,"chapter_number":1,"percent_complete":101}`},
		{"negative percent", `{"book_id":1,"chapter_number":1,"percent_complete":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, user, http.MethodPost, "/progress", tt.payload)
			err := h.record(c)
			var errResp *errcodes.Error
			require.ErrorAs(t, err, &errResp)
			assert.Equal(t, http.StatusUnprocessableEntity, errResp.HTTPCode)
		})
	}
}

func TestHandler_Record_RequiresUser(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{progressService: NewService(db)}

	c, _ := newTestContext(t, nil, http.MethodPost, "/progress", `{"book_id":1,"chapter_number":1,"percent_complete":1}`)
	err := h.record(c)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnauthorized, errResp.HTTPCode)
}

func TestHandler_List_FiltersByStatus(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	h := &handler{progressService: svc}
	user := testutils.CreateUser(t, db, models.RoleUser)
	done := testutils.CreateBook(t, db, "Done")
	reading := testutils.CreateBook(t, db, "Reading")

	_, err := svc.RecordProgress(context.Background(), RecordProgressOptions{UserID: user.ID, BookID: done.ID, ChapterNumber: 10, PercentComplete: 100})
	require.NoError(t, err)
	_, err = svc.RecordProgress(context.Background(), RecordProgressOptions{UserID: user.ID, BookID: reading.ID, ChapterNumber: 2, PercentComplete: 20})
	require.NoError(t, err)

	c, rr := newTestContext(t, user, http.MethodGet, "/progress?status=in_progress", "")
	require.NoError(t, h.list(c))

	var resp struct {
		Progress []*models.ReadingProgress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Progress, 1)
	assert.Equal(t, "Reading", resp.Progress[0].BookTitle)
}

func TestHandler_List_ReturnsWholeHistory(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	h := &handler{progressService: svc}
	user := testutils.CreateUser(t, db, models.RoleUser)

	const books = 60
	for bookID := 1; bookID <= books; bookID++ {
		_, err := svc.RecordProgress(context.Background(), RecordProgressOptions{UserID: user.ID, BookID: bookID, ChapterNumber: 1, PercentComplete: 10})
		require.NoError(t, err)
	}

	var resp struct {
		Progress []*models.ReadingProgress `json:"progress"`
	}

	c, rr := newTestContext(t, user, http.MethodGet, "/progress", "")
	require.NoError(t, h.list(c))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Progress, books)

	c, rr = newTestContext(t, user, http.MethodGet, "/progress?limit=5&offset=58", "")
	require.NoError(t, h.list(c))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Progress, 2)

	c, rr = newTestContext(t, user, http.MethodGet, "/progress?offset=50", "")
	require.NoError(t, h.list(c))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Progress, 10)
}

func TestHandler_List_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{progressService: NewService(db)}
	user := testutils.CreateUser(t, db, models.RoleUser)

	c, _ := newTestContext(t, user, http.MethodGet, "/progress?status=paused", "")
	err := h.list(c)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, errResp.HTTPCode)
}

func TestHandler_Retrieve(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	h := &handler{progressService: svc}
	user := testutils.CreateUser(t, db, models.RoleUser)
	other := testutils.CreateUser(t, db, models.RoleUser)
	book := testutils.CreateBook(t, db, "Persuasion")

	_, err := svc.RecordProgress(context.Background(), RecordProgressOptions{UserID: user.ID, BookID: book.ID, ChapterNumber: 3, PercentComplete: 25})
	require.NoError(t, err)

	t.Run("own record", func(t *testing.T) {
		c, rr := newTestContext(t, user, http.MethodGet, "/progress/"+strconv.Itoa(book.ID), "")
		c.SetParamNames("bookId")
		c.SetParamValues(strconv.Itoa(book.ID))
		require.NoError(t, h.retrieve(c))

		var got models.ReadingProgress
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 3, got.LastChapterRead)
	})

	t.Run("other user's record is not visible", func(t *testing.T) {
		c, _ := newTestContext(t, other, http.MethodGet, "/progress/"+strconv.Itoa(book.ID), "")
		c.SetParamNames("bookId")
		c.SetParamValues(strconv.Itoa(book.ID))
		err := h.retrieve(c)
		var errResp *errcodes.Error
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, http.StatusNotFound, errResp.HTTPCode)
	})
}
