package reviews

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
	c.Set("user", user)
	return c, rr
}

func TestHandler_Create_ValidatesRating(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	h := &handler{reviewService: NewService(db)}
	user := testutils.CreateUser(t, db, models.RoleUser)
	book := testutils.CreateBook(t, db, "Book")
	id := strconv.Itoa(book.ID)

	for _, payload := range []string{`{"rating":0}`, `{"rating":6}`, `{"comment":"no rating"}`} {
		c, _ := newTestContext(t, user, http.MethodPost, "/books/"+id+"/reviews", payload)
		c.SetParamNames("id")
		c.SetParamValues(id)
		requireHTTPCode(t, h.create(c), http.StatusUnprocessableEntity)
	}

	c, rr := newTestContext(t, user, http.MethodPost, "/books/"+id+"/reviews", `{"rating":4,"comment":"  Good.  "}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var review models.Review
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &review))
	require.NotNil(t, review.Comment)
	assert.Equal(t, "Good.", *review.Comment)
}

func TestHandler_UpdateAndDelete_OwnerOnly(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	h := &handler{reviewService: svc}
	owner := testutils.CreateUser(t, db, models.RoleUser)
	other := testutils.CreateUser(t, db, models.RoleUser)
	book := testutils.CreateBook(t, db, "Book")

	review, err := svc.CreateReview(context.Background(), owner, CreateReviewOptions{BookID: book.ID, Rating: 2})
	require.NoError(t, err)
	id := strconv.Itoa(review.ID)

	c, _ := newTestContext(t, other, http.MethodPost, "/reviews/"+id, `{"rating":5}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	requireHTTPCode(t, h.update(c), http.StatusForbidden)

	c, _ = newTestContext(t, other, http.MethodDelete, "/reviews/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	requireHTTPCode(t, h.delete(c), http.StatusForbidden)

	c, rr := newTestContext(t, owner, http.MethodPost, "/reviews/"+id, `{"rating":5}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.update(c))

	var updated models.Review
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, 5, updated.Rating)

	c, rr = newTestContext(t, owner, http.MethodDelete, "/reviews/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.delete(c))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err = svc.RetrieveReview(context.Background(), review.ID)
	requireHTTPCode(t, err, http.StatusNotFound)
}
