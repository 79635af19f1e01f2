package uploads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/readloom/readloom/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestAvatarService(t *testing.T, db *bun.DB) (*AvatarService, *DiskStore) {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewAvatarService(auth.NewService(db, "test-secret", 0), store), store
}

func TestSetAvatar(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc, store := newTestAvatarService(t, db)
	ctx := context.Background()
	user := testutils.CreateUser(t, db, models.RoleUser)
	assert.False(t, user.HasAvatar)

	got, err := svc.SetAvatar(ctx, user, pngImage(t, 64, 64))
	require.NoError(t, err)
	assert.True(t, got.HasAvatar)
	firstKey := *got.AvatarKey

	replaced, err := svc.SetAvatar(ctx, got, pngImage(t, 32, 32))
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, *replaced.AvatarKey)

	_, err = store.Open(ctx, firstKey)
	require.ErrorIs(t, err, ErrObjectNotFound)

	r, stored, err := svc.OpenAvatar(ctx, user.ID)
	require.NoError(t, err)
	defer r.Close()
	require.NotNil(t, stored.AvatarMimeType)
	assert.Equal(t, MimeTypePNG, *stored.AvatarMimeType)
}

func TestSetAvatar_RejectsNonImage(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc, _ := newTestAvatarService(t, db)
	user := testutils.CreateUser(t, db, models.RoleUser)

	_, err := svc.SetAvatar(context.Background(), user, minimalPDF(1))
	requireValidationError(t, err)
}

func TestOpenAvatar_NotSet(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc, _ := newTestAvatarService(t, db)
	user := testutils.CreateUser(t, db, models.RoleUser)

	_, _, err := svc.OpenAvatar(context.Background(), user.ID)
	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.HTTPCode)
}

func TestHandler_UploadAndServeAvatar(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc, _ := newTestAvatarService(t, db)
	h := &handler{avatarService: svc, maxUploadBytes: 1024 * 1024}
	e := newEcho(t)
	user := testutils.CreateUser(t, db, models.RoleUser)
	avatar := pngImage(t, 48, 48)

	rr := httptest.NewRecorder()
	c := e.NewContext(multipartRequest(t, "/users/me/avatar", "me.png", avatar), rr)
	c.Set("user", user)
	require.NoError(t, h.uploadAvatar(c))

	var got models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.HasAvatar)

	id := strconv.Itoa(user.ID)
	rr = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/users/"+id+"/avatar", nil), rr)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.serveAvatar(c))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MimeTypePNG, rr.Header().Get("Content-Type"))
	assert.Equal(t, avatar, rr.Body.Bytes())
}
