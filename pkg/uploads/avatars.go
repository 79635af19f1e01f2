package uploads

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// AvatarService stores profile pictures. Avatars follow the same image rules
// as book covers.
type AvatarService struct {
	authService *auth.Service
	store       Store
}

func NewAvatarService(authService *auth.Service, store Store) *AvatarService {
	return &AvatarService{authService, store}
}

// SetAvatar stores data as the user's avatar and releases the previous one.
func (svc *AvatarService) SetAvatar(ctx context.Context, user *models.User, data []byte) (*models.User, error) {
	info, err := InspectCover(data)
	if err != nil {
		return nil, err
	}

	key := "avatars/" + uuid.NewString() + coverExtensions[info.MimeType]
	if err := svc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), info.MimeType); err != nil {
		return nil, errors.WithStack(err)
	}

	previous := user.AvatarKey
	if err := svc.authService.UpdateAvatar(ctx, user, key, info.MimeType); err != nil {
		svc.release(ctx, user.ID, &key)
		return nil, errors.WithStack(err)
	}
	svc.release(ctx, user.ID, previous)

	return user, nil
}

// OpenAvatar returns a reader over a user's avatar. The caller closes it.
func (svc *AvatarService) OpenAvatar(ctx context.Context, userID int) (io.ReadCloser, *models.User, error) {
	user, err := svc.authService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !user.HasAvatar {
		return nil, nil, errcodes.NotFound("Avatar")
	}

	r, err := svc.store.Open(ctx, *user.AvatarKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			logger.FromContext(ctx).Warn("stored avatar is missing", logger.Data{"user_id": userID, "key": *user.AvatarKey})
			return nil, nil, errcodes.NotFound("Avatar")
		}
		return nil, nil, errors.WithStack(err)
	}
	return r, user, nil
}

func (svc *AvatarService) release(ctx context.Context, userID int, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := svc.store.Delete(ctx, *key); err != nil {
		logger.FromContext(ctx).Warn("failed to delete stored avatar", logger.Data{"user_id": userID, "key": *key, "error": err.Error()})
	}
}
