package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"

	"hotel/internal/domain"
	"hotel/internal/pkg/imaging"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"

	"gorm.io/datatypes"
)

const (
	avatarDir = "avatars"

	MsgInvalidImage     = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgUnsupportedImage = "Unsupported image format. Upload a JPEG or PNG file."
)

// AvatarService thumbnails uploaded avatars and keeps at most one file per user.
type AvatarService struct {
	users   UserStore
	files   FileStore
	maxSide int
	loggerf func(format string, args ...interface{})
}

func NewAvatarService(users UserStore, files FileStore, maxSide int) *AvatarService {
	return &AvatarService{users: users, files: files, maxSide: maxSide, loggerf: log.Printf}
}

func (s *AvatarService) URL(rel string) string {
	return s.files.URL(rel)
}

// Set replaces the user's avatar with a thumbnail of r.
func (s *AvatarService) Set(ctx context.Context, userID int64, r io.Reader) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	thumb, err := imaging.Thumbnail(r, s.maxSide)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return nil, validator.FieldErrors{"avatar": MsgUnsupportedImage}
	case err != nil:
		return nil, validator.FieldErrors{"avatar": MsgInvalidImage}
	}

	rel, err := s.files.Save(avatarDir, thumb.Ext, bytes.NewReader(thumb.Data))
	if err != nil {
		return nil, err
	}

	meta := domain.AvatarMeta{Format: thumb.Format, Width: thumb.Width, Height: thumb.Height, Bytes: len(thumb.Data)}
	err = s.users.UpdateFields(ctx, userID, map[string]interface{}{
		"avatar":      rel,
		"avatar_meta": datatypes.NewJSONType(meta),
	})
	if err != nil {
		s.discard(rel)
		return nil, err
	}

	if u.Avatar != "" {
		s.discard(u.Avatar)
	}
	u.Avatar = rel
	u.AvatarMeta = datatypes.NewJSONType(meta)
	return u, nil
}

// Remove deletes the stored file of a user that is going away.
func (s *AvatarService) Remove(u *domain.User) {
	if u.Avatar != "" {
		s.discard(u.Avatar)
	}
}

func (s *AvatarService) discard(rel string) {
	if err := s.files.Delete(rel); err != nil {
		s.loggerf("level=warn msg=\"avatar delete failed\" path=%s err=%v", rel, err)
	}
}
