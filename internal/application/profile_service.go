package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
	"github.com/gatherly/gatherly/pkg/helpers"
)

// ProfileService manages the public profile attached to a user account.
// GCS is optional; avatar upload fails cleanly when it is not configured.
type ProfileService struct {
	Profiles  repository.ProfileRepository
	Users     repository.UserRepository
	GCS       *storage.Client
	GCSBucket string
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, gcs *storage.Client, bucket string) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, GCS: gcs, GCSBucket: bucket}
}

// ProfileView is a profile joined with its owning user.
type ProfileView struct {
	User    *entity.User
	Profile *entity.Profile
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: u, Profile: p}, nil
}

// UpdateInput carries the editable profile fields.
type UpdateInput struct {
	Bio         string
	SocialLinks map[string]string
}

func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateInput) (*entity.Profile, error) {
	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Bio = strings.TrimSpace(in.Bio)
	if in.SocialLinks != nil {
		p.SocialLinks = in.SocialLinks
	}
	if err := s.Profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadAvatar stores the image in GCS and saves its public URL on the
// profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("avatar storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	p.AvatarURL = url
	if err := s.Profiles.Upsert(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}
