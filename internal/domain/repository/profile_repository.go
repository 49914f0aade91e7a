package repository

import (
	"context"

	"github.com/gatherly/gatherly/internal/domain/entity"
)

// ProfileRepository defines persistence for user profiles. Get returns an
// empty profile (not apperr.ErrNotFound) when none has been saved yet.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
}
