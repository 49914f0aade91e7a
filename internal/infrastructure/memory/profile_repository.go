package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]entity.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]entity.Profile)}
}

func (r *ProfileRepository) Get(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[userID]; ok {
		out := p
		return &out, nil
	}
	return &entity.Profile{UserID: userID, SocialLinks: map[string]string{}}, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.profiles[p.UserID] = *p
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
