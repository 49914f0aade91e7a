package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	p := &entity.Profile{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT bio, avatar_url, social_links, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.Bio, &p.AvatarURL, &p.SocialLinks, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No profile saved yet; hand back an empty one.
			return &entity.Profile{UserID: userID, SocialLinks: map[string]string{}}, nil
		}
		return nil, err
	}
	if p.SocialLinks == nil {
		p.SocialLinks = map[string]string{}
	}
	return p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, bio, avatar_url, social_links)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			social_links = EXCLUDED.social_links,
			updated_at = now()
		RETURNING created_at, updated_at
	`, p.UserID, p.Bio, p.AvatarURL, p.SocialLinks).Scan(&p.CreatedAt, &p.UpdatedAt)
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
