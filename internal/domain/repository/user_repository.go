package repository

import (
	"context"

	"github.com/gatherly/gatherly/internal/domain/entity"
)

// UserRepository defines persistence for user accounts. Lookups by
// username or email are case-insensitive; implementations return
// apperr.ErrNotFound for missing rows and apperr.Conflict for
// uniqueness violations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByUsernameOrEmail matches either identity with one lookup; it is
	// the login path.
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.User, error)
}
