package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
	"github.com/gatherly/gatherly/internal/session"
	"github.com/gatherly/gatherly/pkg/helpers"
	"github.com/gatherly/gatherly/pkg/mailer"
)

// MinPasswordLength is the registration floor for passwords.
const MinPasswordLength = 6

// AuthService owns credential verification and the session lifecycle.
// Mail is optional; when set, a welcome email job is enqueued on signup.
type AuthService struct {
	Users    repository.UserRepository
	Sessions session.Store
	Mail     *helpers.RabbitPublisher
	Logger   *logrus.Logger
}

func NewAuthService(users repository.UserRepository, sessions session.Store, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Logger: logger}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the input, checks both identities for duplicates
// (email case-insensitively) and persists a new user with a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "is required"
	}
	if in.Email == "" {
		fields["email"] = "is required"
	} else if !strings.Contains(in.Email, "@") {
		fields["email"] = "must be a valid email"
	}
	if in.Password == "" {
		fields["password"] = "is required"
	} else if len(in.Password) < MinPasswordLength {
		fields["password"] = "must be at least 6 characters"
	}
	if in.ConfirmPassword == "" {
		fields["confirm_password"] = "is required"
	} else if in.Password != "" && in.Password != in.ConfirmPassword {
		fields["confirm_password"] = "must match password"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Conflict("username", in.Username)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("email", in.Email)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	}
	if s.Mail != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: "welcome",
			Data:     map[string]any{"Username": u.Username},
		}
		if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("enqueue welcome email failed")
		}
	}
	return u, nil
}

// Authenticate matches usernameOrEmail case-insensitively against either
// identity and verifies the password. Unknown identity and wrong password
// both come back as ErrInvalidCredentials so login failures cannot be used
// to probe which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*entity.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}
	u, err := s.Users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// EstablishSession creates a fresh session token for the user. Existing
// sessions stay valid.
func (s *AuthService) EstablishSession(ctx context.Context, userID string) (string, error) {
	return s.Sessions.Establish(ctx, userID)
}

// DestroySession removes the token binding; destroying an unknown token is
// a no-op.
func (s *AuthService) DestroySession(ctx context.Context, token string) error {
	return s.Sessions.Destroy(ctx, token)
}

// ResolveSession returns the user id bound to the token, or "" when the
// token is absent or expired.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	return s.Sessions.Resolve(ctx, token)
}
