package service

import (
	"context"
	"log/slog"
	"strings"

	"corkboard/internal/auth"
	"corkboard/internal/cache"
	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/observability"
	"corkboard/internal/repository"
	"corkboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// SessionStore issues, resolves and revokes session tokens.
type SessionStore interface {
	SessionResolver
	Create(ctx context.Context, userID uint) (string, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	store    repository.Store
	sessions SessionStore
	hasher   auth.Hasher
}

type SignupInput struct {
	Email    string
	Password string
	FullName string
}

func NewAuthService(store repository.Store, sessions SessionStore, hasher auth.Hasher) *AuthService {
	return &AuthService{store: store, sessions: sessions, hasher: hasher}
}

// Signup registers an account. The email must be unused.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.Signup")
	defer func() { span.End(err) }()

	email := strings.TrimSpace(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	fullName, err := validation.ValidateFullName(in.FullName)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if fullName == "" {
		fullName = models.DefaultFullName
	}

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewEmailConflictError()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{Email: email, FullName: fullName, Password: hash}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	span.AddAttributes(attribute.Int64("user.id", int64(user.ID)))
	middleware.Logger.InfoContext(ctx, "user signed up", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.Login")
	defer func() { span.End(err) }()

	user, err = s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.Password) {
		return "", nil, models.NewInvalidCredentialsError()
	}

	token, err = s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}

	observability.SessionsCreated.Inc()
	middleware.Logger.InfoContext(middleware.WithUserID(ctx, user.ID), "user logged in")
	return token, user, nil
}

// Logout revokes token. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "user logged out")
	return nil
}

// DeleteAccount removes user with all their boards and posts and revokes token.
// Boards owned by others lose the user's posts too, so their counters are
// lowered in the same unit of work.
func (s *AuthService) DeleteAccount(ctx context.Context, user *models.User, token string) (err error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.DeleteAccount",
		attribute.Int64("user.id", int64(user.ID)))
	defer func() { span.End(err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Boards().DetachAuthorPosts(ctx, user.ID, now()); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	if err := s.sessions.Delete(ctx, token); err != nil {
		return models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "account deleted", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}
