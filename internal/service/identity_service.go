package service

import (
	"context"
	"log/slog"

	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/repository"
)

// SessionResolver looks up the user id behind a session token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, bool, error)
}

// IdentityService turns a session token into a user.
type IdentityService struct {
	sessions SessionResolver
	users    repository.UserRepository
}

func NewIdentityService(sessions SessionResolver, users repository.UserRepository) *IdentityService {
	return &IdentityService{sessions: sessions, users: users}
}

// Required resolves token or fails with Unauthenticated, SessionInvalid or UserNotFound.
func (s *IdentityService) Required(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthenticatedError()
	}

	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, models.NewSessionInvalidError()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, err
	}
	return user, nil
}

// Optional resolves token like Required but reports any failure as no identity.
func (s *IdentityService) Optional(ctx context.Context, token string) *models.User {
	user, err := s.Required(ctx, token)
	if err != nil {
		if models.IsCode(err, models.CodeInternal) {
			middleware.Logger.WarnContext(ctx, "optional identity lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	return user
}
