package service

import (
	"context"
	"errors"
	"testing"

	"corkboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionResolverStub struct {
	resolveFn func(context.Context, string) (uint, bool, error)
}

func (s *sessionResolverStub) Resolve(ctx context.Context, token string) (uint, bool, error) {
	return s.resolveFn(ctx, token)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func TestIdentityService_Required(t *testing.T) {
	alice := &models.User{ID: 9, Email: "alice@example.com"}

	tests := []struct {
		name      string
		token     string
		resolveFn func(context.Context, string) (uint, bool, error)
		getByIDFn func(context.Context, uint) (*models.User, error)
		wantCode  string
	}{
		{
			name:     "Missing token",
			token:    "",
			wantCode: models.CodeUnauthenticated,
		},
		{
			name:  "Unknown token",
			token: "stale",
			resolveFn: func(context.Context, string) (uint, bool, error) {
				return 0, false, nil
			},
			wantCode: models.CodeSessionInvalid,
		},
		{
			name:  "User gone",
			token: "orphan",
			resolveFn: func(context.Context, string) (uint, bool, error) {
				return 9, true, nil
			},
			getByIDFn: func(context.Context, uint) (*models.User, error) {
				return nil, models.NewNotFoundError("User", 9)
			},
			wantCode: models.CodeUserNotFound,
		},
		{
			name:  "Session store down",
			token: "any",
			resolveFn: func(context.Context, string) (uint, bool, error) {
				return 0, false, errors.New("dial tcp: refused")
			},
			wantCode: models.CodeInternal,
		},
		{
			name:  "Resolved",
			token: "good",
			resolveFn: func(context.Context, string) (uint, bool, error) {
				return 9, true, nil
			},
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				require.Equal(t, uint(9), id)
				return alice, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIdentityService(
				&sessionResolverStub{resolveFn: tt.resolveFn},
				&userRepoStub{getByIDFn: tt.getByIDFn},
			)

			user, err := svc.Required(context.Background(), tt.token)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				assert.Nil(t, user)
				assert.Nil(t, svc.Optional(context.Background(), tt.token))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice, user)
			assert.Equal(t, alice, svc.Optional(context.Background(), tt.token))
		})
	}
}
