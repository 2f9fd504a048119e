package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quorum/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func TestUserService_GetUser(t *testing.T) {
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice"}, nil
		},
	}
	votes := noopVoteRepo()
	votes.karmaForFn = func(_ context.Context, _ uint) (int, error) { return 17, nil }
	svc := NewUserService(users, votes)

	user, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 17, user.Karma)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewUserService(users, noopVoteRepo())

	_, err := svc.GetUser(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserService_IsAdmin(t *testing.T) {
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsAdmin: id == 1}, nil
		},
	}
	svc := NewUserService(users, noopVoteRepo())
	ctx := context.Background()

	admin, err := svc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, 2)
	require.NoError(t, err)
	assert.False(t, admin)
}
