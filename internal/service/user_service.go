package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

// UserService reads user profiles with their ledger-derived karma.
type UserService struct {
	userRepo repository.UserRepository
	voteRepo repository.VoteRepository
}

func NewUserService(userRepo repository.UserRepository, voteRepo repository.VoteRepository) *UserService {
	return &UserService{userRepo: userRepo, voteRepo: voteRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		u, fetchErr := s.userRepo.GetByID(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		karma, fetchErr := s.voteRepo.KarmaFor(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		u.Karma = karma
		user = u
		return nil
	})
	if err != nil {
		return nil, models.NewNotFoundError("User not found")
	}
	return user, nil
}

// IsAdmin is handed to services that gate moderation actions.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
