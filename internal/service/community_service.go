package service

import (
	"context"
	"regexp"
	"strings"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CommunityService owns community creation and lookup.
type CommunityService struct {
	communityRepo repository.CommunityRepository
}

type CreateCommunityInput struct {
	UserID      uint
	Name        string
	Slug        string
	Description string
}

func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo}
}

// Slugify derives a URL slug when the caller does not supply one.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *CommunityService) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.Name) > 100 {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, models.NewValidationError("Slug must contain only lowercase letters, digits and hyphens")
	}

	if _, err := s.communityRepo.GetBySlug(ctx, slug); err == nil {
		return nil, models.NewConflictError("A community with this slug already exists")
	}

	community := &models.Community{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		CreatedBy:   in.UserID,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, slug string) (*models.Community, error) {
	var community *models.Community
	err := cache.Aside(ctx, cache.CommunityKey(slug), &community, cache.CommunityTTL, func() error {
		var fetchErr error
		community, fetchErr = s.communityRepo.GetBySlug(ctx, slug)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewNotFoundError("Community not found")
	}
	return community, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error) {
	limit, offset = clampPage(limit, offset)
	return s.communityRepo.List(ctx, limit, offset)
}
