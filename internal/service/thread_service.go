package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000

	defaultPageSize = 25
	maxPageSize     = 100
)

// ThreadService owns thread lifecycle and listing rules.
type ThreadService struct {
	threadRepo    repository.ThreadRepository
	communityRepo repository.CommunityRepository
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

type CreateThreadInput struct {
	UserID      uint
	CommunityID uint
	Title       string
	Content     string
}

type ListThreadsInput struct {
	Sort          string
	Limit         int
	Offset        int
	CommunityID   uint
	CurrentUserID uint
}

func NewThreadService(
	threadRepo repository.ThreadRepository,
	communityRepo repository.CommunityRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ThreadService {
	return &ThreadService{
		threadRepo:    threadRepo,
		communityRepo: communityRepo,
		isAdmin:       isAdmin,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// normalizeSort falls back to "new" rather than erroring so stale links
// with unknown sort params still resolve.
func normalizeSort(sort string) string {
	switch sort {
	case "new", "top", "hot":
		return sort
	default:
		return "new"
	}
}

func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if in.CommunityID == 0 {
		return nil, models.NewValidationError("community_id is required")
	}
	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, models.NewNotFoundError("Community not found")
	}

	thread := &models.Thread{
		UserID:      in.UserID,
		CommunityID: in.CommunityID,
		Title:       in.Title,
		Content:     in.Content,
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}
	cache.InvalidateCommunity(ctx, community.Slug)
	return s.threadRepo.GetByID(ctx, thread.ID, in.UserID)
}

// GetThread serves anonymous reads through the cache; authenticated reads
// skip it because the payload embeds the caller's own vote.
func (s *ThreadService) GetThread(ctx context.Context, id uint, currentUserID uint) (*models.Thread, error) {
	if currentUserID != 0 {
		return s.threadRepo.GetByID(ctx, id, currentUserID)
	}

	var thread *models.Thread
	err := cache.Aside(ctx, cache.ThreadKey(id), &thread, cache.ThreadTTL, func() error {
		var fetchErr error
		thread, fetchErr = s.threadRepo.GetByID(ctx, id, 0)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *ThreadService) ListThreads(ctx context.Context, in ListThreadsInput) ([]models.Thread, error) {
	limit, offset := clampPage(in.Limit, in.Offset)
	sort := normalizeSort(in.Sort)

	if in.CommunityID != 0 {
		return s.threadRepo.ListByCommunity(ctx, in.CommunityID, sort, limit, offset, in.CurrentUserID)
	}
	return s.threadRepo.List(ctx, sort, limit, offset, in.CurrentUserID)
}

// DeleteThread removes a thread if the caller authored it or is an admin.
func (s *ThreadService) DeleteThread(ctx context.Context, threadID, userID uint) error {
	thread, err := s.threadRepo.GetByID(ctx, threadID, 0)
	if err != nil {
		return models.NewNotFoundError("Thread not found")
	}

	if thread.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("Not allowed to delete this thread")
		}
	}

	if err := s.threadRepo.Delete(ctx, threadID); err != nil {
		return err
	}
	cache.InvalidateThread(ctx, threadID)
	if thread.Community != nil {
		cache.InvalidateCommunity(ctx, thread.Community.Slug)
	}
	return nil
}
