package service

import (
	"context"

	"quorum/internal/models"
)

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	castFn      func(context.Context, uint, string, uint, int) error
	changeFn    func(context.Context, uint, string, uint, int) error
	retractFn   func(context.Context, uint, string, uint) error
	countsForFn func(context.Context, string, []uint, uint) (map[uint]models.VoteCounts, error)
	karmaForFn  func(context.Context, uint) (int, error)
}

func (s *voteRepoStub) Cast(ctx context.Context, userID uint, targetType string, targetID uint, value int) error {
	return s.castFn(ctx, userID, targetType, targetID, value)
}
func (s *voteRepoStub) Change(ctx context.Context, userID uint, targetType string, targetID uint, value int) error {
	return s.changeFn(ctx, userID, targetType, targetID, value)
}
func (s *voteRepoStub) Retract(ctx context.Context, userID uint, targetType string, targetID uint) error {
	return s.retractFn(ctx, userID, targetType, targetID)
}
func (s *voteRepoStub) CountsFor(ctx context.Context, targetType string, targetIDs []uint, currentUserID uint) (map[uint]models.VoteCounts, error) {
	return s.countsForFn(ctx, targetType, targetIDs, currentUserID)
}
func (s *voteRepoStub) KarmaFor(ctx context.Context, userID uint) (int, error) {
	return s.karmaForFn(ctx, userID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		castFn:    func(_ context.Context, _ uint, _ string, _ uint, _ int) error { return nil },
		changeFn:  func(_ context.Context, _ uint, _ string, _ uint, _ int) error { return nil },
		retractFn: func(_ context.Context, _ uint, _ string, _ uint) error { return nil },
		countsForFn: func(_ context.Context, _ string, ids []uint, _ uint) (map[uint]models.VoteCounts, error) {
			counts := make(map[uint]models.VoteCounts, len(ids))
			for _, id := range ids {
				counts[id] = models.VoteCounts{TargetID: id}
			}
			return counts, nil
		},
		karmaForFn: func(_ context.Context, _ uint) (int, error) { return 0, nil },
	}
}

// threadRepoStub is a stub for repository.ThreadRepository.
type threadRepoStub struct {
	createFn          func(context.Context, *models.Thread) error
	getByIDFn         func(context.Context, uint, uint) (*models.Thread, error)
	listFn            func(context.Context, string, int, int, uint) ([]models.Thread, error)
	listByCommunityFn func(context.Context, uint, string, int, int, uint) ([]models.Thread, error)
	deleteFn          func(context.Context, uint) error
	existsFn          func(context.Context, uint) (bool, error)
}

func (s *threadRepoStub) Create(ctx context.Context, thread *models.Thread) error {
	return s.createFn(ctx, thread)
}
func (s *threadRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Thread, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *threadRepoStub) List(ctx context.Context, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error) {
	return s.listFn(ctx, sort, limit, offset, currentUserID)
}
func (s *threadRepoStub) ListByCommunity(ctx context.Context, communityID uint, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error) {
	return s.listByCommunityFn(ctx, communityID, sort, limit, offset, currentUserID)
}
func (s *threadRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *threadRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopThreadRepo() *threadRepoStub {
	return &threadRepoStub{
		createFn:  func(_ context.Context, _ *models.Thread) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Thread, error) { return &models.Thread{ID: id}, nil },
		listFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]models.Thread, error) {
			return nil, nil
		},
		listByCommunityFn: func(_ context.Context, _ uint, _ string, _, _ int, _ uint) ([]models.Thread, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint, uint) (*models.Comment, error)
	listByThreadFn func(context.Context, uint, int, int, uint) ([]models.Comment, error)
	deleteFn       func(context.Context, uint) error
	existsFn       func(context.Context, uint) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *commentRepoStub) ListByThread(ctx context.Context, threadID uint, limit, offset int, currentUserID uint) ([]models.Comment, error) {
	return s.listByThreadFn(ctx, threadID, limit, offset, currentUserID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByThreadFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// communityRepoStub is a stub for repository.CommunityRepository.
type communityRepoStub struct {
	createFn    func(context.Context, *models.Community) error
	getByIDFn   func(context.Context, uint) (*models.Community, error)
	getBySlugFn func(context.Context, string) (*models.Community, error)
	listFn      func(context.Context, int, int) ([]models.Community, error)
}

func (s *communityRepoStub) Create(ctx context.Context, community *models.Community) error {
	return s.createFn(ctx, community)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *communityRepoStub) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	return s.listFn(ctx, limit, offset)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn: func(_ context.Context, _ *models.Community) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Community, error) {
			return &models.Community{ID: id, Slug: "go"}, nil
		},
		getBySlugFn: func(_ context.Context, _ string) (*models.Community, error) {
			return nil, models.NewNotFoundError("not found")
		},
		listFn: func(_ context.Context, _, _ int) ([]models.Community, error) { return nil, nil },
	}
}

func alwaysAdmin(_ context.Context, _ uint) (bool, error) { return true, nil }
func neverAdmin(_ context.Context, _ uint) (bool, error)  { return false, nil }
