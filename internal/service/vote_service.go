package service

import (
	"context"
	"errors"
	"fmt"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
)

// VoteService applies the one-vote-per-target rules on top of the ledger.
type VoteService struct {
	voteRepo    repository.VoteRepository
	threadRepo  repository.ThreadRepository
	commentRepo repository.CommentRepository
}

type VoteInput struct {
	UserID     uint
	TargetType string
	TargetID   uint
	Value      int
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	threadRepo repository.ThreadRepository,
	commentRepo repository.CommentRepository,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		threadRepo:  threadRepo,
		commentRepo: commentRepo,
	}
}

func (s *VoteService) validateTarget(ctx context.Context, targetType string, targetID uint) error {
	if !models.ValidTargetType(targetType) {
		return models.NewValidationError(fmt.Sprintf("Invalid target type %q", targetType))
	}
	if targetID == 0 {
		return models.NewValidationError("Target id is required")
	}

	var exists bool
	var err error
	switch targetType {
	case models.TargetThread:
		exists, err = s.threadRepo.Exists(ctx, targetID)
	case models.TargetComment:
		exists, err = s.commentRepo.Exists(ctx, targetID)
	}
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError(fmt.Sprintf("%s not found", targetType))
	}
	return nil
}

// Cast records a new vote. A second vote by the same user on the same
// target is rejected with a conflict; callers change or retract instead.
func (s *VoteService) Cast(ctx context.Context, in VoteInput) (*models.VoteCounts, error) {
	if !models.ValidVoteValue(in.Value) {
		return nil, models.NewValidationError("Vote value must be 1 or -1")
	}
	if err := s.validateTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	err := s.voteRepo.Cast(ctx, in.UserID, in.TargetType, in.TargetID, in.Value)
	if errors.Is(err, repository.ErrDuplicateVote) {
		observability.VoteMutations.WithLabelValues("cast", "conflict").Inc()
		return nil, models.NewConflictError("Vote already cast for this target")
	}
	if err != nil {
		observability.VoteMutations.WithLabelValues("cast", "error").Inc()
		return nil, err
	}
	observability.VoteMutations.WithLabelValues("cast", "ok").Inc()

	s.invalidateTarget(ctx, in.TargetType, in.TargetID)
	return s.countsFor(ctx, in)
}

// Change flips an existing vote to the opposite (or same) value.
func (s *VoteService) Change(ctx context.Context, in VoteInput) (*models.VoteCounts, error) {
	if !models.ValidVoteValue(in.Value) {
		return nil, models.NewValidationError("Vote value must be 1 or -1")
	}
	if err := s.validateTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	err := s.voteRepo.Change(ctx, in.UserID, in.TargetType, in.TargetID, in.Value)
	if errors.Is(err, repository.ErrVoteNotFound) {
		observability.VoteMutations.WithLabelValues("change", "not_found").Inc()
		return nil, models.NewValidationError("No vote to change for this target")
	}
	if err != nil {
		observability.VoteMutations.WithLabelValues("change", "error").Inc()
		return nil, err
	}
	observability.VoteMutations.WithLabelValues("change", "ok").Inc()

	s.invalidateTarget(ctx, in.TargetType, in.TargetID)
	return s.countsFor(ctx, in)
}

// Retract removes the caller's vote entirely.
func (s *VoteService) Retract(ctx context.Context, in VoteInput) (*models.VoteCounts, error) {
	if err := s.validateTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	err := s.voteRepo.Retract(ctx, in.UserID, in.TargetType, in.TargetID)
	if errors.Is(err, repository.ErrVoteNotFound) {
		observability.VoteMutations.WithLabelValues("retract", "not_found").Inc()
		return nil, models.NewValidationError("No vote to retract for this target")
	}
	if err != nil {
		observability.VoteMutations.WithLabelValues("retract", "error").Inc()
		return nil, err
	}
	observability.VoteMutations.WithLabelValues("retract", "ok").Inc()

	s.invalidateTarget(ctx, in.TargetType, in.TargetID)
	return s.countsFor(ctx, in)
}

// CountsBatch returns aggregate tallies for a set of targets of one type.
func (s *VoteService) CountsBatch(ctx context.Context, targetType string, targetIDs []uint, currentUserID uint) (map[uint]models.VoteCounts, error) {
	if !models.ValidTargetType(targetType) {
		return nil, models.NewValidationError(fmt.Sprintf("Invalid target type %q", targetType))
	}
	if len(targetIDs) > 100 {
		return nil, models.NewValidationError("At most 100 targets per batch")
	}
	return s.voteRepo.CountsFor(ctx, targetType, targetIDs, currentUserID)
}

func (s *VoteService) countsFor(ctx context.Context, in VoteInput) (*models.VoteCounts, error) {
	counts, err := s.voteRepo.CountsFor(ctx, in.TargetType, []uint{in.TargetID}, in.UserID)
	if err != nil {
		return nil, err
	}
	entry := counts[in.TargetID]
	return &entry, nil
}

func (s *VoteService) invalidateTarget(ctx context.Context, targetType string, targetID uint) {
	if targetType == models.TargetThread {
		cache.InvalidateThread(ctx, targetID)
	}
}
