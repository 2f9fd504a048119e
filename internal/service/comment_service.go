package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

const maxCommentLen = 10000

// CommentService owns comment lifecycle within a thread.
type CommentService struct {
	commentRepo repository.CommentRepository
	threadRepo  repository.ThreadRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID   uint
	ThreadID uint
	ParentID *uint
	Content  string
}

type ListCommentsInput struct {
	ThreadID      uint
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	threadRepo repository.ThreadRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		threadRepo:  threadRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	exists, err := s.threadRepo.Exists(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Thread not found")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID, 0)
		if err != nil {
			return nil, models.NewNotFoundError("Parent comment not found")
		}
		if parent.ThreadID != in.ThreadID {
			return nil, models.NewValidationError("Parent comment belongs to a different thread")
		}
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		ThreadID: in.ThreadID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidateThread(ctx, in.ThreadID)
	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]models.Comment, error) {
	exists, err := s.threadRepo.Exists(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Thread not found")
	}

	limit, offset := clampPage(in.Limit, in.Offset)
	return s.commentRepo.ListByThread(ctx, in.ThreadID, limit, offset, in.CurrentUserID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID, 0)
	if err != nil {
		return models.NewNotFoundError("Comment not found")
	}

	if comment.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("Not allowed to delete this comment")
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	cache.InvalidateThread(ctx, comment.ThreadID)
	return nil
}
