package repository

import (
	"context"

	"gorm.io/gorm"

	"quorum/internal/models"
	"quorum/internal/observability"
)

// CommentRepository handles comment persistence and annotated reads.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error)
	ListByThread(ctx context.Context, threadID uint, limit, offset int, currentUserID uint) ([]models.Comment, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := `comments.*,
		(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'comment' AND votes.target_id = comments.id AND votes.value > 0) AS upvotes,
		(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'comment' AND votes.target_id = comments.id AND votes.value < 0) AS downvotes,
		(SELECT COUNT(*) FROM comments children WHERE children.parent_id = comments.id AND children.deleted_at IS NULL) AS children_count`

	if currentUserID != 0 {
		return db.Select(selectQuery+`,
			(SELECT value FROM votes WHERE votes.target_type = 'comment' AND votes.target_id = comments.id AND votes.user_id = ?) AS user_vote`,
			currentUserID)
	}
	return db.Select(selectQuery + `, NULL AS user_vote`)
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()

	var comment models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), currentUserID).
		Preload("User").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByThread returns a thread's comments oldest first so conversation
// order is preserved; nesting is reassembled by the caller from ParentID.
func (r *commentRepository) ListByThread(ctx context.Context, threadID uint, limit, offset int, currentUserID uint) ([]models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()

	var comments []models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), currentUserID).
		Where("comments.thread_id = ?", threadID).
		Preload("User").
		Order("comments.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "comments")()
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
