package repository

import (
	"context"

	"gorm.io/gorm"

	"quorum/internal/models"
	"quorum/internal/observability"
)

// ThreadRepository handles thread persistence and annotated reads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Thread, error)
	List(ctx context.Context, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error)
	ListByCommunity(ctx context.Context, communityID uint, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// applyThreadDetails annotates each row with its vote tallies, comment count
// and the requesting user's own vote, all as correlated subqueries so a page
// of threads stays a single round trip.
func (r *threadRepository) applyThreadDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := `threads.*,
		(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'thread' AND votes.target_id = threads.id AND votes.value > 0) AS upvotes,
		(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'thread' AND votes.target_id = threads.id AND votes.value < 0) AS downvotes,
		(SELECT COUNT(*) FROM comments WHERE comments.thread_id = threads.id AND comments.deleted_at IS NULL) AS comments_count`

	if currentUserID != 0 {
		return db.Select(selectQuery+`,
			(SELECT value FROM votes WHERE votes.target_type = 'thread' AND votes.target_id = threads.id AND votes.user_id = ?) AS user_vote`,
			currentUserID)
	}
	return db.Select(selectQuery + `, NULL AS user_vote`)
}

// threadScoreExpr is spelled out in full because Postgres does not allow
// select-list aliases inside ORDER BY expressions.
const threadScoreExpr = `((SELECT COUNT(*) FROM votes WHERE votes.target_type = 'thread' AND votes.target_id = threads.id AND votes.value > 0) -
	(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'thread' AND votes.target_id = threads.id AND votes.value < 0))`

// applySort translates the public sort names into ORDER BY clauses.
// "hot" decays score by age in hours.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order(threadScoreExpr + " DESC, threads.created_at DESC")
	case "hot":
		return db.Order(threadScoreExpr + " / POWER(" + threadAgeHoursExpr(db) + " + 2, 1.5) DESC, threads.created_at DESC")
	default:
		return db.Order("threads.created_at DESC")
	}
}

// threadAgeHoursExpr returns the dialect's expression for a thread's age
// in hours. sqlite has no EXTRACT(EPOCH ...), so it goes through julian
// day arithmetic instead.
func threadAgeHoursExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "(julianday('now') - julianday(threads.created_at)) * 24.0"
	}
	return "EXTRACT(EPOCH FROM (NOW() - threads.created_at)) / 3600.0"
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	defer observability.TrackQuery("insert", "threads")()
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Thread, error) {
	defer observability.TrackQuery("select", "threads")()

	var thread models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx).Model(&models.Thread{}), currentUserID).
		Preload("User").
		Preload("Community").
		First(&thread, id).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) List(ctx context.Context, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error) {
	defer observability.TrackQuery("select", "threads")()

	var threads []models.Thread
	query := r.applyThreadDetails(r.db.WithContext(ctx).Model(&models.Thread{}), currentUserID).
		Preload("User").
		Preload("Community")
	err := applySort(query, sort).
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	return threads, err
}

func (r *threadRepository) ListByCommunity(ctx context.Context, communityID uint, sort string, limit, offset int, currentUserID uint) ([]models.Thread, error) {
	defer observability.TrackQuery("select", "threads")()

	var threads []models.Thread
	query := r.applyThreadDetails(r.db.WithContext(ctx).Model(&models.Thread{}), currentUserID).
		Where("threads.community_id = ?", communityID).
		Preload("User").
		Preload("Community")
	err := applySort(query, sort).
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	return threads, err
}

func (r *threadRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "threads")()
	result := r.db.WithContext(ctx).Delete(&models.Thread{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *threadRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
