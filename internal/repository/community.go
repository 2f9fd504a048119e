package repository

import (
	"context"

	"gorm.io/gorm"

	"quorum/internal/models"
	"quorum/internal/observability"
)

// CommunityRepository handles community persistence.
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	GetBySlug(ctx context.Context, slug string) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]models.Community, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) applyCommunityDetails(db *gorm.DB) *gorm.DB {
	return db.Select(`communities.*,
		(SELECT COUNT(*) FROM threads WHERE threads.community_id = communities.id AND threads.deleted_at IS NULL) AS threads_count`)
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	defer observability.TrackQuery("insert", "communities")()
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	defer observability.TrackQuery("select", "communities")()

	var community models.Community
	err := r.applyCommunityDetails(r.db.WithContext(ctx).Model(&models.Community{})).
		First(&community, id).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	defer observability.TrackQuery("select", "communities")()

	var community models.Community
	err := r.applyCommunityDetails(r.db.WithContext(ctx).Model(&models.Community{})).
		Where("communities.slug = ?", slug).
		First(&community).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	defer observability.TrackQuery("select", "communities")()

	var communities []models.Community
	err := r.applyCommunityDetails(r.db.WithContext(ctx).Model(&models.Community{})).
		Order("communities.name ASC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error
	return communities, err
}
